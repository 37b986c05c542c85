// Package repository defines the persistence contracts for users and
// bookings and their MongoDB and MySQL implementations.  Sentinel errors
// let handlers tell lookup misses and conflicts apart from store failures.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id or email matches nothing.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user with the same email is already
// stored.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidID is returned when an id is not well formed for the backend
// (e.g. not a 24 hex char ObjectID).
var ErrInvalidID = errors.New("invalid id")
