package model

import "time"

// User represents an account as stored in the `users` collection (or
// table).  The password is only ever held as a bcrypt hash and is
// never serialized.
//
// Fields:
//  ID           – generated identifier (ObjectID hex or UUID, depending on the store).
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hash of the password.
//  Phone        – contact number used for the call.
//  RegisteredAt – creation timestamp, set once.
//  Bookings     – ordered booking ids owned by this user.
type User struct {
    ID           string    `json:"_id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Phone        string    `json:"phone"`
    RegisteredAt time.Time `json:"registeredAt"`
    Bookings     []string  `json:"bookings"`
}

// PublicUser is the subset of a user returned by signup and login.
type PublicUser struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// Public strips everything but the contact fields.
func (u User) Public() PublicUser {
    return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// UserSummary is the expanded form of a booking's user reference in
// admin listings.
type UserSummary struct {
    ID    string `json:"_id"`
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// UserWithBookings is a user whose booking references have been
// resolved to full Booking records, in list order.
type UserWithBookings struct {
    ID           string    `json:"_id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    Phone        string    `json:"phone"`
    RegisteredAt time.Time `json:"registeredAt"`
    Bookings     []Booking `json:"bookings"`
}
