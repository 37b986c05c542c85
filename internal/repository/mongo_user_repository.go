package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/friendly-voice-api/internal/model"
)

// MongoUserRepo is the MongoDB UserStore.  Booking references are kept as
// an ObjectID array on the user document.
type MongoUserRepo struct {
	users    *mongo.Collection
	bookings *mongo.Collection
}

// NewMongoUserRepo binds the repository to db's users and bookings
// collections.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{users: db.Collection(usersCollection), bookings: db.Collection(bookingsCollection)}
}

// EnsureIndexes creates the unique email index and the booking listing
// indexes.  It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := db.Collection(bookingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bookingDate", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "bookingDate", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) Create(ctx context.Context, u *model.User) error {
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Name:         u.Name,
		Email:        u.Email,
		Password:     u.PasswordHash,
		Phone:        u.Phone,
		RegisteredAt: u.RegisteredAt,
		Bookings:     []primitive.ObjectID{},
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID.Hex()
	u.Bookings = []string{}
	return nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	u := doc.toModel()
	return &u, nil
}

// AppendBooking pushes onto the bookings array in a single update.
func (r *MongoUserRepo) AppendBooking(ctx context.Context, userID, bookingID string) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	bid, err := objectID(bookingID)
	if err != nil {
		return err
	}
	if _, err := r.users.UpdateByID(ctx, uid, bson.M{"$push": bson.M{"bookings": bid}}); err != nil {
		return fmt.Errorf("push booking: %w", err)
	}
	return nil
}

// ListWithBookings resolves every referenced booking with one $in query.
// References to bookings that no longer exist are dropped.
func (r *MongoUserRepo) ListWithBookings(ctx context.Context) ([]model.UserWithBookings, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	var refs []primitive.ObjectID
	for _, d := range docs {
		refs = append(refs, d.Bookings...)
	}
	byID := map[primitive.ObjectID]model.Booking{}
	if len(refs) > 0 {
		bcur, err := r.bookings.Find(ctx, bson.M{"_id": bson.M{"$in": refs}})
		if err != nil {
			return nil, fmt.Errorf("find user bookings: %w", err)
		}
		var bdocs []bookingDoc
		if err := bcur.All(ctx, &bdocs); err != nil {
			return nil, fmt.Errorf("decode user bookings: %w", err)
		}
		for _, b := range bdocs {
			byID[b.ID] = b.toModel()
		}
	}

	out := make([]model.UserWithBookings, 0, len(docs))
	for _, d := range docs {
		u := model.UserWithBookings{
			ID:           d.ID.Hex(),
			Name:         d.Name,
			Email:        d.Email,
			Phone:        d.Phone,
			RegisteredAt: d.RegisteredAt,
			Bookings:     []model.Booking{},
		}
		for _, ref := range d.Bookings {
			if b, ok := byID[ref]; ok {
				u.Bookings = append(u.Bookings, b)
			}
		}
		out = append(out, u)
	}
	return out, nil
}
