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

// MongoBookingRepo is the MongoDB BookingStore.
type MongoBookingRepo struct {
	bookings *mongo.Collection
	users    *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{bookings: db.Collection(bookingsCollection), users: db.Collection(usersCollection)}
}

var newestFirst = bson.D{{Key: "bookingDate", Value: -1}}

func (r *MongoBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	uid, err := objectID(b.User.ID)
	if err != nil {
		return err
	}
	doc := bookingDoc{
		ID:            primitive.NewObjectID(),
		User:          uid,
		PaymentID:     b.PaymentID,
		OrderID:       b.OrderID,
		Amount:        b.Amount,
		Duration:      b.Duration,
		Status:        b.Status,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		UserPhone:     b.UserPhone,
		ScheduledDate: b.ScheduledDate,
		BookingDate:   b.BookingDate,
	}
	if _, err := r.bookings.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = doc.ID.Hex()
	return nil
}

// ListAll expands each booking's user to name, email and phone.  A user
// that no longer resolves expands to null.
func (r *MongoBookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	docs, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, d := range docs {
		if !seen[d.User] {
			seen[d.User] = true
			ids = append(ids, d.User)
		}
	}
	summaries := map[primitive.ObjectID]*model.UserSummary{}
	if len(ids) > 0 {
		cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1}))
		if err != nil {
			return nil, fmt.Errorf("find booking users: %w", err)
		}
		var users []userDoc
		if err := cur.All(ctx, &users); err != nil {
			return nil, fmt.Errorf("decode booking users: %w", err)
		}
		for _, u := range users {
			summaries[u.ID] = &model.UserSummary{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
	}

	out := make([]model.Booking, 0, len(docs))
	for _, d := range docs {
		b := d.toModel()
		b.User.Expanded = true
		b.User.Summary = summaries[d.User]
		out = append(out, b)
	}
	return out, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	docs, err := r.find(ctx, bson.M{"user": uid})
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// UpdateStatus stores status as given; callers decide whether to validate.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc bookingDoc
	err = r.bookings.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b := doc.toModel()
	return &b, nil
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]bookingDoc, error) {
	cur, err := r.bookings.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return docs, nil
}
