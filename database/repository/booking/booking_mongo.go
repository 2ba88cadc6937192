package bookingRepo

import (
	"context"
	"fmt"
	"log"
	"time"

	"meetio/database"
	"meetio/database/repository"
	"meetio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() *MongoBookingRepo {
	repo := &MongoBookingRepo{coll: database.DB().Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("booking repo: %v", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Insert persists a new booking document within the caller's transaction
// scope. Duplicate-key failures from the partial unique index are mapped to
// ErrDuplicateBooking so the service can treat them as a slot conflict.
func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateBooking
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking document by ID.
func (r *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// UpdateStatus sets the booking status and returns the updated document.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrBookingNotFound
		}
		return nil, fmt.Errorf("error updating booking %s: %w", id, err)
	}
	return &booking, nil
}

// FindByEmail returns all bookings for an email, newest first.
func (r *MongoBookingRepo) FindByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
