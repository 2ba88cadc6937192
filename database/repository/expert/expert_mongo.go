package expertRepo

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

// MongoExpertRepo implements ExpertRepository using MongoDB. The whole
// availability calendar lives embedded in the expert document, so a slot
// claim is a single guarded document write.
type MongoExpertRepo struct {
	coll *mongo.Collection
}

// NewMongoExpertRepo constructs a new instance of MongoExpertRepo.
func NewMongoExpertRepo() *MongoExpertRepo {
	repo := &MongoExpertRepo{coll: database.DB().Collection("experts")}
	if err := repo.ensureIndexes(); err != nil {
		log.Fatalf("expert repo: %v", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// FindByID retrieves an expert document by ID.
func (r *MongoExpertRepo) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	var expert models.Expert
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&expert); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrExpertNotFound
		}
		return nil, fmt.Errorf("error fetching expert with id %s: %w", id, err)
	}
	return &expert, nil
}

// Count returns the number of expert documents.
func (r *MongoExpertRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting experts: %w", err)
	}
	return n, nil
}

// InsertMany bulk-inserts expert documents (calendar generation / seeding).
func (r *MongoExpertRepo) InsertMany(ctx context.Context, experts []models.Expert) error {
	docs := make([]interface{}, len(experts))
	for i := range experts {
		docs[i] = experts[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting experts: %w", err)
	}
	return nil
}

// ClaimSlot sets isBooked on the matching slot. The update filter requires
// isBooked to still be false, so a concurrent claim that slipped past the
// read surfaces as ErrSlotTaken rather than a double booking.
func (r *MongoExpertRepo) ClaimSlot(ctx context.Context, expertID, date, timeSlot string) error {
	if err := r.inspectSlot(ctx, expertID, date, timeSlot); err != nil {
		return err
	}

	filter := bson.M{
		"id": expertID,
		"availability": bson.M{
			"$elemMatch": bson.M{
				"date": date,
				"slots": bson.M{
					"$elemMatch": bson.M{"time": timeSlot, "isBooked": false},
				},
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"availability.$[d].slots.$[s].isBooked": true,
			"updatedAt":                             time.Now().UTC(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": timeSlot, "s.isBooked": false},
		},
	})

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error claiming slot: %w", err)
	}
	if res.ModifiedCount == 0 {
		return repository.ErrSlotTaken
	}
	return nil
}

// ReleaseSlot clears isBooked on the matching slot. Releasing a slot that is
// already free, or that no longer resolves, is a no-op.
func (r *MongoExpertRepo) ReleaseSlot(ctx context.Context, expertID, date, timeSlot string) error {
	filter := bson.M{
		"id": expertID,
		"availability": bson.M{
			"$elemMatch": bson.M{
				"date":  date,
				"slots": bson.M{"$elemMatch": bson.M{"time": timeSlot}},
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"availability.$[d].slots.$[s].isBooked": false,
			"updatedAt":                             time.Now().UTC(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.date": date},
			bson.M{"s.time": timeSlot},
		},
	})

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error releasing slot: %w", err)
	}
	return nil
}

// inspectSlot classifies why a claim cannot proceed: missing expert, missing
// day, missing slot or an already-booked slot.
func (r *MongoExpertRepo) inspectSlot(ctx context.Context, expertID, date, timeSlot string) error {
	expert, err := r.FindByID(ctx, expertID)
	if err != nil {
		return err
	}
	day := expert.Day(date)
	if day == nil {
		return repository.ErrDateUnavailable
	}
	slot := day.Slot(timeSlot)
	if slot == nil {
		return repository.ErrSlotNotFound
	}
	if slot.IsBooked {
		return repository.ErrSlotTaken
	}
	return nil
}
