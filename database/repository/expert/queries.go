package expertRepo

import (
	"context"
	"fmt"

	"meetio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// List returns a catalog page of experts and the total match count. The
// availability calendar is excluded from list payloads; clients fetch it
// through FindByID when they open an expert.
func (r *MongoExpertRepo) List(ctx context.Context, q ListQuery) ([]models.Expert, int64, error) {
	filter := bson.M{}
	if q.Category != "" && q.Category != "all" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: q.Search, Options: "i"}}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting experts: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 8
	}

	opts := options.Find().
		SetProjection(bson.M{"availability": 0}).
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing experts: %w", err)
	}
	defer cursor.Close(ctx)

	var experts []models.Expert
	if err := cursor.All(ctx, &experts); err != nil {
		return nil, 0, fmt.Errorf("error decoding experts: %w", err)
	}
	return experts, total, nil
}

// Categories returns the distinct expert categories.
func (r *MongoExpertRepo) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}
