package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories query on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		deploymentsCollection: {
			{Keys: bson.D{{Key: "address", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "deployer", Value: 1}}},
		},
		contributionsCollection: {
			{Keys: bson.D{{Key: "contract", Value: 1}, {Key: "funder", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		payoutsCollection: {
			{Keys: bson.D{{Key: "contract", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "contract", Value: 1}, {Key: "name", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
