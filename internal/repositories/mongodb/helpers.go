package mongodb

import (
	"errors"

	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	deploymentsCollection   = "deployments"
	statesCollection        = "contract_states"
	contributionsCollection = "contributions"
	payoutsCollection       = "payouts"
	eventsCollection        = "contract_events"
)

// pageOptions builds skip/limit options, newest first. Non-positive page or limit means no paging.
func pageOptions(page, limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if page > 0 && limit > 0 {
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}
	return opts
}

// translate maps driver errors onto repository errors
func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}
