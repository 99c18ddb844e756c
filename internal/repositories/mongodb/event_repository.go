package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection(eventsCollection),
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.ContractEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context, contract, name string, page, limit int) ([]*models.ContractEvent, error) {
	filter := bson.M{}
	if contract != "" {
		filter["contract"] = contract
	}
	if name != "" {
		filter["name"] = name
	}

	cursor, err := r.collection.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.ContractEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.ContractEvent{}
	}
	return events, nil
}
