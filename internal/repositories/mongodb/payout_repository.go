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

// PayoutRepository implements the repositories.PayoutRepository interface
type PayoutRepository struct {
	collection *mongo.Collection
}

// NewPayoutRepository creates a new PayoutRepository
func NewPayoutRepository(db *mongo.Database) repositories.PayoutRepository {
	return &PayoutRepository{
		collection: db.Collection(payoutsCollection),
	}
}

// Create inserts a payout record
func (r *PayoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, payout)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payout.ID = oid
	}
	return nil
}

// FindByReference finds the payout made for a withdrawal reference
func (r *PayoutRepository) FindByReference(ctx context.Context, reference string) (*models.Payout, error) {
	var payout models.Payout
	if err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&payout); err != nil {
		return nil, translate(err)
	}
	return &payout, nil
}

// FindByContract finds payouts made by a contract with pagination
func (r *PayoutRepository) FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Payout, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"contract": contract}, pageOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payouts []*models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, err
	}
	if payouts == nil {
		payouts = []*models.Payout{}
	}
	return payouts, nil
}
