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

// ContributionRepository implements the repositories.ContributionRepository interface
type ContributionRepository struct {
	collection *mongo.Collection
}

// NewContributionRepository creates a new ContributionRepository
func NewContributionRepository(db *mongo.Database) repositories.ContributionRepository {
	return &ContributionRepository{
		collection: db.Collection(contributionsCollection),
	}
}

// Create inserts a contribution record
func (r *ContributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	if contribution.CreatedAt.IsZero() {
		contribution.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, contribution)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contribution.ID = oid
	}
	return nil
}

// FindByContract finds contributions to a contract with pagination
func (r *ContributionRepository) FindByContract(ctx context.Context, contract string, page, limit int) ([]*models.Contribution, error) {
	return r.find(ctx, bson.M{"contract": contract}, page, limit)
}

// FindByFunder finds a funder's contributions to a contract with pagination
func (r *ContributionRepository) FindByFunder(ctx context.Context, contract, funder string, page, limit int) ([]*models.Contribution, error) {
	return r.find(ctx, bson.M{"contract": contract, "funder": funder}, page, limit)
}

func (r *ContributionRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.Contribution, error) {
	cursor, err := r.collection.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contributions []*models.Contribution
	if err := cursor.All(ctx, &contributions); err != nil {
		return nil, err
	}
	if contributions == nil {
		contributions = []*models.Contribution{}
	}
	return contributions, nil
}

// Count counts contributions to a contract
func (r *ContributionRepository) Count(ctx context.Context, contract string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"contract": contract})
}
