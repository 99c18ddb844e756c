package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeploymentRepository implements the repositories.DeploymentRepository interface
type DeploymentRepository struct {
	collection *mongo.Collection
}

// NewDeploymentRepository creates a new DeploymentRepository
func NewDeploymentRepository(db *mongo.Database) repositories.DeploymentRepository {
	return &DeploymentRepository{
		collection: db.Collection(deploymentsCollection),
	}
}

// Create inserts a deployment record
func (r *DeploymentRepository) Create(ctx context.Context, deployment *models.Deployment) error {
	if deployment.CreatedAt.IsZero() {
		deployment.CreatedAt = time.Now()
	}
	res, err := r.collection.InsertOne(ctx, deployment)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		deployment.ID = oid
	}
	return nil
}

// FindByAddress finds the deployment hosted at address
func (r *DeploymentRepository) FindByAddress(ctx context.Context, address string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := r.collection.FindOne(ctx, bson.M{"address": address}).Decode(&deployment)
	if err != nil {
		return nil, translate(err)
	}
	return &deployment, nil
}

// FindAll returns every deployment in creation order
func (r *DeploymentRepository) FindAll(ctx context.Context) ([]*models.Deployment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "nonce", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var deployments []*models.Deployment
	if err := cursor.All(ctx, &deployments); err != nil {
		return nil, err
	}
	if deployments == nil {
		deployments = []*models.Deployment{}
	}
	return deployments, nil
}

// CountByDeployer counts deployments made by deployer; it is the deployer's next nonce
func (r *DeploymentRepository) CountByDeployer(ctx context.Context, deployer string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"deployer": deployer})
}
