package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/fundme-backend/internal/models"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContractStateRepository implements the repositories.ContractStateRepository interface.
// Each contract owns one document in contract_states, keyed by its address.
type ContractStateRepository struct {
	collection *mongo.Collection
}

// NewContractStateRepository creates a new ContractStateRepository
func NewContractStateRepository(db *mongo.Database) repositories.ContractStateRepository {
	return &ContractStateRepository{
		collection: db.Collection(statesCollection),
	}
}

// stateDocument wraps a snapshot with its kind
type stateDocument[T any] struct {
	ID        string              `bson:"_id"`
	Kind      models.ContractKind `bson:"kind"`
	State     T                   `bson:"state"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func save[T any](ctx context.Context, c *mongo.Collection, contract string, kind models.ContractKind, state T) error {
	doc := stateDocument[T]{ID: contract, Kind: kind, State: state, UpdatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	_, err := c.ReplaceOne(ctx, bson.M{"_id": contract}, doc, opts)
	return err
}

func load[T any](ctx context.Context, c *mongo.Collection, contract string, kind models.ContractKind) (*T, error) {
	var doc stateDocument[T]
	err := c.FindOne(ctx, bson.M{"_id": contract, "kind": kind}).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return &doc.State, nil
}

// SaveFundMe upserts a FundMe snapshot
func (r *ContractStateRepository) SaveFundMe(ctx context.Context, snapshot *models.FundMeSnapshot) error {
	return save(ctx, r.collection, snapshot.Contract, models.ContractKindFundMe, snapshot)
}

// LoadFundMe loads a FundMe snapshot
func (r *ContractStateRepository) LoadFundMe(ctx context.Context, contract string) (*models.FundMeSnapshot, error) {
	return load[models.FundMeSnapshot](ctx, r.collection, contract, models.ContractKindFundMe)
}

// SaveRaffle upserts a Raffle snapshot
func (r *ContractStateRepository) SaveRaffle(ctx context.Context, snapshot *models.RaffleSnapshot) error {
	return save(ctx, r.collection, snapshot.Contract, models.ContractKindRaffle, snapshot)
}

// LoadRaffle loads a Raffle snapshot
func (r *ContractStateRepository) LoadRaffle(ctx context.Context, contract string) (*models.RaffleSnapshot, error) {
	return load[models.RaffleSnapshot](ctx, r.collection, contract, models.ContractKindRaffle)
}

// SaveSimpleStorage upserts a SimpleStorage snapshot
func (r *ContractStateRepository) SaveSimpleStorage(ctx context.Context, snapshot *models.SimpleStorageSnapshot) error {
	return save(ctx, r.collection, snapshot.Contract, models.ContractKindSimpleStorage, snapshot)
}

// LoadSimpleStorage loads a SimpleStorage snapshot
func (r *ContractStateRepository) LoadSimpleStorage(ctx context.Context, contract string) (*models.SimpleStorageSnapshot, error) {
	return load[models.SimpleStorageSnapshot](ctx, r.collection, contract, models.ContractKindSimpleStorage)
}
