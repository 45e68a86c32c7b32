package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
)

// MongoStore persists snapshots as one document per owner, keyed by _id
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(ctx context.Context, cfg config.StorageConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
	}, nil
}

// LoadSnapshot fetches the owner's document; a missing document yields an
// empty snapshot, not an error.
func (s *MongoStore) LoadSnapshot(ctx context.Context, owner string) (*analytics.AccountSnapshot, error) {
	var snapshot analytics.AccountSnapshot
	err := s.collection.FindOne(ctx, bson.M{"_id": owner}).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return emptySnapshot(owner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", owner, err)
	}

	if snapshot.Accounts == nil {
		snapshot.Accounts = make(map[string]*analytics.Analytics)
	}
	return &snapshot, nil
}

// SaveSnapshot upserts the owner's document
func (s *MongoStore) SaveSnapshot(ctx context.Context, snapshot *analytics.AccountSnapshot) error {
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": snapshot.Owner},
		snapshot,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snapshot.Owner, err)
	}
	return nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
