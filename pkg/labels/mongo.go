package labels

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "macroblock"
	DefaultMongoCollection = "labels"
)

// MongoStore inserts records into a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and ensures an index on (run_id, frame).
// Empty database or collection names use the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "frame", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create label index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Put inserts one document.
func (s *MongoStore) Put(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(rec)); err != nil {
		return fmt.Errorf("insert label %s: %w", rec.Frame, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toDocument maps a record to BSON. The seed is stored as a decimal string
// since BSON has no unsigned 64-bit integer.
func toDocument(rec Record) bson.D {
	cells := make(bson.A, len(rec.Cells))
	for i, c := range rec.Cells {
		cells[i] = c
	}
	return bson.D{
		{Key: "run_id", Value: rec.RunID},
		{Key: "frame", Value: rec.Frame},
		{Key: "output", Value: rec.Output},
		{Key: "width", Value: rec.Width},
		{Key: "height", Value: rec.Height},
		{Key: "seed", Value: strconv.FormatUint(rec.Seed, 10)},
		{Key: "options", Value: bson.D{
			{Key: "block_size", Value: rec.Options.BlockSize},
			{Key: "max_shift", Value: rec.Options.MaxShift},
			{Key: "padding", Value: rec.Options.Padding},
			{Key: "blend", Value: rec.Options.Blend},
			{Key: "direction", Value: string(rec.Options.Direction)},
			{Key: "split", Value: string(rec.Options.Split)},
		}},
		{Key: "source", Value: rec.Source},
		{Key: "dest", Value: rec.Dest},
		{Key: "cells", Value: cells},
		{Key: "created_at", Value: rec.CreatedAt},
	}
}

var _ Store = (*MongoStore)(nil)
