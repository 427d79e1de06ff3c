// Package docstore is the secondary document store and the browse query
// translation over it.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Mongo implements contract.DocumentStore on a MongoDB deployment.
type Mongo struct {
	client *mongo.Client
}

var _ contract.DocumentStore = &Mongo{} // Compile-time check

// NewMongo connects to the deployment at uri and verifies it is reachable.
func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach MongoDB at %s: %w", uri, err)
	}
	return &Mongo{client: client}, nil
}

func (s *Mongo) coll(database, collection string) *mongo.Collection {
	return s.client.Database(database).Collection(collection)
}

func orEmpty(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

// InsertOne stores one document.
func (s *Mongo) InsertOne(ctx context.Context, database, collection string, doc any) error {
	if _, err := s.coll(database, collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s.%s: %w", database, collection, err)
	}
	return nil
}

// Find returns the documents matching filter in natural id order.
func (s *Mongo) Find(ctx context.Context, database, collection string, filter, projection bson.M, skip, limit int64) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.coll(database, collection).Find(ctx, orEmpty(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", database, collection, err)
	}
	var out []bson.M
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", database, collection, err)
	}
	return out, nil
}

// FindOne returns the first matching document or schema.ErrNotFound.
func (s *Mongo) FindOne(ctx context.Context, database, collection string, filter, projection bson.M) (bson.M, error) {
	opts := options.FindOne()
	if len(projection) > 0 {
		opts.SetProjection(projection)
	}
	var out bson.M
	err := s.coll(database, collection).FindOne(ctx, orEmpty(filter), opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("document in %s.%s: %w", database, collection, schema.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", database, collection, err)
	}
	return out, nil
}

// Count returns the number of documents matching filter.
func (s *Mongo) Count(ctx context.Context, database, collection string, filter bson.M) (int64, error) {
	n, err := s.coll(database, collection).CountDocuments(ctx, orEmpty(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s.%s: %w", database, collection, err)
	}
	return n, nil
}

// Distinct returns the distinct values of field among matching documents.
func (s *Mongo) Distinct(ctx context.Context, database, collection, field string, filter bson.M) ([]any, error) {
	values, err := s.coll(database, collection).Distinct(ctx, field, orEmpty(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct %s of %s.%s: %w", field, database, collection, err)
	}
	return values, nil
}

// ListDatabases returns the database names of the deployment.
func (s *Mongo) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := s.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return names, nil
}

// ListCollections returns the collection names of a database.
func (s *Mongo) ListCollections(ctx context.Context, database string) ([]string, error) {
	names, err := s.client.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections of %s: %w", database, err)
	}
	return names, nil
}

// Close disconnects the client.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
