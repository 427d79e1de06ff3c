package docstore

import (
	"context"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
)

// MockDocumentStore is a mock implementation of DocumentStore for testing.
type MockDocumentStore struct {
	mock.Mock
}

var _ contract.DocumentStore = &MockDocumentStore{} // Compile-time check

// InsertOne implements the DocumentStore interface.
func (m *MockDocumentStore) InsertOne(ctx context.Context, database, collection string, doc any) error {
	return m.Called(ctx, database, collection, doc).Error(0)
}

// Find implements the DocumentStore interface.
func (m *MockDocumentStore) Find(ctx context.Context, database, collection string, filter, projection bson.M, skip, limit int64) ([]bson.M, error) {
	args := m.Called(ctx, database, collection, filter, projection, skip, limit)
	out, _ := args.Get(0).([]bson.M)
	return out, args.Error(1)
}

// FindOne implements the DocumentStore interface.
func (m *MockDocumentStore) FindOne(ctx context.Context, database, collection string, filter, projection bson.M) (bson.M, error) {
	args := m.Called(ctx, database, collection, filter, projection)
	out, _ := args.Get(0).(bson.M)
	return out, args.Error(1)
}

// Count implements the DocumentStore interface.
func (m *MockDocumentStore) Count(ctx context.Context, database, collection string, filter bson.M) (int64, error) {
	args := m.Called(ctx, database, collection, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Distinct implements the DocumentStore interface.
func (m *MockDocumentStore) Distinct(ctx context.Context, database, collection, field string, filter bson.M) ([]any, error) {
	args := m.Called(ctx, database, collection, field, filter)
	out, _ := args.Get(0).([]any)
	return out, args.Error(1)
}

// ListDatabases implements the DocumentStore interface.
func (m *MockDocumentStore) ListDatabases(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

// ListCollections implements the DocumentStore interface.
func (m *MockDocumentStore) ListCollections(ctx context.Context, database string) ([]string, error) {
	args := m.Called(ctx, database)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

// Close implements the DocumentStore interface.
func (m *MockDocumentStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
