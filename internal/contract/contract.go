// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// MeasurementStore defines the operations of the primary relational store.
// This allows the services to be tested without a database server.
type MeasurementStore interface {
	// --- Measurements ---

	SaveMeasurement(ctx context.Context, m schema.Measurement) error
	GetMeasurement(ctx context.Context, sampleID int64) (schema.Measurement, error)
	ListMeasurements(ctx context.Context, filter schema.MeasurementFilter) ([]schema.Measurement, error)
	ListTaxonomy(ctx context.Context) ([]schema.TaxonomyPair, error)

	// --- Results ---

	SaveResult(ctx context.Context, r schema.Result) error
	GetResult(ctx context.Context, sampleID int64) (schema.Result, error)

	// --- Accounts and hardware ---

	SaveUser(ctx context.Context, u schema.User) error
	SaveDevice(ctx context.Context, d schema.Device) error
	SaveMobile(ctx context.Context, m schema.Mobile) error

	// --- Statistics ---

	CountUsers(ctx context.Context) (schema.UserCounts, error)
	CountPlatform(ctx context.Context) (schema.PlatformCounts, error)
	CountMeasurements(ctx context.Context) (schema.MeasurementCounts, error)
	CountResults(ctx context.Context) (int64, error)

	// LatestStatistic returns schema.ErrNotFound when no snapshot exists yet.
	LatestStatistic(ctx context.Context) (schema.PlatformStatistic, error)

	// UpsertStatistic updates the existing snapshot or inserts the first one.
	UpsertStatistic(ctx context.Context, s schema.PlatformStatistic) (schema.PlatformStatistic, error)

	GetStatus(ctx context.Context) (schema.StoreStatus, error)
	Close() error
}

// DocumentStore defines the operations of the secondary document store.
// This allows mocking the store for testing.
type DocumentStore interface {
	InsertOne(ctx context.Context, database, collection string, doc any) error
	Find(ctx context.Context, database, collection string, filter, projection bson.M, skip, limit int64) ([]bson.M, error)
	FindOne(ctx context.Context, database, collection string, filter, projection bson.M) (bson.M, error)
	Count(ctx context.Context, database, collection string, filter bson.M) (int64, error)
	Distinct(ctx context.Context, database, collection, field string, filter bson.M) ([]any, error)
	ListDatabases(ctx context.Context) ([]string, error)
	ListCollections(ctx context.Context, database string) ([]string, error)
	Close(ctx context.Context) error
}

// JobRunner dispatches fire-and-forget background work.
type JobRunner interface {
	// Submit schedules fn and returns the job id. Failures are logged, never returned.
	Submit(name string, fn func(ctx context.Context) error) string

	// Wait blocks until every submitted job has finished.
	Wait()
}

// Notifier delivers messages to requesters and mobile devices.
type Notifier interface {
	Notify(ctx context.Context, n schema.Notification) error
}

// BlobStore keeps notification attachments.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Model predicts a label from a fused feature vector.
type Model interface {
	Predict(ctx context.Context, features []float64) (string, error)
}
