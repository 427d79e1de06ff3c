package store

import (
	"context"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of MeasurementStore for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.MeasurementStore = &MockStore{} // Compile-time check

// SaveMeasurement implements the MeasurementStore interface.
func (m *MockStore) SaveMeasurement(ctx context.Context, ms schema.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

// GetMeasurement implements the MeasurementStore interface.
func (m *MockStore) GetMeasurement(ctx context.Context, sampleID int64) (schema.Measurement, error) {
	args := m.Called(ctx, sampleID)
	return args.Get(0).(schema.Measurement), args.Error(1)
}

// ListMeasurements implements the MeasurementStore interface.
func (m *MockStore) ListMeasurements(ctx context.Context, filter schema.MeasurementFilter) ([]schema.Measurement, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]schema.Measurement)
	return out, args.Error(1)
}

// ListTaxonomy implements the MeasurementStore interface.
func (m *MockStore) ListTaxonomy(ctx context.Context) ([]schema.TaxonomyPair, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]schema.TaxonomyPair)
	return out, args.Error(1)
}

// SaveResult implements the MeasurementStore interface.
func (m *MockStore) SaveResult(ctx context.Context, r schema.Result) error {
	return m.Called(ctx, r).Error(0)
}

// GetResult implements the MeasurementStore interface.
func (m *MockStore) GetResult(ctx context.Context, sampleID int64) (schema.Result, error) {
	args := m.Called(ctx, sampleID)
	return args.Get(0).(schema.Result), args.Error(1)
}

// SaveUser implements the MeasurementStore interface.
func (m *MockStore) SaveUser(ctx context.Context, u schema.User) error {
	return m.Called(ctx, u).Error(0)
}

// SaveDevice implements the MeasurementStore interface.
func (m *MockStore) SaveDevice(ctx context.Context, d schema.Device) error {
	return m.Called(ctx, d).Error(0)
}

// SaveMobile implements the MeasurementStore interface.
func (m *MockStore) SaveMobile(ctx context.Context, mb schema.Mobile) error {
	return m.Called(ctx, mb).Error(0)
}

// CountUsers implements the MeasurementStore interface.
func (m *MockStore) CountUsers(ctx context.Context) (schema.UserCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.UserCounts), args.Error(1)
}

// CountPlatform implements the MeasurementStore interface.
func (m *MockStore) CountPlatform(ctx context.Context) (schema.PlatformCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.PlatformCounts), args.Error(1)
}

// CountMeasurements implements the MeasurementStore interface.
func (m *MockStore) CountMeasurements(ctx context.Context) (schema.MeasurementCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.MeasurementCounts), args.Error(1)
}

// CountResults implements the MeasurementStore interface.
func (m *MockStore) CountResults(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// LatestStatistic implements the MeasurementStore interface.
func (m *MockStore) LatestStatistic(ctx context.Context) (schema.PlatformStatistic, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.PlatformStatistic), args.Error(1)
}

// UpsertStatistic implements the MeasurementStore interface.
func (m *MockStore) UpsertStatistic(ctx context.Context, s schema.PlatformStatistic) (schema.PlatformStatistic, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(schema.PlatformStatistic), args.Error(1)
}

// GetStatus implements the MeasurementStore interface.
func (m *MockStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the MeasurementStore interface.
func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
