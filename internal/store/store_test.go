package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleMeasurement(id int64, useCase, foodType string, created time.Time) schema.Measurement {
	return schema.Measurement{
		SampleID:    id,
		Owner:       "ana@example.com",
		MobileID:    "mobile-1",
		DeviceID:    "dev-1",
		UseCase:     useCase,
		FoodType:    foodType,
		DateCreated: created,
		VIS: schema.Payload{
			schema.Preprocessed: json.RawMessage(`[{"wave":1,"measurement":0.5}]`),
		},
	}
}

func TestStore_MeasurementRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2019, 5, 3, 10, 4, 5, 123456000, time.UTC)

	m := sampleMeasurement(7, schema.FoodSpoilage, "meat", created)
	m.MicrobiologicalID = "MB-1"
	m.UseCaseSampleID = m.DeriveUseCaseSampleID()
	require.NoError(t, s.SaveMeasurement(ctx, m))

	got, err := s.GetMeasurement(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "MB-1", got.UseCaseSampleID)
	assert.Equal(t, "meat", got.FoodType)
	assert.True(t, created.Equal(got.DateCreated))
	assert.True(t, created.Equal(got.DateUpdated), "update time defaults to creation time")
	assert.JSONEq(t, `[{"wave":1,"measurement":0.5}]`, string(got.VIS[schema.Preprocessed]))

	// Saving again replaces the row.
	m.FoodType = "fish"
	require.NoError(t, s.SaveMeasurement(ctx, m))
	got, err = s.GetMeasurement(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "fish", got.FoodType)
}

func TestStore_GetMeasurementNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetMeasurement(context.Background(), 404)
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestStore_SaveMeasurementRejectsMissingID(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveMeasurement(context.Background(), schema.Measurement{})
	assert.ErrorIs(t, err, schema.ErrValidation)
}

func TestStore_ListMeasurements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(3, schema.FoodSpoilage, "meat", base.Add(2*time.Hour))))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(1, schema.WhiteReferenceCase, "", base)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(2, schema.FoodSpoilage, "fish", base.Add(time.Hour))))

	tests := []struct {
		name     string
		filter   schema.MeasurementFilter
		expected []int64
	}{
		{"all by creation time", schema.MeasurementFilter{}, []int64{1, 2, 3}},
		{"by ids", schema.MeasurementFilter{SampleIDs: []int64{3, 1}}, []int64{1, 3}},
		{"by use case", schema.MeasurementFilter{UseCase: schema.FoodSpoilage}, []int64{2, 3}},
		{"by use case and food", schema.MeasurementFilter{UseCase: schema.FoodSpoilage, FoodType: "meat"}, []int64{3}},
		{"no match", schema.MeasurementFilter{FoodType: "bread"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListMeasurements(ctx, tt.filter)
			require.NoError(t, err)
			var ids []int64
			for _, m := range got {
				ids = append(ids, m.SampleID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestStore_Results(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(5, schema.FoodAdulteration, "oil", time.Now())))

	_, err := s.GetResult(ctx, 5)
	assert.ErrorIs(t, err, schema.ErrNotFound)

	r := schema.NewResult(5)
	r.Data[schema.SensorFusion] = "authentic"
	require.NoError(t, s.SaveResult(ctx, r))

	got, err := s.GetResult(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "authentic", got.Data[schema.SensorFusion])
	assert.Equal(t, schema.NotAvailable, got.Data[schema.SensorVIS])
	assert.False(t, got.DateCreated.IsZero())

	n, err := s.CountResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_CountUsersAndPlatform(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, schema.User{Email: "a@x.io", Type: "Expert"}))
	require.NoError(t, s.SaveUser(ctx, schema.User{Email: "b@x.io", Type: schema.BasicUser}))
	require.NoError(t, s.SaveUser(ctx, schema.User{Email: "c@x.io", Type: schema.BasicUser}))
	require.NoError(t, s.SaveUser(ctx, schema.User{Email: "c@x.io", Type: schema.ExpertUser}))
	require.NoError(t, s.SaveDevice(ctx, schema.Device{MAC: "00:11", Name: "phasma-1"}))
	require.NoError(t, s.SaveMobile(ctx, schema.Mobile{DeviceID: "m1", Owner: "a@x.io"}))
	require.NoError(t, s.SaveMobile(ctx, schema.Mobile{DeviceID: "m2", Owner: "b@x.io"}))

	users, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.UserCounts{Total: 3, Expert: 2, Basic: 1}, users)

	platform, err := s.CountPlatform(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.PlatformCounts{Mobile: 2, PhasmaDevices: 1}, platform)

	assert.ErrorIs(t, s.SaveUser(ctx, schema.User{}), schema.ErrValidation)
	assert.ErrorIs(t, s.SaveDevice(ctx, schema.Device{}), schema.ErrValidation)
	assert.ErrorIs(t, s.SaveMobile(ctx, schema.Mobile{}), schema.ErrValidation)
}

func TestStore_CountMeasurements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(1, schema.FoodSpoilage, "meat", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(2, schema.FoodSpoilage, "meat", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(3, schema.FoodSpoilage, "fish", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(4, schema.WhiteReferenceCase, "", now)))

	got, err := s.CountMeasurements(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Total)
	assert.Equal(t, schema.UseCaseCount{
		UseCase:   schema.FoodSpoilage,
		Total:     3,
		FoodTypes: map[string]int64{"meat": 2, "fish": 1},
	}, got.UseCases[schema.FoodSpoilage])
	assert.Equal(t, map[string]int64{unspecifiedFoodType: 1}, got.UseCases[schema.WhiteReferenceCase].FoodTypes)
}

func TestStore_ListTaxonomy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	got, err := s.ListTaxonomy(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(1, schema.FoodSpoilage, "meat", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(2, schema.FoodSpoilage, "meat", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(3, schema.FoodSpoilage, "fish", now)))
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(4, schema.WhiteReferenceCase, "", now)))

	got, err = s.ListTaxonomy(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schema.TaxonomyPair{
		{UseCase: schema.FoodSpoilage, FoodType: "fish"},
		{UseCase: schema.FoodSpoilage, FoodType: "meat"},
		{UseCase: schema.WhiteReferenceCase, FoodType: ""},
	}, got)
}

func TestStore_UpsertStatisticKeepsSingleRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LatestStatistic(ctx)
	assert.ErrorIs(t, err, schema.ErrNotFound)

	first, err := s.UpsertStatistic(ctx, schema.PlatformStatistic{Users: schema.UserCounts{Total: 1}})
	require.NoError(t, err)
	assert.Positive(t, first.ID)

	second, err := s.UpsertStatistic(ctx, schema.PlatformStatistic{
		Users: schema.UserCounts{Total: 9, Expert: 4, Basic: 5},
		Mongo: schema.DocumentStats{Measurements: map[string]schema.CollectionStats{
			"AltJsonSamples": {Total: 3, UseCases: map[string]schema.Bucket{"UseCase2": {"meat": 3, "total": 3}}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	latest, err := s.LatestStatistic(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
	assert.Equal(t, int64(9), latest.Users.Total)
	assert.Equal(t, int64(3), latest.Mongo.Measurements["AltJsonSamples"].UseCases["UseCase2"]["meat"])

	status, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TableSizes[statisticsTable])
}

func TestStore_GetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	status, err := s.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.LastMeasurement.IsZero())

	created := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, s.SaveMeasurement(ctx, sampleMeasurement(1, schema.FoodSpoilage, "meat", created)))

	status, err = s.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TableSizes[measureTable])
	assert.True(t, created.Equal(status.LastMeasurement))
}

func TestNew_UnsupportedBackend(t *testing.T) {
	_, err := New("oracle", "")
	assert.Error(t, err)
}

func TestMigrate_SQLiteUpAndDown(t *testing.T) {
	path := t.TempDir() + "/phasma.db"

	msg, err := Migrate(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 1")

	msg, err = Migrate(schema.SQLiteBackend, path, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	msg, err = Migrate(schema.SQLiteBackend, path, 0)
	require.NoError(t, err)
	assert.Contains(t, msg, "rolled back")
}
