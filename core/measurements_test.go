package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/jobs"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/store"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// spoilageSample is a minced pork measurement created at the given time.
func spoilageSample(id int64, created time.Time) schema.Measurement {
	return schema.Measurement{
		SampleID:          id,
		Owner:             "ana@example.com",
		UseCase:           schema.FoodSpoilage,
		FoodType:          "Minced Pork",
		MicrobiologicalID: "MB_1",
		DateCreated:       created,
	}
}

// TestMeasurementsNewestFirst tests listing order and filtering of stored measurements.
func TestMeasurementsNewestFirst(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	older := mycotoxinSample(t, 1)
	older.DateCreated = fixedNow.Add(-time.Hour)
	sameInstant := mycotoxinSample(t, 2)
	sameInstant.DateCreated = fixedNow
	ingestAll(t, f, older, sameInstant, spoilageSample(3, fixedNow), spoilageSample(4, fixedNow.Add(-2*time.Hour)))

	tests := []struct {
		name   string
		filter schema.MeasurementFilter
		want   []int64
	}{
		{"all", schema.MeasurementFilter{}, []int64{3, 2, 1, 4}},
		{"use case", schema.MeasurementFilter{UseCase: schema.MycotoxinsDetection}, []int64{2, 1}},
		{"food type", schema.MeasurementFilter{FoodType: "Minced Pork"}, []int64{3, 4}},
		{"both", schema.MeasurementFilter{UseCase: schema.FoodSpoilage, FoodType: "maize"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Measurements(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]int64, len(got))
			for i, m := range got {
				ids[i] = m.SampleID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	got, err := f.svc.Measurements(ctx, schema.MeasurementFilter{UseCase: schema.MycotoxinsDetection})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "4.2_B1", got[0].UseCaseSampleID)
	assert.Equal(t, "mobile-1", got[0].MobileID)
	assert.True(t, got[0].DateCreated.Equal(fixedNow))
}

// TestMeasurementFilters tests the distinct values and the use case tree.
func TestMeasurementFilters(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	empty, err := f.svc.MeasurementFilters(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.UseCases)
	assert.Empty(t, empty.Tree)

	ingestAll(t, f,
		mycotoxinSample(t, 1),
		mycotoxinSample(t, 2),
		spoilageSample(3, fixedNow),
		schema.Measurement{SampleID: 4, UseCase: schema.FoodSpoilage, FoodType: "maize"},
	)

	got, err := f.svc.MeasurementFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{schema.FoodSpoilage, schema.MycotoxinsDetection}, got.UseCases)
	assert.Equal(t, []string{"Minced Pork", "maize"}, got.FoodTypes)
	assert.Equal(t, map[string][]string{
		schema.FoodSpoilage:        {"Minced Pork", "maize"},
		schema.MycotoxinsDetection: {"maize"},
	}, got.Tree)
}

// TestBuildMeasurementFilters tests folding of taxonomy pairs.
func TestBuildMeasurementFilters(t *testing.T) {
	tests := []struct {
		name  string
		pairs []schema.TaxonomyPair
		want  schema.MeasurementFilters
	}{
		{
			name:  "no pairs",
			pairs: nil,
			want:  schema.MeasurementFilters{UseCases: []string{}, FoodTypes: []string{}, Tree: map[string][]string{}},
		},
		{
			name: "unsorted with empty food type",
			pairs: []schema.TaxonomyPair{
				{UseCase: "b", FoodType: "y"},
				{UseCase: "a", FoodType: "y"},
				{UseCase: "a", FoodType: ""},
				{UseCase: "b", FoodType: "x"},
			},
			want: schema.MeasurementFilters{
				UseCases:  []string{"a", "b"},
				FoodTypes: []string{"", "x", "y"},
				Tree:      map[string][]string{"a": {"", "y"}, "b": {"x", "y"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMeasurementFilters(tt.pairs))
		})
	}
}

// TestMeasurementsStoreErrors tests that store failures surface unchanged.
func TestMeasurementsStoreErrors(t *testing.T) {
	boom := errors.New("store down")
	st := new(store.MockStore)
	st.On("ListMeasurements", mock.Anything, mock.Anything).Return(nil, boom)
	st.On("ListTaxonomy", mock.Anything).Return(nil, boom)

	svc, err := NewService(testConfig(t), Deps{Store: st, Jobs: &jobs.Inline{}})
	require.NoError(t, err)

	_, err = svc.Measurements(context.Background(), schema.MeasurementFilter{})
	assert.ErrorIs(t, err, boom)
	_, err = svc.MeasurementFilters(context.Background())
	assert.ErrorIs(t, err, boom)
	st.AssertExpectations(t)
}
