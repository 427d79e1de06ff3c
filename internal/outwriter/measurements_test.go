package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeasurements() []schema.MeasurementSummary {
	return []schema.MeasurementSummary{
		{
			SampleID:        2,
			Owner:           "ana@example.com",
			MobileID:        "mobile-1",
			UseCase:         schema.MycotoxinsDetection,
			FoodType:        "maize",
			UseCaseSampleID: "4.2_B1",
			DateCreated:     time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			SampleID:    1,
			Owner:       "bo@example.com",
			UseCase:     schema.FoodSpoilage,
			FoodType:    "meat",
			DateCreated: time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func sampleFilters() schema.MeasurementFilters {
	return schema.MeasurementFilters{
		UseCases:  []string{schema.FoodSpoilage, schema.MycotoxinsDetection},
		FoodTypes: []string{"", "maize", "meat"},
		Tree: map[string][]string{
			schema.FoodSpoilage:        {"", "meat"},
			schema.MycotoxinsDetection: {"maize"},
		},
	}
}

func TestWriteMeasurementsText(t *testing.T) {
	tests := []struct {
		name     string
		ms       []schema.MeasurementSummary
		contains []string
	}{
		{
			name:     "two rows",
			ms:       sampleMeasurements(),
			contains: []string{"4.2_B1", "maize", "2022-06-01T10:00:00Z", "bo@example.com", "2 measurements"},
		},
		{
			name:     "empty",
			ms:       nil,
			contains: []string{"0 measurements"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteMeasurementsText(&buf, tt.ms, &contract.Config{Width: 200}))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteMeasurementsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMeasurementsCSV(&buf, sampleMeasurements()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "sample_id", records[0][0])
	assert.Equal(t, []string{"2", schema.MycotoxinsDetection, "maize", "", "4.2_B1",
		"ana@example.com", "mobile-1", "", "", "2022-06-01T10:00:00Z"}, records[1])
	assert.Equal(t, "1", records[2][0])
}

func TestPrintMeasurementsJSONToFile(t *testing.T) {
	tests := []struct {
		name string
		ms   []schema.MeasurementSummary
		want int
	}{
		{"rows", sampleMeasurements(), 2},
		{"nil renders empty list", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "measurements.json")
			require.NoError(t, NewOutWriter().WriteMeasurements(tt.ms, &contract.Config{Output: schema.JSONOut, OutputFile: path}))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			var got []map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
			if tt.want > 0 {
				assert.Equal(t, float64(2), got[0]["sampleID"])
				assert.Equal(t, "4.2_B1", got[0]["UseCaseSampleID"])
				assert.NotContains(t, got[0], "VIS")
			}
		})
	}
}

func TestMeasurementFiltersOutput(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, WriteMeasurementFiltersText(&text, sampleFilters()))
	assert.Contains(t, text.String(), "(none), meat")
	assert.Contains(t, text.String(), "2 use cases, 3 food types")

	var out bytes.Buffer
	require.NoError(t, WriteMeasurementFiltersCSV(&out, sampleFilters()))
	assert.Equal(t, "use_case,food_type\nFood spoilage,\nFood spoilage,meat\nMycotoxins detection,maize\n", out.String())

	path := filepath.Join(t.TempDir(), "filters.json")
	require.NoError(t, NewOutWriter().WriteMeasurementFilters(sampleFilters(), &contract.Config{Output: schema.JSONOut, OutputFile: path}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]schema.MeasurementFilters
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, sampleFilters(), got["filter"])
}
