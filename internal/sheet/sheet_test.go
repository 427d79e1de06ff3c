package sheet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func points(waves ...float64) []schema.Point {
	out := make([]schema.Point, len(waves))
	for i, w := range waves {
		out[i] = schema.Point{Wave: w, Measurement: schema.Number(w * 10)}
	}
	return out
}

func values(vs ...float64) []schema.Value {
	out := make([]schema.Value, len(vs))
	for i, v := range vs {
		out[i] = schema.Number(v)
	}
	return out
}

func TestTranspose(t *testing.T) {
	rows := Transpose(points(1, 2, 3), [][]schema.Value{
		values(100, 200, 300),
		values(7),
		nil,
		values(1, 2, 3, 4, 5),
	})

	require.Len(t, rows, 3, "one row per preprocessed point")
	assert.Equal(t, []any{3.0, 30.0, 300.0, 7.0, nil, 5.0}, rows[0])
	assert.Equal(t, []any{2.0, 20.0, 200.0, nil, nil, 4.0}, rows[1])
	assert.Equal(t, []any{1.0, 10.0, 100.0, nil, nil, 3.0}, rows[2])
}

func TestTransposeNoPreprocessed(t *testing.T) {
	assert.Empty(t, Transpose(nil, [][]schema.Value{values(1, 2)}))
}

func payload(t *testing.T, raw string) schema.Payload {
	t.Helper()
	var p schema.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestTablesLayout(t *testing.T) {
	temp := 4
	m := schema.Measurement{
		SampleID:          12,
		UseCase:           schema.FoodSpoilage,
		FoodType:          "meat",
		Temperature:       &temp,
		MicrobiologicalID: "MB-9",
		VIS: payload(t, `{
			"preprocessed": [{"wave": 400, "measurement": 1}, {"wave": 401, "measurement": 2}],
			"rawData": [[{"wave": 400, "measurement": 5}, {"wave": 401, "measurement": 6}]],
			"whiteReference": [{"wave": 400, "measurement": 9}]
		}`),
		NIR: payload(t, `{"preprocessed": [{"wave": 900, "measurement": 0.1}], "darkReference": [{"wave": 900, "measurement": 0.2}]}`),
	}
	ref := schema.Measurement{SampleID: 3, VIS: payload(t, `{"rawDark": [[{"wave": 400, "measurement": 42}]]}`)}

	tables, err := Tables(m, &ref, 2)
	require.NoError(t, err)
	require.Len(t, tables, 4)

	info, vis, nir, fluo := tables[0], tables[1], tables[2], tables[3]
	assert.Equal(t, SampleInfoSheet, info.Name)
	assert.Equal(t, spoilageHeader, info.Header)
	assert.Equal(t, []any{"meat", 4, "", "MB-9", "", ""}, info.Rows[0])

	assert.Equal(t, []string{
		"wave", "preprocessed",
		"rawData1", "rawData2", "avgData",
		"rawWhite1", "rawWhite2", "correctedWhite", "avgWhite",
		"rawDark1", "rawDark2", "avgDark",
		"rawDarkForWhite1", "rawDarkForWhite2",
	}, vis.Header)
	require.Len(t, vis.Rows, 2)
	// Reversed order: the last preprocessed point comes first.
	assert.Equal(t, []any{401.0, 2.0, 6.0, nil, nil, nil, nil, 9.0, nil, nil, nil, nil, 42.0, nil}, vis.Rows[0])
	assert.Equal(t, []any{400.0, 1.0, 5.0, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}, vis.Rows[1])

	assert.Equal(t, []string{"wave", "preprocessed", "darkReference", "whiteReference"}, nir.Header)
	assert.Equal(t, [][]any{{900.0, 0.1, 0.2, nil}}, nir.Rows)

	assert.Equal(t, []string{
		"wave", "preprocessed",
		"rawData1", "rawData2", "avgData",
		"rawWhite1", "rawWhite2", "avgWhite",
		"rawDark1", "rawDark2", "avgDark",
	}, fluo.Header)
	assert.Empty(t, fluo.Rows, "absent channel yields a header-only sheet")
}

func TestTablesWithoutReference(t *testing.T) {
	m := schema.Measurement{SampleID: 1, UseCase: "Something else"}
	tables, err := Tables(m, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, tables[0].Header, "unknown use case has an empty info sheet")
	assert.Empty(t, tables[0].Rows)
}

func TestTablesMalformedSeries(t *testing.T) {
	m := schema.Measurement{SampleID: 1, VIS: payload(t, `{"preprocessed": "nope"}`)}
	_, err := Tables(m, nil, 1)
	assert.ErrorIs(t, err, schema.ErrValidation)
}

func TestFileName(t *testing.T) {
	created := time.Date(2019, 5, 3, 10, 4, 5, 123456000, time.UTC)
	tests := []struct {
		name     string
		m        schema.Measurement
		expected string
	}{
		{
			name:     "adulteration",
			m:        schema.Measurement{SampleID: 5, UseCase: schema.FoodAdulteration, AdulterationID: "AD/1", DateCreated: created},
			expected: "2019-05-0310:04:05.123456+00:00-AD_1-5.xlsx",
		},
		{
			name:     "mycotoxins",
			m:        schema.Measurement{SampleID: 6, UseCase: schema.MycotoxinsDetection, FoodType: "maize", DateCreated: created},
			expected: "2019-05-0310:04:05.123456+00:00-maize-6.xlsx",
		},
		{
			name:     "other",
			m:        schema.Measurement{SampleID: 7, UseCase: schema.WhiteReferenceCase, DateCreated: created},
			expected: "2019-05-0310:04:05.123456+00:00-other-7.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileName(tt.m))
		})
	}
}

func TestExporterRoundTrip(t *testing.T) {
	root := t.TempDir()
	e := NewExporter(root, 2)
	req := schema.Requester{Email: "jane.doe@example.com"}

	assert.False(t, e.Materialized(req))

	m := schema.Measurement{
		SampleID:       21,
		UseCase:        schema.FoodAdulteration,
		AdulterationID: "A-1",
		DateCreated:    time.Date(2020, 2, 2, 2, 2, 2, 0, time.UTC),
		VIS:            payload(t, `{"preprocessed": [{"wave": 1, "measurement": 0.5}, {"wave": 2, "measurement": 0.7}]}`),
	}
	bundle, err := e.Export(req, []Item{{Measurement: m}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "excel", "janedoe.zip"), bundle)
	assert.DirExists(t, filepath.Join(root, "excel", "jane.doe"))
	assert.True(t, e.Materialized(req))

	zr, err := zip.OpenReader(bundle)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	require.Len(t, zr.File, 1)
	assert.Equal(t, FileName(m), zr.File[0].Name, "files sit at the archive root")

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	wb, err := excelize.OpenReader(rc)
	require.NoError(t, err)
	_ = rc.Close()
	defer func() { _ = wb.Close() }()

	assert.Equal(t, []string{SampleInfoSheet, VISSheet, NIRSheet, FLUOSheet}, wb.GetSheetList())
	cell, err := wb.GetCellValue(VISSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2", cell)
	cell, err = wb.GetCellValue(SampleInfoSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "A-1", cell)

	// Re-export into an existing directory succeeds.
	_, err = e.Export(req, []Item{{Measurement: m}})
	require.NoError(t, err)

	require.NoError(t, e.Cleanup(req))
	assert.NoDirExists(t, filepath.Join(root, "excel", "jane.doe"))
	_, err = os.Stat(bundle)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, e.Cleanup(req), "cleanup is idempotent")
}

func TestExporterRejectsBadRequester(t *testing.T) {
	e := NewExporter(t.TempDir(), 1)
	for _, email := range []string{"", "@example.com", "../x@example.com", "..@example.com"} {
		_, err := e.Export(schema.Requester{Email: email}, nil)
		assert.ErrorIs(t, err, schema.ErrValidation, email)
	}
}
