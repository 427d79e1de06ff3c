// Package parquet exports spectral series of measurements to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesRow is one spectral point of one series of one measurement.
type SeriesRow struct {
	// SampleID references the measurement
	SampleID int64 `parquet:"sample_id,snappy"`

	UseCase  string `parquet:"use_case,snappy,dict"`
	FoodType string `parquet:"food_type,snappy,dict"`

	// Channel is VIS, NIR or FLUO
	Channel string `parquet:"channel,snappy,dict"`

	// Kind is the series name inside the channel, such as rawData or avgWhite
	Kind string `parquet:"kind,snappy,dict"`

	// Replicate is the 1-based replicate number, 0 for single series
	Replicate int32 `parquet:"replicate,snappy"`

	Wave float64 `parquet:"wave,snappy"`

	// Measurement is null when the device sent no numeric reading
	Measurement *float64 `parquet:"measurement,optional,snappy"`

	DateCreated time.Time `parquet:"date_created,snappy"`
}

// seriesKinds are the single series flattened per channel.
var seriesKinds = []string{
	schema.Preprocessed,
	schema.AvgData, schema.AvgDark, schema.AvgWhite,
	schema.DarkReference, schema.WhiteReference,
}

// replicateKinds are the replicate sets flattened per channel.
var replicateKinds = []string{schema.RawData, schema.RawDark, schema.RawWhite}

// ConvertMeasurements flattens every series of every channel into rows.
// Malformed series are a validation error.
func ConvertMeasurements(ms []schema.Measurement) ([]SeriesRow, error) {
	var rows []SeriesRow
	for i := range ms {
		m := &ms[i]
		for _, c := range schema.AllChannels {
			payload := m.Channel(c)
			base := SeriesRow{
				SampleID:    m.SampleID,
				UseCase:     m.UseCase,
				FoodType:    m.FoodType,
				Channel:     string(c),
				DateCreated: m.DateCreated,
			}
			for _, kind := range replicateKinds {
				sets, err := payload.Replicates(kind)
				if err != nil {
					return nil, fmt.Errorf("sample %d %s: %w", m.SampleID, c, err)
				}
				for r, series := range sets {
					rows = appendSeries(rows, base, kind, int32(r+1), series)
				}
			}
			for _, kind := range seriesKinds {
				series, err := payload.Series(kind)
				if err != nil {
					return nil, fmt.Errorf("sample %d %s: %w", m.SampleID, c, err)
				}
				rows = appendSeries(rows, base, kind, 0, series)
			}
		}
	}
	return rows, nil
}

func appendSeries(rows []SeriesRow, base SeriesRow, kind string, replicate int32, series []schema.Point) []SeriesRow {
	for _, p := range series {
		row := base
		row.Kind = kind
		row.Replicate = replicate
		row.Wave = p.Wave
		if f, ok := p.Measurement.Float(); ok {
			row.Measurement = &f
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSeriesParquet writes rows to a Parquet file at outputPath.
func WriteSeriesParquet(data []SeriesRow, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	// Schema is derived from the SeriesRow struct tags
	writer := parquet.NewGenericWriter[SeriesRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
