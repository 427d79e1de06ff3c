package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

var measurementHeader = []string{"Sample", "Use case", "Food type", "Use case sample", "Owner", "Created"}

// PrintMeasurements outputs a measurement listing in the configured format.
func PrintMeasurements(ms []schema.MeasurementSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if ms == nil {
				ms = []schema.MeasurementSummary{}
			}
			return writeJSON(w, ms)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteMeasurementsCSV(w, ms)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteMeasurementsText(w, ms, cfg)
		}, "Wrote text")
	}
}

// WriteMeasurementsText renders one row per measurement, in listing order.
func WriteMeasurementsText(w io.Writer, ms []schema.MeasurementSummary, cfg *contract.Config) error {
	width := GetMaxCellWidth(cfg, len(measurementHeader))
	records := make([][]string, len(ms))
	for i, m := range ms {
		row := measurementRow(m)
		for j := range row {
			row[j] = truncate(row[j], width)
		}
		records[i] = row
	}
	if err := renderTable(w, measurementHeader, records); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d measurements\n", len(ms))
	return err
}

func measurementRow(m schema.MeasurementSummary) []string {
	return []string{
		strconv.FormatInt(m.SampleID, 10),
		m.UseCase,
		m.FoodType,
		m.UseCaseSampleID,
		m.Owner,
		m.DateCreated.Format(time.RFC3339),
	}
}

// PrintMeasurementFilters outputs the filter values of the measurement listing.
func PrintMeasurementFilters(f schema.MeasurementFilters, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]schema.MeasurementFilters{"filter": f})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteMeasurementFiltersCSV(w, f)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteMeasurementFiltersText(w, f)
		}, "Wrote text")
	}
}

// WriteMeasurementFiltersText renders the use case tree as a two-column table.
func WriteMeasurementFiltersText(w io.Writer, f schema.MeasurementFilters) error {
	records := make([][]string, 0, len(f.UseCases))
	for _, uc := range f.UseCases {
		records = append(records, []string{labelOrNone(uc), strings.Join(labelsOrNone(f.Tree[uc]), ", ")})
	}
	if err := renderTable(w, []string{"Use case", "Food types"}, records); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d use cases, %d food types\n", len(f.UseCases), len(f.FoodTypes))
	return err
}

func labelOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func labelsOrNone(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = labelOrNone(s)
	}
	return out
}
