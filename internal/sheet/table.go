// Package sheet exports measurements as spreadsheet workbooks bundled per requester.
package sheet

import (
	"fmt"
	"strconv"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// Sheet names of an exported workbook, in order.
const (
	SampleInfoSheet = "SampleInfo"
	VISSheet        = "VIS"
	NIRSheet        = "NIR"
	FLUOSheet       = "FLUO"
)

// Table is one worksheet: a header row followed by data rows.
// A nil cell is written blank.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// column is a named measurement series. A nil series is absent.
type column struct {
	header string
	values []schema.Value
}

// Transpose emits one row per preprocessed point, starting from its last
// point. Each column pops its own series from the end independently and
// yields a blank once exhausted, so row i holds element len-1-i of every series.
func Transpose(preprocessed []schema.Point, columns [][]schema.Value) [][]any {
	cursors := make([]int, len(columns))
	for i, c := range columns {
		cursors[i] = len(c)
	}

	rows := make([][]any, 0, len(preprocessed))
	for i := len(preprocessed) - 1; i >= 0; i-- {
		p := preprocessed[i]
		row := make([]any, 0, 2+len(columns))
		row = append(row, p.Wave, p.Measurement.Interface())
		for j := range columns {
			if cursors[j] == 0 {
				row = append(row, nil)
				continue
			}
			cursors[j]--
			row = append(row, columns[j][cursors[j]].Interface())
		}
		rows = append(rows, row)
	}
	return rows
}

func buildTable(name string, p schema.Payload, cols []column) (Table, error) {
	preprocessed, err := p.Series(schema.Preprocessed)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", name, err)
	}
	header := make([]string, 0, 2+len(cols))
	header = append(header, "wave", schema.Preprocessed)
	values := make([][]schema.Value, len(cols))
	for i, c := range cols {
		header = append(header, c.header)
		values[i] = c.values
	}
	return Table{Name: name, Header: header, Rows: Transpose(preprocessed, values)}, nil
}

// seriesColumn reads one series kind as a column.
func seriesColumn(p schema.Payload, kind, header string) (column, error) {
	series, err := p.Series(kind)
	if err != nil {
		return column{}, err
	}
	return column{header: header, values: schema.Measurements(series)}, nil
}

// replicateColumns reads exactly r numbered columns of a replicate kind.
// Missing replicates are absent columns; extra replicates are ignored.
func replicateColumns(p schema.Payload, kind, prefix string, r int) ([]column, error) {
	replicates, err := p.Replicates(kind)
	if err != nil {
		return nil, err
	}
	cols := make([]column, r)
	for i := range r {
		cols[i].header = prefix + strconv.Itoa(i+1)
		if i < len(replicates) {
			cols[i].values = schema.Measurements(replicates[i])
		}
	}
	return cols, nil
}

// channelTables builds the VIS, NIR and FLUO sheets of a measurement.
// reference is the prior white reference, if any.
func channelTables(m schema.Measurement, reference *schema.Measurement, r int) ([]Table, error) {
	vis, err := spectralColumns(m.VIS, r, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", VISSheet, err)
	}
	var refVIS schema.Payload
	if reference != nil {
		refVIS = reference.VIS
	}
	darkForWhite, err := replicateColumns(refVIS, schema.RawDark, "rawDarkForWhite", r)
	if err != nil {
		return nil, fmt.Errorf("%s reference: %w", VISSheet, err)
	}
	visTable, err := buildTable(VISSheet, m.VIS, append(vis, darkForWhite...))
	if err != nil {
		return nil, err
	}

	var nirCols []column
	for _, kind := range []string{schema.DarkReference, schema.WhiteReference} {
		c, err := seriesColumn(m.NIR, kind, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", NIRSheet, err)
		}
		nirCols = append(nirCols, c)
	}
	nirTable, err := buildTable(NIRSheet, m.NIR, nirCols)
	if err != nil {
		return nil, err
	}

	fluo, err := spectralColumns(m.FLUO, r, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FLUOSheet, err)
	}
	fluoTable, err := buildTable(FLUOSheet, m.FLUO, fluo)
	if err != nil {
		return nil, err
	}
	return []Table{visTable, nirTable, fluoTable}, nil
}

// spectralColumns lays out data, white and dark replicates with their
// averages. withCorrected adds correctedWhite before avgWhite.
func spectralColumns(p schema.Payload, r int, withCorrected bool) ([]column, error) {
	var cols []column
	add := func(kind, prefix, avgKind string) error {
		reps, err := replicateColumns(p, kind, prefix, r)
		if err != nil {
			return err
		}
		cols = append(cols, reps...)
		if kind == schema.RawWhite && withCorrected {
			c, err := seriesColumn(p, schema.WhiteReference, "correctedWhite")
			if err != nil {
				return err
			}
			cols = append(cols, c)
		}
		avg, err := seriesColumn(p, avgKind, avgKind)
		if err != nil {
			return err
		}
		cols = append(cols, avg)
		return nil
	}

	for _, k := range []struct{ kind, prefix, avg string }{
		{schema.RawData, "rawData", schema.AvgData},
		{schema.RawWhite, "rawWhite", schema.AvgWhite},
		{schema.RawDark, "rawDark", schema.AvgDark},
	} {
		if err := add(k.kind, k.prefix, k.avg); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// Sample info headers per use case.
var (
	adulterationHeader = []string{
		"Food Type", "Food Subtype", "Adulteration Sample ID", "Other species", "Purity SMP",
		"Alcohol label", "Authentic", "Low value filler", "Nitrogen enhancer", "Diluted %",
		"Hazard 1 name", "Hazard 1 %", "Hazard 2 name", "Hazard 2 %",
	}
	spoilageHeader = []string{
		"Food Type", "Temperature", "Temperature Exposure Hours", "Microbiological SampleID",
		"Microbiological Unit", "Microbiological Value",
	}
	mycotoxinsHeader = []string{
		"Food Type", "Mycotoxins", "Granularity", "Aflatoxin Name", "Aflatoxin Unit", "Aflatoxin Value",
	}
)

// sampleInfoTable describes the sample. Unknown use cases get an empty sheet.
func sampleInfoTable(m schema.Measurement) Table {
	t := Table{Name: SampleInfoSheet}
	switch m.UseCase {
	case schema.FoodAdulteration:
		t.Header = adulterationHeader
		t.Rows = [][]any{{
			m.FoodType, m.FoodSubtype, m.AdulterationID, m.OtherSpecies, m.PuritySMP,
			m.AlcoholLabel, m.Authentic, m.LowValueFiller, m.NitrogenEnhancer, m.DilutedPct,
			m.HazardOneName, m.HazardOnePct, m.HazardTwoName, m.HazardTwoPct,
		}}
	case schema.FoodSpoilage:
		var temperature any
		if m.Temperature != nil {
			temperature = *m.Temperature
		}
		t.Header = spoilageHeader
		t.Rows = [][]any{{
			m.FoodType, temperature, m.TemperatureExposureHours, m.MicrobiologicalID,
			m.MicrobiologicalUnit, m.MicrobiologicalValue,
		}}
	case schema.MycotoxinsDetection:
		t.Header = mycotoxinsHeader
		t.Rows = [][]any{{
			m.FoodType, m.Mycotoxins, m.Granularity, m.AflatoxinName, m.AflatoxinUnit, m.AflatoxinValue,
		}}
	}
	return t
}

// Tables returns the four sheets of a measurement workbook.
func Tables(m schema.Measurement, reference *schema.Measurement, r int) ([]Table, error) {
	channels, err := channelTables(m, reference, r)
	if err != nil {
		return nil, fmt.Errorf("measurement %d: %w", m.SampleID, err)
	}
	return append([]Table{sampleInfoTable(m)}, channels...), nil
}
