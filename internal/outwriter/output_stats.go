package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintStatistic outputs a platform statistic snapshot in the configured format.
func PrintStatistic(s schema.PlatformStatistic, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, s)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteStatisticCSV(w, s)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteStatisticText(w, s, cfg)
		}, "Wrote text")
	}
}

// WriteStatisticText renders the snapshot as a summary plus two tables.
func WriteStatisticText(w io.Writer, s schema.PlatformStatistic, cfg *contract.Config) error {
	title := func(t string) string {
		if cfg.UseColors {
			return contract.TitleColor.Sprint(t)
		}
		return t
	}

	if _, err := fmt.Fprintf(w, "%s (snapshot %d, %s)\n", title("📊 Platform statistics"), s.ID, s.DateCreated.Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Users: %d (expert %d, basic %d)\n", s.Users.Total, s.Users.Expert, s.Users.Basic); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Devices: %d phasma, %d mobile\n\n", s.Platform.PhasmaDevices, s.Platform.Mobile); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", title("Document store")); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Collection", "Use case", "Food type", "Count"}, documentRecords(s.Mongo)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", title("Relational store")); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Use case", "Food type", "Count"}, relationalRecords(s.Postgres.Measurements)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Measurements: %d, results: %d\n", s.Postgres.Measurements.Total, s.Postgres.Results.Total)
	return err
}

// renderTable draws a right-aligned table of records.
func renderTable(w io.Writer, header []string, records [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(records); err != nil {
		return err
	}
	return table.Render()
}

// documentRecords flattens the secondary-store counts into rows.
// The collection total is listed under the "total" use case.
func documentRecords(stats schema.DocumentStats) [][]string {
	var records [][]string
	for _, coll := range sortedKeys(stats.Measurements) {
		c := stats.Measurements[coll]
		for _, uc := range sortedKeys(c.UseCases) {
			bucket := c.UseCases[uc]
			for _, ft := range sortedKeys(bucket) {
				records = append(records, []string{coll, uc, ft, strconv.FormatInt(bucket[ft], 10)})
			}
		}
		records = append(records, []string{coll, schema.BucketTotalKey, "", strconv.FormatInt(c.Total, 10)})
	}
	return records
}

// relationalRecords flattens the primary-store measurement counts into rows.
func relationalRecords(counts schema.MeasurementCounts) [][]string {
	var records [][]string
	for _, uc := range sortedKeys(counts.UseCases) {
		u := counts.UseCases[uc]
		for _, ft := range sortedKeys(u.FoodTypes) {
			records = append(records, []string{uc, ft, strconv.FormatInt(u.FoodTypes[ft], 10)})
		}
		records = append(records, []string{uc, schema.BucketTotalKey, strconv.FormatInt(u.Total, 10)})
	}
	return records
}
