package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// PrintResult outputs the classification result of one sample.
func PrintResult(r schema.Result, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, r)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteResultCSV(w, r)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteResultText(w, r, cfg)
		}, "Wrote text")
	}
}

// WriteResultText renders one row per sensor, in result order.
func WriteResultText(w io.Writer, r schema.Result, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Sample %d classified at %s\n", r.SampleID, r.DateCreated.Format(time.RFC3339)); err != nil {
		return err
	}
	records := make([][]string, len(schema.AllSensors))
	for i, s := range schema.AllSensors {
		records[i] = []string{string(s), contract.GetColorOutcome(outcome(r, s), cfg.UseColors)}
	}
	return renderTable(w, []string{"Sensor", "Outcome"}, records)
}

// WriteResultCSV writes sample_id,sensor,outcome records.
func WriteResultCSV(w io.Writer, r schema.Result) error {
	return writeCSVWithHeader(w, []string{"sample_id", "sensor", "outcome"}, func(cw *csv.Writer) error {
		id := strconv.FormatInt(r.SampleID, 10)
		records := make([][]string, len(schema.AllSensors))
		for i, s := range schema.AllSensors {
			records[i] = []string{id, string(s), outcome(r, s)}
		}
		return writeRecords(cw, records)
	})
}

func outcome(r schema.Result, s schema.Sensor) string {
	if v, ok := r.Data[s]; ok && v != "" {
		return v
	}
	return schema.NotAvailable
}

// PrintStoreStatus outputs the health of the primary store.
func PrintStoreStatus(s schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, s)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteStoreStatusText(w, s)
	}, "Wrote text")
}

// WriteStoreStatusText renders the store status as a short report.
func WriteStoreStatusText(w io.Writer, s schema.StoreStatus) error {
	state := "disconnected"
	if s.Connected {
		state = "connected"
	}
	if _, err := fmt.Fprintf(w, "Backend: %s (%s)\n", s.Backend, state); err != nil {
		return err
	}
	records := make([][]string, 0, len(s.TableSizes))
	for _, t := range sortedKeys(s.TableSizes) {
		records = append(records, []string{t, strconv.FormatInt(s.TableSizes[t], 10)})
	}
	if err := renderTable(w, []string{"Table", "Rows"}, records); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Last measurement: %s\n", formatOptionalTime(s.LastMeasurement)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Last statistic: %s\n", formatOptionalTime(s.LastStatistic))
	return err
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}
