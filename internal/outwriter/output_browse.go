package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// PrintPage outputs one browse page in the configured format.
func PrintPage(p schema.Page, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, p)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteDocumentsCSV(w, p.Data)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WritePageText(w, p, cfg)
		}, "Wrote text")
	}
}

// WritePageText renders the documents as a table followed by the navigation envelope.
func WritePageText(w io.Writer, p schema.Page, cfg *contract.Config) error {
	columns := documentColumns(p.Data)
	width := GetMaxCellWidth(cfg, len(columns))

	records := make([][]string, 0, len(p.Data))
	for _, doc := range p.Data {
		row := documentRow(doc, columns)
		for i := range row {
			row[i] = truncate(row[i], width)
		}
		records = append(records, row)
	}
	if len(columns) > 0 {
		if err := renderTable(w, columns, records); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d documents (%d pages)\n", p.Count, p.Total, p.NumberOfPages); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Next: %s, previous: %s\n", formatLink(p.Next), formatLink(p.Previous))
	return err
}

func formatLink(l schema.PageLink) string {
	if l.IsZero() {
		return "none"
	}
	return fmt.Sprintf("page %d (size %d)", l.PageNum, l.PageSize)
}

// documentColumns returns the union of document keys, "id" first and the rest sorted.
func documentColumns(docs []schema.Document) []string {
	seen := map[string]struct{}{}
	for _, d := range docs {
		for k := range d {
			seen[k] = struct{}{}
		}
	}
	keys := sortedKeys(seen)
	if i := slices.Index(keys, "id"); i > 0 {
		keys = append([]string{"id"}, slices.Delete(keys, i, i+1)...)
	}
	return keys
}

// documentRow renders the values of doc in column order. Nested values are JSON encoded.
func documentRow(doc schema.Document, columns []string) []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = formatValue(doc[c])
	}
	return row
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// PrintNamedCounts outputs database or collection names with their document counts.
func PrintNamedCounts(title string, items []schema.NamedCount, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, items)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteNamedCountsCSV(w, items)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteNamedCountsText(w, title, items)
		}, "Wrote text")
	}
}

// WriteNamedCountsText renders names and counts as a two-column table.
func WriteNamedCountsText(w io.Writer, title string, items []schema.NamedCount) error {
	records := make([][]string, len(items))
	var total int64
	for i, it := range items {
		records[i] = []string{it.Name, strconv.FormatInt(it.Count, 10)}
		total += it.Count
	}
	if err := renderTable(w, []string{title, "Documents"}, records); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d %s, %d documents\n", len(items), title, total)
	return err
}
