package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// WriteDocumentsCSV writes one record per document over the union of their keys.
func WriteDocumentsCSV(w io.Writer, docs []schema.Document) error {
	columns := documentColumns(docs)
	return writeCSVWithHeader(w, columns, func(cw *csv.Writer) error {
		records := make([][]string, len(docs))
		for i, d := range docs {
			records[i] = documentRow(d, columns)
		}
		return writeRecords(cw, records)
	})
}

// WriteNamedCountsCSV writes name,count records.
func WriteNamedCountsCSV(w io.Writer, items []schema.NamedCount) error {
	return writeCSVWithHeader(w, []string{"name", "count"}, func(cw *csv.Writer) error {
		records := make([][]string, len(items))
		for i, it := range items {
			records[i] = []string{it.Name, strconv.FormatInt(it.Count, 10)}
		}
		return writeRecords(cw, records)
	})
}
