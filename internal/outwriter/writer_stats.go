package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// WriteStatisticCSV writes the snapshot as section,collection,use_case,food_type,count records.
func WriteStatisticCSV(w io.Writer, s schema.PlatformStatistic) error {
	header := []string{"section", "collection", "use_case", "food_type", "count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		itoa := func(n int64) string { return strconv.FormatInt(n, 10) }
		records := [][]string{
			{"users", "", "", "total", itoa(s.Users.Total)},
			{"users", "", "", string(schema.ExpertUser), itoa(s.Users.Expert)},
			{"users", "", "", string(schema.BasicUser), itoa(s.Users.Basic)},
			{"platform", "", "", "mobile", itoa(s.Platform.Mobile)},
			{"platform", "", "", "phasma_devices", itoa(s.Platform.PhasmaDevices)},
		}
		for _, r := range documentRecords(s.Mongo) {
			records = append(records, append([]string{"mongo"}, r...))
		}
		for _, r := range relationalRecords(s.Postgres.Measurements) {
			records = append(records, append([]string{"postgres", ""}, r...))
		}
		records = append(records,
			[]string{"postgres", "", "measurements", "", itoa(s.Postgres.Measurements.Total)},
			[]string{"postgres", "", "results", "", itoa(s.Postgres.Results.Total)},
		)
		return writeRecords(cw, records)
	})
}
