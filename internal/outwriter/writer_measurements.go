package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// WriteMeasurementsCSV writes one record per measurement summary.
func WriteMeasurementsCSV(w io.Writer, ms []schema.MeasurementSummary) error {
	header := []string{"sample_id", "use_case", "food_type", "food_subtype", "use_case_sample_id",
		"owner", "mobile_id", "device_id", "laboratory", "date_created"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, len(ms))
		for i, m := range ms {
			records[i] = []string{
				strconv.FormatInt(m.SampleID, 10),
				m.UseCase,
				m.FoodType,
				m.FoodSubtype,
				m.UseCaseSampleID,
				m.Owner,
				m.MobileID,
				m.DeviceID,
				m.Laboratory,
				m.DateCreated.Format(time.RFC3339Nano),
			}
		}
		return writeRecords(cw, records)
	})
}

// WriteMeasurementFiltersCSV writes use_case,food_type records, one per tree edge.
func WriteMeasurementFiltersCSV(w io.Writer, f schema.MeasurementFilters) error {
	return writeCSVWithHeader(w, []string{"use_case", "food_type"}, func(cw *csv.Writer) error {
		var records [][]string
		for _, uc := range f.UseCases {
			for _, ft := range f.Tree[uc] {
				records = append(records, []string{uc, ft})
			}
		}
		return writeRecords(cw, records)
	})
}
