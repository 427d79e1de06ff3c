// Package outwriter renders statistics, browse pages, measurements and results as text, JSON or CSV.
package outwriter

import (
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStatistic prints a platform statistic snapshot.
func (ow *OutWriter) WriteStatistic(s schema.PlatformStatistic, cfg *contract.Config) error {
	return PrintStatistic(s, cfg)
}

// WritePage prints one browse page.
func (ow *OutWriter) WritePage(p schema.Page, cfg *contract.Config) error {
	return PrintPage(p, cfg)
}

// WriteDocument prints a single browsed document as a one-row page.
func (ow *OutWriter) WriteDocument(d schema.Document, cfg *contract.Config) error {
	return PrintPage(schema.Page{Data: []schema.Document{d}, Count: 1, Total: 1, NumberOfPages: 1}, cfg)
}

// WriteNamedCounts prints databases or collections with their sizes.
func (ow *OutWriter) WriteNamedCounts(title string, items []schema.NamedCount, cfg *contract.Config) error {
	return PrintNamedCounts(title, items, cfg)
}

// WriteResult prints a classification result.
func (ow *OutWriter) WriteResult(r schema.Result, cfg *contract.Config) error {
	return PrintResult(r, cfg)
}

// WriteStoreStatus prints the primary store status.
func (ow *OutWriter) WriteStoreStatus(s schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(s, cfg)
}

// WriteMeasurements prints a measurement listing.
func (ow *OutWriter) WriteMeasurements(ms []schema.MeasurementSummary, cfg *contract.Config) error {
	return PrintMeasurements(ms, cfg)
}

// WriteMeasurementFilters prints the filter values of the measurement listing.
func (ow *OutWriter) WriteMeasurementFilters(f schema.MeasurementFilters, cfg *contract.Config) error {
	return PrintMeasurementFilters(f, cfg)
}
