package core

import (
	"context"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/parquet"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.uber.org/zap"
)

// ExportSeries writes every spectral point of the matching measurements to a
// Parquet file and returns the number of rows written.
func (s *Service) ExportSeries(ctx context.Context, filter schema.MeasurementFilter, path string) (int, error) {
	ms, err := s.store.ListMeasurements(ctx, filter)
	if err != nil {
		return 0, err
	}
	rows, err := parquet.ConvertMeasurements(ms)
	if err != nil {
		return 0, err
	}
	if err := parquet.WriteSeriesParquet(rows, path); err != nil {
		return 0, fmt.Errorf("failed to export series: %w", err)
	}
	s.logger.Info("Series exported", zap.Int("measurements", len(ms)), zap.Int("rows", len(rows)), zap.String("path", path))
	return len(rows), nil
}
