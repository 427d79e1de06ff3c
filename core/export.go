package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core/algo"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/sheet"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.uber.org/zap"
)

// Notification text of an export bundle.
const (
	ExportSubject = "Collection of PhasmaFOOD measurements"
	ExportBody    = "In the attached .zip archive you have Excel tables for all measurements which " +
		"you have selected for download on the Phasma Food web dashboard."
)

// exportItems loads the measurements and pairs each with its prior reference.
func (s *Service) exportItems(ctx context.Context, ids []int64) ([]sheet.Item, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no measurements selected", schema.ErrValidation)
	}
	ms, err := s.store.ListMeasurements(ctx, schema.MeasurementFilter{SampleIDs: ids})
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("measurements %v: %w", ids, schema.ErrNotFound)
	}
	refs, err := s.store.ListMeasurements(ctx, schema.MeasurementFilter{UseCase: s.cfg.ReferenceUseCase})
	if err != nil {
		return nil, err
	}

	items := make([]sheet.Item, len(ms))
	for i, m := range ms {
		items[i] = sheet.Item{Measurement: m}
		if ref, ok := algo.FindPriorReference(refs, m.DateCreated, s.cfg.ReferenceUseCase); ok {
			items[i].Reference = &ref
		}
	}
	return items, nil
}

// ensureBundle reuses the requester bundle when present and builds it otherwise.
func (s *Service) ensureBundle(ctx context.Context, req schema.Requester, ids []int64) (string, error) {
	if s.exporter.Materialized(req) {
		return s.exporter.BundlePath(req)
	}
	items, err := s.exportItems(ctx, ids)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(req, items)
}

// Download streams the requester's spreadsheet bundle to w, then dispatches a
// job that mails the bundle to the requester and removes it from disk.
// It returns the id of that job.
func (s *Service) Download(ctx context.Context, req schema.Requester, ids []int64, w io.Writer) (string, error) {
	if _, err := s.exporter.Dir(req); err != nil {
		return "", err
	}
	mu := s.bundleLock(req)
	mu.Lock()
	bundle, err := s.ensureBundle(ctx, req, ids)
	if err == nil {
		err = streamFile(bundle, w)
	}
	mu.Unlock()
	if err != nil {
		return "", err
	}

	id := s.jobs.Submit("export-notify", func(ctx context.Context) error {
		return s.deliverBundle(ctx, req, ids)
	})
	return id, nil
}

// deliverBundle rebuilds the bundle when a previous job cleaned it up,
// notifies the requester and removes the export files.
func (s *Service) deliverBundle(ctx context.Context, req schema.Requester, ids []int64) error {
	mu := s.bundleLock(req)
	mu.Lock()
	defer mu.Unlock()

	bundle, err := s.ensureBundle(ctx, req, ids)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		err = s.notifier.Notify(ctx, schema.Notification{
			To:          req.Email,
			Subject:     ExportSubject,
			Body:        map[string]any{"message": ExportBody},
			Attachments: []string{bundle},
		})
		if err != nil {
			return fmt.Errorf("failed to notify %s: %w", req.Email, err)
		}
	}
	if err := s.exporter.Cleanup(req); err != nil {
		return err
	}
	s.logger.Info("Export delivered", zap.String("requester", req.Email), zap.Int("measurements", len(ids)))
	return nil
}

func streamFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to stream %s: %w", path, err)
	}
	return nil
}
