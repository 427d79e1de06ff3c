package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// ingestedTotal counts stored measurements by use case
var ingestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "phasma_measurements_ingested_total",
	Help: "Total measurements stored by use case",
}, []string{"use_case"})

// Ingest validates, aggregates and stores a new measurement. When the
// operation asks for analysis, classification runs as a background job.
// A zero creation time is stamped with the current time.
func (s *Service) Ingest(ctx context.Context, m schema.Measurement, operation string) (schema.Measurement, error) {
	if m.SampleID <= 0 {
		return m, fmt.Errorf("%w: sample id must be positive", schema.ErrValidation)
	}
	if strings.TrimSpace(m.UseCase) == "" {
		return m, fmt.Errorf("%w: use case required", schema.ErrValidation)
	}
	if _, err := s.store.GetMeasurement(ctx, m.SampleID); err == nil {
		return m, fmt.Errorf("%w: measurement %d already exists", schema.ErrValidation, m.SampleID)
	} else if !errors.Is(err, schema.ErrNotFound) {
		return m, err
	}

	for _, c := range []schema.Channel{schema.VIS, schema.FLUO} {
		payload, err := s.aggregator.ComputeAverage(m.Channel(c))
		if err != nil {
			return m, fmt.Errorf("sample %d %s: %w", m.SampleID, c, err)
		}
		m.SetChannel(c, payload)
	}
	m.UseCaseSampleID = m.DeriveUseCaseSampleID()

	now := s.now()
	if m.DateCreated.IsZero() {
		m.DateCreated = now
	}
	m.DateUpdated = now

	if err := s.store.SaveMeasurement(ctx, m); err != nil {
		return m, fmt.Errorf("failed to save measurement %d: %w", m.SampleID, err)
	}
	ingestedTotal.WithLabelValues(m.UseCase).Inc()
	s.logger.Info("Measurement stored", zap.Int64("sample", m.SampleID), zap.String("use_case", m.UseCase))

	if schema.ShouldClassify(m.UseCase, operation) {
		stored := m
		s.jobs.Submit("classify", func(ctx context.Context) error {
			return s.Classify(ctx, stored)
		})
	}
	return m, nil
}

// Classify predicts the fused label of m, stores the result and notifies the
// mobile device that sent the measurement. Sensors without a prediction stay N/A.
func (s *Service) Classify(ctx context.Context, m schema.Measurement) error {
	result := schema.NewResult(m.SampleID)

	features, err := FusionFeatures(m)
	if err != nil {
		s.logger.Warn("Skipping fusion prediction", zap.Int64("sample", m.SampleID), zap.Error(err))
	} else {
		label, err := s.model.Predict(ctx, features)
		switch {
		case err != nil:
			s.logger.Warn("Prediction failed", zap.Int64("sample", m.SampleID), zap.Error(err))
		case label != "":
			result.Data[schema.SensorFusion] = label
		}
	}

	result.DateCreated = s.now()
	if err := s.store.SaveResult(ctx, result); err != nil {
		return fmt.Errorf("failed to save result %d: %w", m.SampleID, err)
	}

	if s.notifier == nil || m.MobileID == "" {
		s.logger.Debug("No mobile to notify", zap.Int64("sample", m.SampleID))
		return nil
	}
	body := map[string]any{"sampleID": m.SampleID}
	for _, sensor := range schema.AllSensors {
		body[string(sensor)] = result.Data[sensor]
	}
	return s.notifier.Notify(ctx, schema.Notification{
		To:      m.MobileID,
		Subject: "PhasmaFood notification for " + m.Owner,
		Body:    body,
	})
}

// Result returns the stored classification of a sample.
func (s *Service) Result(ctx context.Context, sampleID int64) (schema.Result, error) {
	return s.store.GetResult(ctx, sampleID)
}
