package core

import (
	"context"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.uber.org/zap"
)

// Replicate checks that the selected measurements belong to the taxonomy of
// the target collection, then copies their projections in a background job.
// Nothing is written when validation fails. It returns the job id.
func (s *Service) Replicate(ctx context.Context, req schema.ReplicationRequest) (string, error) {
	if err := s.requireDocs(); err != nil {
		return "", err
	}
	key, ok := schema.CollectionKey(req.Collection)
	if !ok {
		return "", fmt.Errorf("%w: collection %q must have at least two '_' separated parts", schema.ErrValidation, req.Collection)
	}
	if len(req.SampleIDs) == 0 {
		return "", fmt.Errorf("%w: no measurements selected", schema.ErrValidation)
	}
	database := req.Database
	if database == "" {
		database = s.cfg.MongoDatabase
	}

	ms, err := s.store.ListMeasurements(ctx, schema.MeasurementFilter{SampleIDs: req.SampleIDs})
	if err != nil {
		return "", err
	}
	if len(ms) == 0 {
		return "", fmt.Errorf("measurements %v: %w", req.SampleIDs, schema.ErrNotFound)
	}

	pairs := map[[2]string]struct{}{}
	for _, m := range ms {
		pairs[[2]string{m.UseCase, m.FoodType}] = struct{}{}
	}
	if len(pairs) > 1 {
		return "", fmt.Errorf("%w: selected measurements span %d use case and food type pairs, one per push is allowed", schema.ErrValidation, len(pairs))
	}
	if got := schema.TaxonomyKey(ms[0].UseCase, ms[0].FoodType); got != key {
		return "", fmt.Errorf("%w: measurements of %q / %q do not belong in collection %q", schema.ErrValidation, ms[0].UseCase, ms[0].FoodType, req.Collection)
	}

	refs, err := s.store.ListMeasurements(ctx, schema.MeasurementFilter{UseCase: s.cfg.ReferenceUseCase})
	if err != nil {
		return "", err
	}

	id := s.jobs.Submit("replicate", func(ctx context.Context) error {
		for _, m := range ms {
			doc, err := s.projector.Project(m, refs)
			if err != nil {
				return err
			}
			if err := s.docs.InsertOne(ctx, database, req.Collection, doc); err != nil {
				return fmt.Errorf("failed to replicate sample %d: %w", m.SampleID, err)
			}
		}
		s.logger.Info("Measurements replicated",
			zap.Int("count", len(ms)), zap.String("database", database), zap.String("collection", req.Collection))
		return nil
	})
	return id, nil
}
