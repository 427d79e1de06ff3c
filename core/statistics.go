package core

import (
	"context"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// StatisticBuilder gathers the counts of a platform statistic step by step.
// The first failing step stops the chain; Build reports its error.
type StatisticBuilder struct {
	ctx  context.Context
	s    *Service
	stat schema.PlatformStatistic
	err  error
}

// NewStatisticBuilder is the starting point for building a statistic.
func (s *Service) NewStatisticBuilder(ctx context.Context) *StatisticBuilder {
	return &StatisticBuilder{ctx: ctx, s: s}
}

// FetchUsers counts platform accounts.
func (b *StatisticBuilder) FetchUsers() *StatisticBuilder {
	if b.err != nil {
		return b
	}
	b.stat.Users, b.err = b.s.store.CountUsers(b.ctx)
	return b
}

// FetchPlatform counts registered hardware.
func (b *StatisticBuilder) FetchPlatform() *StatisticBuilder {
	if b.err != nil {
		return b
	}
	b.stat.Platform, b.err = b.s.store.CountPlatform(b.ctx)
	return b
}

// FetchDocuments counts each known collection of the secondary store and
// reconciles the legacy layouts into the consolidated view.
func (b *StatisticBuilder) FetchDocuments() *StatisticBuilder {
	if b.err != nil {
		return b
	}
	if b.err = b.s.requireDocs(); b.err != nil {
		return b
	}
	raw := make(map[string]schema.CollectionStats, len(b.s.taxonomy.Collections))
	for _, coll := range b.s.taxonomy.Collections {
		stats, err := b.s.collectionStats(b.ctx, coll)
		if err != nil {
			b.err = fmt.Errorf("collection %s: %w", coll, err)
			return b
		}
		raw[coll] = stats
	}
	b.stat.Mongo = schema.DocumentStats{Measurements: b.s.taxonomy.Reconcile(raw)}
	return b
}

// FetchRelational counts measurements and results of the primary store.
func (b *StatisticBuilder) FetchRelational() *StatisticBuilder {
	if b.err != nil {
		return b
	}
	if b.stat.Postgres.Measurements, b.err = b.s.store.CountMeasurements(b.ctx); b.err != nil {
		return b
	}
	b.stat.Postgres.Results.Total, b.err = b.s.store.CountResults(b.ctx)
	return b
}

// Build returns the gathered statistic stamped with the current time.
func (b *StatisticBuilder) Build() (schema.PlatformStatistic, error) {
	if b.err != nil {
		return schema.PlatformStatistic{}, b.err
	}
	b.stat.DateCreated = b.s.now()
	return b.stat, nil
}

// collectionStats counts the documents of one collection per (useCase, foodType) pair.
func (s *Service) collectionStats(ctx context.Context, collection string) (schema.CollectionStats, error) {
	database := s.cfg.MongoDatabase
	out := schema.CollectionStats{UseCases: map[string]schema.Bucket{}}

	total, err := s.docs.Count(ctx, database, collection, nil)
	if err != nil {
		return out, err
	}
	out.Total = total

	useCases, err := s.docs.Distinct(ctx, database, collection, "useCase", nil)
	if err != nil {
		return out, err
	}
	for _, uc := range useCases {
		foodTypes, err := s.docs.Distinct(ctx, database, collection, "foodType", bson.M{"useCase": uc})
		if err != nil {
			return out, err
		}
		bucket := schema.Bucket{}
		var sum int64
		for _, ft := range foodTypes {
			n, err := s.docs.Count(ctx, database, collection, bson.M{"useCase": uc, "foodType": ft})
			if err != nil {
				return out, err
			}
			bucket[label(ft)] = n
			sum += n
		}
		bucket[schema.BucketTotalKey] = sum
		out.UseCases[label(uc)] = bucket
	}
	return out, nil
}

func label(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ComputeStatistics gathers a fresh snapshot and stores it over the existing one.
func (s *Service) ComputeStatistics(ctx context.Context) (schema.PlatformStatistic, error) {
	stat, err := s.NewStatisticBuilder(ctx).
		FetchUsers().
		FetchPlatform().
		FetchDocuments().
		FetchRelational().
		Build()
	if err != nil {
		return stat, fmt.Errorf("failed to compute statistics: %w", err)
	}
	saved, err := s.store.UpsertStatistic(ctx, stat)
	if err != nil {
		return stat, fmt.Errorf("failed to save statistics: %w", err)
	}
	s.logger.Info("Statistics updated", zap.Int64("id", saved.ID), zap.Int64("measurements", saved.Postgres.Measurements.Total))
	return saved, nil
}

// Statistics returns the stored snapshot.
func (s *Service) Statistics(ctx context.Context) (schema.PlatformStatistic, error) {
	return s.store.LatestStatistic(ctx)
}

// StoreStatus reports the health of the primary store.
func (s *Service) StoreStatus(ctx context.Context) (schema.StoreStatus, error) {
	return s.store.GetStatus(ctx)
}
