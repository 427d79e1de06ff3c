package core

import (
	"cmp"
	"context"
	"slices"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// Measurements lists the stored measurements matching filter, newest first.
// Measurements created at the same instant are ordered by descending sample id.
func (s *Service) Measurements(ctx context.Context, filter schema.MeasurementFilter) ([]schema.MeasurementSummary, error) {
	ms, err := s.store.ListMeasurements(ctx, filter)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(ms, func(a, b schema.Measurement) int {
		if c := b.DateCreated.Compare(a.DateCreated); c != 0 {
			return c
		}
		return cmp.Compare(b.SampleID, a.SampleID)
	})

	out := make([]schema.MeasurementSummary, len(ms))
	for i := range ms {
		out[i] = ms[i].Summary()
	}
	return out, nil
}

// MeasurementFilters returns the distinct use cases and food types of stored
// measurements, plus the food types recorded under each use case.
func (s *Service) MeasurementFilters(ctx context.Context) (schema.MeasurementFilters, error) {
	pairs, err := s.store.ListTaxonomy(ctx)
	if err != nil {
		return schema.MeasurementFilters{}, err
	}
	return BuildMeasurementFilters(pairs), nil
}

// BuildMeasurementFilters folds taxonomy pairs into sorted filter lists.
func BuildMeasurementFilters(pairs []schema.TaxonomyPair) schema.MeasurementFilters {
	out := schema.MeasurementFilters{
		UseCases:  []string{},
		FoodTypes: []string{},
		Tree:      map[string][]string{},
	}
	for _, p := range pairs {
		if _, ok := out.Tree[p.UseCase]; !ok {
			out.UseCases = append(out.UseCases, p.UseCase)
			out.Tree[p.UseCase] = []string{}
		}
		if !slices.Contains(out.Tree[p.UseCase], p.FoodType) {
			out.Tree[p.UseCase] = append(out.Tree[p.UseCase], p.FoodType)
		}
		if !slices.Contains(out.FoodTypes, p.FoodType) {
			out.FoodTypes = append(out.FoodTypes, p.FoodType)
		}
	}
	slices.Sort(out.UseCases)
	slices.Sort(out.FoodTypes)
	for _, fts := range out.Tree {
		slices.Sort(fts)
	}
	return out
}
