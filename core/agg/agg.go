// Package agg has aggregation logic for spectral replicate data.
package agg

import (
	"fmt"
	"slices"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// Aggregator computes per-wave medians over at most Replicates replicate series.
type Aggregator struct {
	Replicates int
}

// NewAggregator returns an Aggregator bounded to r replicates.
func NewAggregator(r int) (*Aggregator, error) {
	if r < 1 {
		return nil, fmt.Errorf("replicate count must be positive, got %d", r)
	}
	return &Aggregator{Replicates: r}, nil
}

// ComputeAverage returns a copy of the payload enriched with avgData, avgDark
// and avgWhite for every replicate kind that has data. The input is left untouched.
func (a *Aggregator) ComputeAverage(payload schema.Payload) (schema.Payload, error) {
	out := payload.Clone()
	for _, kind := range schema.ReplicateKinds {
		replicates, err := payload.Replicates(kind)
		if err != nil {
			return nil, err
		}
		if len(replicates) == 0 {
			continue
		}
		if len(replicates) > a.Replicates {
			replicates = replicates[:a.Replicates]
		}
		series := MedianByWave(schema.Flatten(replicates))
		if out, err = out.WithSeries(schema.AverageKind(kind), series); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// waveGroup accumulates the numeric readings seen for one wave.
type waveGroup struct {
	wave   float64
	values []float64
}

// MedianByWave groups points by wave in first-seen order and reduces each
// group to its median. Non-numeric readings are skipped; a wave with no
// numeric reading keeps a null measurement.
func MedianByWave(points []schema.Point) []schema.Point {
	index := make(map[float64]int)
	var groups []*waveGroup
	for _, p := range points {
		i, ok := index[p.Wave]
		if !ok {
			i = len(groups)
			index[p.Wave] = i
			groups = append(groups, &waveGroup{wave: p.Wave})
		}
		if f, ok := p.Measurement.Float(); ok {
			groups[i].values = append(groups[i].values, f)
		}
	}

	out := make([]schema.Point, len(groups))
	for i, g := range groups {
		out[i] = schema.Point{Wave: g.wave, Measurement: schema.Null()}
		if m, ok := Median(g.values); ok {
			out[i].Measurement = schema.Number(m)
		}
	}
	return out
}

// Median returns the median of values; the mean of the middle pair for even counts.
func Median(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}
