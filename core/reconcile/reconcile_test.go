package reconcile

import (
	"testing"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawCounts() map[string]schema.CollectionStats {
	return map[string]schema.CollectionStats{
		"AltSplitSamples": {Total: 4, UseCases: map[string]schema.Bucket{
			"Mycotoxins detection": {"Maize": 4, "total": 4},
		}},
		"AlcoholicBeverages": {Total: 3, UseCases: map[string]schema.Bucket{}},
		"EdibleOils":         {Total: 5, UseCases: map[string]schema.Bucket{}},
		"SkimmedMilkPowder":  {Total: 2, UseCases: map[string]schema.Bucket{}},
		AltJsonSamples: {Total: 10, UseCases: map[string]schema.Bucket{
			"UseCase1": {"Maize": 2, "total": 2},
			"UseCase2": {"Minced pork": 8, "total": 8},
		}},
		"UseCaseOne": {Total: 6, UseCases: map[string]schema.Bucket{
			schema.MycotoxinsDetection: {"Maize": 5, "Wheat": 1, "total": 6},
		}},
		"UseCaseTwo": {Total: 1, UseCases: map[string]schema.Bucket{
			schema.FoodSpoilage: {"Fish": 1, "total": 1},
		}},
	}
}

func TestReconcileComposite(t *testing.T) {
	out := CurrentSchema.Reconcile(rawCounts())

	assert.NotContains(t, out, "EdibleOils")
	assert.NotContains(t, out, "SkimmedMilkPowder")
	assert.NotContains(t, out, "AlcoholicBeverages")

	uc3, ok := out[UseCaseThree]
	require.True(t, ok)
	assert.Equal(t, int64(10), uc3.Total)
	assert.Equal(t, schema.Bucket{
		"Edible Oils":         5,
		"Skimmed milk powder": 2,
		"Alcoholic beverages": 3,
		"total":               10,
	}, uc3.UseCases[schema.FoodAdulteration])

	// Standalone legacy collections stay in the view.
	assert.Contains(t, out, "UseCaseOne")
	assert.Contains(t, out, "UseCaseTwo")
	assert.Contains(t, out, "AltSplitSamples")
}

func TestReconcileConsolidatedTotals(t *testing.T) {
	out := CurrentSchema.Reconcile(rawCounts())

	// 10 own + 6 UseCaseOne + 1 UseCaseTwo + 10 composite UseCaseThree.
	assert.Equal(t, int64(27), out[AltJsonSamples].Total)
}

func TestReconcileMerges(t *testing.T) {
	out := CurrentSchema.Reconcile(rawCounts())
	alt := out[AltJsonSamples]

	assert.Equal(t, schema.Bucket{"Maize": 7, "Wheat": 1, "total": 8}, alt.UseCases["UseCase1"])
	assert.Equal(t, schema.Bucket{"Minced pork": 8, "Fish": 1, "total": 9}, alt.UseCases["UseCase2"])
	assert.Equal(t, schema.Bucket{
		"Edible Oils":         5,
		"Skimmed milk powder": 2,
		"Alcoholic beverages": 3,
		"total":               10,
	}, alt.UseCases["UseCase3"])
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	raw := rawCounts()
	_ = CurrentSchema.Reconcile(raw)

	assert.Contains(t, raw, "EdibleOils")
	assert.Equal(t, int64(10), raw[AltJsonSamples].Total)
	assert.Equal(t, schema.Bucket{"Maize": 2, "total": 2}, raw[AltJsonSamples].UseCases["UseCase1"])
}

func TestReconcileMissingCollections(t *testing.T) {
	out := CurrentSchema.Reconcile(map[string]schema.CollectionStats{})

	require.Contains(t, out, AltJsonSamples)
	assert.Equal(t, int64(0), out[AltJsonSamples].Total)
	assert.Empty(t, out[AltJsonSamples].UseCases["UseCase1"])
	assert.Equal(t, schema.Bucket{
		"Edible Oils":         0,
		"Skimmed milk powder": 0,
		"Alcoholic beverages": 0,
		"total":               0,
	}, out[UseCaseThree].UseCases[schema.FoodAdulteration])
	// The merged composite bucket drops its zero counts.
	assert.Empty(t, out[AltJsonSamples].UseCases["UseCase3"])
}

func TestAddBuckets(t *testing.T) {
	tests := []struct {
		name     string
		a, b     schema.Bucket
		expected schema.Bucket
	}{
		{name: "both nil", expected: schema.Bucket{}},
		{name: "disjoint", a: schema.Bucket{"x": 1}, b: schema.Bucket{"y": 2}, expected: schema.Bucket{"x": 1, "y": 2}},
		{name: "shared keys add", a: schema.Bucket{"x": 1, "total": 1}, b: schema.Bucket{"x": 4, "total": 4}, expected: schema.Bucket{"x": 5, "total": 5}},
		{name: "non-positive dropped", a: schema.Bucket{"x": 0, "y": -2}, b: schema.Bucket{"y": 1}, expected: schema.Bucket{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddBuckets(tt.a, tt.b))
			assert.Equal(t, tt.expected, AddBuckets(tt.b, tt.a), "commutative")
		})
	}
}
