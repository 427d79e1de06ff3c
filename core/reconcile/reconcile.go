// Package reconcile merges per-collection document counts across the
// taxonomy revisions of the secondary store.
package reconcile

import (
	"maps"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// SourceLabel names a standalone collection and the key it takes inside a composite bucket.
type SourceLabel struct {
	Collection string
	Label      string
}

// CompositeRule folds whole standalone collections into one use case of a
// composite collection. The sources are removed afterwards.
type CompositeRule struct {
	Target  string
	UseCase string
	Sources []SourceLabel
}

// BucketRef addresses one use-case bucket of one collection.
type BucketRef struct {
	Collection string
	UseCase    string
}

// MergeRule adds a legacy bucket into a bucket of the consolidated
// collection. Counts are summed per food type; non-positive sums are dropped.
type MergeRule struct {
	Legacy  BucketRef
	Current BucketRef
}

// TotalRule sets the total of Target to its own total plus the totals of Adds.
type TotalRule struct {
	Target string
	Adds   []string
}

// Schema is one revision of the collection layout and the rules that map it
// onto the consolidated view.
type Schema struct {
	Version     int
	Collections []string
	Composites  []CompositeRule
	Totals      []TotalRule
	Merges      []MergeRule
}

// Consolidated collection names.
const (
	AltJsonSamples = "AltJsonSamples"
	UseCaseThree   = "UseCaseThree"
)

// CurrentSchema is the layout in production: three generations of
// collections, with adulteration data spread over per-food collections.
var CurrentSchema = Schema{
	Version: 2,
	Collections: []string{
		"AltSplitSamples", "AlcoholicBeverages", AltJsonSamples,
		"EdibleOils", "SkimmedMilkPowder", "UseCaseOne", "UseCaseTwo",
	},
	Composites: []CompositeRule{
		{
			Target:  UseCaseThree,
			UseCase: schema.FoodAdulteration,
			Sources: []SourceLabel{
				{Collection: "EdibleOils", Label: "Edible Oils"},
				{Collection: "SkimmedMilkPowder", Label: "Skimmed milk powder"},
				{Collection: "AlcoholicBeverages", Label: "Alcoholic beverages"},
			},
		},
	},
	Totals: []TotalRule{
		{Target: AltJsonSamples, Adds: []string{"UseCaseOne", "UseCaseTwo", UseCaseThree}},
	},
	Merges: []MergeRule{
		{Legacy: BucketRef{"UseCaseOne", schema.MycotoxinsDetection}, Current: BucketRef{AltJsonSamples, "UseCase1"}},
		{Legacy: BucketRef{"UseCaseTwo", schema.FoodSpoilage}, Current: BucketRef{AltJsonSamples, "UseCase2"}},
		{Legacy: BucketRef{UseCaseThree, schema.FoodAdulteration}, Current: BucketRef{AltJsonSamples, "UseCase3"}},
	},
}

// Reconcile returns a new per-collection view with every rule applied in
// order: composites, totals, merges. raw is not modified.
func (s Schema) Reconcile(raw map[string]schema.CollectionStats) map[string]schema.CollectionStats {
	out := make(map[string]schema.CollectionStats, len(raw))
	for k, v := range raw {
		out[k] = v.Clone()
	}

	for _, rule := range s.Composites {
		applyComposite(out, rule)
	}

	// Totals read the pre-merge values so a bucket is never counted twice.
	totals := make(map[string]int64, len(out))
	for k, v := range out {
		totals[k] = v.Total
	}
	for _, rule := range s.Totals {
		target := out[rule.Target]
		target.Total = totals[rule.Target]
		for _, add := range rule.Adds {
			target.Total += totals[add]
		}
		out[rule.Target] = ensureUseCases(target)
	}

	for _, rule := range s.Merges {
		legacy := out[rule.Legacy.Collection].UseCases[rule.Legacy.UseCase]
		target := ensureUseCases(out[rule.Current.Collection])
		target.UseCases[rule.Current.UseCase] = AddBuckets(legacy, target.UseCases[rule.Current.UseCase])
		out[rule.Current.Collection] = target
	}
	return out
}

func applyComposite(out map[string]schema.CollectionStats, rule CompositeRule) {
	bucket := schema.Bucket{}
	var total int64
	for _, src := range rule.Sources {
		n := out[src.Collection].Total
		bucket[src.Label] = n
		total += n
		delete(out, src.Collection)
	}
	bucket[schema.BucketTotalKey] = total
	out[rule.Target] = schema.CollectionStats{
		Total:    total,
		UseCases: map[string]schema.Bucket{rule.UseCase: bucket},
	}
}

func ensureUseCases(c schema.CollectionStats) schema.CollectionStats {
	if c.UseCases == nil {
		c.UseCases = map[string]schema.Bucket{}
	}
	return c
}

// AddBuckets sums two buckets key by key and keeps only positive results.
// Missing buckets count as empty.
func AddBuckets(a, b schema.Bucket) schema.Bucket {
	sum := make(schema.Bucket, len(a)+len(b))
	maps.Copy(sum, a)
	for k, v := range b {
		sum[k] += v
	}
	maps.DeleteFunc(sum, func(_ string, v int64) bool { return v <= 0 })
	return sum
}
