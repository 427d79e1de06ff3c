package schema

import (
	"maps"
	"time"
)

// BucketTotalKey is the key holding the sum of a use-case bucket.
const BucketTotalKey = "total"

// UserCounts summarizes platform accounts.
type UserCounts struct {
	Total  int64 `json:"total"`
	Expert int64 `json:"expert"`
	Basic  int64 `json:"basic"`
}

// PlatformCounts summarizes registered hardware.
type PlatformCounts struct {
	Mobile        int64 `json:"mobile"`
	PhasmaDevices int64 `json:"phasma_devices"`
}

// Bucket maps a food type to its document count. The "total" key holds the sum.
type Bucket map[string]int64

// Clone returns a copy of the bucket.
func (b Bucket) Clone() Bucket {
	if b == nil {
		return Bucket{}
	}
	return maps.Clone(b)
}

// CollectionStats holds the counts of one secondary-store collection.
type CollectionStats struct {
	Total    int64             `json:"total"`
	UseCases map[string]Bucket `json:"use_cases"`
}

// Clone returns a deep copy.
func (c CollectionStats) Clone() CollectionStats {
	out := CollectionStats{Total: c.Total, UseCases: make(map[string]Bucket, len(c.UseCases))}
	for k, v := range c.UseCases {
		out.UseCases[k] = v.Clone()
	}
	return out
}

// DocumentStats holds per-collection counts of the secondary store.
type DocumentStats struct {
	Measurements map[string]CollectionStats `json:"measurements"`
}

// UseCaseCount is one use case in the primary store with its food-type split.
type UseCaseCount struct {
	UseCase   string           `json:"use_case"`
	Total     int64            `json:"total"`
	FoodTypes map[string]int64 `json:"food_types"`
}

// MeasurementCounts summarizes primary-store measurements.
type MeasurementCounts struct {
	Total    int64                   `json:"total"`
	UseCases map[string]UseCaseCount `json:"use_cases"`
}

// ResultCounts summarizes stored classification results.
type ResultCounts struct {
	Total int64 `json:"total"`
}

// RelationalStats holds the counts of the primary store.
type RelationalStats struct {
	Measurements MeasurementCounts `json:"measurements"`
	Results      ResultCounts      `json:"results"`
}

// PlatformStatistic is the singleton snapshot of platform-wide counts.
type PlatformStatistic struct {
	ID          int64           `json:"id"`
	Users       UserCounts      `json:"users"`
	Platform    PlatformCounts  `json:"platform"`
	Mongo       DocumentStats   `json:"mongo"`
	Postgres    RelationalStats `json:"postgres"`
	DateCreated time.Time       `json:"date_created"`
}
