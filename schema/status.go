package schema

import "time"

// StoreStatus represents the status of the primary store.
type StoreStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TableSizes      map[string]int64 `json:"table_sizes"`
	LastMeasurement time.Time        `json:"last_measurement"`
	LastStatistic   time.Time        `json:"last_statistic"`
}
