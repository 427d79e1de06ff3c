// Package algo has selection algorithms over stored measurements.
package algo

import (
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// FindPriorReference returns the most recent measurement labeled with
// referenceUseCase that was created strictly before beforeTime. Equal
// creation times resolve to the highest sample id. ok is false when no
// measurement qualifies.
func FindPriorReference(measurements []schema.Measurement, beforeTime time.Time, referenceUseCase string) (ref schema.Measurement, ok bool) {
	for _, m := range measurements {
		if m.UseCase != referenceUseCase || !m.DateCreated.Before(beforeTime) {
			continue
		}
		if !ok || m.DateCreated.After(ref.DateCreated) ||
			(m.DateCreated.Equal(ref.DateCreated) && m.SampleID > ref.SampleID) {
			ref, ok = m, true
		}
	}
	return ref, ok
}
