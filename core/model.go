package core

import (
	"context"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// NoModel is the classifier used when no trained model is deployed.
// Every prediction is schema.NotAvailable.
type NoModel struct{}

var _ contract.Model = NoModel{} // Compile-time check

// Predict returns schema.NotAvailable.
func (NoModel) Predict(context.Context, []float64) (string, error) {
	return schema.NotAvailable, nil
}

// FusionFeatures concatenates the preprocessed readings of VIS, FLUO and NIR,
// in that order. A non-numeric reading is a validation error.
func FusionFeatures(m schema.Measurement) ([]float64, error) {
	var features []float64
	for _, c := range []schema.Channel{schema.VIS, schema.FLUO, schema.NIR} {
		series, err := m.Channel(c).Series(schema.Preprocessed)
		if err != nil {
			return nil, err
		}
		for _, p := range series {
			f, ok := p.Measurement.Float()
			if !ok {
				return nil, fmt.Errorf("%w: %s preprocessed reading at wave %v is not numeric", schema.ErrValidation, c, p.Wave)
			}
			features = append(features, f)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no preprocessed readings", schema.ErrValidation)
	}
	return features, nil
}
