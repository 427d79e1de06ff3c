// Package projection flattens measurements into documents for the secondary store.
package projection

import (
	"encoding/json"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core/algo"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

// isoLayout matches the ISO-8601 rendering used by the device application.
const isoLayout = "2006-01-02T15:04:05.999999-07:00"

// seriesKeys maps single-series payload kinds to document keys.
var seriesKeys = []struct{ kind, key string }{
	{schema.AvgData, schema.DocAvgData},
	{schema.AvgDark, schema.DocAvgDark},
	{schema.AvgWhite, schema.DocAvgWhite},
	{schema.Preprocessed, schema.DocPreprocessed},
	{schema.DarkReference, schema.DocDarkReference},
	{schema.WhiteReference, schema.DocWhiteReference},
}

// replicateKeys maps replicate payload kinds to flattened document keys.
var replicateKeys = []struct{ kind, key string }{
	{schema.RawData, schema.DocData},
	{schema.RawDark, schema.DocDark},
	{schema.RawWhite, schema.DocWhite},
}

// Projector builds CrossStoreDocuments. ReferenceUseCase labels the
// measurements searched for the prior white reference.
type Projector struct {
	ReferenceUseCase string
}

// NewProjector returns a Projector for the given reference label.
func NewProjector(referenceUseCase string) *Projector {
	return &Projector{ReferenceUseCase: referenceUseCase}
}

// Project flattens m. all is searched for the most recent reference created before m.
func (p *Projector) Project(m schema.Measurement, all []schema.Measurement) (schema.CrossStoreDocument, error) {
	doc := schema.CrossStoreDocument{
		SampleID:             m.SampleID,
		Laboratory:           m.Laboratory,
		FoodType:             m.FoodType,
		UseCase:              m.UseCase,
		Granularity:          m.Granularity,
		Mycotoxins:           m.Mycotoxins,
		Temperature:          m.Temperature,
		TempExposureHours:    m.TemperatureExposureHours,
		MicrobioSampleID:     m.MicrobiologicalID,
		MicrobiologicalUnit:  m.MicrobiologicalUnit,
		MicrobiologicalValue: m.MicrobiologicalValue,
		OtherSpecies:         m.OtherSpecies,
		FoodSubtype:          m.FoodSubtype,
		AdulterationSampleID: m.AdulterationID,
		AlcoholLabel:         m.AlcoholLabel,
		Authentic:            m.Authentic,
		PuritySMP:            m.PuritySMP,
		LowValueFiller:       m.LowValueFiller,
		NitrogenEnhancer:     m.NitrogenEnhancer,
		HazardOneName:        m.HazardOneName,
		HazardOnePct:         m.HazardOnePct,
		HazardTwoName:        m.HazardTwoName,
		HazardTwoPct:         m.HazardTwoPct,
		DilutedPct:           m.DilutedPct,
		Package:              m.Package,
		Adul:                 m.Adulterated,
		WhiteReferenceTime:   m.WhiteReferenceTime,
		Aflatoxin: schema.Aflatoxin{
			Name:  m.AflatoxinName,
			Value: m.AflatoxinValue,
			Unit:  m.AflatoxinUnit,
		},
	}
	if !m.DateCreated.IsZero() {
		doc.DateTime = m.DateCreated.Format(isoLayout)
	}

	if len(m.Configuration) > 0 {
		var cfg any
		if err := json.Unmarshal(m.Configuration, &cfg); err != nil {
			return doc, fmt.Errorf("%w: configuration of sample %d: %v", schema.ErrValidation, m.SampleID, err)
		}
		doc.Configuration = cfg
	}

	var err error
	if doc.VIS, err = projectChannel(schema.VIS, m.VIS); err != nil {
		return doc, err
	}
	if doc.NIR, err = projectChannel(schema.NIR, m.NIR); err != nil {
		return doc, err
	}
	if doc.FLUO, err = projectChannel(schema.FLUO, m.FLUO); err != nil {
		return doc, err
	}

	if ref, ok := algo.FindPriorReference(all, m.DateCreated, p.ReferenceUseCase); ok {
		dark, err := ref.VIS.Replicates(schema.RawDark)
		if err != nil {
			return doc, fmt.Errorf("reference %d: %w", ref.SampleID, err)
		}
		if dark != nil {
			doc.VIS[schema.DocDarkForWhite] = readings(schema.Flatten(dark))
		}
	}
	return doc, nil
}

// projectChannel extracts the wave axis and measurement-only arrays of one channel.
func projectChannel(c schema.Channel, p schema.Payload) (schema.ChannelDocument, error) {
	doc := schema.ChannelDocument{}
	if p.Empty() {
		return doc, nil
	}

	for _, sk := range seriesKeys {
		series, err := p.Series(sk.kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		if series != nil {
			doc[sk.key] = readings(series)
		}
	}

	var firstRaw []schema.Point
	for _, rk := range replicateKeys {
		replicates, err := p.Replicates(rk.kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		if replicates == nil {
			continue
		}
		doc[rk.key] = readings(schema.Flatten(replicates))
		if rk.kind == schema.RawData && len(replicates) > 0 {
			firstRaw = replicates[0]
		}
	}

	preprocessed, _ := p.Series(schema.Preprocessed)
	switch {
	case preprocessed != nil:
		doc[schema.DocWave] = schema.Waves(preprocessed)
	case c != schema.NIR && firstRaw != nil:
		doc[schema.DocWave] = schema.Waves(firstRaw)
	}
	return doc, nil
}

// readings returns the measurement-only array of a series.
func readings(series []schema.Point) []any {
	out := make([]any, len(series))
	for i, p := range series {
		out[i] = p.Measurement.Interface()
	}
	return out
}
