// Package core orchestrates ingestion, classification, export, replication,
// statistics and browsing over the primary and secondary stores.
package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core/agg"
	"github.com/VizLoreLabs/phasmaFoodPlatform/core/projection"
	"github.com/VizLoreLabs/phasmaFoodPlatform/core/reconcile"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/docstore"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/sheet"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.uber.org/zap"
)

// Deps are the collaborators of a Service. Store and Jobs are required.
type Deps struct {
	Store    contract.MeasurementStore
	Docs     contract.DocumentStore
	Jobs     contract.JobRunner
	Notifier contract.Notifier
	Model    contract.Model
	Logger   *zap.Logger
}

// Service runs the platform operations.
type Service struct {
	cfg      *contract.Config
	store    contract.MeasurementStore
	docs     contract.DocumentStore
	jobs     contract.JobRunner
	notifier contract.Notifier
	model    contract.Model
	logger   *zap.Logger

	aggregator *agg.Aggregator
	projector  *projection.Projector
	translator *docstore.Translator
	exporter   *sheet.Exporter
	taxonomy   reconcile.Schema

	// exports serializes bundle work per requester key
	exports sync.Map
	now     func() time.Time
}

// NewService wires a Service from a validated config.
func NewService(cfg *contract.Config, deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("measurement store required")
	}
	if deps.Jobs == nil {
		return nil, fmt.Errorf("job runner required")
	}
	aggregator, err := agg.NewAggregator(cfg.Replicates)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:        cfg,
		store:      deps.Store,
		docs:       deps.Docs,
		jobs:       deps.Jobs,
		notifier:   deps.Notifier,
		model:      deps.Model,
		logger:     deps.Logger,
		aggregator: aggregator,
		projector:  projection.NewProjector(cfg.ReferenceUseCase),
		exporter:   sheet.NewExporter(cfg.ExportDir, cfg.Replicates),
		taxonomy:   reconcile.CurrentSchema,
		now:        time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.model == nil {
		s.model = NoModel{}
	}
	if deps.Docs != nil {
		s.translator = docstore.NewTranslator(deps.Docs)
	}
	return s, nil
}

// requireDocs fails operations that need the secondary store when none is wired.
func (s *Service) requireDocs() error {
	if s.docs == nil {
		return fmt.Errorf("document store not configured")
	}
	return nil
}

// exportLock returns the mutex registered under key.
func (s *Service) exportLock(key string) *sync.Mutex {
	mu, _ := s.exports.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// bundleLock returns the mutex guarding the archive of a requester. Keys that
// differ only by dots map to one archive name, so they share a lock too.
func (s *Service) bundleLock(req schema.Requester) *sync.Mutex {
	return s.exportLock(schema.BundleName(req.Key()))
}
