package core

import (
	"context"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
)

func (s *Service) target(database, collection string) (string, string) {
	if database == "" {
		database = s.cfg.MongoDatabase
	}
	if collection == "" {
		collection = s.cfg.MongoCollection
	}
	return database, collection
}

// Rows returns one projected page of replicated documents. Empty database or
// collection names fall back to the configured defaults.
func (s *Service) Rows(ctx context.Context, database, collection string, filters map[string]any, page, pageSize int) (schema.Page, error) {
	if err := s.requireDocs(); err != nil {
		return schema.Page{}, err
	}
	database, collection = s.target(database, collection)
	return s.translator.FindRows(ctx, database, collection, filters, true, page, pageSize)
}

// Row returns the first projected document matching filters.
func (s *Service) Row(ctx context.Context, database, collection string, filters map[string]any) (schema.Document, error) {
	if err := s.requireDocs(); err != nil {
		return nil, err
	}
	database, collection = s.target(database, collection)
	return s.translator.FindRow(ctx, database, collection, filters, true)
}

// Databases lists the databases of the secondary store with document counts.
func (s *Service) Databases(ctx context.Context) ([]schema.NamedCount, error) {
	if err := s.requireDocs(); err != nil {
		return nil, err
	}
	return s.translator.Databases(ctx)
}

// Collections lists the collections of a database with document counts.
func (s *Service) Collections(ctx context.Context, database string) ([]schema.NamedCount, error) {
	if err := s.requireDocs(); err != nil {
		return nil, err
	}
	database, _ = s.target(database, "")
	return s.translator.Collections(ctx, database)
}
