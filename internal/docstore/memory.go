package docstore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process document store. Filters support top-level
// equality and $in only, which covers every query this module issues.
type Memory struct {
	mu  sync.RWMutex
	dbs map[string]map[string][]bson.M
}

var _ contract.DocumentStore = &Memory{} // Compile-time check

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{dbs: make(map[string]map[string][]bson.M)}
}

// InsertOne stores a BSON copy of doc, assigning an ObjectID when missing.
func (s *Memory) InsertOne(_ context.Context, database, collection string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dbs[database] == nil {
		s.dbs[database] = make(map[string][]bson.M)
	}
	s.dbs[database][collection] = append(s.dbs[database][collection], m)
	return nil
}

func (s *Memory) matching(database, collection string, filter bson.M) []bson.M {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []bson.M
	for _, doc := range s.dbs[database][collection] {
		if matches(doc, filter) {
			out = append(out, doc)
		}
	}
	return out
}

// Find returns copies of the matching documents in insertion order.
func (s *Memory) Find(_ context.Context, database, collection string, filter, projection bson.M, skip, limit int64) ([]bson.M, error) {
	docs := s.matching(database, collection, filter)
	if skip > 0 {
		docs = docs[min(int(skip), len(docs)):]
	}
	if limit > 0 && int(limit) < len(docs) {
		docs = docs[:limit]
	}
	out := make([]bson.M, len(docs))
	for i, doc := range docs {
		out[i] = project(doc, projection)
	}
	return out, nil
}

// FindOne returns the first matching document or schema.ErrNotFound.
func (s *Memory) FindOne(ctx context.Context, database, collection string, filter, projection bson.M) (bson.M, error) {
	docs, _ := s.Find(ctx, database, collection, filter, projection, 0, 1)
	if len(docs) == 0 {
		return nil, fmt.Errorf("document in %s.%s: %w", database, collection, schema.ErrNotFound)
	}
	return docs[0], nil
}

// Count returns the number of matching documents.
func (s *Memory) Count(_ context.Context, database, collection string, filter bson.M) (int64, error) {
	return int64(len(s.matching(database, collection, filter))), nil
}

// Distinct returns the distinct values of field in first-seen order.
// Array values contribute their elements.
func (s *Memory) Distinct(_ context.Context, database, collection, field string, filter bson.M) ([]any, error) {
	var out []any
	add := func(v any) {
		for _, seen := range out {
			if valuesEqual(seen, v) {
				return
			}
		}
		out = append(out, v)
	}
	for _, doc := range s.matching(database, collection, filter) {
		v, ok := doc[field]
		if !ok {
			continue
		}
		if arr, ok := v.(primitive.A); ok {
			for _, e := range arr {
				add(e)
			}
			continue
		}
		add(v)
	}
	return out, nil
}

// ListDatabases returns the database names in sorted order.
func (s *Memory) ListDatabases(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.dbs)), nil
}

// ListCollections returns the collection names of a database in sorted order.
func (s *Memory) ListCollections(_ context.Context, database string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.dbs[database])), nil
}

// Close is a no-op.
func (s *Memory) Close(context.Context) error { return nil }

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got := doc[key]
		if op, ok := want.(bson.M); ok {
			if in, ok := op["$in"]; ok {
				if !containsValue(in, got) {
					return false
				}
				continue
			}
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func containsValue(list, v any) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := range rv.Len() {
		if valuesEqual(rv.Index(i).Interface(), v) {
			return true
		}
	}
	return false
}

// project keeps the included keys plus _id. An empty projection keeps everything.
func project(doc, projection bson.M) bson.M {
	if len(projection) == 0 {
		return maps.Clone(doc)
	}
	out := bson.M{"_id": doc["_id"]}
	for key, include := range projection {
		if v, ok := doc[key]; ok && truthy(include) {
			out[key] = v
		}
	}
	return out
}

func truthy(v any) bool {
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	b, ok := v.(bool)
	return ok && b
}

func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
