package docstore

import (
	"context"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// baseProjection lists the keys returned by projected browse queries.
var baseProjection = []string{
	"foodType", "sample", "rawDataRef", "replicate", "tempExposureHours",
	"mainCat", "customType2", "cat", "useCase", "date", "customType1",
	"adul", "time", "laboratory", "temperature", "id",
}

// rowsProjection is added to baseProjection by FindRows.
var rowsProjection = []string{"aflatoxin", "microbiologicalMeasurement"}

// Translator turns browse requests into document store queries.
type Translator struct {
	store contract.DocumentStore
}

// NewTranslator returns a Translator over the store.
func NewTranslator(store contract.DocumentStore) *Translator {
	return &Translator{store: store}
}

// BaseProjection returns the projection used by FindRow.
func BaseProjection() bson.M {
	p := bson.M{}
	for _, k := range baseProjection {
		p[k] = 1
	}
	return p
}

// NormalizeFilter copies filters, replacing a generic id (string or list)
// with an ObjectID predicate on _id. Malformed ids fail validation.
func NormalizeFilter(filters map[string]any) (bson.M, error) {
	out := bson.M{}
	for k, v := range filters {
		out[k] = v
	}
	raw, ok := out["id"]
	if !ok {
		return out, nil
	}
	delete(out, "id")

	switch id := raw.(type) {
	case nil:
	case string:
		if id == "" {
			break
		}
		oid, err := toObjectID(id)
		if err != nil {
			return nil, err
		}
		out["_id"] = oid
	case []string:
		ids, err := toObjectIDs(id)
		if err != nil {
			return nil, err
		}
		out["_id"] = bson.M{"$in": ids}
	case []any:
		strs := make([]string, len(id))
		for i, e := range id {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: id list must hold strings, got %T", schema.ErrValidation, e)
			}
			strs[i] = s
		}
		ids, err := toObjectIDs(strs)
		if err != nil {
			return nil, err
		}
		out["_id"] = bson.M{"$in": ids}
	default:
		return nil, fmt.Errorf("%w: id must be a string or a list, got %T", schema.ErrValidation, raw)
	}
	return out, nil
}

func toObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", schema.ErrValidation, id)
	}
	return oid, nil
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		oid, err := toObjectID(id)
		if err != nil {
			return nil, err
		}
		out[i] = oid
	}
	return out, nil
}

// toDocument renders _id as a string id.
func toDocument(m bson.M) schema.Document {
	doc := schema.Document(m)
	if raw, ok := doc["_id"]; ok {
		delete(doc, "_id")
		if oid, ok := raw.(primitive.ObjectID); ok {
			doc["id"] = oid.Hex()
		} else {
			doc["id"] = fmt.Sprint(raw)
		}
	}
	return doc
}

// FindRows returns one page of matching documents with its navigation envelope.
func (t *Translator) FindRows(ctx context.Context, database, collection string, filters map[string]any, projected bool, page, pageSize int) (schema.Page, error) {
	if page < 1 || pageSize < 1 {
		return schema.Page{}, fmt.Errorf("%w: page and page size must be at least 1", schema.ErrValidation)
	}
	if pageSize > contract.MaxPageSize {
		return schema.Page{}, fmt.Errorf("%w: page size must be at most %d", schema.ErrValidation, contract.MaxPageSize)
	}
	filter, err := NormalizeFilter(filters)
	if err != nil {
		return schema.Page{}, err
	}

	var projection bson.M
	if projected {
		projection = BaseProjection()
		for _, k := range rowsProjection {
			projection[k] = 1
		}
	}

	skip := int64(page-1) * int64(pageSize)
	rows, err := t.store.Find(ctx, database, collection, filter, projection, skip, int64(pageSize))
	if err != nil {
		return schema.Page{}, err
	}
	total, err := t.store.Count(ctx, database, collection, filter)
	if err != nil {
		return schema.Page{}, err
	}

	data := make([]schema.Document, len(rows))
	for i, r := range rows {
		data[i] = toDocument(r)
	}
	return NewPage(data, total, page, pageSize), nil
}

// NewPage builds the navigation envelope of a page.
// Previous carries page+1, not page-1, whenever 2 <= page <= pages+1.
func NewPage(data []schema.Document, total int64, page, pageSize int) schema.Page {
	size := int64(pageSize)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	p := int64(page)
	if data == nil {
		data = []schema.Document{}
	}

	out := schema.Page{
		Data:          data,
		Count:         int64(len(data)),
		Total:         total,
		NumberOfPages: pages,
	}
	if p < pages {
		out.Next = schema.PageLink{PageNum: page + 1, PageSize: pageSize}
	}
	if 1 <= p-1 && p-1 <= pages {
		out.Previous = schema.PageLink{PageNum: page + 1, PageSize: pageSize}
	}
	return out
}

// FindRow returns the first matching document or schema.ErrNotFound.
func (t *Translator) FindRow(ctx context.Context, database, collection string, filters map[string]any, projected bool) (schema.Document, error) {
	filter, err := NormalizeFilter(filters)
	if err != nil {
		return nil, err
	}
	var projection bson.M
	if projected {
		projection = BaseProjection()
	}
	row, err := t.store.FindOne(ctx, database, collection, filter, projection)
	if err != nil {
		return nil, err
	}
	return toDocument(row), nil
}

// Databases lists every database with its document count.
func (t *Translator) Databases(ctx context.Context) ([]schema.NamedCount, error) {
	names, err := t.store.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schema.NamedCount, 0, len(names))
	for _, name := range names {
		colls, err := t.Collections(ctx, name)
		if err != nil {
			return nil, err
		}
		var n int64
		for _, c := range colls {
			n += c.Count
		}
		out = append(out, schema.NamedCount{Name: name, Count: n})
	}
	return out, nil
}

// Collections lists the collections of a database with their document counts.
func (t *Translator) Collections(ctx context.Context, database string) ([]schema.NamedCount, error) {
	names, err := t.store.ListCollections(ctx, database)
	if err != nil {
		return nil, err
	}
	out := make([]schema.NamedCount, 0, len(names))
	for _, name := range names {
		n, err := t.store.Count(ctx, database, name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, schema.NamedCount{Name: name, Count: n})
	}
	return out, nil
}
