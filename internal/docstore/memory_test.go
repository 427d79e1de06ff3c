package docstore

import (
	"context"
	"testing"

	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMemory_DistinctAndCount(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	docs := []bson.M{
		{"useCase": "Food spoilage", "foodType": "meat", "n": 1},
		{"useCase": "Food spoilage", "foodType": "fish", "n": int64(2)},
		{"useCase": "Food spoilage", "foodType": "meat", "n": 3.0},
		{"useCase": "Mycotoxins detection", "foodType": "maize"},
		{"useCase": "Mycotoxins detection", "tags": bson.A{"a", "b", "a"}},
	}
	for _, d := range docs {
		require.NoError(t, s.InsertOne(ctx, "db", "c", d))
	}

	foods, err := s.Distinct(ctx, "db", "c", "foodType", bson.M{"useCase": "Food spoilage"})
	require.NoError(t, err)
	assert.Equal(t, []any{"meat", "fish"}, foods)

	tags, err := s.Distinct(ctx, "db", "c", "tags", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, tags)

	n, err := s.Count(ctx, "db", "c", bson.M{"useCase": "Food spoilage", "foodType": "meat"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "db", "c", bson.M{"n": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "numbers compare across integer and float types")

	n, err = s.Count(ctx, "db", "c", bson.M{"foodType": bson.M{"$in": []string{"fish", "maize"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "db", "missing", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_FindSkipLimitAndFindOne(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.InsertOne(ctx, "db", "c", bson.M{"v": v}))
	}

	got, err := s.Find(ctx, "db", "c", nil, nil, 1, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0]["v"])

	got, err = s.Find(ctx, "db", "c", nil, nil, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Returned documents are copies.
	one, err := s.FindOne(ctx, "db", "c", bson.M{"v": "a"}, nil)
	require.NoError(t, err)
	one["v"] = "changed"
	again, err := s.FindOne(ctx, "db", "c", bson.M{"v": "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", again["v"])

	_, err = s.FindOne(ctx, "db", "c", bson.M{"v": "z"}, nil)
	assert.ErrorIs(t, err, schema.ErrNotFound)
}
