package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, userID string, values []float32) Record {
	return Record{
		ID:       id,
		Values:   values,
		Metadata: Metadata{UserID: userID, Domain: "Work & Career", StressScore: 8},
	}
}

func TestMemoryStoreQueryFiltersByUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, rec("a", "user-1", []float32{1, 0, 0})))
	require.NoError(t, s.Upsert(ctx, rec("b", "user-2", []float32{1, 0, 0})))

	matches, err := s.Query(ctx, "user-1", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestMemoryStoreQueryRanksAndLimits(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, rec("exact", "u", []float32{1, 0, 0})))
	require.NoError(t, s.Upsert(ctx, rec("close", "u", []float32{1, 0.2, 0})))
	require.NoError(t, s.Upsert(ctx, rec("far", "u", []float32{0, 1, 0})))

	matches, err := s.Query(ctx, "u", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "close", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, rec("a", "u", []float32{1, 0})))
	require.NoError(t, s.Upsert(ctx, rec("a", "u", []float32{0, 1})))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreListAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, rec("a", "u1", []float32{1})))
	require.NoError(t, s.Upsert(ctx, rec("b", "u1", []float32{1})))
	require.NoError(t, s.Upsert(ctx, rec("c", "u2", []float32{1})))

	ids, err := s.ListIDs(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Delete(ctx, []string{"a", "b"}))
	assert.Equal(t, 1, s.Len())

	ids, err = s.ListIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity(nil, nil))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}
