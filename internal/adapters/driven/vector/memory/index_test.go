package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx := New(2)
	require.NoError(t, idx.Add(ctx, "east", []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, "north", []float32{0, 1}))
	require.NoError(t, idx.Add(ctx, "northeast", []float32{1, 1}))

	hits, err := idx.Search(ctx, []float32{1, 0.1}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].DocumentID)
	assert.Equal(t, "northeast", hits[1].DocumentID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
	assert.Equal(t, 3, idx.Len())
}

func TestIndex_TiesOrderedByID(t *testing.T) {
	ctx := context.Background()
	idx := New(0)
	require.NoError(t, idx.Add(ctx, "b", []float32{2, 0}))
	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].DocumentID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, 2, idx.Dimensions())
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := New(3)

	err := idx.Add(ctx, "x", []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, idx.Add(ctx, "y", []float32{1, 0, 0}))
	_, err = idx.Search(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_ZeroVector(t *testing.T) {
	ctx := context.Background()
	idx := New(2)
	require.NoError(t, idx.Add(ctx, "zero", []float32{0, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Similarity)
}

func TestIndex_Close(t *testing.T) {
	ctx := context.Background()
	idx := New(2)
	require.NoError(t, idx.Add(ctx, "a", []float32{1, 0}))
	require.NoError(t, idx.Close())

	_, err := idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
	assert.ErrorIs(t, idx.Add(ctx, "b", []float32{1, 0}), domain.ErrVectorIndexUnavailable)
}

func TestIndex_AddCopiesInput(t *testing.T) {
	ctx := context.Background()
	idx := New(2)
	vec := []float32{1, 0}
	require.NoError(t, idx.Add(ctx, "a", vec))
	vec[0], vec[1] = 0, 1

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
}
