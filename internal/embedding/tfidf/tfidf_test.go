package tfidf_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/embedding/tfidf"
)

func cosine(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestEmbedder(t *testing.T) {
	ctx := context.Background()
	e := tfidf.NewEmbedder()

	_, err := e.Embed(ctx, "x")
	require.Error(t, err, "embedding before Prepare")

	require.NoError(t, e.Prepare([]string{"New_York_City", "York_Minster", "Paris_France"}))
	assert.Equal(t, "tfidf", e.Name())
	assert.Equal(t, 6, e.Dimension())

	ny, err := e.Embed(ctx, "New_York_City")
	require.NoError(t, err)
	ym, err := e.Embed(ctx, "York_Minster")
	require.NoError(t, err)
	pf, err := e.Embed(ctx, "Paris_France")
	require.NoError(t, err)

	norm := 0.0
	for _, v := range ny {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
	assert.Greater(t, cosine(ny, ym), cosine(ny, pf))

	unknown, err := e.Embed(ctx, "zzz")
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 6), unknown)
}

func TestEmbedder_PrepareErrors(t *testing.T) {
	e := tfidf.NewEmbedder()
	require.Error(t, e.Prepare(nil))
	require.Error(t, e.Prepare([]string{"the", "of"}))
}
