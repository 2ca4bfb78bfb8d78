package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterviz/internal/embedding"
	"clusterviz/internal/embedding/tfidf"
)

type fixedEmbedder struct {
	dims map[string]int
	err  error
}

func (f *fixedEmbedder) Name() string           { return "fixed" }
func (f *fixedEmbedder) Prepare([]string) error { return nil }
func (f *fixedEmbedder) Dimension() int         { return 0 }
func (f *fixedEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := 2
	if d, ok := f.dims[text]; ok {
		n = d
	}
	return make([]float64, n), nil
}

func TestEmbedderSource_TFIDF(t *testing.T) {
	src := embedding.NewEmbedderSource(tfidf.NewEmbedder())
	entities := []string{"New_York_City", "York_Minster", "Paris"}

	got, err := src.Vectors(context.Background(), entities)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, ev := range got {
		assert.Equal(t, entities[i], ev.Tag)
		assert.Len(t, ev.Vector, len(got[0].Vector))
	}
}

func TestEmbedderSource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := embedding.NewEmbedderSource(&fixedEmbedder{}).Vectors(ctx, nil)
	require.ErrorIs(t, err, embedding.ErrNoVectors)

	_, err = embedding.NewEmbedderSource(&fixedEmbedder{dims: map[string]int{"b": 3}}).Vectors(ctx, []string{"a", "b"})
	require.ErrorIs(t, err, embedding.ErrDimensionMismatch)

	boom := errors.New("boom")
	_, err = embedding.NewEmbedderSource(&fixedEmbedder{err: boom}).Vectors(ctx, []string{"a"})
	require.ErrorIs(t, err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = embedding.NewEmbedderSource(&fixedEmbedder{}).Vectors(cancelled, []string{"a"})
	require.ErrorIs(t, err, context.Canceled)
}
