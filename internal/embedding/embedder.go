package embedding

import (
	"context"
	"errors"
	"fmt"

	"clusterviz/internal/domain"
)

var (
	// ErrEmbedding wraps failures returned by remote embedding services.
	ErrEmbedding = errors.New("embedding failed")
	// ErrDimensionMismatch is returned when vectors of different lengths are mixed.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrNoVectors is returned when a source yields nothing to plot.
	ErrNoVectors = errors.New("no vectors")
)

// Embedder converts free text into a numeric vector representation.
type Embedder = domain.Embedder

// EmbedderSource turns an Embedder into a VectorSource by embedding every
// entity name.
type EmbedderSource struct {
	embedder Embedder
}

// NewEmbedderSource wraps e.
func NewEmbedderSource(e Embedder) *EmbedderSource {
	return &EmbedderSource{embedder: e}
}

// Vectors prepares the embedder over the entity names and embeds each of them.
func (s *EmbedderSource) Vectors(ctx context.Context, entities []string) ([]domain.EntityVector, error) {
	if len(entities) == 0 {
		return nil, ErrNoVectors
	}
	if err := s.embedder.Prepare(entities); err != nil {
		return nil, err
	}
	out := make([]domain.EntityVector, 0, len(entities))
	dim := 0
	for _, entity := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := s.embedder.Embed(ctx, entity)
		if err != nil {
			return nil, fmt.Errorf("%s: embed %q: %w", s.embedder.Name(), entity, err)
		}
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return nil, fmt.Errorf("%w: %q has %d, want %d", ErrDimensionMismatch, entity, len(vec), dim)
		}
		out = append(out, domain.EntityVector{Tag: entity, Vector: vec})
	}
	return out, nil
}
