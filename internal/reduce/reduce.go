// Package reduce projects entity vectors onto two or three components for plotting.
package reduce

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"clusterviz/internal/domain"
)

var (
	// ErrTooFewPoints is returned when there is not enough data to reduce.
	ErrTooFewPoints = errors.New("at least two vectors are required")
	// ErrComponents is returned for a component count other than 2 or 3.
	ErrComponents = errors.New("components must be 2 or 3")
)

// Config selects and tunes a reducer.
type Config struct {
	Type         string
	Components   int
	Perplexity   float64
	LearningRate float64
	Iterations   int
}

// New builds the reducer named by cfg.Type.
func New(cfg Config) (domain.Reducer, error) {
	if cfg.Components != 2 && cfg.Components != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrComponents, cfg.Components)
	}
	switch cfg.Type {
	case "pca", "":
		return NewPCA(cfg.Components), nil
	case "tsne":
		return NewTSNE(cfg.Components, cfg.Perplexity, cfg.LearningRate, cfg.Iterations), nil
	case "identity":
		return NewIdentity(cfg.Components), nil
	default:
		return nil, fmt.Errorf("unknown reducer: %s", cfg.Type)
	}
}

// toDense validates vectors and copies them into an n×d matrix.
func toDense(vectors [][]float64) (*mat.Dense, error) {
	if len(vectors) < 2 {
		return nil, ErrTooFewPoints
	}
	d := len(vectors[0])
	if d == 0 {
		return nil, errors.New("empty vectors")
	}
	data := make([]float64, 0, len(vectors)*d)
	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("vector %d has %d components, want %d", i, len(v), d)
		}
		data = append(data, v...)
	}
	return mat.NewDense(len(vectors), d, data), nil
}

// rows copies the first k columns of m into a slice per row, zero padding
// missing columns up to width.
func rows(m mat.Matrix, k, width int) [][]float64 {
	n, c := m.Dims()
	if k > c {
		k = c
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, width)
		for j := 0; j < k; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
