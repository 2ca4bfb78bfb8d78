package domain

import "context"

// EntityVector is an embedding for a single entity (a document tag).
type EntityVector struct {
	Tag    string
	Vector []float64
}

// Neighbor represents an entity close to a query vector with a similarity score.
type Neighbor struct {
	Tag       string
	ClusterID int
	Score     float64
}

// Point is an entity placed in the reduced 2D or 3D space.
type Point struct {
	Tag       string
	ClusterID int
	Coords    []float64
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorSource yields an embedding per entity. Sources backed by a pre-trained
// model may ignore entities and return every vector they hold.
type VectorSource interface {
	Vectors(ctx context.Context, entities []string) ([]EntityVector, error)
}

// VectorIndex supports similarity search over entity vectors.
type VectorIndex interface {
	Upsert(ctx context.Context, vectors []EntityVector) error
	Search(ctx context.Context, vector []float64, topK int) ([]Neighbor, error)
	Clear() error
}

// Reducer projects high-dimensional vectors onto a small number of components.
type Reducer interface {
	Name() string
	Reduce(vectors [][]float64) ([][]float64, error)
}
