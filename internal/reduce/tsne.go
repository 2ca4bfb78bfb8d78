package reduce

import (
	"github.com/danaugrs/go-tsne/tsne"
)

// TSNE embeds vectors with t-distributed stochastic neighbor embedding.
type TSNE struct {
	components   int
	perplexity   float64
	learningRate float64
	iterations   int
}

// NewTSNE creates a t-SNE reducer. Zero values fall back to 30 perplexity,
// 200 learning rate and 1000 iterations.
func NewTSNE(components int, perplexity, learningRate float64, iterations int) *TSNE {
	if perplexity <= 0 {
		perplexity = 30
	}
	if learningRate <= 0 {
		learningRate = 200
	}
	if iterations <= 0 {
		iterations = 1000
	}
	return &TSNE{components: components, perplexity: perplexity, learningRate: learningRate, iterations: iterations}
}

// Name returns the display name of the method.
func (t *TSNE) Name() string { return "t-SNE" }

// Reduce runs t-SNE. Perplexity is capped so that every point has enough
// neighbors in small data sets.
func (t *TSNE) Reduce(vectors [][]float64) ([][]float64, error) {
	x, err := toDense(vectors)
	if err != nil {
		return nil, err
	}
	perplexity := t.perplexity
	if limit := float64(len(vectors)-1) / 3; perplexity > limit {
		perplexity = limit
	}
	if perplexity < 1 {
		perplexity = 1
	}
	model := tsne.NewTSNE(t.components, perplexity, t.learningRate, t.iterations, false)
	model.EmbedData(x, nil)
	return rows(model.Y, t.components, t.components), nil
}
