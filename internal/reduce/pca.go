package reduce

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA projects vectors onto their leading principal components.
type PCA struct {
	components int
}

// NewPCA creates a PCA reducer.
func NewPCA(components int) *PCA { return &PCA{components: components} }

// Name returns the display name of the method.
func (p *PCA) Name() string { return "PCA" }

// Reduce centers the data and projects it onto the top components. When the
// data has fewer components than requested the rest are zero.
func (p *PCA) Reduce(vectors [][]float64) ([][]float64, error) {
	x, err := toDense(vectors)
	if err != nil {
		return nil, err
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, errors.New("pca: decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	n, d := x.Dims()
	_, avail := vecs.Dims()
	k := p.components
	if k > avail {
		k = avail
	}

	centered := mat.DenseCopyOf(x)
	for j := 0; j < d; j++ {
		mean := stat.Mean(mat.Col(nil, j, x), nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, centered.At(i, j)-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, d, 0, k))
	return rows(&proj, k, p.components), nil
}
