package reduce

// Identity keeps the first components of each vector. It is meant for
// vectors that were already reduced elsewhere.
type Identity struct {
	components int
}

// NewIdentity creates an Identity reducer.
func NewIdentity(components int) *Identity { return &Identity{components: components} }

// Name returns the display name of the method.
func (r *Identity) Name() string { return "identity" }

// Reduce truncates or zero pads every vector to the configured width.
func (r *Identity) Reduce(vectors [][]float64) ([][]float64, error) {
	x, err := toDense(vectors)
	if err != nil {
		return nil, err
	}
	return rows(x, r.components, r.components), nil
}
