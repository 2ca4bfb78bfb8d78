package memory

import (
	"context"
	"errors"
	"math"
	"sync"

	"clusterviz/internal/domain"
	"clusterviz/internal/vectorstore"
)

var _ vectorstore.Storage = (*Storage)(nil)

// Storage is a simple in-memory vector index using brute-force cosine similarity.
// Each entity is tagged with its cluster so search results can be colored.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	tags      []string
	vectors   [][]float64
	norms     []float64
	clusters  map[string]int
}

// NewStorage creates an empty index. clusters maps entity to cluster id and may be nil.
func NewStorage(clusters map[string]int) *Storage {
	return &Storage{clusters: clusters}
}

// SetClusters replaces the entity to cluster mapping used to annotate results.
func (s *Storage) SetClusters(clusters map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters = clusters
}

// Upsert adds vectors, replacing any previous vector with the same tag.
func (s *Storage) Upsert(_ context.Context, vectors []domain.EntityVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v.Vector) == 0 {
			return errors.New("empty vector")
		}
		if s.dimension == 0 {
			s.dimension = len(v.Vector)
		}
		if len(v.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	index := make(map[string]int, len(s.tags))
	for i, tag := range s.tags {
		index[tag] = i
	}
	for _, v := range vectors {
		n := norm(v.Vector)
		if i, ok := index[v.Tag]; ok {
			s.vectors[i] = v.Vector
			s.norms[i] = n
			continue
		}
		index[v.Tag] = len(s.tags)
		s.tags = append(s.tags, v.Tag)
		s.vectors = append(s.vectors, v.Vector)
		s.norms = append(s.norms, n)
	}
	return nil
}

// Lookup returns the stored vector for tag.
func (s *Storage) Lookup(tag string) ([]float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, t := range s.tags {
		if t == tag {
			return s.vectors[i], true
		}
	}
	return nil, false
}

// Search returns the topK entities most similar to vector.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	qn := norm(vector)
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		if qn == 0 || s.norms[i] == 0 {
			continue
		}
		scores[i] = dot(s.vectors[i], vector) / (qn * s.norms[i])
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Neighbor, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.Neighbor{Tag: s.tags[j], ClusterID: s.clusterOf(s.tags[j]), Score: scores[j]})
	}
	return results, nil
}

// Clear removes every vector.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = 0
	s.tags = nil
	s.vectors = nil
	s.norms = nil
	return nil
}

// Len returns the number of stored vectors.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tags)
}

func (s *Storage) clusterOf(tag string) int {
	if id, ok := s.clusters[tag]; ok {
		return id
	}
	return domain.Unclustered
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	quicksort(idxs, vals, 0, len(idxs)-1)
	return idxs
}

func quicksort(idxs []int, vals []float64, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := vals[idxs[(lo+hi)/2]]
	for i <= j {
		for vals[idxs[i]] > pivot { // desc order
			i++
		}
		for vals[idxs[j]] < pivot {
			j--
		}
		if i <= j {
			idxs[i], idxs[j] = idxs[j], idxs[i]
			i++
			j--
		}
	}
	if lo < j {
		quicksort(idxs, vals, lo, j)
	}
	if i < hi {
		quicksort(idxs, vals, i, hi)
	}
}
