package service

import (
	"context"
	"fmt"

	"clusterviz/internal/domain"
	"clusterviz/internal/format"
)

// Session holds the parsed annotations and vectors of one run. It is passed
// explicitly to whatever renders or browses the data.
type Session struct {
	membership domain.Membership
	relations  domain.ClusterRelations
	clusters   map[string]int
	vectors    []domain.EntityVector
	byTag      map[string][]float64
	index      domain.VectorIndex
}

func newSession(m domain.Membership, r domain.ClusterRelations, vectors []domain.EntityVector, idx domain.VectorIndex) *Session {
	byTag := make(map[string][]float64, len(vectors))
	for _, ev := range vectors {
		byTag[ev.Tag] = ev.Vector
	}
	return &Session{
		membership: m,
		relations:  r,
		clusters:   m.Inverse(),
		vectors:    vectors,
		byTag:      byTag,
		index:      idx,
	}
}

// Membership returns the parsed cluster membership.
func (s *Session) Membership() domain.Membership { return s.membership }

// Relations returns the parsed cluster relations.
func (s *Session) Relations() domain.ClusterRelations { return s.relations }

// ClusterIDs returns the membership cluster ids in ascending order.
func (s *Session) ClusterIDs() []int { return s.membership.ClusterIDs() }

// ClusterOf returns the cluster of entity, or domain.Unclustered.
func (s *Session) ClusterOf(entity string) (int, bool) {
	id, ok := s.clusters[entity]
	if !ok {
		return domain.Unclustered, false
	}
	return id, true
}

// ClusterEntities returns the entities listed under a cluster.
func (s *Session) ClusterEntities(id int) []string { return s.membership[id] }

// Describe renders the relations of a cluster as text.
func (s *Session) Describe(id int) string {
	rels := s.relations[id]
	if len(rels) == 0 {
		return "No relations recorded."
	}
	return format.ClusterText(rels)
}

// Neighbors returns up to k entities closest to entity, excluding itself.
func (s *Session) Neighbors(ctx context.Context, entity string, k int) ([]domain.Neighbor, error) {
	vec, ok := s.byTag[entity]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", entity)
	}
	res, err := s.index.Search(ctx, vec, k+1)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Neighbor, 0, k)
	for _, n := range res {
		if n.Tag == entity {
			continue
		}
		if len(out) == k {
			break
		}
		out = append(out, n)
	}
	return out, nil
}
