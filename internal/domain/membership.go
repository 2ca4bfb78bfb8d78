package domain

import "sort"

// Unclustered is the cluster id given to entities that belong to no cluster.
const Unclustered = -1

// Membership maps a cluster id to its entity names in file order.
type Membership map[int][]string

// Inverse maps every entity to the cluster it was listed under. When an entity
// is listed more than once, the cluster with the highest id wins so that the
// result does not depend on map iteration order.
func (m Membership) Inverse() map[string]int {
	inv := make(map[string]int)
	for _, id := range m.ClusterIDs() {
		for _, entity := range m[id] {
			inv[entity] = id
		}
	}
	return inv
}

// ClusterIDs returns the cluster ids in ascending order.
func (m Membership) ClusterIDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Entities returns every entity across all clusters, ordered by cluster id then file order.
func (m Membership) Entities() []string {
	var out []string
	for _, id := range m.ClusterIDs() {
		out = append(out, m[id]...)
	}
	return out
}

// Size returns the number of entities listed under the cluster.
func (m Membership) Size(clusterID int) int { return len(m[clusterID]) }
