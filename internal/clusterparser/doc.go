// Package clusterparser reads the two annotation formats produced by the
// clustering step: a cluster membership file and a directory of enriched
// cluster files describing each cluster's relations.
//
// Membership file:
//
//	[[CLUSTER 0]]
//	entity_a
//	entity_b
//	[[CLUSTER 1]]
//	entity_c
//
// Enriched cluster file (enriched_cluster_<id>.txt):
//
//	Relation: located in 42.50%
//		↳ 30.10% country
//		↳ 12.40% city
//
// A line before the first cluster header is a fatal error. A value line
// before the first relation header is skipped unless strict value parsing is
// enabled.
package clusterparser
