package domain

import (
	"errors"
	"fmt"
)

// ErrMissingRelationValue is returned when asking for a value that was never added.
var ErrMissingRelationValue = errors.New("relation value not found")

// RelationValue is a named value of a relation with its relative occurrence in percent.
type RelationValue struct {
	Name       string
	Occurrence float64
}

// Relation is a named relation discovered for a cluster. Name and
// RelativeOccurrence are fixed at construction; values are only ever appended.
type Relation struct {
	Name               string
	RelativeOccurrence float64

	values []RelationValue
	index  map[string]int
}

// NewRelation creates a relation without values.
func NewRelation(name string, relativeOccurrence float64) *Relation {
	return &Relation{
		Name:               name,
		RelativeOccurrence: relativeOccurrence,
		index:              make(map[string]int),
	}
}

// AddValue records a relation value. Adding a name twice overwrites its
// occurrence but keeps its original position.
func (r *Relation) AddValue(name string, occurrence float64) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.values[i].Occurrence = occurrence
		return
	}
	r.index[name] = len(r.values)
	r.values = append(r.values, RelationValue{Name: name, Occurrence: occurrence})
}

// Occurrence returns the relative occurrence of the named value.
func (r *Relation) Occurrence(name string) (float64, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q in relation %q", ErrMissingRelationValue, name, r.Name)
	}
	return r.values[i].Occurrence, nil
}

// Values returns the relation values in insertion order.
func (r *Relation) Values() []RelationValue {
	out := make([]RelationValue, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of values.
func (r *Relation) Len() int { return len(r.values) }

// ClusterRelations maps a cluster id, taken from an enriched cluster file name,
// to its relations in file order.
type ClusterRelations map[int][]*Relation
