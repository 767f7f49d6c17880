// Package reach answers constraint-reachability queries over a shape model.
// All answers are precomputed once per model so repeated queries from
// independent call sites stay O(1) and the cyclic graph is only walked once.
package reach

import (
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// Index holds the memoized reachability facts for one model.
type Index struct {
	model       *shape.Model
	constrained map[shape.ID]bool
	reaches     map[shape.ID]bool
	fromInput   map[shape.ID]bool
}

// NewIndex computes the reachability facts for m.
func NewIndex(m *shape.Model) *Index {
	idx := &Index{
		model:       m,
		constrained: make(map[shape.ID]bool, m.Len()),
		reaches:     make(map[shape.ID]bool, m.Len()),
		fromInput:   make(map[shape.ID]bool, m.Len()),
	}
	idx.computeConstrained()
	idx.computeReaches()
	idx.computeInputReachable()
	return idx
}

// IsConstrained reports whether the shape itself declares an invariant: a
// shape-level trait, a required member, or a member-level trait. The
// required flag counts because it produces missing-member violations.
func (x *Index) IsConstrained(id shape.ID) bool {
	return x.constrained[id]
}

// CanReachConstrainedShape reports whether the shape reaches a constrained
// shape through at least one member edge. A constrained shape does not reach
// itself reflexively; it must sit on a cycle to do so.
func (x *Index) CanReachConstrainedShape(id shape.ID) bool {
	return x.reaches[id]
}

// IsReachableFromOperationInput reports whether the shape is exercised by
// request parsing for any operation in the model.
func (x *Index) IsReachableFromOperationInput(id shape.ID) bool {
	return x.fromInput[id]
}

// Marked reports whether the shape needs a generated type triad: it must be
// input-reachable and either constrained or able to reach a constrained
// shape.
func (x *Index) Marked(id shape.ID) bool {
	return x.fromInput[id] && (x.constrained[id] || x.reaches[id])
}

// NeedsConversion reports whether converting a value of this shape can fail,
// regardless of input reachability. The runtime engine uses this to decide
// whether to recurse into a member.
func (x *Index) NeedsConversion(id shape.ID) bool {
	return x.constrained[id] || x.reaches[id]
}

func (x *Index) computeConstrained() {
	for _, s := range x.model.Shapes() {
		if len(s.Traits) > 0 {
			x.constrained[s.ID] = true
			continue
		}
		for _, m := range s.Members {
			if m.Required || len(m.Traits) > 0 {
				x.constrained[s.ID] = true
				break
			}
		}
	}
}

// computeReaches propagates "reaches a constrained shape" backwards over the
// reference edges. Seeding the queue with the constrained shapes themselves
// and marking parents keeps the walk linear and terminates on cycles without
// per-query bookkeeping.
func (x *Index) computeReaches() {
	parents := make(map[shape.ID][]shape.ID, x.model.Len())
	for _, s := range x.model.Shapes() {
		for _, ref := range s.References() {
			parents[ref] = append(parents[ref], s.ID)
		}
	}

	var queue []shape.ID
	for id, ok := range x.constrained {
		if ok {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, parent := range parents[next] {
			if x.reaches[parent] {
				continue
			}
			x.reaches[parent] = true
			queue = append(queue, parent)
		}
	}
}

func (x *Index) computeInputReachable() {
	var queue []shape.ID
	for _, op := range x.model.Operations {
		if op.Input == "" {
			continue
		}
		if !x.fromInput[op.Input] {
			x.fromInput[op.Input] = true
			queue = append(queue, op.Input)
		}
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		s, ok := x.model.Shape(next)
		if !ok {
			continue
		}
		for _, ref := range s.References() {
			if x.fromInput[ref] {
				continue
			}
			x.fromInput[ref] = true
			queue = append(queue, ref)
		}
	}
}
