package constrain

import (
	"fmt"

	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// Builder accumulates optional member values for a structure: the
// incomplete state that precedes both the unconstrained-complete and the
// constrained states. Build surfaces missing-required violations as its own
// pass, before any member value is inspected, because presence is knowable
// without looking at the value.
type Builder struct {
	engine *Engine
	shape  *shape.Shape
	values map[string]any
	err    error
}

// Builder returns a builder for the named structure shape.
func (e *Engine) Builder(id shape.ID) (*Builder, error) {
	s, ok := e.model.Shape(id)
	if !ok {
		return nil, fmt.Errorf("constrain: shape %q not found", id)
	}
	if s.Kind != shape.KindStructure {
		return nil, fmt.Errorf("constrain: shape %s is %s, not a structure", id, s.Kind)
	}
	return &Builder{
		engine: e,
		shape:  s,
		values: make(map[string]any, len(s.Members)),
	}, nil
}

// Set records a member value. Unknown member names are remembered and
// reported by Build; calls chain.
func (b *Builder) Set(member string, value any) *Builder {
	if _, ok := b.shape.Member(member); !ok {
		if b.err == nil {
			b.err = fmt.Errorf("constrain: shape %s has no member %q", b.shape.ID, member)
		}
		return b
	}
	b.values[member] = value
	return b
}

// MissingRequired lists the required members not yet set, in declaration
// order.
func (b *Builder) MissingRequired() []string {
	var missing []string
	for _, mem := range b.shape.Members {
		if !mem.Required {
			continue
		}
		if _, present := b.values[mem.Name]; !present {
			missing = append(missing, mem.Name)
		}
	}
	return missing
}

// Build runs the presence pass first: the first required member that was
// never set yields its missing violation before any constraint conversion
// runs. Only a fully present structure proceeds to TryConstrain.
func (b *Builder) Build() (Constrained, Violation, error) {
	if b.err != nil {
		return Constrained{}, nil, b.err
	}
	for _, mem := range b.shape.Members {
		if !mem.Required {
			continue
		}
		if _, present := b.values[mem.Name]; !present {
			return Constrained{}, MissingMemberViolation{Member: mem.Name}, nil
		}
	}
	return b.engine.TryConstrain(b.shape.ID, b.values)
}
