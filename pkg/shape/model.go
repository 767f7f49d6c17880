package shape

import (
	"errors"
	"fmt"
)

var (
	errShapeIDMissing = errors.New("shape: shape id is required")
	errShapeNil       = errors.New("shape: shape is required")
)

// Operation names an entry point into the model. Only shapes reachable from
// an operation input participate in validation generation.
type Operation struct {
	ID     string
	Input  ID
	Output ID
}

// Model is the immutable-after-construction shape graph. Iteration follows
// insertion order so generation output is deterministic.
type Model struct {
	shapes     map[ID]*Shape
	order      []ID
	Operations []Operation
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{shapes: make(map[ID]*Shape)}
}

// Add registers a shape. Duplicate IDs are rejected.
func (m *Model) Add(s *Shape) error {
	if s == nil {
		return errShapeNil
	}
	if s.ID == "" {
		return errShapeIDMissing
	}
	if _, exists := m.shapes[s.ID]; exists {
		return fmt.Errorf("shape: duplicate shape %q", s.ID)
	}
	m.shapes[s.ID] = s
	m.order = append(m.order, s.ID)
	return nil
}

// MustAdd panics on registration failure. Useful for fixture construction.
func (m *Model) MustAdd(s *Shape) {
	if err := m.Add(s); err != nil {
		panic(err)
	}
}

// AddOperation registers an operation entry point.
func (m *Model) AddOperation(op Operation) {
	m.Operations = append(m.Operations, op)
}

// Shape looks up a shape by ID.
func (m *Model) Shape(id ID) (*Shape, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// Shapes returns all shapes in insertion order.
func (m *Model) Shapes() []*Shape {
	out := make([]*Shape, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.shapes[id])
	}
	return out
}

// Len reports the number of shapes in the model.
func (m *Model) Len() int { return len(m.order) }

// Validate checks the structural integrity of the graph: every reference
// resolves, containers carry their mandatory references, member names are
// unique within their owner, and map keys are string-like. Trait
// applicability is deliberately not checked here; that is a synthesis-time
// concern reported against the offending shape.
func (m *Model) Validate() error {
	for _, id := range m.order {
		s := m.shapes[id]
		switch s.Kind {
		case KindStructure, KindUnion:
			seen := make(map[string]struct{}, len(s.Members))
			for _, mem := range s.Members {
				if mem.Name == "" {
					return fmt.Errorf("shape: %s: member name is required", s.ID)
				}
				if _, dup := seen[mem.Name]; dup {
					return fmt.Errorf("shape: %s: duplicate member %q", s.ID, mem.Name)
				}
				seen[mem.Name] = struct{}{}
				if err := m.checkRef(s.ID, mem.Target); err != nil {
					return err
				}
			}
		case KindList, KindSet:
			if s.Target == "" {
				return fmt.Errorf("shape: %s: %s requires a target", s.ID, s.Kind)
			}
			if err := m.checkRef(s.ID, s.Target); err != nil {
				return err
			}
		case KindMap:
			if s.Key == "" || s.Value == "" {
				return fmt.Errorf("shape: %s: map requires key and value", s.ID)
			}
			if err := m.checkRef(s.ID, s.Key); err != nil {
				return err
			}
			if err := m.checkRef(s.ID, s.Value); err != nil {
				return err
			}
			if key, ok := m.Shape(s.Key); ok && key.Kind != KindString && key.Kind != KindEnum {
				return fmt.Errorf("shape: %s: map key %q must be a string shape", s.ID, s.Key)
			}
		case KindString, KindEnum, KindNumber, KindBlob, KindBoolean, KindTimestamp:
			// Leaf kinds carry no references.
		default:
			return fmt.Errorf("shape: %s: unknown kind %q", s.ID, s.Kind)
		}
	}
	for _, op := range m.Operations {
		if op.Input != "" {
			if _, ok := m.Shape(op.Input); !ok {
				return fmt.Errorf("shape: operation %q: input %q not found", op.ID, op.Input)
			}
		}
		if op.Output != "" {
			if _, ok := m.Shape(op.Output); !ok {
				return fmt.Errorf("shape: operation %q: output %q not found", op.ID, op.Output)
			}
		}
	}
	return nil
}

func (m *Model) checkRef(owner, target ID) error {
	if target == "" {
		return fmt.Errorf("shape: %s: empty target reference", owner)
	}
	if _, ok := m.shapes[target]; !ok {
		return fmt.Errorf("shape: %s: target %q not found", owner, target)
	}
	return nil
}
