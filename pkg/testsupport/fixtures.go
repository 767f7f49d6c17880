// Package testsupport provides fixture builders and golden-file helpers
// shared by tests across the module.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// LoadModel reads a shape model fixture from a JSON file.
func LoadModel(t *testing.T, path string) *shape.Model {
	t.Helper()

	model, err := shape.LoadFile(path)
	if err != nil {
		t.Fatalf("load model %q: %v", path, err)
	}
	return model
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is
// set, creating parent directories as needed.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden diffs two values, returning an empty string when equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Uint64 returns a pointer for trait bounds in fixture models.
func Uint64(v uint64) *uint64 { return &v }

// Float64 returns a pointer for trait bounds in fixture models.
func Float64(v float64) *float64 { return &v }

// StringShape builds a string shape with optional traits.
func StringShape(id shape.ID, traits ...shape.Trait) *shape.Shape {
	return &shape.Shape{ID: id, Kind: shape.KindString, Traits: traits}
}

// NumberShape builds a number shape with optional traits.
func NumberShape(id shape.ID, traits ...shape.Trait) *shape.Shape {
	return &shape.Shape{ID: id, Kind: shape.KindNumber, Traits: traits}
}

// StructureShape builds a structure shape from members.
func StructureShape(id shape.ID, members ...shape.Member) *shape.Shape {
	return &shape.Shape{ID: id, Kind: shape.KindStructure, Members: members}
}

// ListShape builds a list shape pointing at target.
func ListShape(id, target shape.ID, traits ...shape.Trait) *shape.Shape {
	return &shape.Shape{ID: id, Kind: shape.KindList, Target: target, Traits: traits}
}

// MapShape builds a map shape from key and value targets.
func MapShape(id, key, value shape.ID, traits ...shape.Trait) *shape.Shape {
	return &shape.Shape{ID: id, Kind: shape.KindMap, Key: key, Value: value, Traits: traits}
}

// MustModel assembles and validates a model from shapes, failing the test on
// any error.
func MustModel(t *testing.T, ops []shape.Operation, shapes ...*shape.Shape) *shape.Model {
	t.Helper()

	m := shape.NewModel()
	for _, s := range shapes {
		if err := m.Add(s); err != nil {
			t.Fatalf("add shape %s: %v", s.ID, err)
		}
	}
	for _, op := range ops {
		m.AddOperation(op)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate model: %v", err)
	}
	return m
}
