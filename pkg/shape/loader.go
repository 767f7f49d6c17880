package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// The AST document keeps shapes and members in arrays rather than objects so
// declaration order survives decoding; member order drives the fail-fast
// semantics of generated validation.

type astDocument struct {
	Shapes     []astShape     `json:"shapes"`
	Operations []astOperation `json:"operations"`
}

type astShape struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Members []astMember `json:"members,omitempty"`
	Target  string      `json:"target,omitempty"`
	Key     string      `json:"key,omitempty"`
	Value   string      `json:"value,omitempty"`
	Traits  *astTraits  `json:"traits,omitempty"`
}

type astMember struct {
	Name     string     `json:"name"`
	Target   string     `json:"target"`
	Required bool       `json:"required,omitempty"`
	Traits   *astTraits `json:"traits,omitempty"`
}

type astTraits struct {
	Length      *astBounds `json:"length,omitempty"`
	Range       *astRange  `json:"range,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	UniqueItems bool       `json:"uniqueItems,omitempty"`
	Enum        []string   `json:"enum,omitempty"`
}

type astBounds struct {
	Min *uint64 `json:"min,omitempty"`
	Max *uint64 `json:"max,omitempty"`
}

type astRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type astOperation struct {
	ID     string `json:"id"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

// Parse decodes a JSON shape-model document and validates the resulting
// graph.
func Parse(data []byte) (*Model, error) {
	var doc astDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("shape: decode model: %w", err)
	}
	if len(doc.Shapes) == 0 {
		return nil, errors.New("shape: model declares no shapes")
	}

	m := NewModel()
	for _, raw := range doc.Shapes {
		s, err := shapeFromAST(raw)
		if err != nil {
			return nil, err
		}
		if err := m.Add(s); err != nil {
			return nil, err
		}
	}
	for _, op := range doc.Operations {
		m.AddOperation(Operation{ID: op.ID, Input: ID(op.Input), Output: ID(op.Output)})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load decodes a model from a reader.
func Load(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("shape: read model: %w", err)
	}
	return Parse(data)
}

// LoadFile decodes a model from a file on disk.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shape: read model file: %w", err)
	}
	return Parse(data)
}

func shapeFromAST(raw astShape) (*Shape, error) {
	if raw.ID == "" {
		return nil, errShapeIDMissing
	}
	kind := Kind(raw.Type)
	switch kind {
	case KindStructure, KindUnion, KindList, KindSet, KindMap,
		KindString, KindEnum, KindNumber, KindBlob, KindBoolean, KindTimestamp:
	default:
		return nil, fmt.Errorf("shape: %s: unknown kind %q", raw.ID, raw.Type)
	}

	s := &Shape{
		ID:     ID(raw.ID),
		Kind:   kind,
		Target: ID(raw.Target),
		Key:    ID(raw.Key),
		Value:  ID(raw.Value),
		Traits: traitsFromAST(raw.Traits),
	}
	for _, rawMember := range raw.Members {
		if rawMember.Name == "" {
			return nil, fmt.Errorf("shape: %s: member name is required", raw.ID)
		}
		s.Members = append(s.Members, Member{
			Name:     rawMember.Name,
			Target:   ID(rawMember.Target),
			Required: rawMember.Required,
			Traits:   traitsFromAST(rawMember.Traits),
		})
	}
	return s, nil
}

func traitsFromAST(raw *astTraits) []Trait {
	if raw == nil {
		return nil
	}
	var traits []Trait
	if raw.Length != nil {
		traits = append(traits, LengthTrait{Min: raw.Length.Min, Max: raw.Length.Max})
	}
	if raw.Range != nil {
		traits = append(traits, RangeTrait{Min: raw.Range.Min, Max: raw.Range.Max})
	}
	if raw.Pattern != "" {
		traits = append(traits, PatternTrait{Pattern: raw.Pattern})
	}
	if raw.UniqueItems {
		traits = append(traits, UniqueItemsTrait{})
	}
	if len(raw.Enum) > 0 {
		traits = append(traits, EnumTrait{Values: append([]string(nil), raw.Enum...)})
	}
	return traits
}
