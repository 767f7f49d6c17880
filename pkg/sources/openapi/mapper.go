// Package openapi converts OpenAPI 3 documents into a shape model. Component
// schemas become named shapes, inline schemas get names derived from their
// position, and request bodies become operation inputs so reachability
// analysis has entry points.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// DefaultNamespace qualifies shape IDs produced by the mapper.
const DefaultNamespace = "api"

// MapperOption mutates mapper configuration prior to construction.
type MapperOption func(*Mapper)

// WithNamespace overrides the namespace shape IDs are minted under.
func WithNamespace(ns string) MapperOption {
	return func(m *Mapper) {
		if strings.TrimSpace(ns) != "" {
			m.namespace = strings.TrimSpace(ns)
		}
	}
}

// Mapper converts parsed OpenAPI documents into shape models.
type Mapper struct {
	namespace string
}

// NewMapper constructs a Mapper.
func NewMapper(options ...MapperOption) *Mapper {
	m := &Mapper{namespace: DefaultNamespace}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Model parses raw document bytes and maps them into a validated model.
func (m *Mapper) Model(ctx context.Context, data []byte) (*shape.Model, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return m.fromSpec(spec)
}

func (m *Mapper) fromSpec(spec *openapi3.T) (*shape.Model, error) {
	b := &modelBuilder{
		namespace: m.namespace,
		model:     shape.NewModel(),
		added:     make(map[shape.ID]bool),
	}

	if spec.Components != nil {
		names := make([]string, 0, len(spec.Components.Schemas))
		for name := range spec.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := b.addSchema(name, spec.Components.Schemas[name]); err != nil {
				return nil, err
			}
		}
	}

	if spec.Paths != nil {
		paths := make([]string, 0, spec.Paths.Len())
		for p := range spec.Paths.Map() {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			if err := b.addOperations(p, spec.Paths.Map()[p]); err != nil {
				return nil, err
			}
		}
	}

	if err := b.model.Validate(); err != nil {
		return nil, fmt.Errorf("openapi: mapped model invalid: %w", err)
	}
	return b.model, nil
}

type modelBuilder struct {
	namespace string
	model     *shape.Model
	added     map[shape.ID]bool
}

func (b *modelBuilder) id(name string) shape.ID {
	return shape.ID(b.namespace + "#" + name)
}

// addSchema registers the shape for a schema reference under the given name
// and returns its ID. Named references resolve to their component name; the
// supplied name only matters for inline schemas.
func (b *modelBuilder) addSchema(name string, ref *openapi3.SchemaRef) (shape.ID, error) {
	if ref == nil {
		return "", fmt.Errorf("openapi: schema %q is nil", name)
	}
	if refName := componentName(ref.Ref); refName != "" {
		name = refName
	}
	id := b.id(name)
	if b.added[id] {
		return id, nil
	}
	b.added[id] = true

	sc := ref.Value
	if sc == nil {
		return "", fmt.Errorf("openapi: schema %q has no value", name)
	}

	s := &shape.Shape{ID: id}
	switch {
	case isType(sc, "object") || len(sc.Properties) > 0:
		if len(sc.Properties) == 0 && hasAdditionalSchema(sc) {
			s.Kind = shape.KindMap
			keyID, err := b.addSchema(name+"Key", stringRef())
			if err != nil {
				return "", err
			}
			valID, err := b.addSchema(name+"Value", sc.AdditionalProperties.Schema)
			if err != nil {
				return "", err
			}
			s.Key, s.Value = keyID, valID
			s.Traits = countTraits(sc.MinProps, sc.MaxProps)
			break
		}
		s.Kind = shape.KindStructure
		required := make(map[string]bool, len(sc.Required))
		for _, r := range sc.Required {
			required[r] = true
		}
		props := make([]string, 0, len(sc.Properties))
		for prop := range sc.Properties {
			props = append(props, prop)
		}
		sort.Strings(props)
		for _, prop := range props {
			target, err := b.addSchema(name+exportName(prop), sc.Properties[prop])
			if err != nil {
				return "", err
			}
			s.Members = append(s.Members, shape.Member{
				Name:     prop,
				Target:   target,
				Required: required[prop],
			})
		}
	case isType(sc, "array"):
		if sc.UniqueItems {
			s.Kind = shape.KindSet
		} else {
			s.Kind = shape.KindList
		}
		items := sc.Items
		if items == nil {
			return "", fmt.Errorf("openapi: array schema %q has no items", name)
		}
		target, err := b.addSchema(name+"Member", items)
		if err != nil {
			return "", err
		}
		s.Target = target
		s.Traits = countTraits(sc.MinItems, sc.MaxItems)
	case isType(sc, "string"):
		switch sc.Format {
		case "byte", "binary":
			s.Kind = shape.KindBlob
			s.Traits = lengthTraits(sc)
		case "date-time", "date":
			s.Kind = shape.KindTimestamp
		default:
			if len(sc.Enum) > 0 {
				s.Kind = shape.KindEnum
				s.Traits = append(s.Traits, shape.EnumTrait{Values: enumStrings(sc.Enum)})
			} else {
				s.Kind = shape.KindString
				s.Traits = lengthTraits(sc)
				if sc.Pattern != "" {
					s.Traits = append(s.Traits, shape.PatternTrait{Pattern: sc.Pattern})
				}
			}
		}
	case isType(sc, "integer"), isType(sc, "number"):
		s.Kind = shape.KindNumber
		if sc.Min != nil || sc.Max != nil {
			s.Traits = append(s.Traits, shape.RangeTrait{Min: sc.Min, Max: sc.Max})
		}
	case isType(sc, "boolean"):
		s.Kind = shape.KindBoolean
	default:
		return "", fmt.Errorf("openapi: schema %q: unsupported type", name)
	}

	if err := b.model.Add(s); err != nil {
		return "", err
	}
	return id, nil
}

func (b *modelBuilder) addOperations(path string, item *openapi3.PathItem) error {
	if item == nil {
		return nil
	}
	methods := []struct {
		name string
		op   *openapi3.Operation
	}{
		{"GET", item.Get}, {"PUT", item.Put}, {"POST", item.Post},
		{"DELETE", item.Delete}, {"PATCH", item.Patch},
	}
	for _, m := range methods {
		if m.op == nil || m.op.RequestBody == nil || m.op.RequestBody.Value == nil {
			continue
		}
		mt, ok := m.op.RequestBody.Value.Content["application/json"]
		if !ok || mt.Schema == nil {
			continue
		}
		opID := m.op.OperationID
		if opID == "" {
			opID = strings.ToLower(m.name) + ":" + path
		}
		input, err := b.addSchema(exportName(opID)+"Input", mt.Schema)
		if err != nil {
			return err
		}
		b.model.AddOperation(shape.Operation{ID: opID, Input: input})
	}
	return nil
}

func componentName(ref string) string {
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func isType(sc *openapi3.Schema, t string) bool {
	return sc.Type != nil && sc.Type.Is(t)
}

func hasAdditionalSchema(sc *openapi3.Schema) bool {
	return sc.AdditionalProperties.Schema != nil
}

func stringRef() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: openapi3.NewStringSchema()}
}

func lengthTraits(sc *openapi3.Schema) []shape.Trait {
	return countTraits(sc.MinLength, sc.MaxLength)
}

// countTraits builds a length trait from an OpenAPI min/max pair. Zero min
// with no max is the OpenAPI default and carries no constraint.
func countTraits(min uint64, max *uint64) []shape.Trait {
	if min == 0 && max == nil {
		return nil
	}
	lt := shape.LengthTrait{Max: max}
	if min > 0 {
		v := min
		lt.Min = &v
	}
	return []shape.Trait{lt}
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// exportName upper-cases the first rune so synthesized shape names read like
// type names.
func exportName(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
