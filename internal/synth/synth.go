// Package synth derives the type triad for every marked shape: the
// permissive Unconstrained representation, the proof-carrying Constrained
// newtype, and the ConstraintViolation sum type enumerating every local
// failure mode. It produces declarations, not source text; rendering is a
// generator concern.
package synth

import (
	"fmt"

	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// Options control synthesis output.
type Options struct {
	// PublicConstrainedTypes exposes constrained and violation types to
	// external callers. When false the types are restricted to the
	// generation unit, which is mandatory when a host binding layer owns
	// the public surface of constrained values.
	PublicConstrainedTypes bool
}

// TypeDecl names a generated type and records its visibility.
type TypeDecl struct {
	Name     string
	Exported bool
}

// VariantKind classifies a ConstraintViolation variant.
type VariantKind string

const (
	VariantMissing     VariantKind = "missing"
	VariantMember      VariantKind = "member"
	VariantListMember  VariantKind = "listMember"
	VariantMapKey      VariantKind = "mapKey"
	VariantMapValue    VariantKind = "mapValue"
	VariantLength      VariantKind = "length"
	VariantRange       VariantKind = "range"
	VariantPattern     VariantKind = "pattern"
	VariantEnum        VariantKind = "enum"
	VariantUniqueItems VariantKind = "uniqueItems"
)

// Variant is one independently-detectable failure mode. Structural variants
// (member, listMember, mapKey, mapValue) carry the child shape whose own
// violation they wrap; leaf variants carry the trait they enforce.
type Variant struct {
	Name   string
	Kind   VariantKind
	Member string
	Child  shape.ID
	Trait  shape.Trait
}

// ViolationDecl is the ConstraintViolation declaration for one shape.
type ViolationDecl struct {
	TypeDecl
	Variants []Variant
}

// Triad is the full set of declarations for one marked shape.
type Triad struct {
	Shape         shape.ID
	Kind          shape.Kind
	Unconstrained TypeDecl
	Constrained   TypeDecl
	Violation     ViolationDecl
}

// CheckTraitApplicability verifies every trait in the model against its
// carrier's kind. A mismatch is a model-integrity error reported with the
// offending shape id, surfaced before any code is emitted.
func CheckTraitApplicability(m *shape.Model) error {
	for _, s := range m.Shapes() {
		for _, t := range s.Traits {
			if !s.Kind.Accepts(t.Kind()) {
				return fmt.Errorf("synth: shape %s: trait %q not applicable to %s shape", s.ID, t.Kind(), s.Kind)
			}
		}
		for _, mem := range s.Members {
			target, ok := m.Shape(mem.Target)
			if !ok {
				return fmt.Errorf("synth: shape %s: member %q: target %q not found", s.ID, mem.Name, mem.Target)
			}
			for _, t := range mem.Traits {
				if !target.Kind.Accepts(t.Kind()) {
					return fmt.Errorf("synth: shape %s: member %q: trait %q not applicable to %s shape",
						s.ID, mem.Name, t.Kind(), target.Kind)
				}
			}
		}
	}
	return nil
}

// Synthesize derives triads for every marked shape in model order. It fails
// fast on trait applicability for the whole model, marked or not.
func Synthesize(m *shape.Model, idx *reach.Index, opts Options) ([]Triad, error) {
	if err := CheckTraitApplicability(m); err != nil {
		return nil, err
	}
	var triads []Triad
	for _, s := range m.Shapes() {
		if !idx.Marked(s.ID) {
			continue
		}
		triads = append(triads, ForShape(m, idx, s, opts))
	}
	return triads, nil
}

// ForShape derives the triad for one shape. Callers must have verified
// trait applicability; ForShape assumes a well-formed model.
func ForShape(m *shape.Model, idx *reach.Index, s *shape.Shape, opts Options) Triad {
	base := GoName(s.ID.Name())
	constrainedName := base
	violationName := base + "ConstraintViolation"
	if !opts.PublicConstrainedTypes {
		constrainedName = unexport(constrainedName)
		violationName = unexport(violationName)
	}

	return Triad{
		Shape: s.ID,
		Kind:  s.Kind,
		// The unconstrained type is always visible to the deserializer.
		Unconstrained: TypeDecl{Name: base + "Unconstrained", Exported: true},
		Constrained:   TypeDecl{Name: constrainedName, Exported: opts.PublicConstrainedTypes},
		Violation: ViolationDecl{
			TypeDecl: TypeDecl{Name: violationName, Exported: opts.PublicConstrainedTypes},
			Variants: variantsFor(m, idx, s),
		},
	}
}

func variantsFor(m *shape.Model, idx *reach.Index, s *shape.Shape) []Variant {
	var variants []Variant
	switch s.Kind {
	case shape.KindStructure:
		for _, mem := range s.Members {
			if mem.Required {
				variants = append(variants, Variant{
					Name:   "Missing" + GoName(mem.Name),
					Kind:   VariantMissing,
					Member: mem.Name,
				})
			}
		}
		for _, mem := range s.Members {
			if constrainedMember(idx, mem) {
				variants = append(variants, Variant{
					Name:   GoName(mem.Name),
					Kind:   VariantMember,
					Member: mem.Name,
					Child:  mem.Target,
				})
			}
		}
		variants = append(variants, traitVariants(s.Traits)...)
	case shape.KindUnion:
		for _, mem := range s.Members {
			if constrainedMember(idx, mem) {
				variants = append(variants, Variant{
					Name:   GoName(mem.Name),
					Kind:   VariantMember,
					Member: mem.Name,
					Child:  mem.Target,
				})
			}
		}
	case shape.KindList, shape.KindSet:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			variants = append(variants, Variant{Name: "Length", Kind: VariantLength, Trait: lt})
		}
		if idx.NeedsConversion(s.Target) {
			variants = append(variants, Variant{Name: "Member", Kind: VariantListMember, Child: s.Target})
		}
		if s.Kind == shape.KindSet || shape.HasUniqueItems(s.Traits) {
			variants = append(variants, Variant{Name: "UniqueItems", Kind: VariantUniqueItems, Trait: shape.UniqueItemsTrait{}})
		}
	case shape.KindMap:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			variants = append(variants, Variant{Name: "Length", Kind: VariantLength, Trait: lt})
		}
		if idx.NeedsConversion(s.Key) {
			variants = append(variants, Variant{Name: "Key", Kind: VariantMapKey, Child: s.Key})
		}
		if idx.NeedsConversion(s.Value) {
			variants = append(variants, Variant{Name: "Value", Kind: VariantMapValue, Child: s.Value})
		}
	case shape.KindString, shape.KindEnum, shape.KindNumber, shape.KindBlob:
		variants = traitVariants(s.Traits)
	}
	return variants
}

// traitVariants emits leaf variants in check-precedence order: length,
// range, pattern, enum.
func traitVariants(traits []shape.Trait) []Variant {
	var variants []Variant
	if lt, ok := shape.LengthOf(traits); ok {
		variants = append(variants, Variant{Name: "Length", Kind: VariantLength, Trait: lt})
	}
	if rt, ok := shape.RangeOf(traits); ok {
		variants = append(variants, Variant{Name: "Range", Kind: VariantRange, Trait: rt})
	}
	if pt, ok := shape.PatternOf(traits); ok {
		variants = append(variants, Variant{Name: "Pattern", Kind: VariantPattern, Trait: pt})
	}
	if et, ok := shape.EnumOf(traits); ok {
		variants = append(variants, Variant{Name: "Enum", Kind: VariantEnum, Trait: et})
	}
	return variants
}

func constrainedMember(idx *reach.Index, mem shape.Member) bool {
	return len(mem.Traits) > 0 || idx.NeedsConversion(mem.Target)
}
