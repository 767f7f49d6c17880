// Package convert derives the ordered fail-fast check plan for each marked
// shape. A plan is the generator-side statement of the conversion algorithm:
// the source renderer walks the steps in order and emits one check per step,
// so the generated function body and the runtime engine agree on ordering by
// construction.
package convert

import (
	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// StepKind classifies one check in a plan.
type StepKind string

const (
	// StepCheckRequired verifies a required member is present.
	StepCheckRequired StepKind = "checkRequired"
	// StepCheckMemberTraits applies member-level traits to a present value.
	StepCheckMemberTraits StepKind = "checkMemberTraits"
	// StepConvertMember recurses into a member's target conversion.
	StepConvertMember StepKind = "convertMember"
	// StepCheckLength verifies a collection count or scalar length bound.
	StepCheckLength StepKind = "checkLength"
	// StepConvertElements converts list/set elements by index.
	StepConvertElements StepKind = "convertElements"
	// StepCheckUniqueItems verifies element uniqueness after conversion.
	StepCheckUniqueItems StepKind = "checkUniqueItems"
	// StepConvertEntries converts map entries, key before value.
	StepConvertEntries StepKind = "convertEntries"
	// StepCheckRange verifies a numeric bound.
	StepCheckRange StepKind = "checkRange"
	// StepCheckPattern verifies a regular expression match.
	StepCheckPattern StepKind = "checkPattern"
	// StepCheckEnum verifies enum value membership.
	StepCheckEnum StepKind = "checkEnum"
	// StepCheckShapeTraits applies a structure's own traits after all
	// members converted.
	StepCheckShapeTraits StepKind = "checkShapeTraits"
)

// Step is one ordered check. Member, Target, Key, and Value are populated
// per StepKind; Trait carries the enforced trait for leaf checks.
type Step struct {
	Kind   StepKind
	Member string
	Target shape.ID
	Key    shape.ID
	Value  shape.ID
	Trait  shape.Trait
}

// Plan is the ordered check sequence for one shape.
type Plan struct {
	Shape shape.ID
	Kind  shape.Kind
	Steps []Step
}

// ForShape derives the plan for one shape. Trait applicability must already
// have been verified by synthesis.
func ForShape(m *shape.Model, idx *reach.Index, s *shape.Shape) Plan {
	p := Plan{Shape: s.ID, Kind: s.Kind}
	switch s.Kind {
	case shape.KindStructure:
		// Members are checked one at a time in declaration order: a member's
		// required presence is verified immediately before its value converts,
		// so whichever member fails first wins regardless of failure kind.
		for _, mem := range s.Members {
			if mem.Required {
				p.Steps = append(p.Steps, Step{Kind: StepCheckRequired, Member: mem.Name, Target: mem.Target})
			}
			if len(mem.Traits) > 0 {
				p.Steps = append(p.Steps, Step{Kind: StepCheckMemberTraits, Member: mem.Name, Target: mem.Target})
			}
			if idx.NeedsConversion(mem.Target) {
				p.Steps = append(p.Steps, Step{Kind: StepConvertMember, Member: mem.Name, Target: mem.Target})
			}
		}
		if len(s.Traits) > 0 {
			p.Steps = append(p.Steps, Step{Kind: StepCheckShapeTraits})
		}
	case shape.KindUnion:
		for _, mem := range s.Members {
			if len(mem.Traits) > 0 {
				p.Steps = append(p.Steps, Step{Kind: StepCheckMemberTraits, Member: mem.Name, Target: mem.Target})
			}
			if idx.NeedsConversion(mem.Target) {
				p.Steps = append(p.Steps, Step{Kind: StepConvertMember, Member: mem.Name, Target: mem.Target})
			}
		}
	case shape.KindList, shape.KindSet:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckLength, Trait: lt})
		}
		if idx.NeedsConversion(s.Target) {
			p.Steps = append(p.Steps, Step{Kind: StepConvertElements, Target: s.Target})
		}
		if s.Kind == shape.KindSet || shape.HasUniqueItems(s.Traits) {
			p.Steps = append(p.Steps, Step{Kind: StepCheckUniqueItems, Trait: shape.UniqueItemsTrait{}})
		}
	case shape.KindMap:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckLength, Trait: lt})
		}
		if idx.NeedsConversion(s.Key) || idx.NeedsConversion(s.Value) {
			p.Steps = append(p.Steps, Step{Kind: StepConvertEntries, Key: s.Key, Value: s.Value})
		}
	case shape.KindString, shape.KindEnum:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckLength, Trait: lt})
		}
		if pt, ok := shape.PatternOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckPattern, Trait: pt})
		}
		if et, ok := shape.EnumOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckEnum, Trait: et})
		}
	case shape.KindNumber:
		if rt, ok := shape.RangeOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckRange, Trait: rt})
		}
	case shape.KindBlob:
		if lt, ok := shape.LengthOf(s.Traits); ok {
			p.Steps = append(p.Steps, Step{Kind: StepCheckLength, Trait: lt})
		}
	}
	return p
}

// All derives plans for every marked shape in model order.
func All(m *shape.Model, idx *reach.Index) []Plan {
	var plans []Plan
	for _, s := range m.Shapes() {
		if !idx.Marked(s.ID) {
			continue
		}
		plans = append(plans, ForShape(m, idx, s))
	}
	return plans
}
