package gen

import (
	"github.com/goliatone/go-constraintgen/internal/convert"
	"github.com/goliatone/go-constraintgen/internal/synth"
)

// Triad re-exports the synthesized declaration set for one shape.
type Triad = synth.Triad

// TypeDecl re-exports a generated type declaration.
type TypeDecl = synth.TypeDecl

// ViolationDecl re-exports a ConstraintViolation declaration.
type ViolationDecl = synth.ViolationDecl

// Variant re-exports one violation variant.
type Variant = synth.Variant

// VariantKind re-exports the variant classification.
type VariantKind = synth.VariantKind

const (
	VariantMissing     = synth.VariantMissing
	VariantMember      = synth.VariantMember
	VariantListMember  = synth.VariantListMember
	VariantMapKey      = synth.VariantMapKey
	VariantMapValue    = synth.VariantMapValue
	VariantLength      = synth.VariantLength
	VariantRange       = synth.VariantRange
	VariantPattern     = synth.VariantPattern
	VariantEnum        = synth.VariantEnum
	VariantUniqueItems = synth.VariantUniqueItems
)

// GoName converts a model identifier into an exported Go identifier using
// the synthesizer's naming rules.
func GoName(name string) string { return synth.GoName(name) }

// Plan re-exports the ordered fail-fast check plan for one shape.
type Plan = convert.Plan

// Step re-exports one ordered check.
type Step = convert.Step

// StepKind re-exports the check classification.
type StepKind = convert.StepKind

const (
	StepCheckRequired     = convert.StepCheckRequired
	StepCheckMemberTraits = convert.StepCheckMemberTraits
	StepConvertMember     = convert.StepConvertMember
	StepCheckLength       = convert.StepCheckLength
	StepConvertElements   = convert.StepConvertElements
	StepCheckUniqueItems  = convert.StepCheckUniqueItems
	StepConvertEntries    = convert.StepConvertEntries
	StepCheckRange        = convert.StepCheckRange
	StepCheckPattern      = convert.StepCheckPattern
	StepCheckEnum         = convert.StepCheckEnum
	StepCheckShapeTraits  = convert.StepCheckShapeTraits
)
