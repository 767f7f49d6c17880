package shape

// TraitKind names a constraint trait variant.
type TraitKind string

const (
	TraitLength      TraitKind = "length"
	TraitRange       TraitKind = "range"
	TraitPattern     TraitKind = "pattern"
	TraitUniqueItems TraitKind = "uniqueItems"
	TraitEnum        TraitKind = "enum"
)

// Trait is a declarative invariant attached to a shape or member. The set of
// implementations is closed; consumers switch exhaustively on the concrete
// type or on Kind().
type Trait interface {
	Kind() TraitKind
	isTrait()
}

// LengthTrait bounds the length of a string (Unicode scalar values), blob
// (bytes), list/set (elements), or map (entries). Nil bounds are open.
type LengthTrait struct {
	Min *uint64
	Max *uint64
}

func (LengthTrait) Kind() TraitKind { return TraitLength }
func (LengthTrait) isTrait()        {}

// RangeTrait bounds a number inclusively. Nil bounds are open.
type RangeTrait struct {
	Min *float64
	Max *float64
}

func (RangeTrait) Kind() TraitKind { return TraitRange }
func (RangeTrait) isTrait()        {}

// PatternTrait requires a string to contain a match of the regular
// expression. The match is an unanchored search.
type PatternTrait struct {
	Pattern string
}

func (PatternTrait) Kind() TraitKind { return TraitPattern }
func (PatternTrait) isTrait()        {}

// UniqueItemsTrait requires all elements of a list or set to be distinct.
type UniqueItemsTrait struct{}

func (UniqueItemsTrait) Kind() TraitKind { return TraitUniqueItems }
func (UniqueItemsTrait) isTrait()        {}

// EnumTrait restricts a string or enum shape to an ordered set of literal
// values. Order is preserved for rendering.
type EnumTrait struct {
	Values []string
}

func (EnumTrait) Kind() TraitKind { return TraitEnum }
func (EnumTrait) isTrait()        {}

// Accepts reports whether a trait kind may be applied to a shape kind.
// Violations of this table are generation-time errors, not runtime ones.
func (k Kind) Accepts(t TraitKind) bool {
	switch t {
	case TraitLength:
		return k == KindString || k == KindBlob || k == KindList || k == KindSet || k == KindMap
	case TraitRange:
		return k == KindNumber
	case TraitPattern:
		return k == KindString
	case TraitUniqueItems:
		return k == KindList || k == KindSet
	case TraitEnum:
		return k == KindString || k == KindEnum
	default:
		return false
	}
}

// FindTrait returns the first trait of the requested kind.
func FindTrait(traits []Trait, kind TraitKind) (Trait, bool) {
	for _, t := range traits {
		if t.Kind() == kind {
			return t, true
		}
	}
	return nil, false
}

// LengthOf returns the length trait in traits, if any.
func LengthOf(traits []Trait) (LengthTrait, bool) {
	if t, ok := FindTrait(traits, TraitLength); ok {
		return t.(LengthTrait), true
	}
	return LengthTrait{}, false
}

// RangeOf returns the range trait in traits, if any.
func RangeOf(traits []Trait) (RangeTrait, bool) {
	if t, ok := FindTrait(traits, TraitRange); ok {
		return t.(RangeTrait), true
	}
	return RangeTrait{}, false
}

// PatternOf returns the pattern trait in traits, if any.
func PatternOf(traits []Trait) (PatternTrait, bool) {
	if t, ok := FindTrait(traits, TraitPattern); ok {
		return t.(PatternTrait), true
	}
	return PatternTrait{}, false
}

// EnumOf returns the enum trait in traits, if any.
func EnumOf(traits []Trait) (EnumTrait, bool) {
	if t, ok := FindTrait(traits, TraitEnum); ok {
		return t.(EnumTrait), true
	}
	return EnumTrait{}, false
}

// HasUniqueItems reports whether traits carry the uniqueItems trait.
func HasUniqueItems(traits []Trait) bool {
	_, ok := FindTrait(traits, TraitUniqueItems)
	return ok
}
