package constrain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// Constrained wraps a value that satisfied every declared constraint of its
// shape. Only the engine constructs it; holding one is the proof that
// validation ran.
type Constrained struct {
	id    shape.ID
	value any
}

// ShapeID identifies the shape the value was validated against.
func (c Constrained) ShapeID() shape.ID { return c.id }

// Into unwraps the natural value. The conversion is lossless: the returned
// value deep-equals the semantic content that was validated.
func (c Constrained) Into() any { return c.value }

// Engine executes the fail-fast conversion over dynamic values: structures
// as map[string]any, lists as []any, maps as map[string]any, strings,
// numbers, blobs as []byte. It is immutable after construction and safe for
// concurrent use.
type Engine struct {
	model    *shape.Model
	index    *reach.Index
	patterns map[string]*regexp.Regexp
}

// New validates the model, precomputes reachability, and compiles every
// declared pattern so conversions never mutate engine state.
func New(m *shape.Model) (*Engine, error) {
	if m == nil {
		return nil, errors.New("constrain: model is required")
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("constrain: invalid model: %w", err)
	}
	e := &Engine{
		model:    m,
		index:    reach.NewIndex(m),
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, s := range m.Shapes() {
		if err := e.compilePatterns(s.ID, s.Traits); err != nil {
			return nil, err
		}
		for _, mem := range s.Members {
			if err := e.compilePatterns(s.ID, mem.Traits); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (e *Engine) compilePatterns(id shape.ID, traits []shape.Trait) error {
	pt, ok := shape.PatternOf(traits)
	if !ok {
		return nil
	}
	if _, done := e.patterns[pt.Pattern]; done {
		return nil
	}
	re, err := regexp.Compile(pt.Pattern)
	if err != nil {
		return fmt.Errorf("constrain: shape %s: invalid pattern %q: %w", id, pt.Pattern, err)
	}
	e.patterns[pt.Pattern] = re
	return nil
}

// TryConstrain converts an unconstrained value of the named shape. Exactly
// one of the violation and the constrained result is meaningful; the error
// return covers engine misuse (unknown shape, value of the wrong dynamic
// type), never a validation failure.
func (e *Engine) TryConstrain(id shape.ID, value any) (Constrained, Violation, error) {
	s, ok := e.model.Shape(id)
	if !ok {
		return Constrained{}, nil, fmt.Errorf("constrain: shape %q not found", id)
	}
	out, violation, err := e.constrain(s, value)
	if err != nil || violation != nil {
		return Constrained{}, violation, err
	}
	return Constrained{id: id, value: out}, nil, nil
}

func (e *Engine) constrain(s *shape.Shape, value any) (any, Violation, error) {
	switch s.Kind {
	case shape.KindStructure:
		return e.constrainStructure(s, value)
	case shape.KindUnion:
		return e.constrainUnion(s, value)
	case shape.KindList, shape.KindSet:
		return e.constrainList(s, value)
	case shape.KindMap:
		return e.constrainMap(s, value)
	case shape.KindString, shape.KindEnum:
		return e.constrainString(s, value)
	case shape.KindNumber:
		return e.constrainNumber(s, value)
	case shape.KindBlob:
		return e.constrainBlob(s, value)
	case shape.KindBoolean, shape.KindTimestamp:
		return value, nil, nil
	default:
		return nil, nil, fmt.Errorf("constrain: shape %s: unknown kind %q", s.ID, s.Kind)
	}
}

// constrainStructure checks members strictly in declaration order: each
// member's required presence is verified immediately before its value
// converts, so the first failing member wins no matter which way it fails.
// The structure's own traits run after every member passed.
func (e *Engine) constrainStructure(s *shape.Shape, value any) (any, Violation, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil, typeError(s, "object", value)
	}

	out := make(map[string]any, len(s.Members))
	for _, mem := range s.Members {
		raw, present := obj[mem.Name]
		if !present {
			if mem.Required {
				return nil, MissingMemberViolation{Member: mem.Name}, nil
			}
			continue
		}
		converted, violation, err := e.constrainMember(mem, raw)
		if err != nil {
			return nil, nil, err
		}
		if violation != nil {
			return nil, violation, nil
		}
		out[mem.Name] = converted
	}

	if violation, err := e.checkTraits(s.Traits, s.Kind, value); err != nil {
		return nil, nil, err
	} else if violation != nil {
		return nil, violation, nil
	}
	return out, nil, nil
}

// constrainUnion converts the single present variant. A union value must set
// exactly one declared member; anything else is a malformed input, not a
// constraint violation.
func (e *Engine) constrainUnion(s *shape.Shape, value any) (any, Violation, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil, typeError(s, "object", value)
	}

	var active *shape.Member
	for i := range s.Members {
		if _, present := obj[s.Members[i].Name]; present {
			if active != nil {
				return nil, nil, fmt.Errorf("constrain: union %s: more than one variant set", s.ID)
			}
			active = &s.Members[i]
		}
	}
	if active == nil {
		return nil, nil, fmt.Errorf("constrain: union %s: no variant set", s.ID)
	}

	converted, violation, err := e.constrainMember(*active, obj[active.Name])
	if err != nil || violation != nil {
		return nil, violation, err
	}
	return map[string]any{active.Name: converted}, nil, nil
}

// constrainMember applies member-level traits first, then recurses into the
// target shape when it can fail. Both outcomes carry the member identity.
func (e *Engine) constrainMember(mem shape.Member, raw any) (any, Violation, error) {
	target, ok := e.model.Shape(mem.Target)
	if !ok {
		return nil, nil, fmt.Errorf("constrain: member %q: target %q not found", mem.Name, mem.Target)
	}
	if len(mem.Traits) > 0 {
		violation, err := e.checkTraits(mem.Traits, target.Kind, raw)
		if err != nil {
			return nil, nil, err
		}
		if violation != nil {
			return nil, MemberViolation{Member: mem.Name, Inner: violation}, nil
		}
	}
	if !e.index.NeedsConversion(mem.Target) {
		return raw, nil, nil
	}
	converted, violation, err := e.constrain(target, raw)
	if err != nil {
		return nil, nil, err
	}
	if violation != nil {
		return nil, MemberViolation{Member: mem.Name, Inner: violation}, nil
	}
	return converted, nil, nil
}

// constrainList checks the element count before looking at any element,
// converts elements by index failing on the first invalid one, and only then
// checks uniqueness over the now-valid elements. Sets enforce uniqueness
// with or without an explicit trait.
func (e *Engine) constrainList(s *shape.Shape, value any) (any, Violation, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, nil, typeError(s, "array", value)
	}

	if lt, declared := shape.LengthOf(s.Traits); declared && !lengthOK(lt, len(items)) {
		return nil, LengthViolation{Length: len(items), Min: lt.Min, Max: lt.Max}, nil
	}

	element, ok := e.model.Shape(s.Target)
	if !ok {
		return nil, nil, fmt.Errorf("constrain: list %s: target %q not found", s.ID, s.Target)
	}
	needs := e.index.NeedsConversion(s.Target)

	out := make([]any, 0, len(items))
	for i, item := range items {
		if !needs {
			out = append(out, item)
			continue
		}
		converted, violation, err := e.constrain(element, item)
		if err != nil {
			return nil, nil, err
		}
		if violation != nil {
			return nil, ListMemberViolation{Index: i, Inner: violation}, nil
		}
		out = append(out, converted)
	}

	if s.Kind == shape.KindSet || shape.HasUniqueItems(s.Traits) {
		if HasDuplicateItems(out) {
			return nil, UniqueItemsViolation{}, nil
		}
	}
	return out, nil, nil
}

// constrainMap checks the entry count first, then walks entries in sorted
// key order, converting the key before the value of each entry.
func (e *Engine) constrainMap(s *shape.Shape, value any) (any, Violation, error) {
	entries, ok := value.(map[string]any)
	if !ok {
		return nil, nil, typeError(s, "map", value)
	}

	if lt, declared := shape.LengthOf(s.Traits); declared && !lengthOK(lt, len(entries)) {
		return nil, LengthViolation{Length: len(entries), Min: lt.Min, Max: lt.Max}, nil
	}

	keyShape, ok := e.model.Shape(s.Key)
	if !ok {
		return nil, nil, fmt.Errorf("constrain: map %s: key %q not found", s.ID, s.Key)
	}
	valueShape, ok := e.model.Shape(s.Value)
	if !ok {
		return nil, nil, fmt.Errorf("constrain: map %s: value %q not found", s.ID, s.Value)
	}
	checkKeys := e.index.NeedsConversion(s.Key)
	checkValues := e.index.NeedsConversion(s.Value)

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(entries))
	for _, k := range keys {
		if checkKeys {
			_, violation, err := e.constrain(keyShape, k)
			if err != nil {
				return nil, nil, err
			}
			if violation != nil {
				return nil, MapKeyViolation{Inner: violation}, nil
			}
		}
		if !checkValues {
			out[k] = entries[k]
			continue
		}
		converted, violation, err := e.constrain(valueShape, entries[k])
		if err != nil {
			return nil, nil, err
		}
		if violation != nil {
			return nil, MapValueViolation{Key: k, Inner: violation}, nil
		}
		out[k] = converted
	}
	return out, nil, nil
}

func (e *Engine) constrainString(s *shape.Shape, value any) (any, Violation, error) {
	str, ok := value.(string)
	if !ok {
		return nil, nil, typeError(s, "string", value)
	}
	violation, err := e.checkTraits(s.Traits, s.Kind, str)
	if err != nil || violation != nil {
		return nil, violation, err
	}
	return str, nil, nil
}

func (e *Engine) constrainNumber(s *shape.Shape, value any) (any, Violation, error) {
	x, ok := toFloat(value)
	if !ok {
		return nil, nil, typeError(s, "number", value)
	}
	if rt, declared := shape.RangeOf(s.Traits); declared {
		if (rt.Min != nil && x < *rt.Min) || (rt.Max != nil && x > *rt.Max) {
			return nil, RangeViolation{Min: rt.Min, Max: rt.Max}, nil
		}
	}
	return value, nil, nil
}

func (e *Engine) constrainBlob(s *shape.Shape, value any) (any, Violation, error) {
	data, ok := value.([]byte)
	if !ok {
		return nil, nil, typeError(s, "blob", value)
	}
	if lt, declared := shape.LengthOf(s.Traits); declared && !lengthOK(lt, len(data)) {
		return nil, LengthViolation{Length: len(data), Min: lt.Min, Max: lt.Max}, nil
	}
	return data, nil, nil
}

// checkTraits applies trait checks in the fixed precedence order: length,
// range, pattern, enum, uniqueItems. The first failing check wins.
func (e *Engine) checkTraits(traits []shape.Trait, kind shape.Kind, value any) (Violation, error) {
	if len(traits) == 0 {
		return nil, nil
	}
	if lt, ok := shape.LengthOf(traits); ok {
		n, err := measureLength(kind, value)
		if err != nil {
			return nil, err
		}
		if !lengthOK(lt, n) {
			return LengthViolation{Length: n, Min: lt.Min, Max: lt.Max}, nil
		}
	}
	if rt, ok := shape.RangeOf(traits); ok {
		x, numeric := toFloat(value)
		if !numeric {
			return nil, fmt.Errorf("constrain: range trait on non-numeric value %T", value)
		}
		if (rt.Min != nil && x < *rt.Min) || (rt.Max != nil && x > *rt.Max) {
			return RangeViolation{Min: rt.Min, Max: rt.Max}, nil
		}
	}
	if pt, ok := shape.PatternOf(traits); ok {
		str, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("constrain: pattern trait on non-string value %T", value)
		}
		re := e.patterns[pt.Pattern]
		if re == nil {
			return nil, fmt.Errorf("constrain: pattern %q not compiled", pt.Pattern)
		}
		if !re.MatchString(str) {
			return PatternViolation{Pattern: pt.Pattern}, nil
		}
	}
	if et, ok := shape.EnumOf(traits); ok {
		str, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("constrain: enum trait on non-string value %T", value)
		}
		if !containsString(et.Values, str) {
			return EnumViolation{Values: et.Values}, nil
		}
	}
	if shape.HasUniqueItems(traits) {
		items, isSlice := value.([]any)
		if !isSlice {
			return nil, fmt.Errorf("constrain: uniqueItems trait on non-array value %T", value)
		}
		if HasDuplicateItems(items) {
			return UniqueItemsViolation{}, nil
		}
	}
	return nil, nil
}

func measureLength(kind shape.Kind, value any) (int, error) {
	switch kind {
	case shape.KindString, shape.KindEnum:
		str, ok := value.(string)
		if !ok {
			return 0, fmt.Errorf("constrain: length trait on non-string value %T", value)
		}
		return utf8.RuneCountInString(str), nil
	case shape.KindBlob:
		data, ok := value.([]byte)
		if !ok {
			return 0, fmt.Errorf("constrain: length trait on non-blob value %T", value)
		}
		return len(data), nil
	case shape.KindList, shape.KindSet:
		items, ok := value.([]any)
		if !ok {
			return 0, fmt.Errorf("constrain: length trait on non-array value %T", value)
		}
		return len(items), nil
	case shape.KindMap:
		entries, ok := value.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("constrain: length trait on non-map value %T", value)
		}
		return len(entries), nil
	default:
		return 0, fmt.Errorf("constrain: length trait not measurable on %s", kind)
	}
}

func lengthOK(t shape.LengthTrait, n int) bool {
	if t.Min != nil && uint64(n) < *t.Min {
		return false
	}
	if t.Max != nil && uint64(n) > *t.Max {
		return false
	}
	return true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func typeError(s *shape.Shape, want string, got any) error {
	return fmt.Errorf("constrain: shape %s: expected %s value, got %T", s.ID, want, got)
}
