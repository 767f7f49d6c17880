package constrain

import "strconv"

// ValidationExceptionField is the rendered, user-facing form of a single
// constraint violation. Path segments are joined with "/" and rooted at the
// empty string for the request body.
type ValidationExceptionField struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// ValidationException is the wire envelope produced by the surrounding
// system: exactly one field, matching the fail-fast conversion policy.
type ValidationException struct {
	Message   string                     `json:"message"`
	FieldList []ValidationExceptionField `json:"fieldList,omitempty"`
}

// NewValidationException wraps a single rendered field in the wire envelope.
func NewValidationException(field ValidationExceptionField) ValidationException {
	return ValidationException{
		Message:   "1 validation error detected. " + field.Message,
		FieldList: []ValidationExceptionField{field},
	}
}

// FieldRenderer is the rendering half of Violation. Generated violation
// types satisfy it without belonging to this package's closed variant set,
// which lets generated wrappers nest either kind.
type FieldRenderer interface {
	AsValidationExceptionField(path string) ValidationExceptionField
}

// Violation describes exactly one way a conversion failed. The set of
// implementations is closed; every variant renders through exactly one
// message template.
type Violation interface {
	// AsValidationExceptionField renders the violation against the path of
	// the value that was being converted.
	AsValidationExceptionField(path string) ValidationExceptionField
	isViolation()
}

// MissingMemberViolation reports a required structure member that was absent
// from the unconstrained value.
type MissingMemberViolation struct {
	Member string
}

func (v MissingMemberViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	p := path + "/" + v.Member
	return ValidationExceptionField{Path: p, Message: MissingMessage(p)}
}

func (MissingMemberViolation) isViolation() {}

// MemberViolation wraps a violation raised while converting a structure or
// union member, carrying the member's identity.
type MemberViolation struct {
	Member string
	Inner  Violation
}

func (v MemberViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return v.Inner.AsValidationExceptionField(path + "/" + v.Member)
}

func (MemberViolation) isViolation() {}

// ListMemberViolation wraps the first failing element of a list or set.
type ListMemberViolation struct {
	Index int
	Inner Violation
}

func (v ListMemberViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return v.Inner.AsValidationExceptionField(path + "/" + strconv.Itoa(v.Index))
}

func (ListMemberViolation) isViolation() {}

// MapKeyViolation wraps a violation raised while converting a map key. The
// key segment is deliberately not appended to the path; only value
// violations gain the key segment.
type MapKeyViolation struct {
	Inner Violation
}

func (v MapKeyViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return v.Inner.AsValidationExceptionField(path)
}

func (MapKeyViolation) isViolation() {}

// MapValueViolation wraps a violation raised while converting the value
// stored under Key.
type MapValueViolation struct {
	Key   string
	Inner Violation
}

func (v MapValueViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return v.Inner.AsValidationExceptionField(path + "/" + v.Key)
}

func (MapValueViolation) isViolation() {}

// LengthViolation reports a length bound failure. Length is measured in
// Unicode scalar values for strings, bytes for blobs, elements for lists and
// sets, and entries for maps.
type LengthViolation struct {
	Length int
	Min    *uint64
	Max    *uint64
}

func (v LengthViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return ValidationExceptionField{Path: path, Message: LengthMessage(path, v.Length, v.Min, v.Max)}
}

func (LengthViolation) isViolation() {}

// RangeViolation reports a numeric range failure.
type RangeViolation struct {
	Min *float64
	Max *float64
}

func (v RangeViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return ValidationExceptionField{Path: path, Message: RangeMessage(path, v.Min, v.Max)}
}

func (RangeViolation) isViolation() {}

// PatternViolation reports a string that contains no match of the declared
// regular expression.
type PatternViolation struct {
	Pattern string
}

func (v PatternViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return ValidationExceptionField{Path: path, Message: PatternMessage(path, v.Pattern)}
}

func (PatternViolation) isViolation() {}

// EnumViolation reports a value outside the permitted enum value set.
type EnumViolation struct {
	Values []string
}

func (v EnumViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return ValidationExceptionField{Path: path, Message: EnumMessage(path, v.Values)}
}

func (EnumViolation) isViolation() {}

// UniqueItemsViolation reports duplicate elements in a list or set whose
// elements all validated individually.
type UniqueItemsViolation struct{}

func (UniqueItemsViolation) AsValidationExceptionField(path string) ValidationExceptionField {
	return ValidationExceptionField{Path: path, Message: UniqueItemsMessage(path)}
}

func (UniqueItemsViolation) isViolation() {}
