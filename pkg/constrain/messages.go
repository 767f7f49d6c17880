package constrain

import (
	"strconv"
	"strings"
)

// Message templates are part of the wire contract: both the renderer below
// and generated AsValidationExceptionField methods produce these strings.
// Every violation variant has exactly one template; there is no fallback.

// MissingMessage renders the missing-required-member template.
func MissingMessage(path string) string {
	return "Value at '" + path + "' failed to satisfy constraint: Member must not be null"
}

// LengthMessage renders the length template for the measured length and the
// declared bounds.
func LengthMessage(path string, length int, min, max *uint64) string {
	return "Value with length " + strconv.Itoa(length) + " at '" + path +
		"' failed to satisfy constraint: Member must have length " + lengthBound(min, max)
}

// RangeMessage renders the range template for the declared bounds.
func RangeMessage(path string, min, max *float64) string {
	return "Value at '" + path + "' failed to satisfy constraint: Member must be " + rangeBound(min, max)
}

// PatternMessage renders the pattern template.
func PatternMessage(path, pattern string) string {
	return "Value at '" + path + "' failed to satisfy constraint: Member must satisfy regular expression pattern: " + pattern
}

// EnumMessage renders the enum template with the permitted values in their
// declared order.
func EnumMessage(path string, values []string) string {
	return "Value at '" + path + "' failed to satisfy constraint: Member must satisfy enum value set: [" +
		strings.Join(values, ", ") + "]"
}

// UniqueItemsMessage renders the unique-items template.
func UniqueItemsMessage(path string) string {
	return "Value with repeated values at '" + path + "' failed to satisfy constraint: Member must have unique values"
}

func lengthBound(min, max *uint64) string {
	switch {
	case min != nil && max != nil:
		return "between " + strconv.FormatUint(*min, 10) + " and " + strconv.FormatUint(*max, 10) + ", inclusive"
	case min != nil:
		return "greater than or equal to " + strconv.FormatUint(*min, 10)
	case max != nil:
		return "less than or equal to " + strconv.FormatUint(*max, 10)
	default:
		return "unbounded"
	}
}

func rangeBound(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return "between " + formatNumber(*min) + " and " + formatNumber(*max) + ", inclusive"
	case min != nil:
		return "greater than or equal to " + formatNumber(*min)
	case max != nil:
		return "less than or equal to " + formatNumber(*max)
	default:
		return "unbounded"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
