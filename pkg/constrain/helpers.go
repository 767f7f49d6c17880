package constrain

import "reflect"

// Pointer helpers for generated code interpolating trait bounds.

// Uint64 returns a pointer to v.
func Uint64(v uint64) *uint64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// HasDuplicateItems reports whether any two elements are structurally equal.
// Generated list and set conversions call this after every element has
// validated.
func HasDuplicateItems[T any](items []T) bool {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if reflect.DeepEqual(items[i], items[j]) {
				return true
			}
		}
	}
	return false
}
