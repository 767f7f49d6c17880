package synth

import (
	"strings"
	"unicode"
)

// GoName converts a model identifier (snake_case, kebab-case, camelCase, or
// already Pascal) into an exported Go identifier.
func GoName(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if !unicode.IsLetter(rune(out[0])) && out[0] != '_' {
		out = "X" + out
	}
	return out
}

func unexport(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
