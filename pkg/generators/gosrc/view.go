package gosrc

import (
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// shapeView carries the precomputed source blocks for one marked shape. The
// template assembles blocks; all Go syntax decisions happen here where they
// can be unit tested.
type shapeView struct {
	ID            string `json:"id"`
	Unconstrained string `json:"unconstrained"`
	Constrained   string `json:"constrained"`
	Violations    string `json:"violations"`
	Conversion    string `json:"conversion"`
}

type fileView struct {
	Package                 string      `json:"package"`
	Imports                 []string    `json:"imports"`
	ValidationExceptionType string      `json:"validationException"`
	Helpers                 string      `json:"helpers"`
	Shapes                  []shapeView `json:"shapes"`
}

type viewBuilder struct {
	model         *shape.Model
	opts          gen.Options
	runtimeImport string
	triads        map[shape.ID]gen.Triad
	plans         map[shape.ID]gen.Plan
	imports       map[string]struct{}
}

func newViewBuilder(unit gen.Unit, opts gen.Options, runtimeImport string) *viewBuilder {
	b := &viewBuilder{
		model:         unit.Model,
		opts:          opts,
		runtimeImport: runtimeImport,
		triads:        make(map[shape.ID]gen.Triad, len(unit.Triads)),
		plans:         make(map[shape.ID]gen.Plan, len(unit.Plans)),
		imports:       make(map[string]struct{}),
	}
	for _, t := range unit.Triads {
		b.triads[t.Shape] = t
	}
	for _, p := range unit.Plans {
		b.plans[p.Shape] = p
	}
	// All violation renderer methods delegate to the runtime package.
	b.imports[runtimeImport] = struct{}{}
	return b
}

func (b *viewBuilder) sortedImports() []string {
	out := make([]string, 0, len(b.imports))
	for imp := range b.imports {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// naturalType is the Go type a validated value of the shape inhabits:
// the constrained type for marked shapes, the plain value type otherwise.
// Plain structure and union types are emitted by the surrounding type
// generator and referenced by name.
func (b *viewBuilder) naturalType(id shape.ID) string {
	if t, ok := b.triads[id]; ok {
		return t.Constrained.Name
	}
	s, ok := b.model.Shape(id)
	if !ok {
		return "any"
	}
	switch s.Kind {
	case shape.KindString, shape.KindEnum:
		return "string"
	case shape.KindNumber:
		return "float64"
	case shape.KindBlob:
		return "[]byte"
	case shape.KindBoolean:
		return "bool"
	case shape.KindTimestamp:
		b.imports["time"] = struct{}{}
		return "time.Time"
	case shape.KindList, shape.KindSet:
		return "[]" + b.naturalType(s.Target)
	case shape.KindMap:
		return "map[string]" + b.naturalType(s.Value)
	default:
		return gen.GoName(id.Name())
	}
}

// innerType is the natural value a constrained newtype wraps. For marked
// composite shapes the inner container still holds the children's
// constrained types.
func (b *viewBuilder) innerType(s *shape.Shape) string {
	switch s.Kind {
	case shape.KindString, shape.KindEnum:
		return "string"
	case shape.KindNumber:
		return "float64"
	case shape.KindBlob:
		return "[]byte"
	case shape.KindList, shape.KindSet:
		return "[]" + b.naturalType(s.Target)
	case shape.KindMap:
		return "map[string]" + b.naturalType(s.Value)
	default:
		return ""
	}
}

// unconstrainedType is the deserializer-facing type for a shape reference.
func (b *viewBuilder) unconstrainedType(id shape.ID) string {
	if t, ok := b.triads[id]; ok {
		return t.Unconstrained.Name
	}
	return b.naturalType(id)
}

// nilable reports whether the unconstrained representation of a shape is
// already nil-able, so optional members need no extra pointer.
func (b *viewBuilder) nilable(id shape.ID) bool {
	s, ok := b.model.Shape(id)
	if !ok {
		return false
	}
	switch s.Kind {
	case shape.KindList, shape.KindSet, shape.KindMap, shape.KindBlob:
		return true
	default:
		return false
	}
}

// boxed reports whether a member closes a reference cycle back to owner and
// therefore needs pointer indirection in the constrained container.
func (b *viewBuilder) boxed(owner shape.ID, mem shape.Member) bool {
	if mem.Target == owner {
		return true
	}
	return b.canReach(mem.Target, owner)
}

func (b *viewBuilder) canReach(from, to shape.ID) bool {
	seen := make(map[shape.ID]bool)
	var walk func(id shape.ID) bool
	walk = func(id shape.ID) bool {
		if seen[id] {
			return false
		}
		seen[id] = true
		s, ok := b.model.Shape(id)
		if !ok {
			return false
		}
		for _, ref := range s.References() {
			if ref == to || walk(ref) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// violationPayload is the type a structural variant nests: the child's own
// violation type when the child is marked and the member itself carries no
// traits, the runtime rendering interface otherwise. Members with traits can
// fail both ways, so their payload must admit runtime violations too.
func (b *viewBuilder) violationPayload(s *shape.Shape, v gen.Variant) string {
	if v.Member != "" {
		if mem, ok := s.Member(v.Member); ok && len(mem.Traits) > 0 {
			return "constrain.FieldRenderer"
		}
	}
	if t, ok := b.triads[v.Child]; ok {
		return t.Violation.Name
	}
	return "constrain.FieldRenderer"
}

var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// fieldIdent derives an unexported struct field or local variable name from
// a member name, steering clear of Go keywords.
func fieldIdent(member string) string {
	name := unexportFirst(gen.GoName(member))
	if _, reserved := goKeywords[name]; reserved {
		name += "Value"
	}
	return name
}

// Accessor names that would satisfy fmt.Stringer, fmt.GoStringer, or error
// change how the constrained type prints, so they get a suffix instead.
var reservedAccessors = map[string]struct{}{
	"String": {}, "GoString": {}, "Error": {},
}

// accessorIdent derives the exported accessor method name for a member.
func accessorIdent(member string) string {
	name := gen.GoName(member)
	if _, reserved := reservedAccessors[name]; reserved {
		name += "Value"
	}
	return name
}

func unexportFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func exportFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func quoteStrings(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, strconvQuote(v))
	}
	return strings.Join(quoted, ", ")
}
