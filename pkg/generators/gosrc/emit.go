package gosrc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/shape"
)

func strconvQuote(s string) string {
	return strconv.Quote(s)
}

func (b *viewBuilder) buildFile() (fileView, error) {
	fv := fileView{
		Package:                 b.opts.Package,
		ValidationExceptionType: b.opts.ValidationExceptionType,
	}
	if fv.Package == "" {
		fv.Package = "model"
	}
	for _, s := range b.model.Shapes() {
		triad, ok := b.triads[s.ID]
		if !ok {
			continue
		}
		plan, ok := b.plans[s.ID]
		if !ok {
			return fileView{}, fmt.Errorf("gosrc: shape %s: triad present without a conversion plan", s.ID)
		}
		sv, err := b.buildShape(s, triad, plan)
		if err != nil {
			return fileView{}, err
		}
		fv.Shapes = append(fv.Shapes, sv)
	}
	fv.Helpers = b.emitHelpers()
	fv.Imports = b.sortedImports()
	return fv, nil
}

// emitHelpers writes the file-level envelope helper. The helper name follows
// the configured wire exception type so generated code reads naturally next
// to the host service's error surface.
func (b *viewBuilder) emitHelpers() string {
	name := b.opts.ValidationExceptionType
	if name == "" {
		name = "ValidationException"
	}
	var w strings.Builder
	fmt.Fprintf(&w, "// As%s renders the first (and only) violation of a failed\n", name)
	fmt.Fprintf(&w, "// conversion into the wire envelope, rooted at the request body.\n")
	fmt.Fprintf(&w, "func As%s(v constrain.FieldRenderer) constrain.ValidationException {\n", name)
	fmt.Fprintf(&w, "\treturn constrain.NewValidationException(v.AsValidationExceptionField(\"\"))\n")
	fmt.Fprintf(&w, "}\n")
	return w.String()
}

func (b *viewBuilder) buildShape(s *shape.Shape, triad gen.Triad, plan gen.Plan) (shapeView, error) {
	sv := shapeView{ID: string(s.ID)}
	sv.Unconstrained = b.emitUnconstrained(s, triad)
	sv.Constrained = b.emitConstrained(s, triad)
	sv.Violations = b.emitViolations(s, triad)

	conv, err := b.emitConversion(s, triad, plan)
	if err != nil {
		return shapeView{}, err
	}
	sv.Conversion = conv
	return sv, nil
}

// --- unconstrained ---------------------------------------------------------

func (b *viewBuilder) emitUnconstrained(s *shape.Shape, triad gen.Triad) string {
	var w strings.Builder
	name := triad.Unconstrained.Name
	switch s.Kind {
	case shape.KindStructure, shape.KindUnion:
		fmt.Fprintf(&w, "// %s is the deserializer-facing form of %s. Every member is\n", name, s.ID.Name())
		fmt.Fprintf(&w, "// optional; presence is checked during conversion.\n")
		fmt.Fprintf(&w, "type %s struct {\n", name)
		for _, mem := range s.Members {
			fmt.Fprintf(&w, "\t%s %s `json:%s`\n",
				gen.GoName(mem.Name), b.uncFieldType(mem.Target), strconvQuote(mem.Name+",omitempty"))
		}
		fmt.Fprintf(&w, "}\n")
	case shape.KindList, shape.KindSet:
		fmt.Fprintf(&w, "type %s []%s\n", name, b.unconstrainedType(s.Target))
	case shape.KindMap:
		fmt.Fprintf(&w, "type %s map[string]%s\n", name, b.unconstrainedType(s.Value))
	case shape.KindString, shape.KindEnum:
		fmt.Fprintf(&w, "type %s string\n", name)
	case shape.KindNumber:
		fmt.Fprintf(&w, "type %s float64\n", name)
	case shape.KindBlob:
		fmt.Fprintf(&w, "type %s []byte\n", name)
	}
	return w.String()
}

func (b *viewBuilder) uncFieldType(target shape.ID) string {
	t := b.unconstrainedType(target)
	if b.nilable(target) {
		return t
	}
	return "*" + t
}

// --- constrained -----------------------------------------------------------

func (b *viewBuilder) emitConstrained(s *shape.Shape, triad gen.Triad) string {
	var w strings.Builder
	name := triad.Constrained.Name
	switch s.Kind {
	case shape.KindStructure, shape.KindUnion:
		fmt.Fprintf(&w, "// %s holds values that satisfied every constraint of %s.\n", name, s.ID.Name())
		fmt.Fprintf(&w, "// Instances are only produced by %s.\n", b.tryName(s.ID))
		fmt.Fprintf(&w, "type %s struct {\n", name)
		for _, mem := range s.Members {
			fmt.Fprintf(&w, "\t%s %s\n", fieldIdent(mem.Name), b.conFieldType(s, mem))
		}
		fmt.Fprintf(&w, "}\n\n")
		for _, mem := range s.Members {
			fmt.Fprintf(&w, "func (c %s) %s() %s { return c.%s }\n",
				name, accessorIdent(mem.Name), b.conFieldType(s, mem), fieldIdent(mem.Name))
		}
	default:
		fmt.Fprintf(&w, "// %s wraps a value proven to satisfy the constraints of %s.\n", name, s.ID.Name())
		fmt.Fprintf(&w, "type %s struct {\n\tvalue %s\n}\n\n", name, b.innerType(s))
		fmt.Fprintf(&w, "// Value returns the validated inner value.\n")
		fmt.Fprintf(&w, "func (c %s) Value() %s { return c.value }\n", name, b.innerType(s))
	}
	return w.String()
}

// conFieldType is the constrained container's field type for a member.
// Optional members whose validated type has no natural nil take a pointer,
// as do cycle-closing members. Union members are always pointers so at most
// one arm is set. A marked collection validates into a struct newtype, so
// the raw kind's nil-ability no longer applies.
func (b *viewBuilder) conFieldType(s *shape.Shape, mem shape.Member) string {
	t := b.naturalType(mem.Target)
	_, marked := b.triads[mem.Target]
	if b.nilable(mem.Target) && !marked {
		return t
	}
	if s.Kind == shape.KindUnion || !mem.Required || b.boxed(s.ID, mem) {
		return "*" + t
	}
	return t
}

// --- violations ------------------------------------------------------------

func (b *viewBuilder) emitViolations(s *shape.Shape, triad gen.Triad) string {
	var w strings.Builder
	name := triad.Violation.Name
	marker := "is" + exportFirst(name)

	fmt.Fprintf(&w, "// %s enumerates the ways a %s value can fail\n", name, triad.Unconstrained.Name)
	fmt.Fprintf(&w, "// conversion. The implementation set is closed.\n")
	fmt.Fprintf(&w, "type %s interface {\n", name)
	fmt.Fprintf(&w, "\tAsValidationExceptionField(path string) constrain.ValidationExceptionField\n")
	fmt.Fprintf(&w, "\t%s()\n", marker)
	fmt.Fprintf(&w, "}\n")

	for _, v := range triad.Violation.Variants {
		vn := name + v.Name
		fmt.Fprintf(&w, "\n")
		switch v.Kind {
		case gen.VariantMissing:
			fmt.Fprintf(&w, "type %s struct{}\n\n", vn)
			fmt.Fprintf(&w, "func (%s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.MissingMemberViolation{Member: %s}.AsValidationExceptionField(path)\n", strconvQuote(v.Member))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantMember:
			fmt.Fprintf(&w, "type %s struct {\n\tInner %s\n}\n\n", vn, b.violationPayload(s, v))
			fmt.Fprintf(&w, "func (v %s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn v.Inner.AsValidationExceptionField(path + %s)\n", strconvQuote("/"+v.Member))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantListMember:
			b.imports["strconv"] = struct{}{}
			fmt.Fprintf(&w, "type %s struct {\n\tIndex int\n\tInner %s\n}\n\n", vn, b.violationPayload(s, v))
			fmt.Fprintf(&w, "func (v %s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn v.Inner.AsValidationExceptionField(path + \"/\" + strconv.Itoa(v.Index))\n")
			fmt.Fprintf(&w, "}\n")
		case gen.VariantMapKey:
			fmt.Fprintf(&w, "type %s struct {\n\tInner %s\n}\n\n", vn, b.violationPayload(s, v))
			fmt.Fprintf(&w, "// Key violations render at the map's own path; the key segment is\n")
			fmt.Fprintf(&w, "// never appended for keys.\n")
			fmt.Fprintf(&w, "func (v %s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn v.Inner.AsValidationExceptionField(path)\n")
			fmt.Fprintf(&w, "}\n")
		case gen.VariantMapValue:
			fmt.Fprintf(&w, "type %s struct {\n\tKey string\n\tInner %s\n}\n\n", vn, b.violationPayload(s, v))
			fmt.Fprintf(&w, "func (v %s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn v.Inner.AsValidationExceptionField(path + \"/\" + v.Key)\n")
			fmt.Fprintf(&w, "}\n")
		case gen.VariantLength:
			lt := v.Trait.(shape.LengthTrait)
			fmt.Fprintf(&w, "type %s struct {\n\tLength int\n}\n\n", vn)
			fmt.Fprintf(&w, "func (v %s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.LengthViolation{Length: v.Length, Min: %s, Max: %s}.AsValidationExceptionField(path)\n",
				uintPtrLit(lt.Min), uintPtrLit(lt.Max))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantRange:
			rt := v.Trait.(shape.RangeTrait)
			fmt.Fprintf(&w, "type %s struct{}\n\n", vn)
			fmt.Fprintf(&w, "func (%s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.RangeViolation{Min: %s, Max: %s}.AsValidationExceptionField(path)\n",
				floatPtrLit(rt.Min), floatPtrLit(rt.Max))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantPattern:
			pt := v.Trait.(shape.PatternTrait)
			fmt.Fprintf(&w, "type %s struct{}\n\n", vn)
			fmt.Fprintf(&w, "func (%s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.PatternViolation{Pattern: %s}.AsValidationExceptionField(path)\n", strconvQuote(pt.Pattern))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantEnum:
			et := v.Trait.(shape.EnumTrait)
			fmt.Fprintf(&w, "type %s struct{}\n\n", vn)
			fmt.Fprintf(&w, "func (%s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.EnumViolation{Values: []string{%s}}.AsValidationExceptionField(path)\n", quoteStrings(et.Values))
			fmt.Fprintf(&w, "}\n")
		case gen.VariantUniqueItems:
			fmt.Fprintf(&w, "type %s struct{}\n\n", vn)
			fmt.Fprintf(&w, "func (%s) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n", vn)
			fmt.Fprintf(&w, "\treturn constrain.UniqueItemsViolation{}.AsValidationExceptionField(path)\n")
			fmt.Fprintf(&w, "}\n")
		}
		fmt.Fprintf(&w, "\nfunc (%s) %s() {}\n", vn, marker)
	}
	return w.String()
}

func uintPtrLit(p *uint64) string {
	if p == nil {
		return "nil"
	}
	return "constrain.Uint64(" + strconv.FormatUint(*p, 10) + ")"
}

func floatPtrLit(p *float64) string {
	if p == nil {
		return "nil"
	}
	return "constrain.Float64(" + strconv.FormatFloat(*p, 'f', -1, 64) + ")"
}

// --- conversion ------------------------------------------------------------

func (b *viewBuilder) tryName(id shape.ID) string {
	base := gen.GoName(id.Name())
	if b.opts.PublicConstrainedTypes {
		return "Try" + base
	}
	return "try" + base
}

func (b *viewBuilder) emitConversion(s *shape.Shape, triad gen.Triad, plan gen.Plan) (string, error) {
	var w strings.Builder

	for _, pv := range b.patternVars(s) {
		b.imports["regexp"] = struct{}{}
		fmt.Fprintf(&w, "var %s = regexp.MustCompile(%s)\n\n", pv.name, strconvQuote(pv.pattern))
	}

	fn := b.tryName(s.ID)
	cn := triad.Constrained.Name
	un := triad.Unconstrained.Name
	vn := triad.Violation.Name

	fmt.Fprintf(&w, "// %s converts a %s into its constrained form, returning the\n", fn, un)
	fmt.Fprintf(&w, "// first violation encountered in declaration order.\n")
	fmt.Fprintf(&w, "func %s(u %s) (%s, %s) {\n", fn, un, cn, vn)

	switch s.Kind {
	case shape.KindStructure:
		b.emitStructureBody(&w, s, triad, plan)
	case shape.KindUnion:
		b.emitUnionBody(&w, s, triad, plan)
	case shape.KindList, shape.KindSet:
		b.emitListBody(&w, s, triad, plan)
	case shape.KindMap:
		b.emitMapBody(&w, s, triad, plan)
	case shape.KindString, shape.KindEnum:
		b.emitStringBody(&w, s, triad, plan)
	case shape.KindNumber:
		b.emitNumberBody(&w, s, triad, plan)
	case shape.KindBlob:
		b.emitBlobBody(&w, s, triad, plan)
	default:
		return "", fmt.Errorf("gosrc: shape %s: kind %s cannot carry constraints", s.ID, s.Kind)
	}

	fmt.Fprintf(&w, "}\n")
	return w.String(), nil
}

type patternVar struct {
	name    string
	pattern string
}

// patternVars collects the compiled patterns a shape's conversion needs:
// its own pattern trait plus every member-level pattern trait.
func (b *viewBuilder) patternVars(s *shape.Shape) []patternVar {
	base := unexportFirst(gen.GoName(s.ID.Name()))
	var vars []patternVar
	if pt, ok := shape.PatternOf(s.Traits); ok {
		vars = append(vars, patternVar{name: base + "Pattern", pattern: pt.Pattern})
	}
	for _, mem := range s.Members {
		if pt, ok := shape.PatternOf(mem.Traits); ok {
			vars = append(vars, patternVar{name: base + gen.GoName(mem.Name) + "Pattern", pattern: pt.Pattern})
		}
	}
	return vars
}

// emitStructureBody walks the plan's steps in order, so the generated checks
// fail in exactly the sequence the plan derived: each member's presence check
// immediately ahead of its own trait checks and target conversion. Members
// the plan never mentions carry no checks; their copies trail the checked
// members, where ordering cannot change which violation is reported.
func (b *viewBuilder) emitStructureBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name

	fmt.Fprintf(w, "\tvar out %s\n", cn)
	done := make(map[string]bool, len(s.Members))
	for _, step := range plan.Steps {
		switch step.Kind {
		case gen.StepCheckRequired:
			fmt.Fprintf(w, "\tif u.%s == nil {\n", gen.GoName(step.Member))
			fmt.Fprintf(w, "\t\treturn %s{}, %sMissing%s{}\n", cn, vn, gen.GoName(step.Member))
			fmt.Fprintf(w, "\t}\n")
		case gen.StepCheckMemberTraits, gen.StepConvertMember:
			if done[step.Member] {
				continue
			}
			done[step.Member] = true
			if mem, ok := s.Member(step.Member); ok {
				b.emitMemberConversion(w, s, triad, mem, memberChecks(plan, step.Member))
			}
		}
	}
	for _, mem := range s.Members {
		if done[mem.Name] {
			continue
		}
		b.emitMemberConversion(w, s, triad, mem, memberSteps{})
	}
	fmt.Fprintf(w, "\treturn out, nil\n")
}

func (b *viewBuilder) emitUnionBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	fmt.Fprintf(w, "\tvar out %s\n", triad.Constrained.Name)
	for _, mem := range s.Members {
		b.emitMemberConversion(w, s, triad, mem, memberChecks(plan, mem.Name))
	}
	fmt.Fprintf(w, "\treturn out, nil\n")
}

// memberSteps records which plan steps apply to one member.
type memberSteps struct {
	traits  bool
	convert bool
}

func memberChecks(plan gen.Plan, member string) memberSteps {
	var ms memberSteps
	for _, step := range plan.Steps {
		if step.Member != member {
			continue
		}
		switch step.Kind {
		case gen.StepCheckMemberTraits:
			ms.traits = true
		case gen.StepConvertMember:
			ms.convert = true
		}
	}
	return ms
}

// emitMemberConversion emits the presence guard, member-level trait checks,
// and target conversion (or plain copy) for one member, assigning into out.
// Which checks are emitted comes from the member's plan steps.
func (b *viewBuilder) emitMemberConversion(w *strings.Builder, s *shape.Shape, triad gen.Triad, mem shape.Member, checks memberSteps) {
	field := gen.GoName(mem.Name)
	ident := fieldIdent(mem.Name)
	target, _ := b.model.Shape(mem.Target)
	uncPointer := !b.nilable(mem.Target)
	conPointer := strings.HasPrefix(b.conFieldType(s, mem), "*")

	raw := "u." + field
	if uncPointer {
		raw = "*u." + field
	}

	indent := "\t"
	guarded := !mem.Required || s.Kind == shape.KindUnion
	if guarded {
		fmt.Fprintf(w, "\tif u.%s != nil {\n", field)
		indent = "\t\t"
	}

	wrap := func(inner string) string {
		return fmt.Sprintf("%s%s{Inner: %s}", triad.Violation.Name, field, inner)
	}
	if checks.traits && target != nil {
		b.emitInlineTraitChecks(w, indent, raw, target.Kind, mem.Traits,
			b.memberPatternVar(s, mem), triad.Constrained.Name, wrap)
	}

	switch {
	case checks.convert:
		uncExpr := raw
		fmt.Fprintf(w, "%s%sValue, %sViolation := %s(%s)\n", indent, ident, ident, b.tryName(mem.Target), uncExpr)
		fmt.Fprintf(w, "%sif %sViolation != nil {\n", indent, ident)
		fmt.Fprintf(w, "%s\treturn %s{}, %s{Inner: %sViolation}\n", indent, triad.Constrained.Name, triad.Violation.Name+field, ident)
		fmt.Fprintf(w, "%s}\n", indent)
		if conPointer {
			fmt.Fprintf(w, "%sout.%s = &%sValue\n", indent, ident, ident)
		} else {
			fmt.Fprintf(w, "%sout.%s = %sValue\n", indent, ident, ident)
		}
	case conPointer && uncPointer:
		fmt.Fprintf(w, "%sout.%s = u.%s\n", indent, ident, field)
	case conPointer && !uncPointer:
		fmt.Fprintf(w, "%s%sValue := u.%s\n", indent, ident, field)
		fmt.Fprintf(w, "%sout.%s = &%sValue\n", indent, ident, ident)
	case !conPointer && uncPointer:
		fmt.Fprintf(w, "%sout.%s = *u.%s\n", indent, ident, field)
	default:
		fmt.Fprintf(w, "%sout.%s = u.%s\n", indent, ident, field)
	}

	if guarded {
		fmt.Fprintf(w, "\t}\n")
	}
}

func (b *viewBuilder) memberPatternVar(s *shape.Shape, mem shape.Member) string {
	return unexportFirst(gen.GoName(s.ID.Name())) + gen.GoName(mem.Name) + "Pattern"
}

func (b *viewBuilder) shapePatternVar(s *shape.Shape) string {
	return unexportFirst(gen.GoName(s.ID.Name())) + "Pattern"
}

// emitInlineTraitChecks emits trait checks against a raw value expression,
// used for member-level traits where no dedicated target type exists. The
// wrap callback builds the violation expression from a constrain literal.
func (b *viewBuilder) emitInlineTraitChecks(w *strings.Builder, indent, expr string, kind shape.Kind, traits []shape.Trait, patternVar, constrainedName string, wrap func(inner string) string) {
	if lt, ok := shape.LengthOf(traits); ok {
		fmt.Fprintf(w, "%sif n := %s; %s {\n", indent, b.lengthExpr(expr, kind), lengthCond(lt))
		fmt.Fprintf(w, "%s\treturn %s{}, %s\n", indent, constrainedName,
			wrap(fmt.Sprintf("constrain.LengthViolation{Length: n, Min: %s, Max: %s}", uintPtrLit(lt.Min), uintPtrLit(lt.Max))))
		fmt.Fprintf(w, "%s}\n", indent)
	}
	if rt, ok := shape.RangeOf(traits); ok {
		fmt.Fprintf(w, "%sif %s {\n", indent, rangeCond("float64("+expr+")", rt))
		fmt.Fprintf(w, "%s\treturn %s{}, %s\n", indent, constrainedName,
			wrap(fmt.Sprintf("constrain.RangeViolation{Min: %s, Max: %s}", floatPtrLit(rt.Min), floatPtrLit(rt.Max))))
		fmt.Fprintf(w, "%s}\n", indent)
	}
	if pt, ok := shape.PatternOf(traits); ok {
		fmt.Fprintf(w, "%sif !%s.MatchString(string(%s)) {\n", indent, patternVar, expr)
		fmt.Fprintf(w, "%s\treturn %s{}, %s\n", indent, constrainedName,
			wrap(fmt.Sprintf("constrain.PatternViolation{Pattern: %s}", strconvQuote(pt.Pattern))))
		fmt.Fprintf(w, "%s}\n", indent)
	}
	if et, ok := shape.EnumOf(traits); ok {
		fmt.Fprintf(w, "%sswitch string(%s) {\n", indent, expr)
		fmt.Fprintf(w, "%scase %s:\n", indent, quoteStrings(et.Values))
		fmt.Fprintf(w, "%sdefault:\n", indent)
		fmt.Fprintf(w, "%s\treturn %s{}, %s\n", indent, constrainedName,
			wrap(fmt.Sprintf("constrain.EnumViolation{Values: []string{%s}}", quoteStrings(et.Values))))
		fmt.Fprintf(w, "%s}\n", indent)
	}
}

// lengthExpr yields the length measurement for a value of the given kind:
// Unicode scalar values for strings, bytes for blobs, container size
// otherwise.
func (b *viewBuilder) lengthExpr(expr string, kind shape.Kind) string {
	switch kind {
	case shape.KindString, shape.KindEnum:
		b.imports["unicode/utf8"] = struct{}{}
		return "utf8.RuneCountInString(string(" + expr + "))"
	default:
		return "len(" + expr + ")"
	}
}

func lengthCond(lt shape.LengthTrait) string {
	var parts []string
	if lt.Min != nil {
		parts = append(parts, "uint64(n) < "+strconv.FormatUint(*lt.Min, 10))
	}
	if lt.Max != nil {
		parts = append(parts, "uint64(n) > "+strconv.FormatUint(*lt.Max, 10))
	}
	return strings.Join(parts, " || ")
}

func rangeCond(expr string, rt shape.RangeTrait) string {
	var parts []string
	if rt.Min != nil {
		parts = append(parts, expr+" < "+strconv.FormatFloat(*rt.Min, 'f', -1, 64))
	}
	if rt.Max != nil {
		parts = append(parts, expr+" > "+strconv.FormatFloat(*rt.Max, 'f', -1, 64))
	}
	return strings.Join(parts, " || ")
}

// emitListBody emits the plan's steps for a list or set: count bound first,
// then element conversion, then uniqueness over the converted elements. The
// element slice is built even when the plan has no conversion step, since the
// constrained newtype owns its own storage.
func (b *viewBuilder) emitListBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name
	elem := b.naturalType(s.Target)

	var convertStep, uniqueStep bool
	for _, step := range plan.Steps {
		switch step.Kind {
		case gen.StepCheckLength:
			lt := step.Trait.(shape.LengthTrait)
			fmt.Fprintf(w, "\tif n := len(u); %s {\n", lengthCond(lt))
			fmt.Fprintf(w, "\t\treturn %s{}, %sLength{Length: n}\n", cn, vn)
			fmt.Fprintf(w, "\t}\n")
		case gen.StepConvertElements:
			convertStep = true
		case gen.StepCheckUniqueItems:
			uniqueStep = true
		}
	}

	if convertStep {
		fmt.Fprintf(w, "\titems := make([]%s, 0, len(u))\n", elem)
		fmt.Fprintf(w, "\tfor i, el := range u {\n")
		fmt.Fprintf(w, "\t\titem, violation := %s(el)\n", b.tryName(s.Target))
		fmt.Fprintf(w, "\t\tif violation != nil {\n")
		fmt.Fprintf(w, "\t\t\treturn %s{}, %sMember{Index: i, Inner: violation}\n", cn, vn)
		fmt.Fprintf(w, "\t\t}\n")
		fmt.Fprintf(w, "\t\titems = append(items, item)\n")
		fmt.Fprintf(w, "\t}\n")
	} else {
		fmt.Fprintf(w, "\titems := make([]%s, len(u))\n", elem)
		fmt.Fprintf(w, "\tcopy(items, u)\n")
	}

	if uniqueStep {
		fmt.Fprintf(w, "\tif constrain.HasDuplicateItems(items) {\n")
		fmt.Fprintf(w, "\t\treturn %s{}, %sUniqueItems{}\n", cn, vn)
		fmt.Fprintf(w, "\t}\n")
	}
	fmt.Fprintf(w, "\treturn %s{value: items}, nil\n", cn)
}

func (b *viewBuilder) emitMapBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name

	var entriesStep bool
	for _, step := range plan.Steps {
		switch step.Kind {
		case gen.StepCheckLength:
			lt := step.Trait.(shape.LengthTrait)
			fmt.Fprintf(w, "\tif n := len(u); %s {\n", lengthCond(lt))
			fmt.Fprintf(w, "\t\treturn %s{}, %sLength{Length: n}\n", cn, vn)
			fmt.Fprintf(w, "\t}\n")
		case gen.StepConvertEntries:
			entriesStep = true
		}
	}

	_, keyMarked := b.triads[s.Key]
	_, valMarked := b.triads[s.Value]
	val := b.naturalType(s.Value)

	fmt.Fprintf(w, "\tentries := make(map[string]%s, len(u))\n", val)
	if entriesStep {
		// Entries convert in sorted key order so the reported violation is
		// deterministic.
		b.imports["sort"] = struct{}{}
		fmt.Fprintf(w, "\tkeys := make([]string, 0, len(u))\n")
		fmt.Fprintf(w, "\tfor k := range u {\n\t\tkeys = append(keys, k)\n\t}\n")
		fmt.Fprintf(w, "\tsort.Strings(keys)\n")
		fmt.Fprintf(w, "\tfor _, k := range keys {\n")
		if keyMarked {
			keyUnc := b.unconstrainedType(s.Key)
			fmt.Fprintf(w, "\t\tif _, keyViolation := %s(%s(k)); keyViolation != nil {\n", b.tryName(s.Key), keyUnc)
			fmt.Fprintf(w, "\t\t\treturn %s{}, %sKey{Inner: keyViolation}\n", cn, vn)
			fmt.Fprintf(w, "\t\t}\n")
		}
		if valMarked {
			fmt.Fprintf(w, "\t\tvalue, valueViolation := %s(u[k])\n", b.tryName(s.Value))
			fmt.Fprintf(w, "\t\tif valueViolation != nil {\n")
			fmt.Fprintf(w, "\t\t\treturn %s{}, %sValue{Key: k, Inner: valueViolation}\n", cn, vn)
			fmt.Fprintf(w, "\t\t}\n")
			fmt.Fprintf(w, "\t\tentries[k] = value\n")
		} else {
			fmt.Fprintf(w, "\t\tentries[k] = u[k]\n")
		}
		fmt.Fprintf(w, "\t}\n")
	} else {
		fmt.Fprintf(w, "\tfor k, v := range u {\n\t\tentries[k] = v\n\t}\n")
	}
	fmt.Fprintf(w, "\treturn %s{value: entries}, nil\n", cn)
}

// emitStringBody walks the plan's scalar checks in order: length, pattern,
// enum.
func (b *viewBuilder) emitStringBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name

	for _, step := range plan.Steps {
		switch step.Kind {
		case gen.StepCheckLength:
			lt := step.Trait.(shape.LengthTrait)
			fmt.Fprintf(w, "\tif n := %s; %s {\n", b.lengthExpr("u", s.Kind), lengthCond(lt))
			fmt.Fprintf(w, "\t\treturn %s{}, %sLength{Length: n}\n", cn, vn)
			fmt.Fprintf(w, "\t}\n")
		case gen.StepCheckPattern:
			fmt.Fprintf(w, "\tif !%s.MatchString(string(u)) {\n", b.shapePatternVar(s))
			fmt.Fprintf(w, "\t\treturn %s{}, %sPattern{}\n", cn, vn)
			fmt.Fprintf(w, "\t}\n")
		case gen.StepCheckEnum:
			et := step.Trait.(shape.EnumTrait)
			fmt.Fprintf(w, "\tswitch string(u) {\n")
			fmt.Fprintf(w, "\tcase %s:\n", quoteStrings(et.Values))
			fmt.Fprintf(w, "\tdefault:\n")
			fmt.Fprintf(w, "\t\treturn %s{}, %sEnum{}\n", cn, vn)
			fmt.Fprintf(w, "\t}\n")
		}
	}
	fmt.Fprintf(w, "\treturn %s{value: string(u)}, nil\n", cn)
}

func (b *viewBuilder) emitNumberBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name
	for _, step := range plan.Steps {
		if step.Kind != gen.StepCheckRange {
			continue
		}
		rt := step.Trait.(shape.RangeTrait)
		fmt.Fprintf(w, "\tif %s {\n", rangeCond("float64(u)", rt))
		fmt.Fprintf(w, "\t\treturn %s{}, %sRange{}\n", cn, vn)
		fmt.Fprintf(w, "\t}\n")
	}
	fmt.Fprintf(w, "\treturn %s{value: float64(u)}, nil\n", cn)
}

func (b *viewBuilder) emitBlobBody(w *strings.Builder, s *shape.Shape, triad gen.Triad, plan gen.Plan) {
	cn := triad.Constrained.Name
	vn := triad.Violation.Name
	for _, step := range plan.Steps {
		if step.Kind != gen.StepCheckLength {
			continue
		}
		lt := step.Trait.(shape.LengthTrait)
		fmt.Fprintf(w, "\tif n := len(u); %s {\n", lengthCond(lt))
		fmt.Fprintf(w, "\t\treturn %s{}, %sLength{Length: n}\n", cn, vn)
		fmt.Fprintf(w, "\t}\n")
	}
	fmt.Fprintf(w, "\treturn %s{value: []byte(u)}, nil\n", cn)
}
