package gosrc_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-constraintgen/internal/convert"
	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/internal/synth"
	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/generators/gosrc"
	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/testsupport"
)

func renderModel(t *testing.T, m *shape.Model, opts gen.Options) string {
	t.Helper()

	idx := reach.NewIndex(m)
	triads, err := synth.Synthesize(m, idx, synth.Options{
		PublicConstrainedTypes: opts.PublicConstrainedTypes,
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	plans := convert.All(m, idx)

	renderer, err := gosrc.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	files, err := renderer.Render(context.Background(), gen.Unit{Model: m, Triads: triads, Plans: plans}, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}
	if files[0].Path != gosrc.DefaultFileName {
		t.Fatalf("path = %q", files[0].Path)
	}
	return string(files[0].Contents)
}

func blogModel(t *testing.T) *shape.Model {
	t.Helper()
	return testsupport.MustModel(t,
		[]shape.Operation{{ID: "CreatePost", Input: "blog#Post"}},
		testsupport.StringShape("blog#Title", shape.LengthTrait{
			Min: testsupport.Uint64(1), Max: testsupport.Uint64(100),
		}),
		testsupport.StringShape("blog#Tag", shape.PatternTrait{Pattern: "^[a-z]+$"}),
		&shape.Shape{ID: "blog#Tags", Kind: shape.KindSet, Target: "blog#Tag"},
		testsupport.StructureShape("blog#Post",
			shape.Member{Name: "title", Target: "blog#Title", Required: true},
			shape.Member{Name: "tags", Target: "blog#Tags"},
		),
	)
}

func TestRender_EmitsTriadForEveryMarkedShape(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{
		Package:                "blog",
		PublicConstrainedTypes: true,
	})

	for _, want := range []string{
		"package blog",
		"type TitleUnconstrained string",
		"type Title struct {",
		"type TitleConstraintViolation interface {",
		"isTitleConstraintViolation()",
		"type TagsUnconstrained []TagUnconstrained",
		"type PostUnconstrained struct {",
		"func TryPost(u PostUnconstrained) (Post, PostConstraintViolation)",
		"func TryTitle(u TitleUnconstrained) (Title, TitleConstraintViolation)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
}

func TestRender_StructureChecksMembersInDeclarationOrder(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{
		Package:                "blog",
		PublicConstrainedTypes: true,
	})

	// title is declared first: its presence check precedes its own conversion.
	missing := strings.Index(src, "PostConstraintViolationMissingTitle{}")
	nested := strings.Index(src, "PostConstraintViolationTitle{Inner:")
	if missing < 0 || nested < 0 {
		t.Fatalf("expected both presence and nested checks, got %d / %d", missing, nested)
	}
	if missing > nested {
		t.Fatal("presence check must precede the member's own conversion")
	}
}

func TestRender_EarlierMemberConvertsBeforeLaterPresenceCheck(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "CreatePost", Input: "blog#Post"}},
		testsupport.StringShape("blog#Status", shape.EnumTrait{Values: []string{"A", "B"}}),
		testsupport.StringShape("blog#Title", shape.LengthTrait{Min: testsupport.Uint64(1)}),
		testsupport.StructureShape("blog#Post",
			shape.Member{Name: "status", Target: "blog#Status"},
			shape.Member{Name: "title", Target: "blog#Title", Required: true},
		),
	)
	src := renderModel(t, m, gen.Options{
		Package:                "blog",
		PublicConstrainedTypes: true,
	})

	// status is declared ahead of title, so its conversion runs before
	// title's missing check in the generated body.
	converted := strings.Index(src, "PostConstraintViolationStatus{Inner:")
	missing := strings.Index(src, "PostConstraintViolationMissingTitle{}")
	if converted < 0 || missing < 0 {
		t.Fatalf("expected both checks, got %d / %d", converted, missing)
	}
	if converted > missing {
		t.Fatal("earlier member's conversion must precede later member's presence check")
	}
}

func TestRender_PatternCompiledAtPackageLevel(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{
		Package:                "blog",
		PublicConstrainedTypes: true,
	})

	if !strings.Contains(src, `var tagPattern = regexp.MustCompile("^[a-z]+$")`) {
		t.Error("pattern should compile once at package level")
	}
	if !strings.Contains(src, "tagPattern.MatchString(string(u))") {
		t.Error("conversion should use the compiled pattern")
	}
}

func TestRender_SetEnforcesUniquenessAfterConversion(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{
		Package:                "blog",
		PublicConstrainedTypes: true,
	})

	convertIdx := strings.Index(src, "TagsConstraintViolationMember{Index: i, Inner: violation}")
	uniqueIdx := strings.Index(src, "constrain.HasDuplicateItems(items)")
	if convertIdx < 0 || uniqueIdx < 0 {
		t.Fatalf("expected conversion and uniqueness checks, got %d / %d", convertIdx, uniqueIdx)
	}
	if convertIdx > uniqueIdx {
		t.Fatal("element conversion must precede the uniqueness check")
	}
}

func TestRender_RestrictedVisibility(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{Package: "blog"})

	for _, want := range []string{
		// The deserializer-facing type stays exported.
		"type PostUnconstrained struct {",
		"type post struct {",
		"type postConstraintViolation interface {",
		"func tryPost(u PostUnconstrained) (post, postConstraintViolation)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q", want)
		}
	}
	if strings.Contains(src, "func TryPost(") {
		t.Error("restricted mode must not export conversion functions")
	}
}

func TestRender_EnvelopeHelperFollowsConfiguredName(t *testing.T) {
	src := renderModel(t, blogModel(t), gen.Options{
		Package:                 "blog",
		PublicConstrainedTypes:  true,
		ValidationExceptionType: "ServiceValidationException",
	})

	if !strings.Contains(src, "func AsServiceValidationException(v constrain.FieldRenderer) constrain.ValidationException {") {
		t.Error("envelope helper should follow the configured exception type name")
	}
	if !strings.Contains(src, `constrain.NewValidationException(v.AsValidationExceptionField(""))`) {
		t.Error("envelope helper should render from the request body root")
	}
}

func TestRender_MapKeyViolationKeepsMapPath(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "Op", Input: "ns#Doc"}},
		testsupport.StringShape("ns#KeyName", shape.LengthTrait{Min: testsupport.Uint64(1)}),
		testsupport.NumberShape("ns#Score", shape.RangeTrait{Min: testsupport.Float64(0)}),
		testsupport.MapShape("ns#Scores", "ns#KeyName", "ns#Score"),
		testsupport.StructureShape("ns#Doc",
			shape.Member{Name: "scores", Target: "ns#Scores"},
		),
	)
	src := renderModel(t, m, gen.Options{Package: "docs", PublicConstrainedTypes: true})

	if !strings.Contains(src, "func (v ScoresConstraintViolationKey) AsValidationExceptionField(path string) constrain.ValidationExceptionField {\n\treturn v.Inner.AsValidationExceptionField(path)\n}") {
		t.Error("map key violations must not append a key segment")
	}
	if !strings.Contains(src, `return v.Inner.AsValidationExceptionField(path + "/" + v.Key)`) {
		t.Error("map value violations append the key segment")
	}
	if !strings.Contains(src, "sort.Strings(keys)") {
		t.Error("map conversion iterates entries in sorted key order")
	}
}

func TestRender_AccessorNamesAvoidPrintInterfaces(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "Op", Input: "ns#Cell"}},
		testsupport.NumberShape("ns#Count"),
		testsupport.StringShape("ns#Label"),
		testsupport.StructureShape("ns#Cell",
			shape.Member{Name: "int", Target: "ns#Count", Required: true},
			shape.Member{Name: "string", Target: "ns#Label", Required: true},
		),
	)
	src := renderModel(t, m, gen.Options{Package: "cells", PublicConstrainedTypes: true})

	// A String() string accessor would make Cell satisfy fmt.Stringer.
	// gofmt column-aligns adjacent one-line methods, so match the signature
	// and body separately rather than assuming a single space between them.
	if !strings.Contains(src, "func (c Cell) StringValue() string") || !strings.Contains(src, "return c.string") {
		t.Error("accessor for member \"string\" should be renamed to StringValue")
	}
	if strings.Contains(src, "func (c Cell) String()") {
		t.Error("constrained type must not gain a String method from a member name")
	}
	if !strings.Contains(src, "func (c Cell) Int() float64") || !strings.Contains(src, "return c.int") {
		t.Error("accessor for member \"int\" keeps its natural name")
	}
}
