package constrain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-constraintgen/pkg/constrain"
	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/testsupport"
)

func postModel(t *testing.T) *shape.Model {
	t.Helper()
	return testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Title", shape.LengthTrait{Min: testsupport.Uint64(1), Max: testsupport.Uint64(10)}),
		testsupport.StringShape("ns#Status", shape.EnumTrait{Values: []string{"A", "B"}}),
		testsupport.StringShape("ns#Tag", shape.LengthTrait{Min: testsupport.Uint64(3)}),
		testsupport.ListShape("ns#Tags", "ns#Tag"),
		testsupport.StructureShape("ns#Post",
			shape.Member{Name: "title", Target: "ns#Title", Required: true},
			shape.Member{Name: "status", Target: "ns#Status"},
			shape.Member{Name: "tags", Target: "ns#Tags"},
		),
	)
}

func newEngine(t *testing.T, m *shape.Model) *constrain.Engine {
	t.Helper()
	e, err := constrain.New(m)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestTryConstrain_FailFastReportsFirstInvalidElementOnly(t *testing.T) {
	e := newEngine(t, postModel(t))

	// Both elements violate Tag's length bound; only index 0 is reported.
	_, violation, err := e.TryConstrain("ns#Tags", []any{"ab", "x"})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	lv, ok := violation.(constrain.ListMemberViolation)
	if !ok {
		t.Fatalf("violation = %T, want ListMemberViolation", violation)
	}
	if lv.Index != 0 {
		t.Fatalf("index = %d, want 0", lv.Index)
	}

	field := violation.AsValidationExceptionField("/tags")
	if field.Path != "/tags/0" {
		t.Fatalf("path = %q, want %q", field.Path, "/tags/0")
	}
}

func TestTryConstrain_FirstDeclaredMemberWins(t *testing.T) {
	e := newEngine(t, postModel(t))

	// status carries an invalid value, but title is declared first and is
	// absent, so the missing-member violation is reported.
	_, violation, err := e.TryConstrain("ns#Post", map[string]any{
		"status": "NOPE",
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	want := constrain.MissingMemberViolation{Member: "title"}
	if diff := cmp.Diff(want, violation); diff != "" {
		t.Fatalf("violation mismatch (-want +got):\n%s", diff)
	}

	field := violation.AsValidationExceptionField("")
	if field.Path != "/title" {
		t.Fatalf("path = %q, want %q", field.Path, "/title")
	}
	wantMsg := "Value at '/title' failed to satisfy constraint: Member must not be null"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestTryConstrain_EarlierInvalidMemberBeatsLaterMissing(t *testing.T) {
	// Same members as postModel but with status declared ahead of title:
	// status's enum check runs before title's presence check.
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Title", shape.LengthTrait{Min: testsupport.Uint64(1), Max: testsupport.Uint64(10)}),
		testsupport.StringShape("ns#Status", shape.EnumTrait{Values: []string{"A", "B"}}),
		testsupport.StructureShape("ns#Post",
			shape.Member{Name: "status", Target: "ns#Status"},
			shape.Member{Name: "title", Target: "ns#Title", Required: true},
		),
	)
	e := newEngine(t, m)

	_, violation, err := e.TryConstrain("ns#Post", map[string]any{
		"status": "C",
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	mv, ok := violation.(constrain.MemberViolation)
	if !ok {
		t.Fatalf("violation = %T, want MemberViolation", violation)
	}
	if mv.Member != "status" {
		t.Fatalf("member = %q, want %q", mv.Member, "status")
	}
	field := violation.AsValidationExceptionField("")
	if field.Path != "/status" {
		t.Fatalf("path = %q, want %q", field.Path, "/status")
	}
	wantMsg := "Value at '/status' failed to satisfy constraint: Member must satisfy enum value set: [A, B]"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestTryConstrain_EnumMessageExact(t *testing.T) {
	e := newEngine(t, postModel(t))

	_, violation, err := e.TryConstrain("ns#Post", map[string]any{
		"title":  "hello",
		"status": "C",
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	field := violation.AsValidationExceptionField("")
	if field.Path != "/status" {
		t.Fatalf("path = %q, want %q", field.Path, "/status")
	}
	wantMsg := "Value at '/status' failed to satisfy constraint: Member must satisfy enum value set: [A, B]"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestTryConstrain_RoundTrip(t *testing.T) {
	e := newEngine(t, postModel(t))

	input := map[string]any{
		"title":  "hello",
		"status": "A",
		"tags":   []any{"alpha", "beta"},
	}
	constrained, violation, err := e.TryConstrain("ns#Post", input)
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if violation != nil {
		t.Fatalf("unexpected violation: %#v", violation)
	}
	if constrained.ShapeID() != "ns#Post" {
		t.Fatalf("shape id = %q", constrained.ShapeID())
	}
	if diff := cmp.Diff(input, constrained.Into()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestViolationRenderingIsIdempotent(t *testing.T) {
	e := newEngine(t, postModel(t))

	_, violation, err := e.TryConstrain("ns#Tags", []any{"xy"})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	first := violation.AsValidationExceptionField("/tags")
	second := violation.AsValidationExceptionField("/tags")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rendering not idempotent (-first +second):\n%s", diff)
	}
}

func TestTryConstrain_LengthBeforePattern(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Code",
			shape.LengthTrait{Min: testsupport.Uint64(5)},
			shape.PatternTrait{Pattern: "^[0-9]+$"},
		),
	)
	e := newEngine(t, m)

	// "ab" violates both; length is checked first.
	_, violation, err := e.TryConstrain("ns#Code", "ab")
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if _, ok := violation.(constrain.LengthViolation); !ok {
		t.Fatalf("violation = %T, want LengthViolation", violation)
	}
}

func TestTryConstrain_ListLengthBeforeElements(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Tag", shape.LengthTrait{Min: testsupport.Uint64(3)}),
		testsupport.ListShape("ns#Tags", "ns#Tag", shape.LengthTrait{Max: testsupport.Uint64(2)}),
	)
	e := newEngine(t, m)

	// Three elements, every one invalid: the collection bound is reported
	// without inspecting any element.
	_, violation, err := e.TryConstrain("ns#Tags", []any{"a", "b", "c"})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	lv, ok := violation.(constrain.LengthViolation)
	if !ok {
		t.Fatalf("violation = %T, want LengthViolation", violation)
	}
	if lv.Length != 3 {
		t.Fatalf("length = %d, want 3", lv.Length)
	}

	wantMsg := "Value with length 3 at '/tags' failed to satisfy constraint: Member must have length less than or equal to 2"
	if got := violation.AsValidationExceptionField("/tags").Message; got != wantMsg {
		t.Fatalf("message = %q, want %q", got, wantMsg)
	}
}

func TestTryConstrain_SetUniquenessAfterElementConversion(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Tag", shape.LengthTrait{Min: testsupport.Uint64(3)}),
		&shape.Shape{ID: "ns#TagSet", Kind: shape.KindSet, Target: "ns#Tag"},
	)
	e := newEngine(t, m)

	// An invalid element is reported before the duplicate it collides with.
	_, violation, err := e.TryConstrain("ns#TagSet", []any{"ab", "ab"})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if _, ok := violation.(constrain.ListMemberViolation); !ok {
		t.Fatalf("violation = %T, want ListMemberViolation", violation)
	}

	// All elements valid: duplicates surface as the uniqueness violation.
	_, violation, err = e.TryConstrain("ns#TagSet", []any{"alpha", "alpha"})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if _, ok := violation.(constrain.UniqueItemsViolation); !ok {
		t.Fatalf("violation = %T, want UniqueItemsViolation", violation)
	}
}

func mapModel(t *testing.T) *shape.Model {
	t.Helper()
	return testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#KeyName", shape.PatternTrait{Pattern: "^[a-z]+$"}),
		testsupport.NumberShape("ns#Score", shape.RangeTrait{Min: testsupport.Float64(1), Max: testsupport.Float64(100)}),
		testsupport.MapShape("ns#Scores", "ns#KeyName", "ns#Score"),
	)
}

func TestTryConstrain_MapKeyPathOmitsKeySegment(t *testing.T) {
	e := newEngine(t, mapModel(t))

	_, violation, err := e.TryConstrain("ns#Scores", map[string]any{
		"BAD": float64(10),
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if _, ok := violation.(constrain.MapKeyViolation); !ok {
		t.Fatalf("violation = %T, want MapKeyViolation", violation)
	}
	// Key violations render at the map's own path.
	if got := violation.AsValidationExceptionField("/scores").Path; got != "/scores" {
		t.Fatalf("path = %q, want %q", got, "/scores")
	}
}

func TestTryConstrain_MapValuePathAppendsKeySegment(t *testing.T) {
	e := newEngine(t, mapModel(t))

	_, violation, err := e.TryConstrain("ns#Scores", map[string]any{
		"math": float64(500),
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	mv, ok := violation.(constrain.MapValueViolation)
	if !ok {
		t.Fatalf("violation = %T, want MapValueViolation", violation)
	}
	if mv.Key != "math" {
		t.Fatalf("key = %q, want %q", mv.Key, "math")
	}
	field := violation.AsValidationExceptionField("/scores")
	if field.Path != "/scores/math" {
		t.Fatalf("path = %q, want %q", field.Path, "/scores/math")
	}
	wantMsg := "Value at '/scores/math' failed to satisfy constraint: Member must be between 1 and 100, inclusive"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestTryConstrain_MapEntriesCheckedInSortedKeyOrder(t *testing.T) {
	e := newEngine(t, mapModel(t))

	// Both values are out of range; the lexically first key is reported so
	// repeated runs agree.
	for i := 0; i < 5; i++ {
		_, violation, err := e.TryConstrain("ns#Scores", map[string]any{
			"zeta":  float64(0),
			"alpha": float64(0),
		})
		if err != nil {
			t.Fatalf("try constrain: %v", err)
		}
		mv, ok := violation.(constrain.MapValueViolation)
		if !ok {
			t.Fatalf("violation = %T, want MapValueViolation", violation)
		}
		if mv.Key != "alpha" {
			t.Fatalf("key = %q, want %q", mv.Key, "alpha")
		}
	}
}

func TestTryConstrain_StringLengthCountsRunes(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Name", shape.LengthTrait{Max: testsupport.Uint64(3)}),
	)
	e := newEngine(t, m)

	// Three multi-byte runes satisfy a max of three.
	if _, violation, err := e.TryConstrain("ns#Name", "日本語"); err != nil || violation != nil {
		t.Fatalf("violation = %#v, err = %v", violation, err)
	}
	_, violation, err := e.TryConstrain("ns#Name", "日本語文")
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	lv, ok := violation.(constrain.LengthViolation)
	if !ok {
		t.Fatalf("violation = %T, want LengthViolation", violation)
	}
	if lv.Length != 4 {
		t.Fatalf("length = %d, want 4", lv.Length)
	}
}

func TestTryConstrain_PatternIsUnanchoredSearch(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Code", shape.PatternTrait{Pattern: "[0-9]{3}"}),
	)
	e := newEngine(t, m)

	// The pattern matches a substring; anchoring is the model author's job.
	if _, violation, err := e.TryConstrain("ns#Code", "abc123def"); err != nil || violation != nil {
		t.Fatalf("violation = %#v, err = %v", violation, err)
	}
	_, violation, err := e.TryConstrain("ns#Code", "abcdef")
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	if _, ok := violation.(constrain.PatternViolation); !ok {
		t.Fatalf("violation = %T, want PatternViolation", violation)
	}
}

func TestNew_RejectsInvalidPattern(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Broken", shape.PatternTrait{Pattern: "("}),
	)
	if _, err := constrain.New(m); err == nil {
		t.Fatal("expected pattern compilation error")
	}
}

func TestNestedViolationPathsComposeThroughMembers(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.StringShape("ns#Tag", shape.LengthTrait{Min: testsupport.Uint64(3)}),
		testsupport.ListShape("ns#Tags", "ns#Tag"),
		testsupport.StructureShape("ns#Post",
			shape.Member{Name: "tags", Target: "ns#Tags"},
		),
		testsupport.StructureShape("ns#Page",
			shape.Member{Name: "post", Target: "ns#Post"},
		),
	)
	e := newEngine(t, m)

	_, violation, err := e.TryConstrain("ns#Page", map[string]any{
		"post": map[string]any{
			"tags": []any{"alpha", "xy"},
		},
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	field := violation.AsValidationExceptionField("")
	if field.Path != "/post/tags/1" {
		t.Fatalf("path = %q, want %q", field.Path, "/post/tags/1")
	}
	wantMsg := "Value with length 2 at '/post/tags/1' failed to satisfy constraint: Member must have length greater than or equal to 3"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestNestedListsComposeIndexAndMemberSegments(t *testing.T) {
	m := testsupport.MustModel(t, nil,
		testsupport.NumberShape("ns#Count"),
		testsupport.StringShape("ns#Label"),
		testsupport.StructureShape("ns#Cell",
			shape.Member{Name: "int", Target: "ns#Count", Required: true},
			shape.Member{Name: "string", Target: "ns#Label", Required: true},
		),
		testsupport.ListShape("ns#Row", "ns#Cell"),
		testsupport.ListShape("ns#Grid", "ns#Row"),
	)
	e := newEngine(t, m)

	_, violation, err := e.TryConstrain("ns#Grid", []any{
		[]any{map[string]any{"int": float64(1)}},
	})
	if err != nil {
		t.Fatalf("try constrain: %v", err)
	}
	want := constrain.ListMemberViolation{
		Index: 0,
		Inner: constrain.ListMemberViolation{
			Index: 0,
			Inner: constrain.MissingMemberViolation{Member: "string"},
		},
	}
	if diff := cmp.Diff(want, violation); diff != "" {
		t.Fatalf("violation mismatch (-want +got):\n%s", diff)
	}
	field := violation.AsValidationExceptionField("")
	if field.Path != "/0/0/string" {
		t.Fatalf("path = %q, want %q", field.Path, "/0/0/string")
	}
	wantMsg := "Value at '/0/0/string' failed to satisfy constraint: Member must not be null"
	if field.Message != wantMsg {
		t.Fatalf("message = %q, want %q", field.Message, wantMsg)
	}
}

func TestNewValidationExceptionEnvelope(t *testing.T) {
	field := constrain.ValidationExceptionField{
		Path:    "/title",
		Message: "Value at '/title' failed to satisfy constraint: Member must not be null",
	}
	exc := constrain.NewValidationException(field)
	want := "1 validation error detected. Value at '/title' failed to satisfy constraint: Member must not be null"
	if exc.Message != want {
		t.Fatalf("message = %q, want %q", exc.Message, want)
	}
	if len(exc.FieldList) != 1 {
		t.Fatalf("field list length = %d, want 1", len(exc.FieldList))
	}
}
