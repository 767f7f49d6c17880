package reach_test

import (
	"testing"

	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/testsupport"
)

func TestIndex_MarkingRequiresInputReachability(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "CreatePost", Input: "ns#Post"}},
		testsupport.StringShape("ns#Title", shape.LengthTrait{Min: testsupport.Uint64(1)}),
		testsupport.StructureShape("ns#Post",
			shape.Member{Name: "title", Target: "ns#Title", Required: true},
		),
		// Constrained but dangling: no operation reaches it.
		testsupport.StringShape("ns#Orphan", shape.LengthTrait{Min: testsupport.Uint64(1)}),
	)
	idx := reach.NewIndex(m)

	if !idx.Marked("ns#Title") {
		t.Fatal("Title should be marked: constrained and input-reachable")
	}
	if !idx.Marked("ns#Post") {
		t.Fatal("Post should be marked: reaches a constrained shape")
	}
	if idx.Marked("ns#Orphan") {
		t.Fatal("Orphan must not be marked: unreachable from any operation")
	}
	if !idx.IsConstrained("ns#Orphan") {
		t.Fatal("Orphan is still constrained")
	}
}

func TestIndex_RequiredMemberCountsAsConstraint(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "Op", Input: "ns#Holder"}},
		testsupport.StringShape("ns#Plain"),
		testsupport.StructureShape("ns#Holder",
			shape.Member{Name: "value", Target: "ns#Plain", Required: true},
		),
	)
	idx := reach.NewIndex(m)

	if !idx.IsConstrained("ns#Holder") {
		t.Fatal("required member makes the holder constrained")
	}
	if !idx.Marked("ns#Holder") {
		t.Fatal("holder should be marked")
	}
	if idx.Marked("ns#Plain") {
		t.Fatal("plain target carries nothing and reaches nothing")
	}
}

func TestIndex_MemberTraitsCountAsConstraint(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "Op", Input: "ns#Holder"}},
		testsupport.StringShape("ns#Plain"),
		testsupport.StructureShape("ns#Holder",
			shape.Member{Name: "value", Target: "ns#Plain", Traits: []shape.Trait{
				shape.LengthTrait{Max: testsupport.Uint64(5)},
			}},
		),
	)
	idx := reach.NewIndex(m)

	if !idx.IsConstrained("ns#Holder") {
		t.Fatal("member-level trait makes the holder constrained")
	}
}

func TestIndex_ReachabilitySurvivesCycles(t *testing.T) {
	m := shape.NewModel()
	m.MustAdd(testsupport.StringShape("ns#Name", shape.LengthTrait{Min: testsupport.Uint64(1)}))
	m.MustAdd(testsupport.StructureShape("ns#Node",
		shape.Member{Name: "name", Target: "ns#Name"},
		shape.Member{Name: "next", Target: "ns#Node"},
	))
	m.AddOperation(shape.Operation{ID: "Op", Input: "ns#Node"})
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	idx := reach.NewIndex(m)
	if !idx.Marked("ns#Node") {
		t.Fatal("self-referential node should be marked")
	}
	if !idx.CanReachConstrainedShape("ns#Node") {
		t.Fatal("node reaches its constrained member")
	}
}

func TestIndex_TransitiveReachThroughCollections(t *testing.T) {
	m := testsupport.MustModel(t,
		[]shape.Operation{{ID: "Op", Input: "ns#Doc"}},
		testsupport.StringShape("ns#Tag", shape.PatternTrait{Pattern: "^[a-z]+$"}),
		testsupport.ListShape("ns#Tags", "ns#Tag"),
		testsupport.StringShape("ns#Key"),
		testsupport.MapShape("ns#TagIndex", "ns#Key", "ns#Tags"),
		testsupport.StructureShape("ns#Doc",
			shape.Member{Name: "index", Target: "ns#TagIndex"},
		),
	)
	idx := reach.NewIndex(m)

	for _, id := range []shape.ID{"ns#Doc", "ns#TagIndex", "ns#Tags", "ns#Tag"} {
		if !idx.Marked(id) {
			t.Fatalf("%s should be marked", id)
		}
	}
	if idx.Marked("ns#Key") {
		t.Fatal("unconstrained key should not be marked")
	}
	if idx.NeedsConversion("ns#Key") {
		t.Fatal("unconstrained key needs no conversion")
	}
}
