package gen_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-constraintgen/pkg/gen"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, gen.Unit, gen.Options) ([]gen.File, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := gen.NewRegistry()
	if err := r.Register(stubRenderer{name: "alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := r.Get("alpha")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "alpha" {
		t.Fatalf("name = %q", got.Name())
	}
	if !r.Has("alpha") || r.Has("beta") {
		t.Fatal("has lookup mismatch")
	}
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := gen.NewRegistry()
	if err := r.Register(stubRenderer{name: "alpha"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(stubRenderer{name: "alpha"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	r := gen.NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(stubRenderer{name: name}); err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
	}
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, r.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_RejectsInvalidRenderers(t *testing.T) {
	r := gen.NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatal("expected nil renderer error")
	}
	if err := r.Register(stubRenderer{}); err == nil {
		t.Fatal("expected empty name error")
	}
}
