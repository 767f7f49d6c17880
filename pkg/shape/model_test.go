package shape_test

import (
	"testing"

	"github.com/goliatone/go-constraintgen/pkg/shape"
)

func TestModel_Validate(t *testing.T) {
	str := &shape.Shape{ID: "ns#S", Kind: shape.KindString}
	num := &shape.Shape{ID: "ns#N", Kind: shape.KindNumber}

	tests := []struct {
		name    string
		shapes  []*shape.Shape
		wantErr bool
	}{
		{
			name: "valid graph",
			shapes: []*shape.Shape{
				str,
				{ID: "ns#L", Kind: shape.KindList, Target: "ns#S"},
				{ID: "ns#M", Kind: shape.KindMap, Key: "ns#S", Value: "ns#L"},
			},
		},
		{
			name: "list without target",
			shapes: []*shape.Shape{
				{ID: "ns#L", Kind: shape.KindList},
			},
			wantErr: true,
		},
		{
			name: "map key must be string-like",
			shapes: []*shape.Shape{
				num,
				{ID: "ns#M", Kind: shape.KindMap, Key: "ns#N", Value: "ns#N"},
			},
			wantErr: true,
		},
		{
			name: "duplicate member names",
			shapes: []*shape.Shape{
				str,
				{ID: "ns#P", Kind: shape.KindStructure, Members: []shape.Member{
					{Name: "a", Target: "ns#S"},
					{Name: "a", Target: "ns#S"},
				}},
			},
			wantErr: true,
		},
		{
			name: "member target must resolve",
			shapes: []*shape.Shape{
				{ID: "ns#P", Kind: shape.KindStructure, Members: []shape.Member{
					{Name: "a", Target: "ns#Gone"},
				}},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := shape.NewModel()
			for _, s := range tc.shapes {
				if err := m.Add(s); err != nil {
					t.Fatalf("add: %v", err)
				}
			}
			err := m.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("validate: %v", err)
			}
		})
	}
}

func TestKindAccepts(t *testing.T) {
	tests := []struct {
		kind  shape.Kind
		trait shape.TraitKind
		want  bool
	}{
		{shape.KindString, shape.TraitLength, true},
		{shape.KindString, shape.TraitPattern, true},
		{shape.KindString, shape.TraitRange, false},
		{shape.KindNumber, shape.TraitRange, true},
		{shape.KindNumber, shape.TraitPattern, false},
		{shape.KindBlob, shape.TraitLength, true},
		{shape.KindList, shape.TraitUniqueItems, true},
		{shape.KindMap, shape.TraitLength, true},
		{shape.KindEnum, shape.TraitEnum, true},
		{shape.KindStructure, shape.TraitLength, false},
	}
	for _, tc := range tests {
		if got := tc.kind.Accepts(tc.trait); got != tc.want {
			t.Errorf("%s accepts %s = %v, want %v", tc.kind, tc.trait, got, tc.want)
		}
	}
}

func TestID_NameAndNamespace(t *testing.T) {
	id := shape.ID("blog#Post")
	if id.Namespace() != "blog" {
		t.Fatalf("namespace = %q", id.Namespace())
	}
	if id.Name() != "Post" {
		t.Fatalf("name = %q", id.Name())
	}

	bare := shape.ID("Post")
	if bare.Name() != "Post" || bare.Namespace() != "" {
		t.Fatalf("bare id = %q / %q", bare.Namespace(), bare.Name())
	}
}
