package shape

import "strings"

// ID is the stable identity of a shape within a model. IDs follow the
// `namespace#Name` convention but a bare name is accepted.
type ID string

// Name returns the portion of the ID after the namespace separator.
func (id ID) Name() string {
	s := string(id)
	if i := strings.LastIndex(s, "#"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Namespace returns the portion of the ID before the separator, or "".
func (id ID) Namespace() string {
	s := string(id)
	if i := strings.LastIndex(s, "#"); i >= 0 {
		return s[:i]
	}
	return ""
}

// Kind enumerates the closed set of shape kinds.
type Kind string

const (
	KindStructure Kind = "structure"
	KindUnion     Kind = "union"
	KindList      Kind = "list"
	KindSet       Kind = "set"
	KindMap       Kind = "map"
	KindString    Kind = "string"
	KindEnum      Kind = "enum"
	KindNumber    Kind = "number"
	KindBlob      Kind = "blob"
	KindBoolean   Kind = "boolean"
	KindTimestamp Kind = "timestamp"
)

// Member belongs to exactly one structure or union. Member-level traits are
// distinct from the traits on the member's target shape; both apply.
type Member struct {
	Name     string
	Target   ID
	Required bool
	Traits   []Trait
}

// Shape is a node in the model graph. Which fields are meaningful depends on
// Kind: Members for structures and unions, Target for lists and sets, Key
// and Value for maps.
type Shape struct {
	ID      ID
	Kind    Kind
	Members []Member
	Target  ID
	Key     ID
	Value   ID
	Traits  []Trait
}

// Member returns the named member and whether it exists.
func (s *Shape) Member(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// References returns the shape IDs this shape points at through one edge, in
// a deterministic order (declaration order for members, target, key, value).
func (s *Shape) References() []ID {
	switch s.Kind {
	case KindStructure, KindUnion:
		out := make([]ID, 0, len(s.Members))
		for _, m := range s.Members {
			out = append(out, m.Target)
		}
		return out
	case KindList, KindSet:
		return []ID{s.Target}
	case KindMap:
		return []ID{s.Key, s.Value}
	default:
		return nil
	}
}
