package gen

import (
	"context"

	"github.com/goliatone/go-constraintgen/pkg/shape"
)

// Unit carries everything a renderer needs for one generation pass: the
// model plus the synthesized triads and conversion plans for every marked
// shape, in model order.
type Unit struct {
	Model  *shape.Model
	Triads []Triad
	Plans  []Plan
}

// File is one emitted artifact.
type File struct {
	Path     string
	Contents []byte
}

// Options are per-request rendering instructions shared by all renderers.
type Options struct {
	// Package names the package generated source belongs to.
	Package string
	// PublicConstrainedTypes mirrors the synthesis visibility flag so
	// renderers can document the surface they emit.
	PublicConstrainedTypes bool
	// ValidationExceptionType names the wire error type generated
	// renderer methods reference. Explicit configuration; there is no
	// package-level well-known default baked into templates.
	ValidationExceptionType string
}

// Renderer converts a generation unit into emitted files (Go source for the
// built-in renderer; other targets register their own).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, unit Unit, options Options) ([]File, error)
}
