// Package constraintgen generates constrained-type triads from a shape
// model: for every shape that carries or reaches a constraint it emits an
// Unconstrained type, a proof-carrying Constrained type, a
// ConstraintViolation sum type, and a fail-fast conversion between them.
package constraintgen

import (
	"context"

	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/generator"
	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/sources/openapi"
)

// Model aliases the shape graph for callers composing models in code.
type Model = shape.Model

// Shape aliases one node of the shape graph.
type Shape = shape.Shape

// Options aliases the renderer options shared by all renderers.
type Options = gen.Options

// File aliases one emitted artifact.
type File = gen.File

// Request aliases the generation request.
type Request = generator.Request

// NewModel returns an empty shape model.
func NewModel() *Model {
	return shape.NewModel()
}

// NewGenerator exposes the pipeline constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// Generate loads the model file at path and renders Go constraint code with
// the default renderer. It is the simplest entry point for callers that just
// want generated source.
func Generate(ctx context.Context, path string, opts Options, options ...generator.Option) ([]File, error) {
	g := generator.New(options...)
	return g.Generate(ctx, generator.Request{
		ModelPath: path,
		Options:   opts,
	})
}

// GenerateFromOpenAPI maps an OpenAPI document into a shape model and renders
// Go constraint code with the default renderer.
func GenerateFromOpenAPI(ctx context.Context, source openapi.Source, opts Options, options ...generator.Option) ([]File, error) {
	g := generator.New(options...)
	return g.Generate(ctx, generator.Request{
		OpenAPI: source,
		Options: opts,
	})
}
