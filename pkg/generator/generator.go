// Package generator coordinates the pipeline from a shape model (loaded
// directly, from a model file, or mapped from an OpenAPI document) to
// rendered constraint code. It applies defaults so callers can start with a
// single constructor call while every stage stays injectable.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-constraintgen/internal/convert"
	"github.com/goliatone/go-constraintgen/internal/reach"
	"github.com/goliatone/go-constraintgen/internal/synth"
	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/generators/gosrc"
	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/sources/openapi"
)

const defaultRendererName = "gosrc"

// Option customises the generator configuration.
type Option func(*Generator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *gen.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(g *Generator) {
		g.defaultRenderer = name
	}
}

// WithOpenAPILoader injects a custom OpenAPI document loader.
func WithOpenAPILoader(loader *openapi.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithOpenAPIMapper injects a custom OpenAPI-to-model mapper.
func WithOpenAPIMapper(mapper *openapi.Mapper) Option {
	return func(g *Generator) {
		g.mapper = mapper
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = logger
	}
}

// Generator runs model resolution, reachability, synthesis, planning, and
// rendering.
type Generator struct {
	registry        *gen.Registry
	defaultRenderer string
	loader          *openapi.Loader
	mapper          *openapi.Mapper
	log             zerolog.Logger
	initialiseErr   error
}

// New constructs a Generator applying any provided options. A missing
// registry gains the built-in Go source renderer.
func New(options ...Option) *Generator {
	g := &Generator{
		defaultRenderer: defaultRendererName,
		log:             zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

func (g *Generator) applyDefaults() {
	if g.loader == nil {
		g.loader = openapi.NewLoader()
	}
	if g.mapper == nil {
		g.mapper = openapi.NewMapper()
	}
	if g.registry == nil {
		g.registry = gen.NewRegistry()
	}
	if !g.registry.Has(defaultRendererName) {
		renderer, err := gosrc.New()
		if err != nil {
			g.initialiseErr = fmt.Errorf("generator: default renderer: %w", err)
			return
		}
		if err := g.registry.Register(renderer); err != nil {
			g.initialiseErr = fmt.Errorf("generator: register default renderer: %w", err)
		}
	}
}

// Request describes one generation run.
type Request struct {
	// Model supplies the shape graph directly, bypassing loading.
	Model *shape.Model

	// ModelPath names a shape model JSON file. Ignored when Model is set.
	ModelPath string

	// OpenAPI identifies an OpenAPI document to map into a model. Ignored
	// when Model or ModelPath is set.
	OpenAPI openapi.Source

	// Renderer names the renderer to use; empty falls back to the default.
	Renderer string

	// Options are passed through to the renderer.
	Options gen.Options
}

// Generate resolves the model, derives triads and conversion plans for every
// marked shape, and renders them.
func (g *Generator) Generate(ctx context.Context, req Request) ([]gen.File, error) {
	if ctx == nil {
		return nil, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.initialiseErr; err != nil {
		return nil, err
	}

	model, err := g.resolveModel(ctx, req)
	if err != nil {
		return nil, err
	}
	g.log.Debug().Int("shapes", model.Len()).Int("operations", len(model.Operations)).Msg("model resolved")

	index := reach.NewIndex(model)

	triads, err := synth.Synthesize(model, index, synth.Options{
		PublicConstrainedTypes: req.Options.PublicConstrainedTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: synthesize: %w", err)
	}
	g.log.Debug().Int("marked", len(triads)).Msg("triads synthesized")

	plans := convert.All(model, index)

	renderer, err := g.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	unit := gen.Unit{Model: model, Triads: triads, Plans: plans}
	files, err := renderer.Render(ctx, unit, req.Options)
	if err != nil {
		return nil, fmt.Errorf("generator: render: %w", err)
	}
	for _, f := range files {
		g.log.Info().Str("path", f.Path).Int("bytes", len(f.Contents)).Msg("rendered")
	}
	return files, nil
}

func (g *Generator) resolveModel(ctx context.Context, req Request) (*shape.Model, error) {
	switch {
	case req.Model != nil:
		if err := req.Model.Validate(); err != nil {
			return nil, fmt.Errorf("generator: model: %w", err)
		}
		return req.Model, nil
	case req.ModelPath != "":
		model, err := shape.LoadFile(req.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("generator: load model: %w", err)
		}
		return model, nil
	case req.OpenAPI != nil:
		data, err := g.loader.Load(ctx, req.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("generator: load openapi: %w", err)
		}
		model, err := g.mapper.Model(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("generator: map openapi: %w", err)
		}
		return model, nil
	default:
		return nil, errors.New("generator: model, model path, or openapi source is required")
	}
}

func (g *Generator) rendererFor(name string) (gen.Renderer, error) {
	if g.registry == nil {
		return nil, errors.New("generator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = g.defaultRenderer
	}

	renderer, err := g.registry.Get(target)
	if err != nil {
		if name != "" {
			return nil, fmt.Errorf("generator: renderer %q: %w", name, err)
		}
		names := g.registry.List()
		if len(names) == 0 {
			return nil, errors.New("generator: no renderers registered")
		}
		return g.registry.Get(names[0])
	}
	return renderer, nil
}
