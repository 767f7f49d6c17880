// Package gosrc renders a generation unit into Go source: for every marked
// shape an Unconstrained type, a Constrained type, a ConstraintViolation sum
// type, and a fail-fast conversion function. Emission happens in Go; the
// template only assembles precomputed blocks into a file.
package gosrc

import (
	"context"
	"fmt"
	"go/format"
	"io/fs"
	"strings"

	"github.com/goliatone/go-constraintgen/pkg/gen"
	"github.com/goliatone/go-constraintgen/pkg/gen/template"
	"github.com/goliatone/go-constraintgen/pkg/gen/template/gotemplate"
)

const (
	// DefaultRuntimeImport is the package generated violation renderers
	// delegate to.
	DefaultRuntimeImport = "github.com/goliatone/go-constraintgen/pkg/constrain"
	// DefaultFileName is the emitted source file name.
	DefaultFileName = "constraints_gen.go"

	templateName = "constraints"
)

// Option configures the renderer before construction.
type Option func(*Renderer)

// WithTemplateRenderer replaces the template engine, typically to override
// the file layout.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplatesDir loads templates from a directory instead of the embedded
// set. The directory must contain constraints.tmpl.
func WithTemplatesDir(dir string) Option {
	return func(r *Renderer) {
		r.templatesDir = strings.TrimSpace(dir)
	}
}

// WithRuntimeImport overrides the runtime package generated code imports.
func WithRuntimeImport(path string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(path) != "" {
			r.runtimeImport = strings.TrimSpace(path)
		}
	}
}

// WithFileName overrides the emitted file name.
func WithFileName(name string) Option {
	return func(r *Renderer) {
		if strings.TrimSpace(name) != "" {
			r.fileName = strings.TrimSpace(name)
		}
	}
}

// Renderer emits Go source for a generation unit.
type Renderer struct {
	engine        template.TemplateRenderer
	templatesDir  string
	runtimeImport string
	fileName      string
}

var _ gen.Renderer = (*Renderer)(nil)

// New constructs a Renderer backed by the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		runtimeImport: DefaultRuntimeImport,
		fileName:      DefaultFileName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.engine == nil {
		var engineOpts []gotemplate.Option
		if r.templatesDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(r.templatesDir))
		} else {
			sub, err := fs.Sub(templatesFS, "templates")
			if err != nil {
				return nil, fmt.Errorf("gosrc: embedded templates: %w", err)
			}
			engineOpts = append(engineOpts, gotemplate.WithFS(sub))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("gosrc: create template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Name identifies the renderer in a registry.
func (r *Renderer) Name() string { return "gosrc" }

// ContentType reports the media type of emitted files.
func (r *Renderer) ContentType() string { return "text/x-go" }

// Render emits one gofmt-formatted source file for the unit.
func (r *Renderer) Render(ctx context.Context, unit gen.Unit, options gen.Options) ([]gen.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if unit.Model == nil {
		return nil, fmt.Errorf("gosrc: unit has no model")
	}

	builder := newViewBuilder(unit, options, r.runtimeImport)
	view, err := builder.buildFile()
	if err != nil {
		return nil, err
	}

	out, err := r.engine.RenderTemplate(templateName, view)
	if err != nil {
		return nil, fmt.Errorf("gosrc: render: %w", err)
	}

	formatted, err := format.Source([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("gosrc: emitted source does not parse: %w", err)
	}

	return []gen.File{{Path: r.fileName, Contents: formatted}}, nil
}
