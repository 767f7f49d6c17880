// Package template defines the renderer-agnostic template seam used by code
// generators. Renderers depend on the TemplateRenderer interface only; the
// gotemplate subpackage provides the pongo2-backed implementation.
package template
