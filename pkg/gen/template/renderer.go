package template

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract, providing the seam code generators rely on.
type TemplateRenderer interface {
	// Render executes a named template; when name looks like inline
	// template content it is rendered directly.
	Render(name string, data any) (string, error)
	// RenderTemplate executes a template loaded from the configured
	// source by name.
	RenderTemplate(name string, data any) (string, error)
	// RenderString executes inline template content.
	RenderString(templateContent string, data any) (string, error)
	// RegisterFilter installs a named filter available to all templates.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext seeds values available to every render.
	GlobalContext(data any) error
}
