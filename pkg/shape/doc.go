// Package shape defines the declarative service model consumed by the
// generator: a graph of typed shapes whose members may carry validation
// constraints. The graph may be cyclic; shapes reference each other by ID
// and are resolved through the owning Model.
package shape
