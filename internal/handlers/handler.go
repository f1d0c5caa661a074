// Package handlers provides the template handler registry that turns raw
// template source into executable rendering logic.
//
// A handler is selected by its id, which for sidecar templates is the file
// extension (e.g. "gohtml", "gotxt"). Two calling conventions exist: modern
// handlers accept a Metadata record alongside the source, legacy handlers
// accept only the source and an identifier string. The registry picks the
// convention by interface assertion, so a handler implements exactly one.
package handlers

import (
	"fmt"
	"sync"

	"github.com/facetkit/facet/internal/types"
)

// Metadata describes the template being compiled, for diagnostics and
// format-aware handlers.
type Metadata struct {
	// Format is the declared output format tag ("html", "text", "json", ...)
	Format string
	// Identifier is the full template identifier, typically the file path or
	// an inline-location marker
	Identifier string
	// ShortIdentifier is a display-shortened identifier used in error output
	ShortIdentifier string
}

// Handler compiles template source into an executable routine using the
// metadata-object convention.
type Handler interface {
	Compile(source string, metadata Metadata) (types.RenderFunc, error)
}

// LegacyHandler compiles template source using the positional convention
// that predates Metadata. Retained for third-party handlers.
type LegacyHandler interface {
	CompileTemplate(source, identifier string) (types.RenderFunc, error)
}

// Registry maps handler ids to handlers. Registration happens at process
// start; lookups are concurrent.
type Registry struct {
	mutex    sync.RWMutex
	handlers map[string]any
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]any)}
}

// DefaultRegistry returns a registry with the built-in handlers installed:
// html (gohtml) and text (gotxt). templ views enter through the FromTempl
// adapter as inline render methods, not through a source handler.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("html", NewHTMLHandler())
	r.Register("gohtml", NewHTMLHandler())
	r.Register("text", NewTextHandler())
	r.Register("gotxt", NewTextHandler())
	return r
}

// Register installs a handler under the given id. The handler must satisfy
// Handler or LegacyHandler; anything else is rejected.
func (r *Registry) Register(id string, handler any) error {
	switch handler.(type) {
	case Handler, LegacyHandler:
	default:
		return fmt.Errorf("handler %q implements neither convention", id)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.handlers[id] = handler
	return nil
}

// Lookup returns the handler registered under id.
func (r *Registry) Lookup(id string) (any, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	h, ok := r.handlers[id]
	return h, ok
}

// Handle compiles source with the handler registered under id, selecting
// the calling convention the handler supports. Errors from the handler
// propagate unmodified: a compile failure means the template source itself
// is malformed and the author must fix it.
func (r *Registry) Handle(id, source string, metadata Metadata) (types.RenderFunc, error) {
	h, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("no template handler registered for %q", id)
	}
	switch handler := h.(type) {
	case Handler:
		return handler.Compile(source, metadata)
	case LegacyHandler:
		return handler.CompileTemplate(source, metadata.Identifier)
	default:
		// Unreachable: Register enforces the conventions.
		return nil, fmt.Errorf("handler %q implements neither convention", id)
	}
}
