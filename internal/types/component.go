// Package types provides common type definitions used throughout Facet.
// This package contains shared types to avoid circular dependencies between packages.
package types

import (
	"context"
	"io"
	"time"
)

// RenderFunc is an executable rendering routine produced by a template
// handler or declared directly on a component as an inline render method.
// It writes the rendered output for the given view data to w.
type RenderFunc func(ctx context.Context, w io.Writer, data any) error

// ComponentInfo contains the metadata about a registered view component that
// the compiler, discovery, and renderer operate on. It is registered once at
// load time; under live reload the registration may be replaced, which must
// invalidate the component's compile cache entry.
type ComponentInfo struct {
	// Name is the component identifier (e.g., "Button", "CardHeader") and
	// its compile-cache key. Unique per registry.
	Name string
	// Package is the Go package the component is declared in
	Package string
	// FilePath is the path of the component's defining source file; sidecar
	// template discovery derives its base name from this path
	FilePath string
	// Parent names the component this one inherits templates and render
	// methods from. Empty for roots and for the base sentinel itself.
	Parent string
	// Base marks the framework's own base component. The base component is
	// never compiled; it exists purely as an ancestor sentinel.
	Base bool
	// Hierarchy lists the component's own declared render methods, one level
	// per type in its ancestry, nearest level first. Methods contributed by
	// mixed-in helpers are excluded at registration time, so the compiler
	// never needs to re-derive that distinction.
	Hierarchy []HierarchyLevel
	// InlineTemplate is an explicit literal template declared directly on the
	// component, if any
	InlineTemplate *InlineTemplate
	// Slots describes the component's content slots; defaults are resolved
	// during post-compile registration
	Slots []SlotSpec
	// LastMod tracks the last registration time for change detection
	LastMod time.Time
}

// HierarchyLevel records the render methods one type in a component's
// ancestry declares itself. Method names follow the call convention:
// "call" for the default routine, "call_<variant>" for variant routines.
type HierarchyLevel struct {
	// Owner is the declaring component's name
	Owner string
	// Methods maps a call-convention method name to its routine
	Methods map[string]RenderFunc
}

// InlineTemplate is a template declared as a source literal on the component
// rather than discovered as a sidecar file.
type InlineTemplate struct {
	// Source is the raw template text
	Source string
	// HandlerID selects the template handler that compiles Source
	HandlerID string
	// Location identifies where the literal was declared, for diagnostics
	Location string
}

// SlotSpec declares one content slot on a component.
type SlotSpec struct {
	// Name is the slot identifier
	Name string
	// Required marks slots that must be filled by the caller
	Required bool
	// Default is the fallback content rendered when the slot is unfilled
	Default string
}

// OwnMethods returns the render methods declared on the component itself,
// excluding everything inherited. Nil when the component declares none.
func (c *ComponentInfo) OwnMethods() map[string]RenderFunc {
	if len(c.Hierarchy) == 0 {
		return nil
	}
	return c.Hierarchy[0].Methods
}

// VisibleMethods returns the render methods visible on the component across
// its whole ancestry, nearest declaration winning. Mixed-in helpers never
// appear because Hierarchy excludes them by construction.
func (c *ComponentInfo) VisibleMethods() map[string]RenderFunc {
	visible := make(map[string]RenderFunc)
	for _, level := range c.Hierarchy {
		for name, fn := range level.Methods {
			if _, ok := visible[name]; !ok {
				visible[name] = fn
			}
		}
	}
	return visible
}

// HasOwnTemplates reports whether the component declares any rendering
// source of its own: an inline literal or at least one own render method.
// Sidecar files are not visible here; discovery answers that separately.
func (c *ComponentInfo) HasOwnTemplates() bool {
	return c.InlineTemplate != nil || len(c.OwnMethods()) > 0
}
