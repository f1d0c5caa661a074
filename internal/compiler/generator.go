package compiler

import (
	"context"
	"fmt"
	"io"

	"github.com/facetkit/facet/internal/handlers"
	"github.com/facetkit/facet/internal/types"
)

// Dispatch is the compiled render entry point for one component: an
// immutable routine table plus the branch list that selects among routines
// by (variant, format). Built once per compile under the component's lock
// and never mutated afterwards, so render-time reads need no
// synchronization.
type Dispatch struct {
	component  string
	routines   map[string]types.RenderFunc
	branches   []branch
	defaultKey string
	// direct short-circuits branching when the sole routine is the default
	// target, keeping the common single-template case branch-free
	direct   bool
	variants map[string]struct{}
}

// branch is one (predicate, target) pair of the dispatch chain.
type branch struct {
	variant string
	format  string
	// defaultFormat marks branches whose format predicate is
	// "html or unset" rather than strict equality
	defaultFormat bool
	key           string
}

// matches evaluates the branch predicate: a variant-equality test (or
// "variant unset" when the branch declares none) conjoined with a
// format-equality test (or "format is html-or-unset" for default-format
// branches).
func (b branch) matches(variant, format string) bool {
	if b.variant == "" {
		if variant != "" {
			return false
		}
	} else if variant != b.variant {
		return false
	}
	if b.defaultFormat {
		return format == "" || format == FormatHTML
	}
	return format == b.format
}

// Generate compiles every descriptor into a routine and synthesizes the
// dispatch over them. The descriptor set must already have passed Validate;
// Generate still asserts the structural invariants it depends on and fails
// with an internal error when a contract is violated.
//
// Handler errors propagate unmodified: a failing handler means malformed
// template source, which is the author's to fix, not the compiler's to mask.
func Generate(info *types.ComponentInfo, descriptors []Descriptor, registry *handlers.Registry) (*Dispatch, error) {
	d := &Dispatch{
		component: info.Name,
		routines:  make(map[string]types.RenderFunc, len(descriptors)),
		variants:  make(map[string]struct{}),
	}

	// A template file or literal shadows an inherited render method deriving
	// the same call name: validation only rejects the self-defined case, so a
	// component may legally carry both, and its own template wins.
	shadowed := make(map[string]struct{}, len(descriptors))
	for _, desc := range descriptors {
		if desc.IsFileOrLiteral() {
			shadowed[desc.RoutineKey(info.Name)] = struct{}{}
		}
	}

	for _, desc := range descriptors {
		if desc.Kind == SourceInlineMethod {
			if _, hidden := shadowed[desc.RoutineKey(info.Name)]; hidden {
				continue
			}
		}
		fn, err := compileDescriptor(desc, registry)
		if err != nil {
			return nil, err
		}
		key := desc.RoutineKey(info.Name)
		if _, dup := d.routines[key]; dup {
			return nil, fmt.Errorf("internal: duplicate routine %s for %s", key, info.Name)
		}
		d.routines[key] = fn
		d.branches = append(d.branches, branch{
			variant:       desc.Variant,
			format:        desc.Format,
			defaultFormat: desc.DefaultFormat(),
			key:           key,
		})
		if desc.Variant != "" {
			d.variants[desc.Variant] = struct{}{}
		}
		if desc.IsDefault() && d.defaultKey == "" {
			d.defaultKey = key
		}
	}

	if d.defaultKey == "" {
		// Validate guarantees a resolvable default; reaching this means the
		// discovery contract was violated.
		return nil, fmt.Errorf("internal: no default dispatch target for %s", info.Name)
	}

	if len(d.branches) == 1 {
		if d.branches[0].key != d.defaultKey {
			return nil, fmt.Errorf("internal: sole template for %s is not the default target", info.Name)
		}
		d.direct = true
	}

	return d, nil
}

// compileDescriptor turns one descriptor into an executable routine. Inline
// methods already carry theirs; file and literal sources go through the
// handler registry.
func compileDescriptor(desc Descriptor, registry *handlers.Registry) (types.RenderFunc, error) {
	if desc.Kind == SourceInlineMethod {
		if desc.Method == nil {
			return nil, fmt.Errorf("internal: inline method descriptor %s has no routine", desc.Origin)
		}
		return desc.Method, nil
	}

	format := desc.Format
	if format == "" {
		format = FormatHTML
	}
	return registry.Handle(desc.HandlerID, desc.Source, handlers.Metadata{
		Format:          format,
		Identifier:      desc.Origin,
		ShortIdentifier: ShortIdentifier(desc.Origin),
	})
}

// RenderTemplateFor selects the routine for (variant, format) and invokes
// it. Selection always resolves: unmatched pairs fall through to the default
// target, whose existence Generate guarantees.
func (d *Dispatch) RenderTemplateFor(ctx context.Context, w io.Writer, variant, format string, data any) error {
	return d.Resolve(variant, format)(ctx, w, data)
}

// Resolve returns the routine the dispatch selects for (variant, format).
func (d *Dispatch) Resolve(variant, format string) types.RenderFunc {
	if d.direct {
		return d.routines[d.defaultKey]
	}
	for _, b := range d.branches {
		if b.matches(variant, format) {
			return d.routines[b.key]
		}
	}
	return d.routines[d.defaultKey]
}

// Routine returns the routine stored under key, for introspection.
func (d *Dispatch) Routine(key string) (types.RenderFunc, bool) {
	fn, ok := d.routines[key]
	return fn, ok
}

// RoutineKeys returns the keys of every compiled routine.
func (d *Dispatch) RoutineKeys() []string {
	keys := make([]string, 0, len(d.routines))
	for k := range d.routines {
		keys = append(keys, k)
	}
	return keys
}

// RendersVariant reports whether the compiled set includes a routine keyed
// to the variant, as opposed to falling through to the default target.
func (d *Dispatch) RendersVariant(variant string) bool {
	_, ok := d.variants[variant]
	return ok
}

// Component returns the owning component's name.
func (d *Dispatch) Component() string {
	return d.component
}
