// Package renderer is the host render entry point: it resolves a
// component's dispatch routine for a (variant, format) pair and invokes it.
//
// The renderer owns the mode-dependent hot path. In development every render
// re-checks compilation so cache invalidations from live reload take effect
// on the very next render. In production the check happens only until the
// first successful compile; after that renders go straight to the dispatch
// with no compiler involvement and no locks.
package renderer

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/errors"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
)

// Renderer renders registered components through their dispatch routines.
type Renderer struct {
	compiler *compiler.Compiler
	registry *registry.ComponentRegistry
	config   *config.Config
	logger   logging.Logger
}

// New creates a Renderer.
func New(comp *compiler.Compiler, reg *registry.ComponentRegistry, cfg *config.Config, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{
		compiler: comp,
		registry: reg,
		config:   cfg,
		logger:   logger.WithComponent("renderer"),
	}
}

// Render writes the component's output for (variant, format) to w. Empty
// variant and format select the default template. Render errors from an
// already-compiled routine propagate directly; the framework never retries
// a logic error, only a missing-compilation state.
func (r *Renderer) Render(ctx context.Context, w io.Writer, component, variant, format string, data any) error {
	if r.config.IsDevelopment() || !r.compiler.Compiled(component) {
		if err := r.compiler.Compile(ctx, component, compiler.Options{RaiseErrors: true}); err != nil {
			return err
		}
	}

	dispatch, ok := r.compiler.Dispatch(component)
	if !ok {
		return fmt.Errorf("component %s has no compiled templates", component)
	}
	return dispatch.RenderTemplateFor(ctx, w, variant, format, data)
}

// RenderString renders to a string, for callers without a writer.
func (r *Renderer) RenderString(ctx context.Context, component, variant, format string, data any) (string, error) {
	var b strings.Builder
	if err := r.Render(ctx, &b, component, variant, format, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FillSlots resolves the component's declared slots against caller-provided
// content, compiling the component first if needed so its slot table exists.
// The returned map covers every declared slot and is ready to embed in
// render data; content naming an undeclared slot is an error.
func (r *Renderer) FillSlots(ctx context.Context, component string, content map[string]string) (map[string]string, error) {
	if r.config.IsDevelopment() || !r.compiler.Compiled(component) {
		if err := r.compiler.Compile(ctx, component, compiler.Options{RaiseErrors: true}); err != nil {
			return nil, err
		}
	}

	table, ok := r.compiler.Slots().Lookup(component)
	if !ok {
		return nil, fmt.Errorf("component %s has no slot table", component)
	}

	filled := make(map[string]string, len(table.Defaults)+len(table.Required))
	fill := func(name string) error {
		value, err := r.compiler.Slots().Fill(component, name, content[name])
		if err != nil {
			return err
		}
		filled[name] = value
		return nil
	}
	for name := range table.Defaults {
		if err := fill(name); err != nil {
			return nil, err
		}
	}
	for _, name := range table.Required {
		if err := fill(name); err != nil {
			return nil, err
		}
	}
	for name := range content {
		if _, declared := filled[name]; !declared {
			return nil, fmt.Errorf("component %s declares no slot %q", component, name)
		}
	}
	return filled, nil
}

// CompileAll compiles every registered non-base component, collecting
// problems across the whole set. Used at boot: production boots compile
// strictly so a broken template set stops the process before it serves
// traffic.
func (r *Renderer) CompileAll(ctx context.Context, strict bool) error {
	collector := errors.NewCollector()
	for name := range r.registry.GetAll() {
		err := r.compiler.Compile(ctx, name, compiler.Options{RaiseErrors: strict})
		if err != nil {
			collector.AddError(err)
			var templateErr *errors.TemplateError
			if stderrors.As(err, &templateErr) {
				// One structured line per validation problem, so log
				// consumers can count and filter them individually.
				for _, msg := range templateErr.Messages {
					problem := &errors.ValidationError{
						Component: name,
						Message:   msg,
						Severity:  errors.SeverityError,
						Timestamp: templateErr.Timestamp,
					}
					r.logger.Error(ctx, problem, "template validation failed", "component", name)
				}
			} else {
				r.logger.Error(ctx, err, "compile failed", "component", name)
			}
		}
	}
	if errs := collector.Errors(); len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, err := range errs {
			messages[i] = err.Error()
		}
		return fmt.Errorf("%d components failed to compile:\n%s", len(errs), strings.Join(messages, "\n"))
	}
	return nil
}
