package compiler

import (
	"context"
	"fmt"
	"sync"

	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/errors"
	"github.com/facetkit/facet/internal/handlers"
	"github.com/facetkit/facet/internal/i18n"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/slots"
	"github.com/facetkit/facet/internal/types"
)

// DescriptorSource produces the ordered candidate descriptors for a
// component: sidecar files, the inline literal, and visible render methods.
// Discovery is a collaborator; the compiler only consumes its output shape.
type DescriptorSource interface {
	Descriptors(info *types.ComponentInfo) ([]Descriptor, error)
}

// Options controls one compile attempt.
type Options struct {
	// RaiseErrors selects strict mode: validation failures return a
	// TemplateError instead of deferring compilation to the next attempt.
	// Typical strict callers: application boot outside development, and
	// explicit validation requests.
	RaiseErrors bool
	// Force recompiles even when the cache says the component is current
	Force bool
}

// Compiler orchestrates compilation per component: cache check, optional
// development-mode delegation to the parent, validation, code generation
// under the per-component lock, post-compile registration of slot and
// translation state, and finally the cache mark.
//
// A component moves uncompiled -> compiling -> compiled; any failure drops
// it back to uncompiled without touching the cache, so a later attempt can
// retry after the source is corrected.
type Compiler struct {
	config   *config.Config
	registry *registry.ComponentRegistry
	handlers *handlers.Registry
	source   DescriptorSource
	cache    *CompileCache
	slots    *slots.Registry
	i18n     *i18n.Registry
	logger   logging.Logger

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	dispatchMu sync.RWMutex
	dispatches map[string]*Dispatch
}

// New creates a Compiler. The configuration's mode decides the consistency
// model: development re-checks compilation on every render, production
// compiles once and never takes the lock on the render hot path.
func New(cfg *config.Config, reg *registry.ComponentRegistry, handlerRegistry *handlers.Registry, source DescriptorSource, logger logging.Logger) *Compiler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compiler{
		config:     cfg,
		registry:   reg,
		handlers:   handlerRegistry,
		source:     source,
		cache:      NewCompileCache(),
		slots:      slots.NewRegistry(),
		i18n:       i18n.NewRegistry(cfg.I18n.LocalePaths, cfg.I18n.DefaultLocale),
		logger:     logger.WithComponent("compiler"),
		locks:      make(map[string]*sync.Mutex),
		dispatches: make(map[string]*Dispatch),
	}
}

// Compile compiles one component. It is a no-op when the component is
// already compiled and Force is unset, and always a no-op for the base
// sentinel. Concurrent callers for the same component serialize on its
// lock; only one generates routines, the rest observe the cache mark.
func (c *Compiler) Compile(ctx context.Context, name string, opts Options) error {
	info, ok := c.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown component %s", name)
	}
	if info.Base {
		// The base component is purely an ancestor sentinel.
		return nil
	}
	if !opts.Force && c.cache.Compiled(name) {
		return nil
	}

	descriptors, err := c.source.Descriptors(info)
	if err != nil {
		return err
	}

	// Development convenience: a component with no rendering source of its
	// own renders as an alias of its parent until templates are added.
	// Production skips the check; the class tree is fixed and resolved once.
	if c.config.IsDevelopment() && info.Parent != "" && !info.HasOwnTemplates() && !hasFileOrLiteral(descriptors) {
		c.logger.Debug(ctx, "delegating compilation to parent",
			"component", name, "parent", info.Parent)
		return c.Compile(ctx, info.Parent, opts)
	}

	if messages := Validate(info, descriptors); len(messages) > 0 {
		if opts.RaiseErrors {
			return errors.NewTemplateError(name, messages)
		}
		// Lenient mode: leave the component uncompiled so the next attempt
		// retries, masking transient mid-edit states in development.
		c.logger.Debug(ctx, "compilation deferred",
			"component", name, "problems", len(messages))
		return nil
	}

	lock := c.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	// Another goroutine may have finished while we validated.
	if !opts.Force && c.cache.Compiled(name) {
		return nil
	}

	dispatch, err := Generate(info, descriptors, c.handlers)
	if err != nil {
		// Handler failures indicate malformed template source and propagate
		// unmodified in either mode.
		return err
	}

	if err := c.slots.Register(info); err != nil {
		return err
	}
	if err := c.i18n.Build(info); err != nil {
		return err
	}

	// Publish the dispatch before the cache mark: once Compiled reports
	// true, every routine must be visible to any goroutine that renders.
	c.dispatchMu.Lock()
	c.dispatches[name] = dispatch
	c.dispatchMu.Unlock()
	c.cache.Register(name)

	c.logger.Debug(ctx, "compiled component",
		"component", name, "routines", len(dispatch.routines))
	return nil
}

// Compiled reports whether the component is marked compiled.
func (c *Compiler) Compiled(name string) bool {
	return c.cache.Compiled(name)
}

// Dispatch returns the component's dispatch routine, walking up the parent
// chain for components rendering as an alias of an ancestor.
func (c *Compiler) Dispatch(name string) (*Dispatch, bool) {
	for current := name; current != ""; {
		c.dispatchMu.RLock()
		dispatch, ok := c.dispatches[current]
		c.dispatchMu.RUnlock()
		if ok {
			return dispatch, true
		}
		info, exists := c.registry.Get(current)
		if !exists {
			return nil, false
		}
		current = info.Parent
	}
	return nil, false
}

// RendersTemplateForVariant reports whether the component's compiled set
// includes a routine keyed to the variant, as opposed to falling through to
// the default target.
func (c *Compiler) RendersTemplateForVariant(name, variant string) bool {
	dispatch, ok := c.Dispatch(name)
	if !ok {
		return false
	}
	return dispatch.RendersVariant(variant)
}

// Invalidate drops the component's cache entry so the next compile attempt
// rebuilds it. The published dispatch stays usable until the rebuild
// replaces it; callers must not invalidate a component mid-compile.
func (c *Compiler) Invalidate(name string) {
	c.cache.Invalidate(name)
}

// InvalidateAll drops every cache entry.
func (c *Compiler) InvalidateAll() {
	c.cache.InvalidateAll()
}

// Cache exposes the compile cache for introspection and tooling.
func (c *Compiler) Cache() *CompileCache {
	return c.cache
}

// Slots exposes the post-compile slot registry.
func (c *Compiler) Slots() *slots.Registry {
	return c.slots
}

// I18n exposes the post-compile translation registry.
func (c *Compiler) I18n() *i18n.Registry {
	return c.i18n
}

// lockFor returns the component's mutual-exclusion lock, creating it on
// first use.
func (c *Compiler) lockFor(name string) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	lock, ok := c.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[name] = lock
	}
	return lock
}

func hasFileOrLiteral(descriptors []Descriptor) bool {
	for _, d := range descriptors {
		if d.IsFileOrLiteral() {
			return true
		}
	}
	return false
}
