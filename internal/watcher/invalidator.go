package watcher

import (
	"context"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
)

// Invalidator maps file change events back to the components they belong to
// and drops their compile cache entries, so the next render recompiles
// against the edited source.
type Invalidator struct {
	registry *registry.ComponentRegistry
	compiler *compiler.Compiler
	logger   logging.Logger
	// onInvalidate is notified once per invalidated component; the preview
	// server uses it to push reload events
	onInvalidate func(component string)
}

// NewInvalidator creates an Invalidator. onInvalidate may be nil.
func NewInvalidator(reg *registry.ComponentRegistry, comp *compiler.Compiler, logger logging.Logger, onInvalidate func(component string)) *Invalidator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Invalidator{
		registry:     reg,
		compiler:     comp,
		logger:       logger.WithComponent("invalidator"),
		onInvalidate: onInvalidate,
	}
}

// WatchRegistry consumes registry events until ctx is cancelled, dropping a
// component's cache entry when its registration is replaced or removed.
// Programmatic re-registration then behaves like an on-disk template edit.
func (inv *Invalidator) WatchRegistry(ctx context.Context) {
	events := inv.registry.Watch()
	defer inv.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == registry.EventTypeAdded {
				continue
			}

			inv.compiler.Invalidate(event.Component.Name)
			inv.logger.Debug(ctx, "invalidated component",
				"component", event.Component.Name, "change", event.Type.String())

			if inv.onInvalidate != nil {
				inv.onInvalidate(event.Component.Name)
			}
		}
	}
}

// Handle implements ChangeHandler.
func (inv *Invalidator) Handle(events []ChangeEvent) error {
	ctx := context.Background()
	invalidated := make(map[string]struct{})

	for _, event := range events {
		for _, component := range inv.registry.FindByPath(event.Path) {
			if _, done := invalidated[component.Name]; done {
				continue
			}
			invalidated[component.Name] = struct{}{}

			inv.compiler.Invalidate(component.Name)
			inv.logger.Debug(ctx, "invalidated component",
				"component", component.Name, "path", event.Path, "change", event.Type.String())

			if inv.onInvalidate != nil {
				inv.onInvalidate(component.Name)
			}
		}
	}
	return nil
}
