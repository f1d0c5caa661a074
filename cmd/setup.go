package cmd

import (
	"fmt"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/discovery"
	"github.com/facetkit/facet/internal/handlers"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/renderer"
)

// runtime bundles the wired-up framework pieces the CLI commands share.
type runtime struct {
	config   *config.Config
	registry *registry.ComponentRegistry
	scanner  *discovery.Scanner
	compiler *compiler.Compiler
	renderer *renderer.Renderer
	logger   logging.Logger
}

// defaultHandlers returns the handler registry the CLI compiles with.
func defaultHandlers() *handlers.Registry {
	return handlers.DefaultRegistry()
}

// newRuntime loads configuration, scans the project, and wires the compiler
// and renderer together.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger := newLogger()

	reg := registry.NewComponentRegistry()
	scanner := discovery.NewScanner(cfg, nil)
	if _, err := scanner.LoadProject(reg); err != nil {
		return nil, fmt.Errorf("scanning components: %w", err)
	}

	comp := compiler.New(cfg, reg, defaultHandlers(), scanner, logger)
	rend := renderer.New(comp, reg, cfg, logger)

	return &runtime{
		config:   cfg,
		registry: reg,
		scanner:  scanner,
		compiler: comp,
		renderer: rend,
		logger:   logger,
	}, nil
}
