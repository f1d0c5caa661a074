package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/facetkit/facet/internal/preview"
	"github.com/facetkit/facet/internal/watcher"
)

var (
	previewHost string
	previewPort int
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"p"},
	Short:   "Start the development preview server",
	Long: `Start an HTTP server rendering discovered components on demand.
Open previews reconnect over a websocket and reload automatically when the
watcher invalidates a component.

Examples:
  facet preview                       # Serve on the configured host/port
  facet preview --port 9000           # Override the port`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewHost, "host", "", "Host to bind to (overrides config)")
	previewCmd.Flags().IntVarP(&previewPort, "port", "p", 0, "Port to serve on (overrides config)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	if previewHost != "" {
		rt.config.Preview.Host = previewHost
	}
	if previewPort != 0 {
		rt.config.Preview.Port = previewPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := preview.NewServer(rt.config, rt.renderer, rt.registry, rt.logger)

	fw, err := watcher.NewFileWatcher(rt.config.Debounce())
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(templateFilter)
	invalidator := watcher.NewInvalidator(rt.registry, rt.compiler, rt.logger, server.NotifyReload)
	fw.AddHandler(invalidator.Handle)
	go invalidator.WatchRegistry(ctx)
	for _, path := range rt.config.Components.ScanPaths {
		if err := fw.AddRecursive(path); err != nil {
			rt.logger.Warn(ctx, err, "cannot watch path", "path", path)
		}
	}
	fw.Start(ctx)

	return server.Start(ctx)
}
