package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/facetkit/facet/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch scan paths and invalidate components on change",
	Long: `Watch the configured scan paths for template changes. Changed
components are invalidated and recompiled leniently, logging any validation
problems without stopping the watch.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(rt.config.Debounce())
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(templateFilter)
	invalidator := watcher.NewInvalidator(rt.registry, rt.compiler, rt.logger, nil)
	fw.AddHandler(invalidator.Handle)
	go invalidator.WatchRegistry(ctx)

	for _, path := range rt.config.Components.ScanPaths {
		if err := fw.AddRecursive(path); err != nil {
			rt.logger.Warn(ctx, err, "cannot watch path", "path", path)
		}
	}

	fw.Start(ctx)
	rt.logger.Info(ctx, "watching for template changes",
		"paths", strings.Join(rt.config.Components.ScanPaths, ","))

	<-ctx.Done()
	return nil
}

// templateFilter keeps the watcher focused on template and translation
// sidecars.
func templateFilter(path string) bool {
	for _, suffix := range []string{".gohtml", ".gotxt", ".html", ".text", ".yml"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
