// Package cmd provides the facet command-line interface.
//
// Configuration is loaded from multiple sources with clear precedence:
//  1. Command-line flags (highest priority)
//  2. FACET_CONFIG_FILE environment variable (custom config file path)
//  3. Individual environment variables (FACET_MODE, FACET_PREVIEW_PORT, ...)
//  4. .facet.yml in the current directory (lowest priority)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/facetkit/facet/internal/logging"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "facet",
	Short: "A view-component template compiler for Go",
	Long: `Facet compiles a component's template set into a single dispatch
routine selected at render time by a (variant, format) pair.

Key Features:
  • Sidecar template discovery (<name>.<format>[+variant].<ext>)
  • Ahead-of-time strict validation of whole template sets
  • Per-component compile caching with live-reload invalidation
  • Development preview server with websocket reload

Quick Start:
  facet init                      Scaffold a .facet.yml
  facet compile                   Validate and compile every component
  facet list                      List discovered components
  facet watch                     Recompile on file changes
  facet preview                   Start the preview server`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .facet.yml, can also use FACET_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes viper with the config file and FACET_ environment
// variables. Missing config files degrade gracefully to defaults.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FACET_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".facet")
	}

	viper.SetEnvPrefix("FACET")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the --log-level flag.
func newLogger() logging.Logger {
	level := logging.LevelInfo
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.NewLogger(&logging.Config{Level: level, Format: "text", Output: os.Stderr})
}
