// Package config provides configuration management for Facet applications
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the FACET_ prefix. It controls the process-wide consistency
// mode (development or production), component scan paths, the preview server,
// watch debouncing, and translation bundle locations.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Mode values accepted for Config.Mode.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	// Mode selects the process-wide consistency mode: in development every
	// render re-checks compilation so live reload stays correct; in
	// production compilation happens once and the render hot path is
	// lock-free.
	Mode       string           `yaml:"mode"`
	Components ComponentsConfig `yaml:"components"`
	Preview    PreviewConfig    `yaml:"preview"`
	Watch      WatchConfig      `yaml:"watch"`
	I18n       I18nConfig       `yaml:"i18n"`
}

type ComponentsConfig struct {
	ScanPaths       []string `yaml:"scan_paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type PreviewConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type I18nConfig struct {
	// LocalePaths lists directories searched for <component>.<locale>.yml
	// translation bundles
	LocalePaths []string `yaml:"locale_paths"`
	// DefaultLocale is the fallback locale tag (BCP 47)
	DefaultLocale string `yaml:"default_locale"`
}

// Load builds a Config from whatever viper has already read (config file,
// environment, flags) and applies defaults for anything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Mode == "" {
		config.Mode = viper.GetString("mode")
	}
	if config.Mode == "" {
		config.Mode = ModeDevelopment
	}

	// Workaround for viper slice handling: explicit keys win over the
	// unmarshal result when the struct field came back empty.
	if viper.IsSet("components.scan_paths") && len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = viper.GetStringSlice("components.scan_paths")
	}
	if len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = []string{"./components", "./views"}
	}
	if viper.IsSet("components.exclude_patterns") && len(config.Components.ExcludePatterns) == 0 {
		config.Components.ExcludePatterns = viper.GetStringSlice("components.exclude_patterns")
	}
	if viper.IsSet("i18n.locale_paths") && len(config.I18n.LocalePaths) == 0 {
		config.I18n.LocalePaths = viper.GetStringSlice("i18n.locale_paths")
	}

	if config.Preview.Host == "" {
		config.Preview.Host = "localhost"
	}
	if config.Preview.Port == 0 {
		config.Preview.Port = 8120
	}
	if config.Watch.DebounceMs == 0 {
		config.Watch.DebounceMs = 300
	}
	if config.I18n.DefaultLocale == "" {
		config.I18n.DefaultLocale = "en"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a development-mode configuration without touching viper;
// used by tests and library embedders.
func Default() *Config {
	return &Config{
		Mode: ModeDevelopment,
		Components: ComponentsConfig{
			ScanPaths: []string{"./components", "./views"},
		},
		Preview: PreviewConfig{Host: "localhost", Port: 8120},
		Watch:   WatchConfig{DebounceMs: 300},
		I18n:    I18nConfig{DefaultLocale: "en"},
	}
}

// Validate checks the configuration for values the runtime cannot work with.
func (c *Config) Validate() error {
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		return fmt.Errorf("invalid mode %q: must be %q or %q", c.Mode, ModeDevelopment, ModeProduction)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("invalid preview port %d", c.Preview.Port)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("invalid watch debounce %dms", c.Watch.DebounceMs)
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}

// Debounce returns the watch debounce interval as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
