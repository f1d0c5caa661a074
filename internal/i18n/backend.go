// Package i18n builds per-component translation backends from YAML sidecar
// bundles named <component-file-stem>.<locale>.yml.
//
// Backends are built during post-compile registration, so a compiled
// component always has its translations loaded before the first render.
// Locale tags are BCP 47 and matched with golang.org/x/text's matcher, so a
// request for "en-US" finds an "en" bundle.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/facetkit/facet/internal/types"
)

// Backend holds one component's translations across all discovered locales.
type Backend struct {
	component    string
	defaultTag   language.Tag
	tags         []language.Tag
	matcher      language.Matcher
	translations map[language.Tag]map[string]string
}

// Registry builds and stores backends keyed by component name.
type Registry struct {
	mutex         sync.RWMutex
	backends      map[string]*Backend
	localePaths   []string
	defaultLocale language.Tag
}

// NewRegistry returns a registry loading bundles from the given directories.
// Invalid default locales fall back to English.
func NewRegistry(localePaths []string, defaultLocale string) *Registry {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	return &Registry{
		backends:      make(map[string]*Backend),
		localePaths:   localePaths,
		defaultLocale: tag,
	}
}

// Build loads every translation bundle for the component and stores the
// resulting backend. A component without bundles gets an empty backend;
// malformed bundles are errors, since a bad bundle would otherwise surface
// as silently missing translations at render time.
func (r *Registry) Build(info *types.ComponentInfo) error {
	backend := &Backend{
		component:    info.Name,
		defaultTag:   r.defaultLocale,
		translations: make(map[language.Tag]map[string]string),
	}

	stem := componentStem(info)
	if stem != "" {
		dirs := r.localePaths
		if info.FilePath != "" {
			dirs = append([]string{filepath.Dir(info.FilePath)}, dirs...)
		}
		for _, dir := range dirs {
			if err := backend.loadDir(dir, stem); err != nil {
				return err
			}
		}
	}

	backend.tags = make([]language.Tag, 0, len(backend.translations)+1)
	backend.tags = append(backend.tags, backend.defaultTag)
	for tag := range backend.translations {
		if tag != backend.defaultTag {
			backend.tags = append(backend.tags, tag)
		}
	}
	backend.matcher = language.NewMatcher(backend.tags)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.backends[info.Name] = backend
	return nil
}

// Backend returns the built backend for a component.
func (r *Registry) Backend(component string) (*Backend, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	backend, ok := r.backends[component]
	return backend, ok
}

// loadDir loads every <stem>.<locale>.yml bundle found in dir. Missing
// directories are fine; components rarely have translations everywhere.
func (b *Backend) loadDir(dir, stem string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	prefix := stem + "."
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		rest, ok := strings.CutSuffix(strings.TrimPrefix(name, prefix), ".yml")
		if !ok || rest == "" || strings.Contains(rest, ".") {
			continue
		}
		tag, err := language.Parse(rest)
		if err != nil {
			return fmt.Errorf("translation bundle %s: invalid locale %q: %w", name, rest, err)
		}

		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var bundle map[string]string
		if err := yaml.Unmarshal(raw, &bundle); err != nil {
			return fmt.Errorf("translation bundle %s: %w", path, err)
		}

		if existing, ok := b.translations[tag]; ok {
			for k, v := range bundle {
				if _, dup := existing[k]; !dup {
					existing[k] = v
				}
			}
		} else {
			b.translations[tag] = bundle
		}
	}
	return nil
}

// Translate resolves key for the requested locale, matching through the
// backend's known locales and falling back to the default locale's bundle.
func (b *Backend) Translate(locale, key string) (string, bool) {
	tag, _ := language.MatchStrings(b.matcher, locale)
	if value, ok := b.lookup(tag, key); ok {
		return value, true
	}
	return b.lookup(b.defaultTag, key)
}

// Locales returns the locales the backend has bundles for.
func (b *Backend) Locales() []language.Tag {
	out := make([]language.Tag, 0, len(b.translations))
	for tag := range b.translations {
		out = append(out, tag)
	}
	return out
}

func (b *Backend) lookup(tag language.Tag, key string) (string, bool) {
	bundle, ok := b.translations[tag]
	if !ok {
		return "", false
	}
	value, ok := bundle[key]
	return value, ok
}

// componentStem derives the sidecar base name translations share with the
// component's templates.
func componentStem(info *types.ComponentInfo) string {
	if info.FilePath == "" {
		return strings.ToLower(info.Name)
	}
	return strings.SplitN(filepath.Base(info.FilePath), ".", 2)[0]
}
