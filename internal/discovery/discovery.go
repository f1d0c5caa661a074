// Package discovery produces the ordered template descriptors the compiler
// consumes for one component.
//
// Three sources feed the set, in order: sidecar files named
// <basename>.<format>[+variant].<handler-extension> next to the component's
// defining file, an explicit inline literal declared on the component, and
// the call-convention render methods visible on the component's hierarchy
// (own and ancestor declarations; mixed-in helpers are excluded by the
// hierarchy metadata itself).
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/types"
)

// DefaultExtensions lists the handler extensions scanned for when none are
// configured, matching the built-in handler registry.
var DefaultExtensions = []string{"gohtml", "gotxt", "html", "text"}

// Scanner discovers template descriptors for registered components.
type Scanner struct {
	config     *config.Config
	extensions map[string]struct{}
}

// NewScanner creates a Scanner recognizing the given handler extensions.
// Files with other extensions next to a component are ignored; translation
// bundles and unrelated sidecars must not become template candidates.
func NewScanner(cfg *config.Config, extensions []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	known := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		known[ext] = struct{}{}
	}
	return &Scanner{config: cfg, extensions: known}
}

// Descriptors returns the component's full candidate set: files first in
// name order, then the inline literal, then render methods in name order.
// The ordering is stable so validation messages and dispatch branch order
// are deterministic across compile passes.
func (s *Scanner) Descriptors(info *types.ComponentInfo) ([]compiler.Descriptor, error) {
	var out []compiler.Descriptor

	files, err := s.scanSidecars(info)
	if err != nil {
		return nil, err
	}
	out = append(out, files...)

	if info.InlineTemplate != nil {
		handlerID := info.InlineTemplate.HandlerID
		if handlerID == "" {
			handlerID = "html"
		}
		out = append(out, compiler.Descriptor{
			Kind:      compiler.SourceInlineLiteral,
			HandlerID: handlerID,
			Origin:    info.InlineTemplate.Location,
			Source:    info.InlineTemplate.Source,
		})
	}

	out = append(out, methodDescriptors(info)...)
	return out, nil
}

// scanSidecars reads the component file's directory for template sidecars.
func (s *Scanner) scanSidecars(info *types.ComponentInfo) ([]compiler.Descriptor, error) {
	if info.FilePath == "" {
		return nil, nil
	}

	dir := filepath.Dir(info.FilePath)
	stem := strings.SplitN(filepath.Base(info.FilePath), ".", 2)[0]

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []compiler.Descriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == filepath.Base(info.FilePath) || s.excluded(name) {
			continue
		}
		format, variant, ext, ok := ParseSidecarName(name, stem)
		if !ok {
			continue
		}
		if _, known := s.extensions[ext]; !known {
			continue
		}

		path := filepath.Join(dir, name)
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, compiler.Descriptor{
			Kind:      compiler.SourceFile,
			Variant:   variant,
			Format:    format,
			HandlerID: ext,
			Origin:    path,
			Source:    string(source),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Origin < out[j].Origin })
	return out, nil
}

// excluded applies the configured exclude patterns to a file name.
func (s *Scanner) excluded(name string) bool {
	if s.config == nil {
		return false
	}
	for _, pattern := range s.config.Components.ExcludePatterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// ParseSidecarName splits a sidecar file name against the component's stem.
// The accepted shapes, after the stem, are:
//
//	<stem>.<ext>                      -> no format, no variant
//	<stem>.<format>.<ext>             -> format only
//	<stem>.<format>+<variant>.<ext>   -> format and variant
//	<stem>.+<variant>.<ext>           -> variant only, format unconstrained
//
// Returns ok=false for names that do not belong to the stem at all.
func ParseSidecarName(name, stem string) (format, variant, ext string, ok bool) {
	rest, found := strings.CutPrefix(name, stem+".")
	if !found || rest == "" {
		return "", "", "", false
	}

	segments := strings.Split(rest, ".")
	ext = segments[len(segments)-1]
	if ext == "" {
		return "", "", "", false
	}
	middle := segments[:len(segments)-1]
	if len(middle) > 1 {
		// More than one selector segment is not a template sidecar (for
		// example a locale bundle like button.en.US.yml would land here).
		return "", "", "", false
	}

	if len(middle) == 1 {
		selector := middle[0]
		if plus := strings.Index(selector, "+"); plus >= 0 {
			format = selector[:plus]
			variant = selector[plus+1:]
			if variant == "" {
				return "", "", "", false
			}
		} else {
			format = selector
		}
	}
	return format, variant, ext, true
}

// methodDescriptors derives inline-method descriptors from the render
// methods visible on the component, one per distinct call-convention name.
func methodDescriptors(info *types.ComponentInfo) []compiler.Descriptor {
	visible := info.VisibleMethods()
	if len(visible) == 0 {
		return nil
	}

	names := make([]string, 0, len(visible))
	for name := range visible {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []compiler.Descriptor
	for _, name := range names {
		variant, ok := compiler.VariantFromCallName(name)
		if !ok {
			continue
		}
		out = append(out, compiler.Descriptor{
			Kind:    compiler.SourceInlineMethod,
			Variant: variant,
			Origin:  name,
			Method:  visible[name],
		})
	}
	return out
}
