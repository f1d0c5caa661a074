package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/facetkit/facet/internal/types"
)

// Validate runs the full rule set over one component's descriptors and
// returns every problem found, in rule order. It never short-circuits: a
// single compile attempt reports the whole set of problems so one
// fix-iterate cycle can address them all. An empty result means the set is
// valid.
func Validate(info *types.ComponentInfo, descriptors []Descriptor) []string {
	var messages []string

	// Rule 1: nothing to compile at all.
	if len(descriptors) == 0 {
		messages = append(messages,
			fmt.Sprintf("couldn't find a template file or inline render method for %s", info.Name))
		return messages
	}

	ownMethods := info.OwnMethods()

	// Rule 2: two or more file/literal descriptors sharing (variant, format).
	seen := make(map[variantFormat][]Descriptor)
	for _, d := range descriptors {
		if !d.IsFileOrLiteral() {
			continue
		}
		format := d.Format
		if d.DefaultFormat() {
			format = FormatHTML
		}
		key := variantFormat{d.Variant, format}
		seen[key] = append(seen[key], d)
	}
	for _, key := range sortedPairs(seen) {
		group := seen[key]
		if len(group) < 2 {
			continue
		}
		if key.variant == "" {
			messages = append(messages,
				fmt.Sprintf("more than one template found for format %q in %s: %s",
					key.format, info.Name, origins(group)))
		} else {
			messages = append(messages,
				fmt.Sprintf("more than one template found for variant %q (format %q) in %s: %s",
					key.variant, key.format, info.Name, origins(group)))
		}
	}

	// Rule 3: a default template file/literal and a self-defined default
	// render method are an ambiguous default.
	hasDefaultSource := false
	for _, d := range descriptors {
		if d.IsFileOrLiteral() && d.Variant == "" {
			hasDefaultSource = true
			break
		}
	}
	if _, ok := ownMethods[DefaultCallName]; ok && hasDefaultSource {
		messages = append(messages,
			fmt.Sprintf("template file and inline render method found for %s: remove one to resolve the ambiguous default", info.Name))
	}

	// Rule 4: a file/literal variant colliding with an inline-method variant.
	methodVariants := make(map[string]struct{})
	for _, d := range descriptors {
		if d.Kind == SourceInlineMethod && d.Variant != "" {
			methodVariants[d.Variant] = struct{}{}
		}
	}
	reported := make(map[string]struct{})
	for _, d := range descriptors {
		if !d.IsFileOrLiteral() || d.Variant == "" {
			continue
		}
		if _, ok := methodVariants[d.Variant]; !ok {
			continue
		}
		if _, done := reported[d.Variant]; done {
			continue
		}
		reported[d.Variant] = struct{}{}
		messages = append(messages,
			fmt.Sprintf("template file and inline render method found for variant %q in %s", d.Variant, info.Name))
	}

	// Rule 5: distinct variants normalizing to the same routine key.
	normalized := make(map[string][]string)
	for _, d := range descriptors {
		if d.Variant == "" {
			continue
		}
		key := NormalizeVariant(d.Variant)
		if !contains(normalized[key], d.Variant) {
			normalized[key] = append(normalized[key], d.Variant)
		}
	}
	for _, key := range sortedKeys(normalized) {
		raws := normalized[key]
		if len(raws) < 2 {
			continue
		}
		sort.Strings(raws)
		messages = append(messages,
			fmt.Sprintf("colliding templates found in %s: variants %s normalize to the same routine name %q",
				info.Name, strings.Join(quoteAll(raws), " and "), key))
	}

	// The dispatch table needs exactly one resolvable default target: a
	// file/literal with no variant in the default format, or a visible
	// default render method.
	if !hasDefaultTarget(info, descriptors) {
		messages = append(messages,
			fmt.Sprintf("no default template found for %s: declare a template with no variant in the default format", info.Name))
	}

	return messages
}

// hasDefaultTarget reports whether a default dispatch target is resolvable.
func hasDefaultTarget(info *types.ComponentInfo, descriptors []Descriptor) bool {
	for _, d := range descriptors {
		if d.IsDefault() {
			return true
		}
	}
	_, ok := info.VisibleMethods()[DefaultCallName]
	return ok
}

func origins(group []Descriptor) string {
	names := make([]string, len(group))
	for i, d := range group {
		names[i] = d.Origin
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}

func contains(values []string, v string) bool {
	for _, have := range values {
		if have == v {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// variantFormat is the uniqueness key for file/literal descriptors.
type variantFormat struct{ variant, format string }

func sortedPairs[V any](m map[variantFormat]V) []variantFormat {
	keys := make([]variantFormat, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].variant != keys[j].variant {
			return keys[i].variant < keys[j].variant
		}
		return keys[i].format < keys[j].format
	})
	return keys
}
