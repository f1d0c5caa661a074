package compiler

import (
	"path/filepath"
	"strings"

	"github.com/facetkit/facet/internal/types"
)

// FormatHTML is the default output format. A descriptor with an empty format
// is unconstrained and treated as html.
const FormatHTML = "html"

// DefaultCallName is the call-convention name of a component's default
// render method.
const DefaultCallName = "call"

// SourceKind identifies where a template's source comes from.
type SourceKind int

const (
	// SourceFile is a sidecar template file discovered next to the component
	SourceFile SourceKind = iota
	// SourceInlineLiteral is a source string declared directly on the component
	SourceInlineLiteral
	// SourceInlineMethod is a render method declared on the component or an ancestor
	SourceInlineMethod
)

// String returns the string representation of the SourceKind
func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceInlineLiteral:
		return "inline literal"
	case SourceInlineMethod:
		return "inline method"
	default:
		return "unknown"
	}
}

// Descriptor is an immutable record describing one candidate template source
// for a component. Descriptors are rebuilt on every compile pass and never
// persisted.
type Descriptor struct {
	// Kind is the source origin
	Kind SourceKind
	// Variant is the optional secondary selector; empty means "no variant"
	Variant string
	// Format is the output format selector; empty means unconstrained (html)
	Format string
	// HandlerID selects the template handler for file and literal sources
	HandlerID string
	// Origin is the file path, the method name, or the literal's declared
	// location, for diagnostics and routine naming
	Origin string
	// Source is the raw template text for file and literal sources
	Source string
	// Method is the executable routine for inline-method sources
	Method types.RenderFunc
}

// IsFileOrLiteral reports whether the descriptor's source goes through a
// template handler. Inline methods carry their routine directly.
func (d Descriptor) IsFileOrLiteral() bool {
	return d.Kind == SourceFile || d.Kind == SourceInlineLiteral
}

// DefaultFormat reports whether the descriptor's format matches the default
// (html or unconstrained).
func (d Descriptor) DefaultFormat() bool {
	return d.Format == "" || d.Format == FormatHTML
}

// IsDefault reports whether the descriptor is a candidate default target:
// no variant, default format.
func (d Descriptor) IsDefault() bool {
	return d.Variant == "" && d.DefaultFormat()
}

// CallName derives the call-convention name the descriptor's routine is
// keyed under. Inline methods keep their declared name; file and literal
// sources derive "call[_<variant>][_<format>]".
func (d Descriptor) CallName() string {
	if d.Kind == SourceInlineMethod {
		return d.Origin
	}
	name := DefaultCallName
	if d.Variant != "" {
		name += "_" + NormalizeVariant(d.Variant)
	}
	if !d.DefaultFormat() {
		name += "_" + d.Format
	}
	return name
}

// RoutineKey derives the globally unique key the descriptor's routine is
// stored under for the given component: _<call-name>_<normalized-component>.
// The component suffix keeps keys unique across an inheritance chain.
func (d Descriptor) RoutineKey(component string) string {
	return "_" + d.CallName() + "_" + NormalizeName(component)
}

// NormalizeVariant rewrites a variant into a form safe for routine naming:
// "-" becomes "__" and "." becomes "___". Two distinct variants normalizing
// to the same key is a validation error, never silently resolved.
func NormalizeVariant(variant string) string {
	variant = strings.ReplaceAll(variant, "-", "__")
	return strings.ReplaceAll(variant, ".", "___")
}

// NormalizeName rewrites a component name into a routine-key-safe form.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// VariantFromCallName extracts the variant a call-convention method name
// declares: "call" has none, "call_<variant>" declares <variant>. The second
// result is false for names outside the convention.
func VariantFromCallName(name string) (string, bool) {
	if name == DefaultCallName {
		return "", true
	}
	if rest, ok := strings.CutPrefix(name, DefaultCallName+"_"); ok && rest != "" {
		return rest, true
	}
	return "", false
}

// ShortIdentifier trims an origin path down to a display-friendly form for
// handler diagnostics.
func ShortIdentifier(origin string) string {
	if origin == "" {
		return origin
	}
	dir := filepath.Base(filepath.Dir(origin))
	if dir == "." || dir == string(filepath.Separator) {
		return filepath.Base(origin)
	}
	return filepath.Join(dir, filepath.Base(origin))
}
