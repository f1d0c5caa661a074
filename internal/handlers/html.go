package handlers

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"

	"github.com/facetkit/facet/internal/types"
)

// HTMLHandler compiles html/template source. It is the default handler for
// the html format and carries contextual escaping with it.
type HTMLHandler struct {
	funcs htmltemplate.FuncMap
}

// NewHTMLHandler returns an HTMLHandler with no extra template functions.
func NewHTMLHandler() *HTMLHandler {
	return &HTMLHandler{}
}

// WithFuncs returns a copy of the handler exposing the given functions to
// every template it compiles.
func (h *HTMLHandler) WithFuncs(funcs htmltemplate.FuncMap) *HTMLHandler {
	return &HTMLHandler{funcs: funcs}
}

// Compile parses the source and returns a routine executing it against the
// render data. Parse errors propagate unmodified.
func (h *HTMLHandler) Compile(source string, metadata Metadata) (types.RenderFunc, error) {
	tmpl := htmltemplate.New(metadata.ShortIdentifier)
	if h.funcs != nil {
		tmpl = tmpl.Funcs(h.funcs)
	}
	tmpl, err := tmpl.Parse(source)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, w io.Writer, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("rendering %s: %w", metadata.ShortIdentifier, err)
		}
		return nil
	}, nil
}
