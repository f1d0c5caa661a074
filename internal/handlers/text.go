package handlers

import (
	"context"
	"fmt"
	"io"
	texttemplate "text/template"

	"github.com/facetkit/facet/internal/types"
)

// TextHandler compiles text/template source for non-markup formats such as
// text and json. It implements the legacy positional convention, which keeps
// the registry's convention-selection path exercised by a shipped handler.
type TextHandler struct{}

// NewTextHandler returns a TextHandler.
func NewTextHandler() *TextHandler {
	return &TextHandler{}
}

// CompileTemplate parses the source and returns a routine executing it
// against the render data.
func (h *TextHandler) CompileTemplate(source, identifier string) (types.RenderFunc, error) {
	tmpl, err := texttemplate.New(identifier).Parse(source)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, w io.Writer, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("rendering %s: %w", identifier, err)
		}
		return nil
	}, nil
}
