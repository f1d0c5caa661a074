package handlers

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/facetkit/facet/internal/types"
)

// FromTempl adapts a templ component constructor into a render method. A
// component declares its inline render methods with this adapter when its
// views are written in templ:
//
//	Methods: map[string]types.RenderFunc{
//		"call":       handlers.FromTempl(func(data any) templ.Component { ... }),
//		"call_phone": handlers.FromTempl(phoneView),
//	}
func FromTempl(build func(data any) templ.Component) types.RenderFunc {
	return func(ctx context.Context, w io.Writer, data any) error {
		return build(data).Render(ctx, w)
	}
}

// FromComponent wraps a fixed templ component as a render method, ignoring
// the render data. Useful for static views.
func FromComponent(component templ.Component) types.RenderFunc {
	return func(ctx context.Context, w io.Writer, _ any) error {
		return component.Render(ctx, w)
	}
}
