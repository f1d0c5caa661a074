package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/handlers"
	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/renderer"
	"github.com/facetkit/facet/internal/types"
)

type stubSource struct {
	descriptors map[string][]compiler.Descriptor
}

func (s *stubSource) Descriptors(info *types.ComponentInfo) ([]compiler.Descriptor, error) {
	return s.descriptors[info.Name], nil
}

func newTestServer(t *testing.T) (*Server, *registry.ComponentRegistry) {
	t.Helper()
	cfg := config.Default()
	reg := registry.NewComponentRegistry()
	source := &stubSource{descriptors: map[string][]compiler.Descriptor{
		"Button": {
			{Kind: compiler.SourceInlineLiteral, HandlerID: "html", Origin: "inline", Source: "<button>hi</button>"},
			{Kind: compiler.SourceInlineLiteral, Format: "text", HandlerID: "text", Origin: "inline-text", Source: "plain button"},
		},
		"Card": {
			{Kind: compiler.SourceInlineLiteral, HandlerID: "html", Origin: "inline", Source: `<h2>{{index .Slots "title"}}</h2>`},
		},
	}}
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Button"}))
	require.NoError(t, reg.Register(&types.ComponentInfo{
		Name:  "Card",
		Slots: []types.SlotSpec{{Name: "title", Default: "Untitled"}},
	}))
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Base", Base: true}))

	comp := compiler.New(cfg, reg, handlers.DefaultRegistry(), source, nil)
	rend := renderer.New(comp, reg, cfg, nil)
	return NewServer(cfg, rend, reg, nil), reg
}

func get(t *testing.T, handler http.HandlerFunc, target string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestServer_Index(t *testing.T) {
	s, _ := newTestServer(t)
	res, body := get(t, s.handleIndex, "/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `<a href="/component/Button">Button</a>`)
	// The base sentinel is not previewable.
	assert.NotContains(t, body, "/component/Base")
}

func TestServer_IndexUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	res, _ := get(t, s.handleIndex, "/nope")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_ComponentRendersWithReloadScript(t *testing.T) {
	s, _ := newTestServer(t)
	res, body := get(t, s.handleComponent, "/component/Button")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<button>hi</button>")
	assert.Contains(t, body, "new WebSocket")
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
}

func TestServer_ComponentNonHTMLFormat(t *testing.T) {
	s, _ := newTestServer(t)
	res, body := get(t, s.handleComponent, "/component/Button?format=text")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "plain button", body)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/plain")
	assert.NotContains(t, body, "WebSocket")
}

func TestServer_ComponentSlotFilling(t *testing.T) {
	s, _ := newTestServer(t)

	// Unfilled slots render their declared defaults.
	res, body := get(t, s.handleComponent, "/component/Card")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<h2>Untitled</h2>")

	// slot.<name> query params override them.
	res, body = get(t, s.handleComponent, "/component/Card?slot.title=Release+Notes")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<h2>Release Notes</h2>")

	// Naming a slot the component never declared is a render error.
	res, body = get(t, s.handleComponent, "/component/Card?slot.sidebar=x")
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "declares no slot")
}

func TestServer_ComponentErrors(t *testing.T) {
	s, reg := newTestServer(t)

	res, _ := get(t, s.handleComponent, "/component/Ghost")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = get(t, s.handleComponent, "/component/")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Registered but with nothing to compile: the render error surfaces.
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Empty"}))
	res, body := get(t, s.handleComponent, "/component/Empty")
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "couldn't find a template")
}

func TestInjectReloadScript(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		out, err := injectReloadScript("<!DOCTYPE html><html><body><p>hi</p></body></html>")
		require.NoError(t, err)
		assert.Contains(t, out, "<p>hi</p>")
		assert.True(t, strings.Contains(out, "<script>") && strings.Contains(out, "window.location.reload()"))
	})

	t.Run("fragment grows a body", func(t *testing.T) {
		out, err := injectReloadScript("<button>hi</button>")
		require.NoError(t, err)
		assert.Contains(t, out, "<button>hi</button>")
		assert.Contains(t, out, "window.location.reload()")
	})
}
