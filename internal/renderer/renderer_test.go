package renderer

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetkit/facet/internal/compiler"
	"github.com/facetkit/facet/internal/config"
	"github.com/facetkit/facet/internal/handlers"
	"github.com/facetkit/facet/internal/logging"
	"github.com/facetkit/facet/internal/registry"
	"github.com/facetkit/facet/internal/types"
)

type stubSource struct {
	mutex       sync.Mutex
	descriptors map[string][]compiler.Descriptor
}

func (s *stubSource) set(component, source string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.descriptors == nil {
		s.descriptors = make(map[string][]compiler.Descriptor)
	}
	s.descriptors[component] = []compiler.Descriptor{{
		Kind:      compiler.SourceInlineLiteral,
		HandlerID: "html",
		Origin:    "inline",
		Source:    source,
	}}
}

func (s *stubSource) Descriptors(info *types.ComponentInfo) ([]compiler.Descriptor, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.descriptors[info.Name], nil
}

func newTestRenderer(t *testing.T, mode string) (*Renderer, *registry.ComponentRegistry, *stubSource) {
	t.Helper()
	cfg := config.Default()
	cfg.Mode = mode
	reg := registry.NewComponentRegistry()
	source := &stubSource{}
	comp := compiler.New(cfg, reg, handlers.DefaultRegistry(), source, nil)
	return New(comp, reg, cfg, nil), reg, source
}

func TestRenderer_RenderCompilesOnDemand(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Greeting"}))
	source.set("Greeting", "Hello, {{.Name}}!")

	out, err := r.RenderString(context.Background(), "Greeting", "", "", map[string]string{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", out)
}

func TestRenderer_DevelopmentSeesInvalidation(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeDevelopment)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Banner"}))
	source.set("Banner", "v1")

	ctx := context.Background()
	out, err := r.RenderString(ctx, "Banner", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	// A template edit invalidates the cache; the very next render picks up
	// the new source.
	source.set("Banner", "v2")
	r.compiler.Invalidate("Banner")

	out, err = r.RenderString(ctx, "Banner", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", out)
}

func TestRenderer_ProductionRendersCachedRoutine(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Banner"}))
	source.set("Banner", "v1")

	ctx := context.Background()
	out, err := r.RenderString(ctx, "Banner", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	// A source change without invalidation is invisible: production compiles
	// once and keeps rendering the cached routine.
	source.set("Banner", "v2")
	out, err = r.RenderString(ctx, "Banner", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)
}

func TestRenderer_StrictCompileErrorPropagates(t *testing.T) {
	r, reg, _ := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Empty"}))

	_, err := r.RenderString(context.Background(), "Empty", "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't find a template")
}

func TestRenderer_UnknownComponent(t *testing.T) {
	r, _, _ := newTestRenderer(t, config.ModeProduction)
	_, err := r.RenderString(context.Background(), "Ghost", "", "", nil)
	require.Error(t, err)
}

func TestRenderer_VariantAndFormatSelection(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Card"}))
	source.mutex.Lock()
	source.descriptors = map[string][]compiler.Descriptor{"Card": {
		{Kind: compiler.SourceInlineLiteral, HandlerID: "html", Origin: "card-default", Source: "default"},
		{Kind: compiler.SourceFile, Variant: "phone", HandlerID: "gohtml", Origin: "card.html+phone.gohtml", Source: "phone"},
		{Kind: compiler.SourceFile, Format: "json", HandlerID: "gotxt", Origin: "card.json.gotxt", Source: `{"v":1}`},
	}}
	source.mutex.Unlock()

	ctx := context.Background()
	for _, tt := range []struct {
		variant, format, want string
	}{
		{"", "", "default"},
		{"phone", "", "phone"},
		{"", "json", `{"v":1}`},
		{"tablet", "", "default"},
	} {
		out, err := r.RenderString(ctx, "Card", tt.variant, tt.format, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out)
	}
}

func TestRenderer_CompileAll(t *testing.T) {
	t.Run("aggregates every failure", func(t *testing.T) {
		r, reg, source := newTestRenderer(t, config.ModeProduction)
		require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Good"}))
		require.NoError(t, reg.Register(&types.ComponentInfo{Name: "BadOne"}))
		require.NoError(t, reg.Register(&types.ComponentInfo{Name: "BadTwo"}))
		source.set("Good", "fine")

		err := r.CompileAll(context.Background(), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 components failed to compile")
		assert.Contains(t, err.Error(), "BadOne")
		assert.Contains(t, err.Error(), "BadTwo")
		assert.True(t, r.compiler.Compiled("Good"))
	})

	t.Run("lenient mode defers failures", func(t *testing.T) {
		r, reg, source := newTestRenderer(t, config.ModeDevelopment)
		require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Good"}))
		require.NoError(t, reg.Register(&types.ComponentInfo{Name: "MidEdit"}))
		source.set("Good", "fine")

		require.NoError(t, r.CompileAll(context.Background(), false))
		assert.True(t, r.compiler.Compiled("Good"))
		assert.False(t, r.compiler.Compiled("MidEdit"))
	})
}

func TestRenderer_RenderToWriter(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Plain"}))
	source.set("Plain", "written")

	var b strings.Builder
	require.NoError(t, r.Render(context.Background(), &b, "Plain", "", "", nil))
	assert.Equal(t, "written", b.String())
}

func TestRenderer_FillSlots(t *testing.T) {
	r, reg, source := newTestRenderer(t, config.ModeProduction)
	require.NoError(t, reg.Register(&types.ComponentInfo{
		Name: "Card",
		Slots: []types.SlotSpec{
			{Name: "header", Default: "Untitled"},
			{Name: "body", Required: true},
		},
	}))
	source.set("Card", `{{index .Slots "header"}}|{{index .Slots "body"}}`)

	ctx := context.Background()

	filled, err := r.FillSlots(ctx, "Card", map[string]string{"body": "content"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"header": "Untitled", "body": "content"}, filled)

	out, err := r.RenderString(ctx, "Card", "", "", map[string]any{"Slots": filled})
	require.NoError(t, err)
	assert.Equal(t, "Untitled|content", out)

	// Caller content beats the declared default.
	filled, err = r.FillSlots(ctx, "Card", map[string]string{"header": "News", "body": "content"})
	require.NoError(t, err)
	assert.Equal(t, "News", filled["header"])

	_, err = r.FillSlots(ctx, "Card", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	_, err = r.FillSlots(ctx, "Card", map[string]string{"body": "x", "sidebar": "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no slot")
}

func TestRenderer_CompileAllReportsValidationProblems(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.Config{
		Level:  logging.LevelError,
		Format: "json",
		Output: &buf,
	})

	cfg := config.Default()
	cfg.Mode = config.ModeProduction
	reg := registry.NewComponentRegistry()
	source := &stubSource{}
	comp := compiler.New(cfg, reg, handlers.DefaultRegistry(), source, logger)
	r := New(comp, reg, cfg, logger)

	require.NoError(t, reg.Register(&types.ComponentInfo{Name: "Broken"}))

	err := r.CompileAll(context.Background(), true)
	require.Error(t, err)

	// Each validation message surfaces as its own structured log line.
	out := buf.String()
	assert.Contains(t, out, "template validation failed")
	assert.Contains(t, out, "Broken: error:")
}
