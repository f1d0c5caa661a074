package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facetkit/facet/internal/types"
)

func cardInfo() *types.ComponentInfo {
	return &types.ComponentInfo{
		Name: "Card",
		Slots: []types.SlotSpec{
			{Name: "header", Default: "<h2>Untitled</h2>"},
			{Name: "body", Required: true},
			{Name: "footer"},
		},
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(cardInfo()))

	resolved, ok := reg.Lookup("Card")
	require.True(t, ok)
	assert.Equal(t, "<h2>Untitled</h2>", resolved.Defaults["header"])
	assert.Equal(t, "", resolved.Defaults["footer"])
	assert.Equal(t, []string{"body"}, resolved.Required)

	_, ok = reg.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateSlot(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&types.ComponentInfo{
		Name: "Card",
		Slots: []types.SlotSpec{
			{Name: "header"},
			{Name: "header"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate slot "header"`)
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(cardInfo()))
	require.NoError(t, reg.Register(&types.ComponentInfo{
		Name:  "Card",
		Slots: []types.SlotSpec{{Name: "only", Default: "x"}},
	}))

	resolved, _ := reg.Lookup("Card")
	assert.Empty(t, resolved.Required)
	assert.Equal(t, map[string]string{"only": "x"}, resolved.Defaults)
}

func TestRegistry_Fill(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(cardInfo()))

	t.Run("caller content wins", func(t *testing.T) {
		content, err := reg.Fill("Card", "header", "<h2>Mine</h2>")
		require.NoError(t, err)
		assert.Equal(t, "<h2>Mine</h2>", content)
	})

	t.Run("default fills unset slot", func(t *testing.T) {
		content, err := reg.Fill("Card", "header", "")
		require.NoError(t, err)
		assert.Equal(t, "<h2>Untitled</h2>", content)
	})

	t.Run("required slot must be filled", func(t *testing.T) {
		_, err := reg.Fill("Card", "body", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("undeclared slot", func(t *testing.T) {
		_, err := reg.Fill("Card", "sidebar", "")
		require.Error(t, err)
	})

	t.Run("unknown component", func(t *testing.T) {
		_, err := reg.Fill("Ghost", "header", "")
		require.Error(t, err)
	})
}
