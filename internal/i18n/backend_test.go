package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/facetkit/facet/internal/types"
)

func writeBundle(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRegistry_BuildAndTranslate(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "button.en.yml", "label: Submit\nhint: Press enter")
	writeBundle(t, dir, "button.de.yml", "label: Absenden")
	writeBundle(t, dir, "button.gohtml", "<button/>") // not a bundle

	reg := NewRegistry(nil, "en")
	require.NoError(t, reg.Build(&types.ComponentInfo{
		Name:     "Button",
		FilePath: filepath.Join(dir, "button.go"),
	}))

	backend, ok := reg.Backend("Button")
	require.True(t, ok)

	label, found := backend.Translate("de", "label")
	require.True(t, found)
	assert.Equal(t, "Absenden", label)

	// A missing key in the requested locale falls back to the default.
	hint, found := backend.Translate("de", "hint")
	require.True(t, found)
	assert.Equal(t, "Press enter", hint)

	_, found = backend.Translate("en", "missing")
	assert.False(t, found)

	assert.ElementsMatch(t, []language.Tag{language.English, language.German}, backend.Locales())
}

func TestBackend_MatchesRegionalLocale(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "button.en.yml", "label: Submit")

	reg := NewRegistry(nil, "en")
	require.NoError(t, reg.Build(&types.ComponentInfo{
		Name:     "Button",
		FilePath: filepath.Join(dir, "button.go"),
	}))

	backend, _ := reg.Backend("Button")
	label, found := backend.Translate("en-US", "label")
	require.True(t, found)
	assert.Equal(t, "Submit", label)
}

func TestRegistry_LocalePathBundles(t *testing.T) {
	componentDir := t.TempDir()
	localeDir := t.TempDir()
	writeBundle(t, componentDir, "card.en.yml", "title: Card")
	writeBundle(t, localeDir, "card.fr.yml", "title: Carte")

	reg := NewRegistry([]string{localeDir}, "en")
	require.NoError(t, reg.Build(&types.ComponentInfo{
		Name:     "Card",
		FilePath: filepath.Join(componentDir, "card.go"),
	}))

	backend, _ := reg.Backend("Card")
	title, found := backend.Translate("fr", "title")
	require.True(t, found)
	assert.Equal(t, "Carte", title)
}

func TestRegistry_ComponentBundleWinsOverLocalePath(t *testing.T) {
	componentDir := t.TempDir()
	localeDir := t.TempDir()
	writeBundle(t, componentDir, "card.en.yml", "title: Near")
	writeBundle(t, localeDir, "card.en.yml", "title: Far\nextra: Kept")

	reg := NewRegistry([]string{localeDir}, "en")
	require.NoError(t, reg.Build(&types.ComponentInfo{
		Name:     "Card",
		FilePath: filepath.Join(componentDir, "card.go"),
	}))

	backend, _ := reg.Backend("Card")
	title, _ := backend.Translate("en", "title")
	assert.Equal(t, "Near", title)
	// Keys the nearer bundle does not define still come through.
	extra, found := backend.Translate("en", "extra")
	require.True(t, found)
	assert.Equal(t, "Kept", extra)
}

func TestRegistry_InvalidLocaleTag(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "button.not_a_locale.yml", "label: x")

	reg := NewRegistry(nil, "en")
	err := reg.Build(&types.ComponentInfo{
		Name:     "Button",
		FilePath: filepath.Join(dir, "button.go"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid locale")
}

func TestRegistry_MalformedBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "button.en.yml", "label: [unclosed")

	reg := NewRegistry(nil, "en")
	err := reg.Build(&types.ComponentInfo{
		Name:     "Button",
		FilePath: filepath.Join(dir, "button.go"),
	})
	require.Error(t, err)
}

func TestRegistry_ComponentWithoutBundles(t *testing.T) {
	reg := NewRegistry(nil, "en")
	require.NoError(t, reg.Build(&types.ComponentInfo{Name: "Bare"}))

	backend, ok := reg.Backend("Bare")
	require.True(t, ok)
	_, found := backend.Translate("en", "anything")
	assert.False(t, found)
	assert.Empty(t, backend.Locales())
}
