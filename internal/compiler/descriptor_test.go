package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVariant(t *testing.T) {
	tests := []struct {
		variant string
		want    string
	}{
		{"phone", "phone"},
		{"foo-bar", "foo__bar"},
		{"foo.bar", "foo___bar"},
		{"a-b.c", "a__b___c"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeVariant(tt.variant))
		})
	}
}

func TestNormalizeVariant_DistinctVariantsCanCollide(t *testing.T) {
	// The validation pass must reject this pair; normalization itself is
	// not injective.
	assert.Equal(t, NormalizeVariant("foo-bar"), NormalizeVariant("foo__bar"))
}

func TestDescriptor_CallName(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want string
	}{
		{"default", Descriptor{Kind: SourceFile}, "call"},
		{"html format stays default", Descriptor{Kind: SourceFile, Format: "html"}, "call"},
		{"variant only", Descriptor{Kind: SourceFile, Variant: "phone"}, "call_phone"},
		{"format only", Descriptor{Kind: SourceFile, Format: "json"}, "call_json"},
		{"variant and format", Descriptor{Kind: SourceFile, Variant: "phone", Format: "json"}, "call_phone_json"},
		{"dashed variant normalizes", Descriptor{Kind: SourceFile, Variant: "foo-bar"}, "call_foo__bar"},
		{"inline method keeps its name", Descriptor{Kind: SourceInlineMethod, Origin: "call_tablet", Variant: "tablet"}, "call_tablet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.desc.CallName())
		})
	}
}

func TestDescriptor_RoutineKey(t *testing.T) {
	desc := Descriptor{Kind: SourceFile, Variant: "phone"}
	assert.Equal(t, "_call_phone_Button", desc.RoutineKey("Button"))

	// Component names outside identifier characters normalize too.
	assert.Equal(t, "_call_phone_ui_Button", desc.RoutineKey("ui.Button"))
}

func TestDescriptor_IsDefault(t *testing.T) {
	assert.True(t, Descriptor{}.IsDefault())
	assert.True(t, Descriptor{Format: "html"}.IsDefault())
	assert.False(t, Descriptor{Variant: "phone"}.IsDefault())
	assert.False(t, Descriptor{Format: "json"}.IsDefault())
}

func TestVariantFromCallName(t *testing.T) {
	variant, ok := VariantFromCallName("call")
	assert.True(t, ok)
	assert.Equal(t, "", variant)

	variant, ok = VariantFromCallName("call_phone")
	assert.True(t, ok)
	assert.Equal(t, "phone", variant)

	_, ok = VariantFromCallName("render")
	assert.False(t, ok)

	_, ok = VariantFromCallName("call_")
	assert.False(t, ok)

	_, ok = VariantFromCallName("caller")
	assert.False(t, ok)
}
