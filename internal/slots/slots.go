// Package slots tracks per-component content-slot metadata. Slot defaults
// are resolved during post-compile registration, so a compiled component
// always has its slot table ready before the first render.
package slots

import (
	"fmt"
	"sync"

	"github.com/facetkit/facet/internal/types"
)

// Resolved is the post-compile slot table for one component.
type Resolved struct {
	// Defaults maps slot name to its fallback content
	Defaults map[string]string
	// Required lists slots that callers must fill
	Required []string
}

// Registry stores resolved slot tables keyed by component name.
type Registry struct {
	mutex sync.RWMutex
	slots map[string]Resolved
}

// NewRegistry returns an empty slot registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]Resolved)}
}

// Register resolves and stores the component's slot table. Called by the
// compiler after code generation succeeds; re-registration replaces the
// table, which keeps recompiles idempotent.
func (r *Registry) Register(info *types.ComponentInfo) error {
	resolved := Resolved{Defaults: make(map[string]string, len(info.Slots))}
	seen := make(map[string]struct{}, len(info.Slots))
	for _, spec := range info.Slots {
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("duplicate slot %q on %s", spec.Name, info.Name)
		}
		seen[spec.Name] = struct{}{}
		if spec.Required {
			resolved.Required = append(resolved.Required, spec.Name)
			continue
		}
		resolved.Defaults[spec.Name] = spec.Default
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.slots[info.Name] = resolved
	return nil
}

// Lookup returns the resolved slot table for a component.
func (r *Registry) Lookup(component string) (Resolved, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	resolved, ok := r.slots[component]
	return resolved, ok
}

// Fill resolves the content for one slot: caller content wins, then the
// declared default; required slots with no caller content are an error.
func (r *Registry) Fill(component, slot, content string) (string, error) {
	resolved, ok := r.Lookup(component)
	if !ok {
		return "", fmt.Errorf("component %s has no slot table", component)
	}
	if content != "" {
		return content, nil
	}
	for _, required := range resolved.Required {
		if required == slot {
			return "", fmt.Errorf("slot %q on %s is required", slot, component)
		}
	}
	if def, ok := resolved.Defaults[slot]; ok {
		return def, nil
	}
	return "", fmt.Errorf("component %s declares no slot %q", component, slot)
}
