// Package registry manages the set of registered view components and their
// type-hierarchy metadata.
//
// Components register once at load time with an explicit, ordered list of
// their own declared render methods per ancestry level (mixed-in helpers
// excluded up front). Re-registering a component replaces its entry and
// notifies watchers, which is how live reload learns that a component's
// compile cache entry must be invalidated.
package registry

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/facetkit/facet/internal/types"
)

// ComponentRegistry manages all registered components
type ComponentRegistry struct {
	components map[string]*types.ComponentInfo
	mutex      sync.RWMutex
	watchers   []chan ComponentEvent
}

// ComponentEvent represents a change in the component registry
type ComponentEvent struct {
	Type      EventType
	Component *types.ComponentInfo
	Timestamp time.Time
}

// EventType represents the type of component event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*types.ComponentInfo),
		watchers:   make([]chan ComponentEvent, 0),
	}
}

// Register adds or updates a component in the registry. The component's
// hierarchy must already be resolved: level 0 is the component's own
// declarations, deeper levels its ancestors, mixed-in helpers excluded.
func (r *ComponentRegistry) Register(component *types.ComponentInfo) error {
	if component.Name == "" {
		return fmt.Errorf("component name must not be empty")
	}
	if component.Parent == component.Name {
		return fmt.Errorf("component %s cannot be its own parent", component.Name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.components[component.Name]; exists {
		eventType = EventTypeUpdated
	}

	component.LastMod = time.Now()
	r.components[component.Name] = component

	r.notify(ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	})
	return nil
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (*types.ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	return component, exists
}

// Parent returns the registered parent of the named component, if any.
func (r *ComponentRegistry) Parent(name string) (*types.ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	if !exists || component.Parent == "" {
		return nil, false
	}
	parent, exists := r.components[component.Parent]
	return parent, exists
}

// GetAll returns a snapshot of all registered components
func (r *ComponentRegistry) GetAll() map[string]*types.ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*types.ComponentInfo, len(r.components))
	for name, component := range r.components {
		result[name] = component
	}
	return result
}

// FindByPath returns the components whose defining file or sidecar base name
// matches the given path. Used by the watcher to map a changed file back to
// the components it invalidates.
func (r *ComponentRegistry) FindByPath(path string) []*types.ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	base := filepath.Base(path)
	var matches []*types.ComponentInfo
	for _, component := range r.components {
		if component.FilePath == "" {
			continue
		}
		if component.FilePath == path {
			matches = append(matches, component)
			continue
		}
		// Sidecar files share the component file's base name up to the
		// first dot: button.html+phone.gohtml belongs to button.go.
		stem := strings.SplitN(filepath.Base(component.FilePath), ".", 2)[0]
		if strings.HasPrefix(base, stem+".") {
			matches = append(matches, component)
		}
	}
	return matches
}

// Remove removes a component from the registry
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.components[name]
	if !exists {
		return
	}
	delete(r.components, name)

	r.notify(ComponentEvent{
		Type:      EventTypeRemoved,
		Component: component,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives component events
func (r *ComponentRegistry) Watch() <-chan ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ComponentRegistry) UnWatch(ch <-chan ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}

// notify fans an event out to watchers; callers hold the write lock.
func (r *ComponentRegistry) notify(event ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
