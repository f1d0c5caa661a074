// Package compiler turns a component's declared template sources into
// exactly one dispatch routine, selected at render time by a
// (variant, format) pair.
//
// The package owns the compile cache, the template descriptor model, the
// validation pass, the routine generator, and the orchestrating Compiler.
// Template discovery and handler execution are collaborators consumed at
// their interface boundaries.
package compiler

import (
	"sync"
	"sync/atomic"
)

// CompileCache is the process-wide set of already-compiled components and
// the single source of truth for whether a component needs (re)compilation.
//
// Entries carry no payload: membership is the whole value. Only the Compiler
// writes to it, under the per-component lock; readers never block writers of
// other components. Invalidation is advisory: callers must not invalidate a
// component mid-compile.
type CompileCache struct {
	mutex    sync.RWMutex
	compiled map[string]struct{}

	// Statistics tracking (atomic for thread safety)
	registers     int64
	invalidations int64
}

// NewCompileCache creates an empty compile cache.
func NewCompileCache() *CompileCache {
	return &CompileCache{compiled: make(map[string]struct{})}
}

// Register marks the component compiled. The mark is visible to all
// goroutines as soon as Register returns.
func (cc *CompileCache) Register(component string) {
	cc.mutex.Lock()
	cc.compiled[component] = struct{}{}
	cc.mutex.Unlock()
	atomic.AddInt64(&cc.registers, 1)
}

// Compiled reports whether the component is marked compiled. Safe for
// concurrent readers; never blocks on other readers.
func (cc *CompileCache) Compiled(component string) bool {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	_, ok := cc.compiled[component]
	return ok
}

// Invalidate removes one component's entry. Used by live reload when a
// component's source changes.
func (cc *CompileCache) Invalidate(component string) {
	cc.mutex.Lock()
	delete(cc.compiled, component)
	cc.mutex.Unlock()
	atomic.AddInt64(&cc.invalidations, 1)
}

// InvalidateAll removes every entry.
func (cc *CompileCache) InvalidateAll() {
	cc.mutex.Lock()
	cc.compiled = make(map[string]struct{})
	cc.mutex.Unlock()
	atomic.AddInt64(&cc.invalidations, 1)
}

// Count returns the number of compiled components.
func (cc *CompileCache) Count() int {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	return len(cc.compiled)
}

// Stats returns the lifetime register and invalidation counts.
func (cc *CompileCache) Stats() (registers, invalidations int64) {
	return atomic.LoadInt64(&cc.registers), atomic.LoadInt64(&cc.invalidations)
}
