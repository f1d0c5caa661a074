// Package errors defines the error types surfaced by template compilation.
//
// The compiler never reports validation problems one at a time: a compile
// attempt collects every problem it finds and raises them together as a
// single TemplateError, so one fix-iterate cycle surfaces the whole set.
package errors

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TemplateError carries the full ordered list of validation messages found
// while compiling one component's template set. It is raised only in strict
// mode; in lenient mode the compile attempt simply does not complete and the
// next attempt retries the whole pass.
type TemplateError struct {
	// Component is the name of the component whose template set failed
	Component string
	// Messages holds every validation failure, in rule order
	Messages []string
	// Timestamp records when the failing compile attempt ran
	Timestamp time.Time
}

// NewTemplateError creates a TemplateError for component with the collected
// validation messages.
func NewTemplateError(component string, messages []string) *TemplateError {
	return &TemplateError{
		Component: component,
		Messages:  messages,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface with one line per validation message.
func (te *TemplateError) Error() string {
	if len(te.Messages) == 1 {
		return fmt.Sprintf("template error in %s: %s", te.Component, te.Messages[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d template errors in %s:", len(te.Messages), te.Component)
	for _, msg := range te.Messages {
		b.WriteString("\n  - ")
		b.WriteString(msg)
	}
	return b.String()
}

// ValidationError represents a single validation failure with its origin,
// used by tooling that reports per-file rather than per-component.
type ValidationError struct {
	Component string
	File      string
	Message   string
	Severity  Severity
	Timestamp time.Time
}

// Severity represents the severity of a validation error
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	if ve.File != "" {
		return fmt.Sprintf("%s: %s: %s", ve.File, ve.Severity, ve.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ve.Component, ve.Severity, ve.Message)
}

// Collector accumulates validation messages across a compile pass. It is
// safe for concurrent use, although a single compile pass runs on one
// goroutine; the watcher and CLI share collectors across components.
type Collector struct {
	mutex    sync.RWMutex
	messages []string
	errors   []error
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Addf records a formatted validation message.
func (c *Collector) Addf(format string, args ...any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// AddError records a general error. Nil errors are ignored.
func (c *Collector) AddError(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, err)
}

// Messages returns a copy of the collected validation messages in insertion
// order.
func (c *Collector) Messages() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

// Errors returns a copy of the collected general errors.
func (c *Collector) Errors() []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	out := make([]error, len(c.errors))
	copy(out, c.errors)
	return out
}

// HasErrors returns true if anything has been collected.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.messages) > 0 || len(c.errors) > 0
}

// Clear discards everything collected so far.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.messages = c.messages[:0]
	c.errors = c.errors[:0]
}
