// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"maps"
	"slices"

	"github.com/pluggable/pluggable/pkg/plugin"
)

type (
	// AttachFunc makes a committed module part of the target's behavior.
	// How that happens is up to the caller; it runs once per module, before
	// the module's included hooks, and cannot fail.
	AttachFunc func(t *Target, m *plugin.Module)

	// TargetOption configures a Target.
	TargetOption func(*Target)

	// Target is the entity being composed. It owns the chronological,
	// append-only history of committed modules and a map of defaults.
	//
	// A Target is not safe for concurrent configuration passes; callers
	// composing the same target from several goroutines must serialize.
	Target struct {
		name     string
		history  []*plugin.Module
		position map[plugin.Name]int
		defaults map[string]any
		attach   AttachFunc
	}
)

// WithAttacher sets the attach primitive called for each committed module.
func WithAttacher(fn AttachFunc) TargetOption {
	return func(t *Target) {
		t.attach = fn
	}
}

// NewTarget creates an empty target. The name is used in error messages and
// hook contexts; it may be empty for anonymous targets.
func NewTarget(name string, opts ...TargetOption) *Target {
	t := &Target{
		name:     name,
		position: make(map[plugin.Name]int),
		defaults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Derive creates a child target. The child copies the parent's current
// defaults by value and starts from the parent's current history; later
// changes to either target are not visible to the other. The attacher is
// inherited unless opts replace it.
func (t *Target) Derive(name string, opts ...TargetOption) *Target {
	child := &Target{
		name:     name,
		history:  slices.Clone(t.history),
		position: maps.Clone(t.position),
		defaults: maps.Clone(t.defaults),
		attach:   t.attach,
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// Name returns the target name.
func (t *Target) Name() string {
	return t.name
}

// History returns the committed modules in chronological order.
func (t *Target) History() []*plugin.Module {
	return slices.Clone(t.history)
}

// Plugins returns the names of the committed modules, most recently
// included first.
func (t *Target) Plugins() []plugin.Name {
	names := make([]plugin.Name, len(t.history))
	for i, m := range t.history {
		names[len(t.history)-1-i] = m.Name()
	}
	return names
}

// Includes reports whether a module with the given name has been committed.
func (t *Target) Includes(name plugin.Name) bool {
	_, ok := t.position[name]
	return ok
}

// Defaults returns a copy of the target's defaults.
func (t *Target) Defaults() map[string]any {
	return maps.Clone(t.defaults)
}

// Default returns one default value.
func (t *Target) Default(name string) (any, bool) {
	v, ok := t.defaults[name]
	return v, ok
}

// SetDefault sets one default value outside of a configuration pass.
func (t *Target) SetDefault(name string, value any) {
	t.defaults[name] = value
}

// commit publishes the staged defaults and appends modules to history.
// Each module is attached and then handed to included before the next one.
func (t *Target) commit(defaults map[string]any, modules []*plugin.Module, included func(*plugin.Module)) {
	t.defaults = defaults
	for _, m := range modules {
		t.position[m.Name()] = len(t.history)
		t.history = append(t.history, m)
		if t.attach != nil {
			t.attach(t, m)
		}
		included(m)
	}
}
