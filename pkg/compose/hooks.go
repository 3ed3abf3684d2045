// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"log/slog"
	"maps"

	"github.com/google/uuid"

	"github.com/pluggable/pluggable/pkg/plugin"
)

type (
	// Dispatcher fires module lifecycle hooks.
	Dispatcher struct {
		logger *slog.Logger
	}

	// Instance is one constructed instance of a target.
	Instance struct {
		id      uuid.UUID
		target  *Target
		options map[string]any
	}
)

// NewDispatcher creates a Dispatcher. A nil logger uses slog.Default().
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Included runs m's included hooks for its attachment to t.
func (d *Dispatcher) Included(t *Target, m *plugin.Module) {
	hooks := m.IncludedHooks()
	if len(hooks) == 0 {
		return
	}
	d.logger.Debug("running included hooks", "target", t.Name(), "plugin", m.Name(), "hooks", len(hooks))
	for _, hook := range hooks {
		hook(plugin.IncludedContext{
			Target:   t.Name(),
			Plugin:   m.Name(),
			Defaults: t.Defaults(),
		})
	}
}

// OnInstanceCreated constructs an instance of t. Its options are t's
// defaults overlaid with options. The initialize hooks of every module in
// t's history run in history order, each with its own copy of the options.
func (d *Dispatcher) OnInstanceCreated(t *Target, options map[string]any) *Instance {
	merged := t.Defaults()
	maps.Copy(merged, options)

	instance := &Instance{
		id:      uuid.New(),
		target:  t,
		options: merged,
	}
	d.logger.Debug("constructing instance", "target", t.Name(), "instance", instance.id, "plugins", len(t.history))

	for _, m := range t.History() {
		for _, hook := range m.InitializeHooks() {
			hook(plugin.InitializeContext{
				Target:     t.Name(),
				Plugin:     m.Name(),
				InstanceID: instance.id,
				Options:    plugin.CloneOptions(merged),
			})
		}
	}
	return instance
}

// ID returns the instance identifier.
func (i *Instance) ID() uuid.UUID {
	return i.id
}

// Target returns the target the instance was constructed from.
func (i *Instance) Target() *Target {
	return i.target
}

// Options returns a copy of the construction options.
func (i *Instance) Options() map[string]any {
	return maps.Clone(i.options)
}

// Option returns one construction option.
func (i *Instance) Option(key string) (any, bool) {
	v, ok := i.options[key]
	return v, ok
}
