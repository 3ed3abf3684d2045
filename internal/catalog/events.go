// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pluggable/pluggable/pkg/plugin"
)

const (
	// EventIncluded is recorded when a plugin's included hook runs.
	EventIncluded EventKind = "included"
	// EventInitialize is recorded when a plugin's initialize hook runs.
	EventInitialize EventKind = "initialize"
)

type (
	// EventKind names the hook that produced an Event.
	EventKind string

	// Event is one hook invocation.
	Event struct {
		Kind   EventKind
		Target string
		Plugin plugin.Name
		// Instance is set for initialize events.
		Instance uuid.UUID
		// Values holds the defaults (included) or the merged options (initialize).
		Values map[string]any
	}

	// EventLog records hook invocations in order.
	EventLog struct {
		mu     sync.Mutex
		events []Event
	}
)

func (l *EventLog) record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// Events returns all recorded events.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// Filter returns the events of one kind for one target.
func (l *EventLog) Filter(kind EventKind, target string) []Event {
	var out []Event
	for _, e := range l.Events() {
		if e.Kind == kind && e.Target == target {
			out = append(out, e)
		}
	}
	return out
}

// Registry builds a plugin registry from the catalog. Every module records
// its hook invocations into log; a nil log disables recording.
func (c *Catalog) Registry(log *EventLog) (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	for _, spec := range c.Plugins {
		opts := make([]plugin.Option, 0, len(spec.DependsOn)+3)
		for _, dep := range spec.DependsOn {
			opts = append(opts, plugin.DependsOn(dep.Name, dep.Relation))
		}
		if spec.HasDefault {
			opts = append(opts, plugin.WithDefault(spec.Default))
		}
		if log != nil {
			opts = append(opts,
				plugin.OnIncluded(func(ctx plugin.IncludedContext) {
					log.record(Event{Kind: EventIncluded, Target: ctx.Target, Plugin: ctx.Plugin, Values: ctx.Defaults})
				}),
				plugin.OnInitialize(func(ctx plugin.InitializeContext) {
					log.record(Event{
						Kind:     EventInitialize,
						Target:   ctx.Target,
						Plugin:   ctx.Plugin,
						Instance: ctx.InstanceID,
						Values:   ctx.Options,
					})
				}),
			)
		}
		if err := reg.Register(plugin.New(spec.Name, opts...)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
