// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

type (
	// Name uniquely identifies a module within a Registry.
	Name string

	// Dependency is one declared dependency of a module.
	Dependency struct {
		// Name is the module depended on.
		Name Name
		// Relation fixes where the dependency goes relative to the declaring module.
		Relation Relation
	}

	// IncludedContext is passed to included hooks when a module is attached to a target.
	IncludedContext struct {
		// Target is the name of the target the module was attached to.
		Target string
		// Plugin is the module being attached.
		Plugin Name
		// Defaults is a snapshot of the target's defaults after the pass committed.
		Defaults map[string]any
	}

	// InitializeContext is passed to initialize hooks when an instance of a target is constructed.
	InitializeContext struct {
		// Target is the name of the instantiated target.
		Target string
		// Plugin is the module whose hook is running.
		Plugin Name
		// InstanceID identifies the instance under construction.
		InstanceID uuid.UUID
		// Options are the target defaults merged with the construction options.
		Options map[string]any
	}

	// IncludedHook runs once when its module is attached to a target.
	IncludedHook func(IncludedContext)

	// InitializeHook runs once per constructed instance of a target that includes its module.
	InitializeHook func(InitializeContext)

	// Module is a named capability module. It is immutable once built.
	Module struct {
		name            Name
		dependencies    []Dependency
		initializeHooks []InitializeHook
		includedHooks   []IncludedHook
		defaultValue    any
		hasDefault      bool
	}

	// Option configures a Module under construction.
	Option func(*Module)
)

// String returns the name as a plain string.
func (n Name) String() string {
	return string(n)
}

// New builds a module. Options are applied in order.
func New(name Name, opts ...Option) *Module {
	m := &Module{name: name}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DependsOn declares a dependency. Declaring the same dependency again
// replaces its relation but keeps its original position.
func DependsOn(name Name, relation Relation) Option {
	return func(m *Module) {
		for i := range m.dependencies {
			if m.dependencies[i].Name == name {
				m.dependencies[i].Relation = relation
				return
			}
		}
		m.dependencies = append(m.dependencies, Dependency{Name: name, Relation: relation})
	}
}

// WithDefault sets the value the module contributes to a target's defaults
// under its own name when it is composed and no default is set yet.
func WithDefault(value any) Option {
	return func(m *Module) {
		m.defaultValue = value
		m.hasDefault = true
	}
}

// OnInitialize appends an initialize hook.
func OnInitialize(hook InitializeHook) Option {
	return func(m *Module) {
		if hook != nil {
			m.initializeHooks = append(m.initializeHooks, hook)
		}
	}
}

// OnIncluded appends an included hook.
func OnIncluded(hook IncludedHook) Option {
	return func(m *Module) {
		if hook != nil {
			m.includedHooks = append(m.includedHooks, hook)
		}
	}
}

// Name returns the module name.
func (m *Module) Name() Name {
	return m.name
}

// Dependencies returns the declared dependencies in declaration order.
func (m *Module) Dependencies() []Dependency {
	return slices.Clone(m.dependencies)
}

// InitializeHooks returns the initialize hooks in declaration order.
func (m *Module) InitializeHooks() []InitializeHook {
	return slices.Clone(m.initializeHooks)
}

// IncludedHooks returns the included hooks in declaration order.
func (m *Module) IncludedHooks() []IncludedHook {
	return slices.Clone(m.includedHooks)
}

// Default returns the module's own default value, if it declares one.
func (m *Module) Default() (any, bool) {
	return m.defaultValue, m.hasDefault
}

// CloneOptions copies an options map so hooks cannot mutate shared state.
func CloneOptions(options map[string]any) map[string]any {
	if options == nil {
		return map[string]any{}
	}
	return maps.Clone(options)
}
