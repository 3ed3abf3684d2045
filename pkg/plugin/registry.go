// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	// ErrUnknownPlugin is the sentinel error wrapped by UnknownPluginError.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrDuplicatePlugin is the sentinel error wrapped by DuplicatePluginError.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
)

type (
	// UnknownPluginError is returned when a name is not in the Registry.
	// It wraps ErrUnknownPlugin for errors.Is() compatibility.
	UnknownPluginError struct {
		Name Name
	}

	// DuplicatePluginError is returned when a name is registered twice.
	// It wraps ErrDuplicatePlugin for errors.Is() compatibility.
	DuplicatePluginError struct {
		Name Name
	}

	// Registry maps plugin names to modules. It is filled once at startup and
	// read afterwards; it is not safe for concurrent registration.
	Registry struct {
		modules map[Name]*Module
		logger  *slog.Logger
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)
)

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("plugin %q is not registered", e.Name)
}

func (e *UnknownPluginError) Unwrap() error {
	return ErrUnknownPlugin
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q is already registered", e.Name)
}

func (e *DuplicatePluginError) Unwrap() error {
	return ErrDuplicatePlugin
}

// WithRegistryLogger sets the logger used for registration diagnostics.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty Registry. It logs to slog.Default() unless
// WithRegistryLogger is given.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		modules: make(map[Name]*Module),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a module under its name.
func (r *Registry) Register(m *Module) error {
	if m == nil || m.Name() == "" {
		return errors.New("cannot register a module without a name")
	}
	if _, exists := r.modules[m.Name()]; exists {
		return &DuplicatePluginError{Name: m.Name()}
	}
	r.logger.Debug("registering plugin", "name", m.Name(), "dependencies", len(m.dependencies))
	r.modules[m.Name()] = m
	return nil
}

// MustRegister is like Register but panics on error. Registration happens at
// startup, where a duplicate name is a programming mistake.
func (r *Registry) MustRegister(modules ...*Module) {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name Name) (*Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, &UnknownPluginError{Name: name}
	}
	return m, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name Name) bool {
	_, ok := r.modules[name]
	return ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}
