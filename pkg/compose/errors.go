// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pluggable/pluggable/pkg/plugin"
)

var (
	// ErrCyclicDependency is the sentinel error wrapped by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic plugin dependency")
	// ErrDependencyConflict is the sentinel error wrapped by DependencyConflictError.
	ErrDependencyConflict = errors.New("plugin dependency conflict")
)

type (
	// CyclicDependencyError is returned when the ordering constraints of a
	// set of plugins cannot be satisfied by any linear order.
	// It wraps ErrCyclicDependency for errors.Is() compatibility.
	CyclicDependencyError struct {
		// Plugins are the implicated plugins, sorted by name.
		Plugins []plugin.Name
		// Target is the name of the target being composed, if it has one.
		Target string
	}

	// DependencyConflictError is returned when a plugin requires a dependency
	// to come after it, but the dependency was already committed by an
	// earlier pass. It wraps ErrDependencyConflict for errors.Is() compatibility.
	DependencyConflictError struct {
		// Dependency is the already committed plugin that would have to move.
		Dependency plugin.Name
		// Plugin is the plugin declaring the after-dependency.
		Plugin plugin.Name
		// Target is the name of the target being composed, if it has one.
		Target string
	}
)

func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Plugins))
	for i, name := range e.Plugins {
		names[i] = string(name)
	}
	return "dependencies cannot be resolved between: " + strings.Join(names, ", ") + inTarget(e.Target)
}

func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("'%s' plugin must come after '%s' plugin%s", e.Dependency, e.Plugin, inTarget(e.Target))
}

func (e *DependencyConflictError) Unwrap() error {
	return ErrDependencyConflict
}

func inTarget(name string) string {
	if name == "" {
		return ""
	}
	return " in " + name
}
