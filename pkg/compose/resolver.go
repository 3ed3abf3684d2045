// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"errors"
	"slices"

	"github.com/pluggable/pluggable/internal/dag"
	"github.com/pluggable/pluggable/pkg/plugin"
)

type (
	// Resolver computes which modules a configuration pass adds to a target
	// and in which order. It never mutates the target.
	Resolver struct {
		registry *plugin.Registry
	}

	// resolution is the working state of one ResolveAll call.
	resolution struct {
		target   *Target
		registry *plugin.Registry
		graph    *dag.Graph
		modules  map[plugin.Name]*plugin.Module
		visited  map[plugin.Name]bool
		// optional holds [dependency, dependent] pairs that only prefer an order.
		optional [][2]plugin.Name
	}
)

// NewResolver creates a Resolver that looks modules up in reg.
func NewResolver(reg *plugin.Registry) *Resolver {
	return &Resolver{registry: reg}
}

// Resolve computes the modules to append for a single requested plugin.
func (r *Resolver) Resolve(t *Target, name plugin.Name) ([]*plugin.Module, error) {
	return r.ResolveAll(t, []plugin.Name{name})
}

// ResolveAll computes, for all requested plugins of one pass together, the
// modules to append to t's history in order. Plugins already in the history
// contribute nothing. Transitive dependencies are pulled in unless their
// relation is Excluded.
//
// Ordering constraints between new modules are solved jointly. Modules are
// emitted in discovery order, each one directly after its own not yet
// emitted dependencies, so a later request never lands between a module and
// the chain it depends on. A constraint that would require moving an
// already committed module yields a DependencyConflictError; constraints
// among new modules that admit no linear order yield a CyclicDependencyError.
func (r *Resolver) ResolveAll(t *Target, names []plugin.Name) ([]*plugin.Module, error) {
	res := &resolution{
		target:   t,
		registry: r.registry,
		graph:    dag.New(),
		modules:  make(map[plugin.Name]*plugin.Module),
		visited:  make(map[plugin.Name]bool),
	}

	for _, name := range names {
		if err := res.visit(name); err != nil {
			return nil, err
		}
	}
	res.addOptionalEdges()

	order, err := res.graph.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, res.cyclic(cycleErr.Cycle)
		}
		return nil, err
	}

	modules := make([]*plugin.Module, 0, len(order))
	for _, name := range order {
		modules = append(modules, res.modules[plugin.Name(name)])
	}
	return modules, nil
}

// visit adds name and its transitive dependencies to the ordering graph.
func (res *resolution) visit(name plugin.Name) error {
	if res.visited[name] || res.target.Includes(name) {
		return nil
	}
	m, err := res.registry.Lookup(name)
	if err != nil {
		return err
	}
	res.visited[name] = true
	res.modules[name] = m
	res.graph.AddNode(string(name))

	for _, dep := range m.Dependencies() {
		if !dep.Relation.Includes() || dep.Name == name {
			continue
		}

		committed := res.target.Includes(dep.Name)
		switch dep.Relation {
		case plugin.Before:
			if !committed {
				res.graph.AddEdge(string(dep.Name), string(name))
			}
		case plugin.After:
			if committed {
				return &DependencyConflictError{Dependency: dep.Name, Plugin: name, Target: res.target.Name()}
			}
			res.graph.AddEdge(string(name), string(dep.Name))
		case plugin.Optional:
			if !committed {
				res.optional = append(res.optional, [2]plugin.Name{dep.Name, name})
			}
		}

		if err := res.visit(dep.Name); err != nil {
			return err
		}
	}
	return nil
}

// addOptionalEdges places optional dependencies ahead of their dependents
// wherever that does not contradict a hard constraint.
func (res *resolution) addOptionalEdges() {
	for _, pair := range res.optional {
		dependency, dependent := string(pair[0]), string(pair[1])
		if res.graph.HasPath(dependent, dependency) {
			continue
		}
		res.graph.AddEdge(dependency, dependent)
	}
}

func (res *resolution) cyclic(members []string) *CyclicDependencyError {
	names := make([]plugin.Name, len(members))
	for i, member := range members {
		names[i] = plugin.Name(member)
	}
	slices.Sort(names)
	return &CyclicDependencyError{Plugins: names, Target: res.target.Name()}
}
