// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph operations for topological sorting
// and cycle detection. It is used by the composition resolver to order the
// plugins of a configuration pass so that every before/after constraint holds.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the members of one strongly connected component that
		// cannot be linearized, in insertion order.
		Cycle []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. Edges represent "must come before" relationships:
	// an edge from A to B means A must be placed before B.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors (nodes that come after it).
		adjacency map[string][]string
		// incoming maps each node to its predecessors in edge insertion order.
		incoming map[string][]string
		// edges deduplicates adjacency entries.
		edges map[[2]string]bool
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		incoming:  make(map[string][]string),
		edges:     make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether the node has been added.
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddEdge adds a directed edge from -> to, meaning "from" must come before "to".
// Both nodes are implicitly added if they don't exist. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
	g.incoming[to] = append(g.incoming[to], from)
}

// HasPath reports whether "to" is reachable from "from" by following edges.
// A node always reaches itself.
func (g *Graph) HasPath(from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.adjacency[node] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// TopologicalSort returns a valid order by depth-first post-order: nodes are
// taken in insertion order, and each is emitted right after its not yet
// emitted predecessors (themselves in edge insertion order).
// Returns CycleError naming the first looping strongly connected component.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	const (
		_ = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))
	result := make([]string, 0, len(g.nodes))

	var visit func(node string) bool
	visit = func(node string) bool {
		switch state[node] {
		case done:
			return true
		case visiting:
			return false
		}
		state[node] = visiting
		for _, pred := range g.incoming[node] {
			if !visit(pred) {
				return false
			}
		}
		state[node] = done
		result = append(result, node)
		return true
	}

	for _, node := range g.nodes {
		if !visit(node) {
			return nil, g.cycleError()
		}
	}
	return result, nil
}

// cycleError reports the first looping component in insertion order.
func (g *Graph) cycleError() *CycleError {
	for _, component := range g.StronglyConnectedComponents() {
		if g.isCyclic(component) {
			return &CycleError{Cycle: component}
		}
	}
	return &CycleError{Cycle: g.Nodes()}
}

// StronglyConnectedComponents returns the strongly connected components of
// the graph using Tarjan's algorithm. Roots are visited in insertion order and
// members of each component are listed in insertion order.
func (g *Graph) StronglyConnectedComponents() [][]string {
	t := &tarjan{
		graph:   g,
		index:   make(map[string]int, len(g.nodes)),
		lowlink: make(map[string]int, len(g.nodes)),
		onStack: make(map[string]bool, len(g.nodes)),
	}
	for _, node := range g.nodes {
		if _, visited := t.index[node]; !visited {
			t.connect(node)
		}
	}

	position := make(map[string]int, len(g.nodes))
	for i, node := range g.nodes {
		position[node] = i
	}
	for _, component := range t.components {
		slices.SortFunc(component, func(a, b string) int {
			return position[a] - position[b]
		})
	}
	return t.components
}

// isCyclic reports whether a component loops: more than one member, or a self-edge.
func (g *Graph) isCyclic(component []string) bool {
	if len(component) > 1 {
		return true
	}
	return len(component) == 1 && g.edges[[2]string{component[0], component[0]}]
}

type tarjan struct {
	graph      *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	components [][]string
}

func (t *tarjan) connect(node string) {
	t.index[node] = t.counter
	t.lowlink[node] = t.counter
	t.counter++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for _, next := range t.graph.adjacency[node] {
		if _, visited := t.index[next]; !visited {
			t.connect(next)
			t.lowlink[node] = min(t.lowlink[node], t.lowlink[next])
		} else if t.onStack[next] {
			t.lowlink[node] = min(t.lowlink[node], t.index[next])
		}
	}

	if t.lowlink[node] != t.index[node] {
		return
	}

	var component []string
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		component = append(component, top)
		if top == node {
			break
		}
	}
	t.components = append(t.components, component)
}
