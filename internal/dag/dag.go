// Package dag provides the directed-graph substrate the model collection
// builds on: nodes keyed by unique_id, parent->child edge sets with O(1)
// neighborhood queries, cycle detection, and iterative depth assignment.
package dag

import (
	"fmt"
	"sort"
)

// Node represents a node in the graph.
type Node struct {
	// ID is the unique identifier (model unique_id)
	ID string
	// Data holds arbitrary node data
	Data interface{}
}

// Graph represents a directed graph of model dependencies.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// Clear removes all nodes and edges from the graph.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.edges = make(map[string][]string)
	g.parents = make(map[string][]string)
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(id string, data interface{}) {
	if _, exists := g.nodes[id]; !exists {
		g.nodes[id] = &Node{ID: id, Data: data}
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	} else {
		// Update data if node already exists
		g.nodes[id].Data = data
	}
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	// Ensure both nodes exist
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	// Check for self-loops
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	// Add edge (avoid duplicates)
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// GetAllNodes returns all nodes in the graph, sorted by ID for
// deterministic iteration.
func (g *Graph) GetAllNodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// GetRoots returns nodes with no parents (no dependencies).
func (g *Graph) GetRoots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// DetectCycles runs a depth-first search and returns one cycle per back
// edge it finds, each expressed as the sequence of node IDs on the DFS
// stack from the back edge's target to its source, closed at the target.
// A cycle that shares its back edge with an already reported cycle is not
// listed separately.
func (g *Graph) DetectCycles() [][]string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycles [][]string

	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		children := append([]string(nil), g.GetChildren(id)...)
		sort.Strings(children)
		for _, child := range children {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				// Back edge: reconstruct the cycle from child's position
				// on the stack through to id, then close it at child.
				start := 0
				for i, s := range stack {
					if s == child {
						start = i
						break
					}
				}
				cycle := append([]string{}, stack[start:]...)
				cycle = append(cycle, child)
				cycles = append(cycles, cycle)
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range ids {
		if color[id] == white {
			dfs(id)
		}
	}

	return cycles
}

// AssignDepths computes each node's longest-path distance from a root
// (a node with no parents) by iterative relaxation rather than
// recursion, so a cycle can never blow the stack: the fixpoint loop
// converges on the acyclic subgraph and simply leaves cyclic or
// cycle-downstream nodes unassigned. Returns unique_id -> depth for every
// node that could be assigned; nodes absent from the result are
// unassigned.
func (g *Graph) AssignDepths() map[string]int {
	depth := make(map[string]int, len(g.nodes))

	for _, id := range g.GetRoots() {
		depth[id] = 0
	}

	for {
		changed := false
		for id := range g.nodes {
			if _, done := depth[id]; done {
				continue
			}
			allAssigned := true
			maxParent := -1
			for _, parentID := range g.GetParents(id) {
				pd, ok := depth[parentID]
				if !ok {
					allAssigned = false
					break
				}
				if pd > maxParent {
					maxParent = pd
				}
			}
			if allAssigned {
				depth[id] = maxParent + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return depth
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
