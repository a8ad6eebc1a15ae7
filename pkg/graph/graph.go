// Package graph holds the immutable weighted undirected network that a
// refinement run operates on. The graph is built once from an edge list and
// never mutated afterwards; refinement only moves nodes between clusters.
package graph

import (
	"sort"
)

// NodeID identifies a node in the network. IDs are opaque labels taken
// verbatim from the input edge list.
type NodeID string

// Edge is an unordered pair of distinct endpoints with a positive weight.
type Edge struct {
	Source NodeID
	Target NodeID
	Weight float64
}

// Endpoint is one neighbor of a node together with the edge weight.
type Endpoint struct {
	Node   NodeID
	Weight float64
}

// Graph is an adjacency representation of an undirected weighted network.
// Immutable after Build.
type Graph struct {
	adj         map[NodeID]map[NodeID]float64
	nodes       []NodeID // sorted, for deterministic iteration
	edgeCount   int
	totalWeight float64
}

// Build constructs a Graph from an edge list. Duplicate edges are merged by
// summing weights. Returns an EdgeError wrapping ErrSelfLoop, ErrBadWeight
// or ErrMalformedEdge on invalid input.
func Build(edges []Edge) (*Graph, error) {
	return BuildWithIsolates(edges, nil)
}

// BuildWithIsolates is Build plus explicitly declared nodes that may carry
// no edges at all; edge-list formats cannot express isolated nodes.
func BuildWithIsolates(edges []Edge, isolates []NodeID) (*Graph, error) {
	g := &Graph{adj: make(map[NodeID]map[NodeID]float64)}

	for _, n := range isolates {
		if n == "" {
			return nil, &EdgeError{Op: "Build", Cause: ErrMalformedEdge}
		}
		if g.adj[n] == nil {
			g.adj[n] = make(map[NodeID]float64)
		}
	}

	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			return nil, &EdgeError{Op: "Build", Source: string(e.Source), Target: string(e.Target), Weight: e.Weight, Cause: ErrMalformedEdge}
		}
		if e.Source == e.Target {
			return nil, &EdgeError{Op: "Build", Source: string(e.Source), Target: string(e.Target), Weight: e.Weight, Cause: ErrSelfLoop}
		}
		if e.Weight <= 0 {
			return nil, &EdgeError{Op: "Build", Source: string(e.Source), Target: string(e.Target), Weight: e.Weight, Cause: ErrBadWeight}
		}

		if g.adj[e.Source] == nil {
			g.adj[e.Source] = make(map[NodeID]float64)
		}
		if g.adj[e.Target] == nil {
			g.adj[e.Target] = make(map[NodeID]float64)
		}

		if _, dup := g.adj[e.Source][e.Target]; !dup {
			g.edgeCount++
		}
		g.adj[e.Source][e.Target] += e.Weight
		g.adj[e.Target][e.Source] += e.Weight
		g.totalWeight += e.Weight
	}

	g.nodes = make([]NodeID, 0, len(g.adj))
	for n := range g.adj {
		g.nodes = append(g.nodes, n)
	}
	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i] < g.nodes[j] })

	return g, nil
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(n NodeID) bool {
	_, ok := g.adj[n]
	return ok
}

// Nodes returns all node IDs in sorted order. The returned slice is shared;
// callers must not modify it.
func (g *Graph) Nodes() []NodeID {
	return g.nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	return g.totalWeight
}

// Neighbors returns the endpoints adjacent to n, sorted by node ID.
func (g *Graph) Neighbors(n NodeID) []Endpoint {
	adj := g.adj[n]
	if adj == nil {
		return nil
	}
	out := make([]Endpoint, 0, len(adj))
	for m, w := range adj {
		out = append(out, Endpoint{Node: m, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}

// Degree returns the weighted degree of n, or 0 for unknown nodes.
func (g *Graph) Degree(n NodeID) float64 {
	var d float64
	for _, w := range g.adj[n] {
		d += w
	}
	return d
}

// InducedEdgeCount returns the number of edges and their total weight for
// the subgraph induced by the given node set. Only edges with both
// endpoints in the set are counted.
func (g *Graph) InducedEdgeCount(nodes map[NodeID]struct{}) (count int, weight float64) {
	for n := range nodes {
		for m, w := range g.adj[n] {
			if n >= m {
				continue // count each undirected edge once
			}
			if _, ok := nodes[m]; ok {
				count++
				weight += w
			}
		}
	}
	return count, weight
}
