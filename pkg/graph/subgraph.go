package graph

import (
	"container/list"
	"sort"
)

// Arc is one directed half of an undirected edge inside a Subgraph,
// addressed by local index.
type Arc struct {
	To     int
	Weight float64
}

// Subgraph is a realized induced subgraph: the cluster's nodes re-indexed
// into a dense local adjacency list. Built per cluster per evaluation, then
// discarded.
type Subgraph struct {
	nodes       []NodeID // sorted; local index i maps to nodes[i]
	index       map[NodeID]int
	adj         [][]Arc
	edgeCount   int
	totalWeight float64
}

// Subgraph realizes the induced subgraph over the given node set. Nodes not
// present in the graph are ignored.
func (g *Graph) Subgraph(members map[NodeID]struct{}) *Subgraph {
	nodes := make([]NodeID, 0, len(members))
	for n := range members {
		if g.HasNode(n) {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	s := newSubgraph(nodes)
	for i, n := range s.nodes {
		for _, ep := range g.Neighbors(n) {
			j, ok := s.index[ep.Node]
			if !ok {
				continue
			}
			s.addArc(i, j, ep.Weight)
		}
	}
	return s
}

func newSubgraph(sortedNodes []NodeID) *Subgraph {
	s := &Subgraph{
		nodes: sortedNodes,
		index: make(map[NodeID]int, len(sortedNodes)),
		adj:   make([][]Arc, len(sortedNodes)),
	}
	for i, n := range sortedNodes {
		s.index[n] = i
	}
	return s
}

func (s *Subgraph) addArc(i, j int, w float64) {
	s.adj[i] = append(s.adj[i], Arc{To: j, Weight: w})
	if i < j {
		s.edgeCount++
		s.totalWeight += w
	}
}

// N returns the number of nodes in the subgraph.
func (s *Subgraph) N() int {
	return len(s.nodes)
}

// M returns the number of internal edges.
func (s *Subgraph) M() int {
	return s.edgeCount
}

// Weight returns the total internal edge weight.
func (s *Subgraph) Weight() float64 {
	return s.totalWeight
}

// Nodes returns the member node IDs in sorted order. Shared slice; callers
// must not modify it.
func (s *Subgraph) Nodes() []NodeID {
	return s.nodes
}

// Arcs returns the arcs leaving the node at local index i. Shared slice;
// callers must not modify it.
func (s *Subgraph) Arcs(i int) []Arc {
	return s.adj[i]
}

// DegreeAt returns the weighted in-subgraph degree of the node at local
// index i.
func (s *Subgraph) DegreeAt(i int) float64 {
	var d float64
	for _, a := range s.adj[i] {
		d += a.Weight
	}
	return d
}

// MinDegree returns the minimum weighted in-subgraph degree, or 0 for an
// empty subgraph.
func (s *Subgraph) MinDegree() float64 {
	if len(s.nodes) == 0 {
		return 0
	}
	min := s.DegreeAt(0)
	for i := 1; i < len(s.nodes); i++ {
		if d := s.DegreeAt(i); d < min {
			min = d
		}
	}
	return min
}

// MinEdgeWeight returns the smallest edge weight, or false for an edgeless
// subgraph.
func (s *Subgraph) MinEdgeWeight() (float64, bool) {
	found := false
	min := 0.0
	for i := range s.adj {
		for _, a := range s.adj[i] {
			if !found || a.Weight < min {
				found = true
				min = a.Weight
			}
		}
	}
	return min, found
}

// FilterEdges returns a copy of the subgraph keeping only edges whose
// weight satisfies keep. All nodes are retained.
func (s *Subgraph) FilterEdges(keep func(weight float64) bool) *Subgraph {
	out := newSubgraph(s.nodes)
	for i := range s.adj {
		for _, a := range s.adj[i] {
			if keep(a.Weight) {
				out.addArc(i, a.To, a.Weight)
			}
		}
	}
	return out
}

// Induce returns the subgraph restricted to the given nodes. Nodes outside
// the subgraph are ignored.
func (s *Subgraph) Induce(nodes []NodeID) *Subgraph {
	kept := make([]NodeID, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := s.index[n]; ok {
			kept = append(kept, n)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })

	out := newSubgraph(kept)
	for i, n := range kept {
		oi := s.index[n]
		for _, a := range s.adj[oi] {
			if j, ok := out.index[s.nodes[a.To]]; ok {
				out.addArc(i, j, a.Weight)
			}
		}
	}
	return out
}

// Components returns the connected components as slices of node IDs. Each
// component is sorted and components are ordered by their smallest member.
func (s *Subgraph) Components() [][]NodeID {
	visited := make([]bool, len(s.nodes))
	var comps [][]NodeID

	for start := range s.nodes {
		if visited[start] {
			continue
		}
		var comp []NodeID
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			i := queue.Remove(queue.Front()).(int)
			comp = append(comp, s.nodes[i])
			for _, a := range s.adj[i] {
				if !visited[a.To] {
					visited[a.To] = true
					queue.PushBack(a.To)
				}
			}
		}
		sort.Slice(comp, func(a, b int) bool { return comp[a] < comp[b] })
		comps = append(comps, comp)
	}
	return comps
}
