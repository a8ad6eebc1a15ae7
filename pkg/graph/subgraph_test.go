package graph

import "testing"

// twoTriangleGraph builds two triangles {a,b,c} and {c,d,e} joined at c.
func twoTriangleGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Build([]Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "c", Target: "d", Weight: 1},
		{Source: "c", Target: "e", Weight: 1},
		{Source: "d", Target: "e", Weight: 1},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func nodeSet(ids ...NodeID) map[NodeID]struct{} {
	s := make(map[NodeID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func TestSubgraph_Realize(t *testing.T) {
	g := twoTriangleGraph(t)

	sub := g.Subgraph(nodeSet("a", "b", "c"))
	if sub.N() != 3 {
		t.Errorf("Expected 3 nodes, got %d", sub.N())
	}
	if sub.M() != 3 {
		t.Errorf("Expected 3 internal edges, got %d", sub.M())
	}
	if sub.Weight() != 3 {
		t.Errorf("Expected internal weight 3, got %g", sub.Weight())
	}
}

func TestSubgraph_IgnoresUnknownNodes(t *testing.T) {
	g := twoTriangleGraph(t)

	sub := g.Subgraph(nodeSet("a", "b", "nope"))
	if sub.N() != 2 {
		t.Errorf("Expected unknown node dropped, got %d nodes", sub.N())
	}
}

func TestSubgraph_ExcludesBoundaryEdges(t *testing.T) {
	g := twoTriangleGraph(t)

	// d and e are joined inside, both also link to c outside the set.
	sub := g.Subgraph(nodeSet("d", "e"))
	if sub.M() != 1 {
		t.Errorf("Expected only internal edge d-e, got %d edges", sub.M())
	}
	if sub.DegreeAt(0) != 1 {
		t.Errorf("Expected in-subgraph degree 1, got %g", sub.DegreeAt(0))
	}
}

func TestSubgraph_MinDegree(t *testing.T) {
	g := twoTriangleGraph(t)

	sub := g.Subgraph(nodeSet("a", "b", "c", "d", "e"))
	if md := sub.MinDegree(); md != 2 {
		t.Errorf("Expected min degree 2, got %g", md)
	}
}

func TestSubgraph_Components(t *testing.T) {
	g := twoTriangleGraph(t)

	// {a, b} and {d, e} are disconnected without c.
	sub := g.Subgraph(nodeSet("a", "b", "d", "e"))
	comps := sub.Components()
	if len(comps) != 2 {
		t.Fatalf("Expected 2 components, got %d", len(comps))
	}
	if comps[0][0] != "a" || comps[1][0] != "d" {
		t.Errorf("Expected components ordered by smallest member, got %v", comps)
	}
}

func TestSubgraph_FilterEdges(t *testing.T) {
	g, err := Build([]Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 5},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	sub := g.Subgraph(nodeSet("a", "b", "c"))
	filtered := sub.FilterEdges(func(w float64) bool { return w > 1 })

	if filtered.M() != 1 {
		t.Errorf("Expected 1 surviving edge, got %d", filtered.M())
	}
	if filtered.N() != 3 {
		t.Errorf("Expected all nodes retained, got %d", filtered.N())
	}
	if comps := filtered.Components(); len(comps) != 2 {
		t.Errorf("Expected 2 components after filtering, got %d", len(comps))
	}
}

func TestSubgraph_Induce(t *testing.T) {
	g := twoTriangleGraph(t)

	sub := g.Subgraph(nodeSet("a", "b", "c", "d", "e"))
	inner := sub.Induce([]NodeID{"c", "d", "e"})

	if inner.N() != 3 {
		t.Errorf("Expected 3 nodes, got %d", inner.N())
	}
	if inner.M() != 3 {
		t.Errorf("Expected triangle edges, got %d", inner.M())
	}
}

func TestSubgraph_MinEdgeWeight(t *testing.T) {
	g := twoTriangleGraph(t)

	sub := g.Subgraph(nodeSet("a", "b", "c"))
	w, ok := sub.MinEdgeWeight()
	if !ok || w != 1 {
		t.Errorf("Expected (1, true), got (%g, %v)", w, ok)
	}

	empty := g.Subgraph(nodeSet("a"))
	if _, ok := empty.MinEdgeWeight(); ok {
		t.Error("Expected no edge weight on edgeless subgraph")
	}
}
