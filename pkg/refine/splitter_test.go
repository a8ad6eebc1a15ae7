package refine

import (
	"sort"
	"testing"

	"github.com/clusolabs/cmgraph/pkg/graph"
)

func buildSub(t *testing.T, edges []graph.Edge) *graph.Subgraph {
	t.Helper()
	g, err := graph.Build(edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	members := make(map[graph.NodeID]struct{})
	for _, n := range g.Nodes() {
		members[n] = struct{}{}
	}
	return g.Subgraph(members)
}

func subsetSizes(subsets [][]graph.NodeID) []int {
	sizes := make([]int, len(subsets))
	for i, s := range subsets {
		sizes[i] = len(s)
	}
	sort.Ints(sizes)
	return sizes
}

func coversExactly(t *testing.T, subsets [][]graph.NodeID, sub *graph.Subgraph) {
	t.Helper()
	seen := make(map[graph.NodeID]int)
	for _, s := range subsets {
		if len(s) == 0 {
			t.Error("Empty subset returned")
		}
		for _, n := range s {
			seen[n]++
		}
	}
	if len(seen) != sub.N() {
		t.Errorf("Subsets cover %d nodes, subgraph has %d", len(seen), sub.N())
	}
	for n, c := range seen {
		if c != 1 {
			t.Errorf("Node %s appears %d times", n, c)
		}
	}
}

func TestNewSplitter(t *testing.T) {
	for _, name := range []string{"mincut", "components", "labelprop"} {
		s, err := NewSplitter(name, 1.0)
		if err != nil {
			t.Errorf("NewSplitter(%q) failed: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("Expected name %q, got %q", name, s.Name())
		}
	}
	if _, err := NewSplitter("bogus", 1.0); err == nil {
		t.Error("Expected error for unknown splitter")
	}
}

func TestMincutSplitter_TwoTriangles(t *testing.T) {
	sub := buildSub(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "c", Target: "d", Weight: 1},
		{Source: "c", Target: "e", Weight: 1},
		{Source: "d", Target: "e", Weight: 1},
	})

	subsets, err := MincutSplitter{}.Split(sub)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	coversExactly(t, subsets, sub)

	sizes := subsetSizes(subsets)
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 3 {
		t.Errorf("Expected sizes [2 3], got %v", sizes)
	}
}

func TestMincutSplitter_DisconnectedUsesComponents(t *testing.T) {
	sub := buildSub(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "c", Target: "d", Weight: 1},
	})

	subsets, err := MincutSplitter{}.Split(sub)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	coversExactly(t, subsets, sub)
	if len(subsets) != 2 {
		t.Errorf("Expected 2 components, got %d", len(subsets))
	}
}

func TestComponentSplitter_BreaksWeakestEdges(t *testing.T) {
	// Two strong pairs joined by a weak bridge.
	sub := buildSub(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 5},
		{Source: "c", Target: "d", Weight: 5},
		{Source: "b", Target: "c", Weight: 0.5},
	})

	subsets, err := ComponentSplitter{}.Split(sub)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	coversExactly(t, subsets, sub)

	sizes := subsetSizes(subsets)
	if len(sizes) != 2 || sizes[0] != 2 || sizes[1] != 2 {
		t.Errorf("Expected sizes [2 2], got %v", sizes)
	}
}

func TestComponentSplitter_UniformWeightsDegradeToSingletons(t *testing.T) {
	sub := buildSub(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "a", Target: "c", Weight: 1},
	})

	subsets, err := ComponentSplitter{}.Split(sub)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	coversExactly(t, subsets, sub)
	if len(subsets) != 3 {
		t.Errorf("Expected 3 singletons, got %d subsets", len(subsets))
	}
}

func TestLabelPropagationSplitter_TwoCliques(t *testing.T) {
	// Two heavy triangles joined by a single light edge.
	sub := buildSub(t, []graph.Edge{
		{Source: "a", Target: "b", Weight: 10},
		{Source: "a", Target: "c", Weight: 10},
		{Source: "b", Target: "c", Weight: 10},
		{Source: "d", Target: "e", Weight: 10},
		{Source: "d", Target: "f", Weight: 10},
		{Source: "e", Target: "f", Weight: 10},
		{Source: "c", Target: "d", Weight: 0.1},
	})

	s := LabelPropagationSplitter{Resolution: 1.0, MaxIterations: 32}
	subsets, err := s.Split(sub)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	coversExactly(t, subsets, sub)

	sizes := subsetSizes(subsets)
	if len(sizes) != 2 || sizes[0] != 3 || sizes[1] != 3 {
		t.Errorf("Expected two triangles, got sizes %v", sizes)
	}
}

func TestLabelPropagationSplitter_Deterministic(t *testing.T) {
	build := func() *graph.Subgraph {
		return buildSub(t, []graph.Edge{
			{Source: "a", Target: "b", Weight: 2},
			{Source: "b", Target: "c", Weight: 1},
			{Source: "c", Target: "d", Weight: 2},
			{Source: "d", Target: "a", Weight: 1},
		})
	}

	s := LabelPropagationSplitter{Resolution: 1.5, MaxIterations: 32}
	first, err := s.Split(build())
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Split(build())
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("Run %d: %d subsets, first run had %d", i, len(again), len(first))
		}
		for j := range first {
			if len(again[j]) != len(first[j]) {
				t.Errorf("Run %d: subset %d size differs", i, j)
			}
			for k := range first[j] {
				if again[j][k] != first[j][k] {
					t.Errorf("Run %d: subset %d node %d differs", i, j, k)
				}
			}
		}
	}
}
