package refine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/clusolabs/cmgraph/pkg/config"
	"github.com/clusolabs/cmgraph/pkg/connectivity"
	"github.com/clusolabs/cmgraph/pkg/graph"
	"github.com/clusolabs/cmgraph/pkg/logging"
	"github.com/clusolabs/cmgraph/pkg/partition"
	"github.com/clusolabs/cmgraph/pkg/runctx"
)

// randomGraph builds a connected graph on n nodes: a backbone path plus
// extra edges sampled from the seed.
func randomGraph(seed int64, n int) (*graph.Graph, error) {
	rng := rand.New(rand.NewSource(seed))
	var edges []graph.Edge
	for i := 1; i < n; i++ {
		edges = append(edges, graph.Edge{
			Source: graph.NodeID(fmt.Sprintf("n%02d", i-1)),
			Target: graph.NodeID(fmt.Sprintf("n%02d", i)),
			Weight: 1,
		})
	}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if rng.Float64() < 0.35 {
				edges = append(edges, graph.Edge{
					Source: graph.NodeID(fmt.Sprintf("n%02d", i)),
					Target: graph.NodeID(fmt.Sprintf("n%02d", j)),
					Weight: 1,
				})
			}
		}
	}
	return graph.Build(edges)
}

func loadSingleCluster(g *graph.Graph) (*partition.Partition, error) {
	mapping := make(map[graph.NodeID]string)
	for _, n := range g.Nodes() {
		mapping[n] = "c0"
	}
	return partition.Load(mapping, g)
}

func runRefinement(g *graph.Graph, p *partition.Partition, splitter string) (*Result, error) {
	cfg := config.Default()
	cfg.Splitter = splitter
	cfg.MaxRounds = 20
	rc := runctx.New(cfg, logging.NopLogger{})
	e, err := NewEngine(rc, p)
	if err != nil {
		return nil, err
	}
	return e.Run()
}

// TestRefinementProperties verifies invariants that must hold for any input
// graph, regardless of shape or seed.
func TestRefinementProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Every node is in exactly one cluster, before and after.
	properties.Property("partition stays a partition", prop.ForAll(
		func(seed int64, n int) bool {
			g, err := randomGraph(seed, n)
			if err != nil {
				return false
			}
			p, err := loadSingleCluster(g)
			if err != nil {
				return false
			}
			if _, err := runRefinement(g, p, "mincut"); err != nil {
				return false
			}

			covered := make(map[graph.NodeID]bool)
			for _, id := range p.ClusterIDs() {
				for m := range p.MembersOf(id) {
					if covered[m] {
						return false
					}
					covered[m] = true
				}
			}
			return len(covered) == g.NodeCount()
		},
		gen.Int64(),
		gen.IntRange(2, 12),
	))

	// Refinement only ever splits: round over round the cluster count never
	// shrinks and the largest cluster never grows. The engine is
	// deterministic, so a run capped at r rounds is the state after round r
	// of the uncapped run.
	properties.Property("refinement is monotone", prop.ForAll(
		func(seed int64, n int) bool {
			prevCount := 1
			prevMax := n
			for rounds := 0; rounds <= 12; rounds++ {
				g, err := randomGraph(seed, n)
				if err != nil {
					return false
				}
				p, err := loadSingleCluster(g)
				if err != nil {
					return false
				}
				cfg := config.Default()
				cfg.MaxRounds = rounds
				rc := runctx.New(cfg, logging.NopLogger{})
				e, err := NewEngine(rc, p)
				if err != nil {
					return false
				}
				result, err := e.Run()
				if err != nil {
					return false
				}

				maxSize := 0
				for _, id := range p.ClusterIDs() {
					if s := p.Size(id); s > maxSize {
						maxSize = s
					}
				}
				if p.ClusterCount() < prevCount || maxSize > prevMax {
					return false
				}
				prevCount, prevMax = p.ClusterCount(), maxSize

				if result.State == StateConverged {
					break
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 12),
	))

	// On convergence every surviving cluster carries a PASS report.
	properties.Property("converged clusters all pass", prop.ForAll(
		func(seed int64, n int) bool {
			g, err := randomGraph(seed, n)
			if err != nil {
				return false
			}
			p, err := loadSingleCluster(g)
			if err != nil {
				return false
			}
			result, err := runRefinement(g, p, "mincut")
			if err != nil {
				return false
			}
			if result.State != StateConverged {
				// Hitting the round cap is legal; nothing to check then.
				return true
			}
			for _, id := range p.ClusterIDs() {
				if result.Reports[id].Verdict != connectivity.Pass {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 12),
	))

	// A converged partition is a fixed point: rerunning changes nothing.
	properties.Property("convergence is a fixed point", prop.ForAll(
		func(seed int64, n int) bool {
			g, err := randomGraph(seed, n)
			if err != nil {
				return false
			}
			p, err := loadSingleCluster(g)
			if err != nil {
				return false
			}
			first, err := runRefinement(g, p, "mincut")
			if err != nil || first.State != StateConverged {
				return err == nil
			}
			countAfterFirst := p.ClusterCount()

			second, err := runRefinement(g, p, "mincut")
			if err != nil {
				return false
			}
			return second.State == StateConverged &&
				second.Rounds == 0 &&
				p.ClusterCount() == countAfterFirst
		},
		gen.Int64(),
		gen.IntRange(2, 12),
	))

	// Every splitter yields an exact cover of a failing cluster.
	properties.Property("splitters produce exact covers", prop.ForAll(
		func(seed int64, n int, which int) bool {
			g, err := randomGraph(seed, n)
			if err != nil {
				return false
			}
			members := make(map[graph.NodeID]struct{})
			for _, node := range g.Nodes() {
				members[node] = struct{}{}
			}
			sub := g.Subgraph(members)

			names := []string{"mincut", "components", "labelprop"}
			s, err := NewSplitter(names[which%len(names)], 1.0)
			if err != nil {
				return false
			}
			subsets, err := s.Split(sub)
			if err != nil {
				return false
			}

			seen := make(map[graph.NodeID]int)
			for _, subset := range subsets {
				if len(subset) == 0 {
					return false
				}
				for _, node := range subset {
					seen[node]++
				}
			}
			if len(seen) != sub.N() {
				return false
			}
			for _, c := range seen {
				if c != 1 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 12),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
