package refine

import (
	"fmt"

	"github.com/clusolabs/cmgraph/pkg/graph"
)

// Splitter proposes a replacement partition for a failing cluster's induced
// subgraph. Returned subsets must be non-empty, pairwise disjoint and cover
// the subgraph's nodes; the engine enforces strict size reduction on top.
type Splitter interface {
	Name() string
	Split(sub *graph.Subgraph) ([][]graph.NodeID, error)
}

// NewSplitter builds the named splitting strategy.
func NewSplitter(name string, resolution float64) (Splitter, error) {
	switch name {
	case "mincut":
		return MincutSplitter{}, nil
	case "components":
		return ComponentSplitter{}, nil
	case "labelprop":
		return LabelPropagationSplitter{Resolution: resolution, MaxIterations: 32}, nil
	default:
		return nil, fmt.Errorf("unknown splitter %q", name)
	}
}

// MincutSplitter cuts the cluster along its global minimum cut and returns
// the connected components of each side. Both cut sides are non-empty, so
// the largest result is always strictly smaller than the input.
type MincutSplitter struct{}

func (MincutSplitter) Name() string { return "mincut" }

func (MincutSplitter) Split(sub *graph.Subgraph) ([][]graph.NodeID, error) {
	cut := sub.MinCut()
	if cut.Weight == 0 {
		return sub.Components(), nil
	}

	var subsets [][]graph.NodeID
	subsets = append(subsets, sub.Induce(cut.Light).Components()...)
	subsets = append(subsets, sub.Induce(cut.Heavy).Components()...)
	return subsets, nil
}

// ComponentSplitter strips the weakest-weight edges until the subgraph
// disconnects, then returns the connected components. On uniformly weighted
// clusters a single pass removes every edge, degrading to singletons.
type ComponentSplitter struct{}

func (ComponentSplitter) Name() string { return "components" }

func (ComponentSplitter) Split(sub *graph.Subgraph) ([][]graph.NodeID, error) {
	cur := sub
	for {
		if comps := cur.Components(); len(comps) > 1 {
			return comps, nil
		}
		min, ok := cur.MinEdgeWeight()
		if !ok {
			return cur.Components(), nil
		}
		cur = cur.FilterEdges(func(w float64) bool { return w > min })
	}
}

// LabelPropagationSplitter re-clusters the induced subgraph by weighted
// label propagation. Nodes adopt the label carrying the most neighbor
// weight; the weight credited to a node's current label is divided by
// Resolution, so higher resolutions switch labels more readily and produce
// finer sub-clusters. Deterministic: nodes are visited in index order and
// ties break towards the smaller label.
type LabelPropagationSplitter struct {
	Resolution    float64
	MaxIterations int
}

func (LabelPropagationSplitter) Name() string { return "labelprop" }

func (s LabelPropagationSplitter) Split(sub *graph.Subgraph) ([][]graph.NodeID, error) {
	n := sub.N()
	res := s.Resolution
	if res <= 0 {
		res = 1.0
	}
	iters := s.MaxIterations
	if iters <= 0 {
		iters = 32
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	for iter := 0; iter < iters; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			score := make(map[int]float64)
			for _, a := range sub.Arcs(i) {
				score[labels[a.To]] += a.Weight
			}
			if len(score) == 0 {
				continue
			}
			score[labels[i]] /= res

			best, bestW := labels[i], score[labels[i]]
			for l, w := range score {
				if w > bestW || (w == bestW && l < best) {
					best, bestW = l, w
				}
			}
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	groups := make(map[int][]graph.NodeID)
	order := make([]int, 0)
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			order = append(order, l)
		}
		groups[l] = append(groups[l], sub.Nodes()[i])
	}

	subsets := make([][]graph.NodeID, 0, len(order))
	for _, l := range order {
		subsets = append(subsets, groups[l])
	}
	return subsets, nil
}
