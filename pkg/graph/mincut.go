package graph

import "sort"

// CutResult describes a global minimum cut of a subgraph. Light is the
// smaller side of the cut, Heavy the larger; both are sorted.
type CutResult struct {
	Weight float64
	Light  []NodeID
	Heavy  []NodeID
}

// MinCut computes the global minimum cut of the subgraph using the
// Stoer-Wagner algorithm. Among equal-weight minimum cuts the most balanced
// one is returned. For a disconnected subgraph the cut weight is 0 and the
// first connected component forms one side. Subgraphs with fewer than two
// nodes yield a zero-weight cut with an empty light side.
func (s *Subgraph) MinCut() CutResult {
	n := len(s.nodes)
	if n < 2 {
		return CutResult{Weight: 0, Light: nil, Heavy: append([]NodeID(nil), s.nodes...)}
	}

	// Zero-weight cuts fall out of Stoer-Wagner too, but the component
	// split is cheaper and gives a canonical side.
	if comps := s.Components(); len(comps) > 1 {
		light := comps[0]
		var heavy []NodeID
		for _, c := range comps[1:] {
			heavy = append(heavy, c...)
		}
		sort.Slice(heavy, func(i, j int) bool { return heavy[i] < heavy[j] })
		return orderCut(CutResult{Weight: 0, Light: light, Heavy: heavy})
	}

	// Dense weight matrix over local indices; merged supernodes track the
	// original indices they absorbed.
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
	}
	for i, arcs := range s.adj {
		for _, a := range arcs {
			w[i][a.To] += a.Weight
		}
	}
	groups := make([][]int, n)
	for i := range groups {
		groups[i] = []int{i}
	}
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	best := CutResult{Weight: -1}

	for len(active) > 1 {
		// Maximum adjacency ordering starting from the first active vertex.
		inA := make(map[int]bool, len(active))
		conn := make(map[int]float64, len(active))
		order := make([]int, 0, len(active))

		for len(order) < len(active) {
			sel, selW := -1, -1.0
			for _, v := range active {
				if inA[v] {
					continue
				}
				if conn[v] > selW || (conn[v] == selW && (sel == -1 || v < sel)) {
					sel, selW = v, conn[v]
				}
			}
			inA[sel] = true
			order = append(order, sel)
			for _, v := range active {
				if !inA[v] {
					conn[v] += w[sel][v]
				}
			}
		}

		t := order[len(order)-1]
		st := order[len(order)-2]
		cutOfPhase := 0.0
		for _, v := range active {
			if v != t {
				cutOfPhase += w[t][v]
			}
		}

		// Ties go to the more balanced cut; otherwise a one-vertex phase
		// cut shadows an equally cheap split of the same weight.
		better := best.Weight < 0 || cutOfPhase < best.Weight
		if !better && cutOfPhase == best.Weight {
			better = smallerSide(len(groups[t]), n) > smallerSide(len(best.Light), n)
		}
		if better {
			side := make([]NodeID, 0, len(groups[t]))
			for _, i := range groups[t] {
				side = append(side, s.nodes[i])
			}
			sort.Slice(side, func(a, b int) bool { return side[a] < side[b] })
			best = CutResult{Weight: cutOfPhase, Light: side}
		}

		// Merge t into st.
		groups[st] = append(groups[st], groups[t]...)
		for _, v := range active {
			if v != t && v != st {
				w[st][v] += w[t][v]
				w[v][st] = w[st][v]
			}
		}
		next := active[:0]
		for _, v := range active {
			if v != t {
				next = append(next, v)
			}
		}
		active = next
	}

	lightSet := make(map[NodeID]struct{}, len(best.Light))
	for _, n := range best.Light {
		lightSet[n] = struct{}{}
	}
	for _, n := range s.nodes {
		if _, ok := lightSet[n]; !ok {
			best.Heavy = append(best.Heavy, n)
		}
	}
	return orderCut(best)
}

// smallerSide is the size of the smaller half of a k / n-k split.
func smallerSide(k, n int) int {
	if n-k < k {
		return n - k
	}
	return k
}

// orderCut swaps the sides so Light is never the larger one.
func orderCut(c CutResult) CutResult {
	if len(c.Light) > len(c.Heavy) {
		c.Light, c.Heavy = c.Heavy, c.Light
	}
	return c
}
