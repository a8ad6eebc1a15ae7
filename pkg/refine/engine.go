// Package refine implements the connectivity refinement loop: evaluate
// every cluster, split or peel the ones that fail, repeat until every
// cluster passes or the round cap is hit.
package refine

import (
	"fmt"
	"time"

	"github.com/clusolabs/cmgraph/pkg/connectivity"
	"github.com/clusolabs/cmgraph/pkg/graph"
	"github.com/clusolabs/cmgraph/pkg/logging"
	"github.com/clusolabs/cmgraph/pkg/parallel"
	"github.com/clusolabs/cmgraph/pkg/partition"
	"github.com/clusolabs/cmgraph/pkg/runctx"
)

// State is the engine's terminal (or in-flight) condition.
type State int

const (
	StateEvaluating State = iota
	StateSplitting
	StateConverged
	StateIterationLimit
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEvaluating:
		return "EVALUATING"
	case StateSplitting:
		return "SPLITTING"
	case StateConverged:
		return "CONVERGED"
	case StateIterationLimit:
		return "ITERATION_LIMIT_REACHED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a refinement run. Reports holds the latest
// evaluation per live cluster; Failing lists the clusters still failing
// when the iteration limit was hit.
type Result struct {
	State   State
	Rounds  int
	Reports map[partition.ClusterID]connectivity.Report
	Failing []partition.ClusterID
}

// Engine drives the refinement state machine over one partition.
type Engine struct {
	rc        *runctx.Context
	part      *partition.Partition
	eval      *connectivity.Evaluator
	splitter  Splitter
	pool      *parallel.Pool
	maxRounds int
	prune     bool
}

// NewEngine wires an engine from the run context's configuration.
func NewEngine(rc *runctx.Context, part *partition.Partition) (*Engine, error) {
	cfg := rc.Cfg

	th, err := connectivity.ParseThreshold(cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	kind, err := connectivity.ParseScoreKind(cfg.Score)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	splitter, err := NewSplitter(cfg.Splitter, cfg.Resolution)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	pool, err := parallel.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}

	return &Engine{
		rc:        rc,
		part:      part,
		eval:      connectivity.NewEvaluator(kind, th),
		splitter:  splitter,
		pool:      pool,
		maxRounds: cfg.MaxRounds,
		// Peeling low-degree nodes is only a sound shortcut when the score
		// is bounded by the minimum degree, i.e. for mincut scores.
		prune: cfg.Prune && connectivity.ScoreKind(cfg.Score) == connectivity.ScoreMincut,
	}, nil
}

// Partition returns the partition the engine mutates.
func (e *Engine) Partition() *partition.Partition {
	return e.part
}

// Run executes rounds until convergence or the round cap. The partition is
// mutated in place; hitting the cap is a reported condition, not an error.
func (e *Engine) Run() (*Result, error) {
	log := e.rc.Log.With(logging.Component("refine"))
	g := e.part.Graph()
	reports := make(map[partition.ClusterID]connectivity.Report)

	round := 0
	for {
		// EVALUATING. Cluster IDs are never reused, so a report cached for
		// an ID is still valid; only clusters minted since the last round
		// need evaluation.
		ids := e.part.ClusterIDs()
		pending := make([]partition.ClusterID, 0)
		for _, id := range ids {
			if _, ok := reports[id]; !ok {
				pending = append(pending, id)
			}
		}

		results := make([]connectivity.Report, len(pending))
		tasks := make([]func(), len(pending))
		for i, id := range pending {
			i, id := i, id
			members := e.part.MembersOf(id)
			tasks[i] = func() {
				start := time.Now()
				results[i] = e.eval.EvaluateMembers(g, members, round)
				e.rc.Metrics.EvalDuration.Observe(time.Since(start).Seconds())
			}
		}
		e.pool.Run(tasks) // round barrier

		for i, id := range pending {
			r := results[i]
			reports[id] = r
			e.rc.Metrics.ClustersEvaluated.WithLabelValues(string(r.Verdict)).Inc()
			e.rc.Metrics.ClusterSize.Observe(float64(r.Size))
			log.Debug("cluster evaluated",
				logging.Cluster(uint64(id)),
				logging.Round(round),
				logging.Nodes(r.Size),
				logging.Edges(r.InternalEdges),
				logging.Score(r.Score),
				logging.Threshold(r.Threshold),
				logging.String("verdict", string(r.Verdict)),
			)
		}
		e.rc.Metrics.ClustersCurrent.Set(float64(e.part.ClusterCount()))

		failing := make([]partition.ClusterID, 0)
		for _, id := range ids {
			if reports[id].Verdict == connectivity.Fail {
				failing = append(failing, id)
			}
		}

		log.Info("round evaluated",
			logging.Round(round),
			logging.Int("clusters", len(ids)),
			logging.Int("failing", len(failing)),
		)

		if len(failing) == 0 {
			log.Info("converged", logging.Round(round), logging.Int("clusters", len(ids)))
			return &Result{State: StateConverged, Rounds: round, Reports: trim(reports, e.part)}, nil
		}
		if round >= e.maxRounds {
			e.rc.AddDiagnostic(fmt.Sprintf("iteration limit %d reached with %d failing clusters", e.maxRounds, len(failing)))
			log.Warn("iteration limit reached",
				logging.Round(round),
				logging.Int("failing", len(failing)),
			)
			return &Result{
				State:   StateIterationLimit,
				Rounds:  round,
				Reports: trim(reports, e.part),
				Failing: failing,
			}, nil
		}

		// SPLITTING. Failing clusters are disjoint; splits apply in
		// ascending ID order so minted IDs are reproducible.
		for _, id := range failing {
			if err := e.splitOne(id, round, reports, log); err != nil {
				return nil, err
			}
		}

		round++
		e.rc.Metrics.RoundsTotal.Inc()
	}
}

// splitOne peels or splits a single failing cluster and invalidates its
// cached report.
func (e *Engine) splitOne(id partition.ClusterID, round int, reports map[partition.ClusterID]connectivity.Report, log logging.Logger) error {
	g := e.part.Graph()
	sub := g.Subgraph(e.part.MembersOf(id))

	if e.prune {
		peeled := peelBelowThreshold(sub, e.eval.ThresholdFunc())
		if len(peeled) > 0 {
			for _, n := range peeled {
				if _, err := e.part.MoveNode(n, id, partition.ClusterNone); err != nil {
					return fmt.Errorf("refine: round %d: %w", round, err)
				}
			}
			e.rc.Metrics.NodesPruned.Add(float64(len(peeled)))
			delete(reports, id)
			log.Debug("cluster pruned",
				logging.Cluster(uint64(id)),
				logging.Round(round),
				logging.Int("peeled", len(peeled)),
			)
			// The shrunken remainder (if any) keeps its ID and is
			// re-evaluated next round before any further split.
			return nil
		}
	}

	subsets, err := e.splitter.Split(sub)
	if err != nil {
		return fmt.Errorf("refine: round %d: cluster %d (%d nodes): %w", round, id, sub.N(), err)
	}
	if !strictlyReduces(subsets, sub.N()) {
		// Fall back to the mincut bisection, which always produces two
		// non-empty sides on a connected cluster.
		cut := sub.MinCut()
		subsets = [][]graph.NodeID{cut.Light, cut.Heavy}
	}

	newIDs, err := e.part.SplitCluster(id, subsets)
	if err != nil {
		return fmt.Errorf("refine: round %d: %w", round, err)
	}
	delete(reports, id)
	e.rc.Metrics.SplitsTotal.WithLabelValues(e.splitter.Name()).Inc()
	log.Debug("cluster split",
		logging.Cluster(uint64(id)),
		logging.Round(round),
		logging.Nodes(sub.N()),
		logging.Int("children", len(newIDs)),
	)
	return nil
}

// strictlyReduces reports whether every subset is strictly smaller than the
// original cluster.
func strictlyReduces(subsets [][]graph.NodeID, original int) bool {
	if len(subsets) < 2 {
		return false
	}
	for _, s := range subsets {
		if len(s) >= original {
			return false
		}
	}
	return true
}

// peelBelowThreshold removes nodes whose in-cluster degree cannot meet the
// threshold for the current cluster size (the mincut never exceeds the
// minimum degree). The threshold is recomputed against the shrunken size
// after every removal, so size-dependent families never peel against a
// stale requirement. Returns the peeled node IDs in deterministic order.
func peelBelowThreshold(sub *graph.Subgraph, th connectivity.ThresholdFunc) []graph.NodeID {
	n := sub.N()
	if n < 2 {
		return nil
	}

	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		deg[i] = sub.DegreeAt(i)
	}
	removed := make([]bool, n)
	active := n
	var peeled []graph.NodeID

	for active > 1 {
		t := th.Threshold(active)
		next := -1
		for i := 0; i < n; i++ {
			if !removed[i] && deg[i] < t {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		removed[next] = true
		active--
		peeled = append(peeled, sub.Nodes()[next])
		for _, a := range sub.Arcs(next) {
			if !removed[a.To] {
				deg[a.To] -= a.Weight
			}
		}
	}
	return peeled
}

// trim drops reports for clusters that no longer exist.
func trim(reports map[partition.ClusterID]connectivity.Report, p *partition.Partition) map[partition.ClusterID]connectivity.Report {
	for id := range reports {
		if p.Size(id) == 0 {
			delete(reports, id)
		}
	}
	return reports
}
