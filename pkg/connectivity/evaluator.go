package connectivity

import (
	"fmt"

	"github.com/clusolabs/cmgraph/pkg/graph"
)

// Verdict is the outcome of evaluating one cluster.
type Verdict string

const (
	Pass Verdict = "PASS"
	Fail Verdict = "FAIL"
)

// ScoreKind selects how the connectivity score is computed.
type ScoreKind string

const (
	// ScoreMincut uses the weight of the subgraph's global minimum cut.
	ScoreMincut ScoreKind = "mincut"
	// ScoreDensity uses internal edge weight divided by cluster size.
	// Cheaper than a mincut on very large clusters, coarser as a signal.
	ScoreDensity ScoreKind = "density"
)

// ParseScoreKind validates a score selector string.
func ParseScoreKind(s string) (ScoreKind, error) {
	switch ScoreKind(s) {
	case ScoreMincut, ScoreDensity:
		return ScoreKind(s), nil
	default:
		return "", fmt.Errorf("unknown score kind %q", s)
	}
}

// Report is the evaluation result for one cluster. Produced fresh on each
// pass; only the latest report per cluster is retained across rounds.
type Report struct {
	Size           int
	InternalEdges  int
	InternalWeight float64
	Score          float64
	Threshold      float64
	Verdict        Verdict
	Round          int
}

// Evaluator scores induced subgraphs against a threshold function. Stateless
// and safe for concurrent use across disjoint clusters.
type Evaluator struct {
	kind ScoreKind
	th   ThresholdFunc
}

// NewEvaluator builds an Evaluator for the given score kind and threshold
// function.
func NewEvaluator(kind ScoreKind, th ThresholdFunc) *Evaluator {
	return &Evaluator{kind: kind, th: th}
}

// ThresholdFunc returns the threshold function in use.
func (e *Evaluator) ThresholdFunc() ThresholdFunc {
	return e.th
}

// Evaluate scores a realized cluster subgraph. Singletons are trivially
// well-connected and always pass.
func (e *Evaluator) Evaluate(sub *graph.Subgraph, round int) Report {
	r := Report{
		Size:           sub.N(),
		InternalEdges:  sub.M(),
		InternalWeight: sub.Weight(),
		Round:          round,
	}

	if r.Size <= 1 {
		r.Verdict = Pass
		return r
	}

	r.Threshold = e.th.Threshold(r.Size)
	switch e.kind {
	case ScoreDensity:
		r.Score = r.InternalWeight / float64(r.Size)
	default:
		r.Score = sub.MinCut().Weight
	}

	if r.Score >= r.Threshold {
		r.Verdict = Pass
	} else {
		r.Verdict = Fail
	}
	return r
}

// EvaluateMembers realizes the induced subgraph for the member set and
// evaluates it.
func (e *Evaluator) EvaluateMembers(g *graph.Graph, members map[graph.NodeID]struct{}, round int) Report {
	return e.Evaluate(g.Subgraph(members), round)
}
