// Package export assembles the final partition and its per-cluster
// connectivity statistics into ordered records and writes them in the
// formats downstream reporting consumes.
package export

import (
	"sort"

	"github.com/clusolabs/cmgraph/pkg/connectivity"
	"github.com/clusolabs/cmgraph/pkg/partition"
)

// Record is one final cluster's reportable state.
type Record struct {
	ClusterID     partition.ClusterID
	Size          int
	InternalEdges int
	Score         float64
	Threshold     float64
	Verdict       connectivity.Verdict
}

// Export returns one record per live cluster, ordered by cluster ID.
// Read-only: neither the partition nor the reports are modified.
func Export(p *partition.Partition, reports map[partition.ClusterID]connectivity.Report) []Record {
	ids := p.ClusterIDs()
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		r := reports[id]
		out = append(out, Record{
			ClusterID:     id,
			Size:          p.Size(id),
			InternalEdges: r.InternalEdges,
			Score:         r.Score,
			Threshold:     r.Threshold,
			Verdict:       r.Verdict,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return out
}
