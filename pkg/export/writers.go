package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/golang/snappy"

	"github.com/clusolabs/cmgraph/pkg/graph"
	"github.com/clusolabs/cmgraph/pkg/partition"
)

// WriteMembership writes the final node-to-cluster mapping, one
// tab-separated "node cluster" line per node, sorted by node ID.
func WriteMembership(w io.Writer, p *partition.Partition) error {
	labels := p.Labels()
	nodes := make([]graph.NodeID, 0, len(labels))
	for n := range labels {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", n, labels[n]); err != nil {
			return fmt.Errorf("WriteMembership: %w", err)
		}
	}
	return nil
}

// WriteCSV writes the per-cluster report, one row per cluster.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cluster", "n", "m", "score", "threshold", "verdict"}); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ClusterID), 10),
			strconv.Itoa(r.Size),
			strconv.Itoa(r.InternalEdges),
			strconv.FormatFloat(r.Score, 'g', -1, 64),
			strconv.FormatFloat(r.Threshold, 'g', -1, 64),
			string(r.Verdict),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	return nil
}

// WriteLineage writes the cluster ancestry as JSON: every cluster ever
// minted, its parent, origin label and final or retirement size.
func WriteLineage(w io.Writer, p *partition.Partition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Lineage()); err != nil {
		return fmt.Errorf("WriteLineage: %w", err)
	}
	return nil
}

// CompressedWriter wraps w in a snappy stream for large outputs. Close
// flushes the compressor; the underlying writer is not closed.
func CompressedWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}
