// Package partition owns the node-to-cluster assignment that refinement
// mutates. Cluster IDs are minted monotonically and never reused, so a
// cluster ID seen in any round always denotes the same member set.
package partition

import (
	"sort"

	"github.com/clusolabs/cmgraph/pkg/graph"
)

// ClusterID identifies a cluster. IDs start at 1; 0 is ClusterNone.
type ClusterID uint64

// ClusterNone is the zero ClusterID. Passing it as the destination of
// MoveNode mints a fresh cluster.
const ClusterNone ClusterID = 0

// Meta records immutable facts about a cluster at creation time. It
// survives the cluster's retirement so lineage can be exported.
type Meta struct {
	Parent      ClusterID // 0 for clusters from the initial partition
	Origin      string    // external label for initial clusters, "" otherwise
	InitialSize int
}

// Partition is a bidirectional node/cluster mapping over a fixed graph.
// Not safe for concurrent mutation; the refinement engine serializes all
// writes at round barriers.
type Partition struct {
	g           *graph.Graph
	nodeCluster map[graph.NodeID]ClusterID
	members     map[ClusterID]map[graph.NodeID]struct{}
	meta        map[ClusterID]Meta
	nextID      ClusterID
}

// Load builds a Partition from an external node-to-label mapping. Every
// graph node must be mapped (ErrIncompletePartition) and every mapped node
// must exist in the graph (ErrUnknownNode). Distinct labels are assigned
// fresh cluster IDs in sorted label order so runs are reproducible.
func Load(nodeToLabel map[graph.NodeID]string, g *graph.Graph) (*Partition, error) {
	for n := range nodeToLabel {
		if !g.HasNode(n) {
			return nil, &Error{Op: "Load", Node: string(n), Cause: ErrUnknownNode}
		}
	}
	missing := 0
	for _, n := range g.Nodes() {
		if _, ok := nodeToLabel[n]; !ok {
			missing++
		}
	}
	if missing > 0 {
		return nil, &Error{Op: "Load", Count: missing, Cause: ErrIncompletePartition}
	}

	labels := make([]string, 0)
	seen := make(map[string]bool)
	for _, l := range nodeToLabel {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)

	p := &Partition{
		g:           g,
		nodeCluster: make(map[graph.NodeID]ClusterID, len(nodeToLabel)),
		members:     make(map[ClusterID]map[graph.NodeID]struct{}, len(labels)),
		meta:        make(map[ClusterID]Meta, len(labels)),
		nextID:      1,
	}

	labelID := make(map[string]ClusterID, len(labels))
	for _, l := range labels {
		id := p.mint()
		labelID[l] = id
		p.members[id] = make(map[graph.NodeID]struct{})
	}
	for n, l := range nodeToLabel {
		id := labelID[l]
		p.nodeCluster[n] = id
		p.members[id][n] = struct{}{}
	}
	for _, l := range labels {
		id := labelID[l]
		p.meta[id] = Meta{Origin: l, InitialSize: len(p.members[id])}
	}
	return p, nil
}

func (p *Partition) mint() ClusterID {
	id := p.nextID
	p.nextID++
	return id
}

// Graph returns the underlying graph.
func (p *Partition) Graph() *graph.Graph {
	return p.g
}

// NodeCount returns the number of nodes covered by the partition.
func (p *Partition) NodeCount() int {
	return len(p.nodeCluster)
}

// ClusterCount returns the number of live clusters.
func (p *Partition) ClusterCount() int {
	return len(p.members)
}

// ClusterOf returns the cluster containing the node, or ClusterNone if the
// node is unknown.
func (p *Partition) ClusterOf(n graph.NodeID) ClusterID {
	return p.nodeCluster[n]
}

// MembersOf returns a copy of the cluster's member set, or nil for a
// retired or unknown cluster.
func (p *Partition) MembersOf(id ClusterID) map[graph.NodeID]struct{} {
	src, ok := p.members[id]
	if !ok {
		return nil
	}
	out := make(map[graph.NodeID]struct{}, len(src))
	for n := range src {
		out[n] = struct{}{}
	}
	return out
}

// Size returns the member count of a live cluster, 0 otherwise.
func (p *Partition) Size(id ClusterID) int {
	return len(p.members[id])
}

// ClusterIDs returns the live cluster IDs in ascending order.
func (p *Partition) ClusterIDs() []ClusterID {
	ids := make([]ClusterID, 0, len(p.members))
	for id := range p.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MetaOf returns creation metadata for a cluster, live or retired.
func (p *Partition) MetaOf(id ClusterID) (Meta, bool) {
	m, ok := p.meta[id]
	return m, ok
}

// MoveNode moves a node out of cluster from into cluster to, returning the
// destination ID. Passing ClusterNone as to mints a fresh cluster (with
// from recorded as its parent). The source cluster is retired when it
// becomes empty.
func (p *Partition) MoveNode(n graph.NodeID, from, to ClusterID) (ClusterID, error) {
	src, ok := p.members[from]
	if !ok {
		return ClusterNone, &Error{Op: "MoveNode", Cluster: from, Node: string(n), Cause: ErrUnknownCluster}
	}
	if _, ok := src[n]; !ok {
		return ClusterNone, &Error{Op: "MoveNode", Cluster: from, Node: string(n), Cause: ErrNodeNotInCluster}
	}

	if to == ClusterNone {
		to = p.mint()
		p.members[to] = make(map[graph.NodeID]struct{})
		p.meta[to] = Meta{Parent: from, InitialSize: 1}
	} else if _, ok := p.members[to]; !ok {
		return ClusterNone, &Error{Op: "MoveNode", Cluster: to, Node: string(n), Cause: ErrUnknownCluster}
	}

	delete(src, n)
	p.members[to][n] = struct{}{}
	p.nodeCluster[n] = to

	if len(src) == 0 {
		delete(p.members, from)
	}
	return to, nil
}

// SplitCluster replaces a cluster with freshly minted clusters, one per
// subset. The subsets must be non-empty, pairwise disjoint and cover the
// original members exactly; otherwise ErrInvalidSplit is returned and the
// partition is unchanged. New IDs are assigned in subset order.
func (p *Partition) SplitCluster(id ClusterID, subsets [][]graph.NodeID) ([]ClusterID, error) {
	src, ok := p.members[id]
	if !ok {
		return nil, &Error{Op: "SplitCluster", Cluster: id, Cause: ErrUnknownCluster}
	}

	covered := 0
	seen := make(map[graph.NodeID]bool, len(src))
	for _, sub := range subsets {
		if len(sub) == 0 {
			return nil, &Error{Op: "SplitCluster", Cluster: id, Count: len(src), Cause: ErrInvalidSplit}
		}
		for _, n := range sub {
			if seen[n] {
				return nil, &Error{Op: "SplitCluster", Cluster: id, Node: string(n), Cause: ErrInvalidSplit}
			}
			if _, member := src[n]; !member {
				return nil, &Error{Op: "SplitCluster", Cluster: id, Node: string(n), Cause: ErrInvalidSplit}
			}
			seen[n] = true
			covered++
		}
	}
	if covered != len(src) {
		return nil, &Error{Op: "SplitCluster", Cluster: id, Count: len(src) - covered, Cause: ErrInvalidSplit}
	}

	ids := make([]ClusterID, 0, len(subsets))
	for _, sub := range subsets {
		nid := p.mint()
		set := make(map[graph.NodeID]struct{}, len(sub))
		for _, n := range sub {
			set[n] = struct{}{}
			p.nodeCluster[n] = nid
		}
		p.members[nid] = set
		p.meta[nid] = Meta{Parent: id, InitialSize: len(sub)}
		ids = append(ids, nid)
	}
	delete(p.members, id)
	return ids, nil
}

// Labels returns the final node-to-cluster mapping as a copy.
func (p *Partition) Labels() map[graph.NodeID]ClusterID {
	out := make(map[graph.NodeID]ClusterID, len(p.nodeCluster))
	for n, id := range p.nodeCluster {
		out[n] = id
	}
	return out
}

// LineageEntry is one cluster, live or retired, with its ancestry.
type LineageEntry struct {
	ID     ClusterID `json:"id"`
	Parent ClusterID `json:"parent,omitempty"`
	Origin string    `json:"origin,omitempty"`
	Size   int       `json:"size"`
	Extant bool      `json:"extant"`
}

// Lineage returns every cluster ever minted, in ID order. Retired clusters
// report their size at creation.
func (p *Partition) Lineage() []LineageEntry {
	out := make([]LineageEntry, 0, len(p.meta))
	for id := ClusterID(1); id < p.nextID; id++ {
		m, ok := p.meta[id]
		if !ok {
			continue
		}
		e := LineageEntry{ID: id, Parent: m.Parent, Origin: m.Origin, Size: m.InitialSize}
		if members, live := p.members[id]; live {
			e.Extant = true
			e.Size = len(members)
		}
		out = append(out, e)
	}
	return out
}
