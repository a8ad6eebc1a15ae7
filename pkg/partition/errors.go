package partition

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrIncompletePartition = errors.New("partition does not cover all graph nodes")
	ErrUnknownNode         = errors.New("node not in graph")
	ErrUnknownCluster      = errors.New("cluster not found")
	ErrNodeNotInCluster    = errors.New("node not in cluster")
	ErrInvalidSplit        = errors.New("invalid split")
)

// Error provides structured error information for partition operations.
type Error struct {
	Op      string    // Operation that failed (e.g., "Load", "SplitCluster")
	Cluster ClusterID // Cluster involved (0 if not applicable)
	Node    string    // Node involved ("" if not applicable)
	Count   int       // Node count involved (0 if not applicable)
	Cause   error     // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cluster != 0 && e.Node != "":
		return fmt.Sprintf("%s cluster %d node %q: %v", e.Op, e.Cluster, e.Node, e.Cause)
	case e.Cluster != 0 && e.Count != 0:
		return fmt.Sprintf("%s cluster %d (%d nodes): %v", e.Op, e.Cluster, e.Count, e.Cause)
	case e.Cluster != 0:
		return fmt.Sprintf("%s cluster %d: %v", e.Op, e.Cluster, e.Cause)
	case e.Node != "":
		return fmt.Sprintf("%s node %q: %v", e.Op, e.Node, e.Cause)
	case e.Count != 0:
		return fmt.Sprintf("%s (%d nodes): %v", e.Op, e.Count, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
