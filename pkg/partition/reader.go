package partition

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/clusolabs/cmgraph/pkg/graph"
)

// ReadMembership parses an existing clustering: one "node cluster" pair per
// whitespace-delimited line, as produced by Leiden-style tools. Lines
// starting with '#' and blank lines are skipped.
func ReadMembership(r io.Reader) (map[graph.NodeID]string, error) {
	out := make(map[graph.NodeID]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("ReadMembership: line %d: expected \"node cluster\", got %q", line, text)
		}
		node := graph.NodeID(fields[0])
		if prev, dup := out[node]; dup && prev != fields[1] {
			return nil, fmt.Errorf("ReadMembership: line %d: node %q assigned to both %q and %q", line, fields[0], prev, fields[1])
		}
		out[node] = fields[1]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ReadMembership: %w", err)
	}
	return out, nil
}
