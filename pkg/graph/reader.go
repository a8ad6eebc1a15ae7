package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"
)

// ReadEdgeList parses a whitespace-delimited edge list: one
// "source target [weight]" triple per line. Lines starting with '#' or '%'
// and blank lines are skipped. A missing weight defaults to 1.0.
func ReadEdgeList(r io.Reader) ([]Edge, error) {
	var edges []Edge
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "%") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, &EdgeError{Op: "ReadEdgeList", Source: text, Line: line, Cause: ErrMalformedEdge}
		}

		weight := 1.0
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &EdgeError{
					Op: "ReadEdgeList", Source: fields[0], Target: fields[1], Line: line,
					Cause: fmt.Errorf("%w: bad weight %q", ErrMalformedEdge, fields[2]),
				}
			}
			weight = w
		}

		edges = append(edges, Edge{Source: NodeID(fields[0]), Target: NodeID(fields[1]), Weight: weight})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ReadEdgeList: %w", err)
	}
	return edges, nil
}

// ReadEdgeListFile parses an edge list from disk through a memory-mapped
// reader, avoiding double-buffering on multi-gigabyte network files.
func ReadEdgeListFile(path string) ([]Edge, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadEdgeListFile %s: %w", path, err)
	}
	defer r.Close()

	edges, err := ReadEdgeList(io.NewSectionReader(r, 0, int64(r.Len())))
	if err != nil {
		return nil, fmt.Errorf("ReadEdgeListFile %s: %w", path, err)
	}
	return edges, nil
}
