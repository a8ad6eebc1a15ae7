package graph

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadEdgeList(t *testing.T) {
	input := `# comment
a	b
b	c	2.5

% another comment
c	d
`
	edges, err := ReadEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEdgeList failed: %v", err)
	}

	if len(edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(edges))
	}
	if edges[0].Weight != 1.0 {
		t.Errorf("Expected default weight 1.0, got %g", edges[0].Weight)
	}
	if edges[1].Weight != 2.5 {
		t.Errorf("Expected parsed weight 2.5, got %g", edges[1].Weight)
	}
	if edges[2].Source != "c" || edges[2].Target != "d" {
		t.Errorf("Unexpected edge %v", edges[2])
	}
}

func TestReadEdgeList_SpaceDelimited(t *testing.T) {
	edges, err := ReadEdgeList(strings.NewReader("x y 3\n"))
	if err != nil {
		t.Fatalf("ReadEdgeList failed: %v", err)
	}
	if len(edges) != 1 || edges[0].Weight != 3 {
		t.Errorf("Unexpected edges %v", edges)
	}
}

func TestReadEdgeList_SingleField(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("a b\nlonely\n"))
	if !errors.Is(err, ErrMalformedEdge) {
		t.Fatalf("Expected ErrMalformedEdge, got %v", err)
	}

	var ee *EdgeError
	if !errors.As(err, &ee) {
		t.Fatalf("Expected *EdgeError, got %T", err)
	}
	if ee.Line != 2 {
		t.Errorf("Expected line 2, got %d", ee.Line)
	}
}

func TestReadEdgeList_BadWeight(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("a b heavy\n"))
	if !errors.Is(err, ErrMalformedEdge) {
		t.Errorf("Expected ErrMalformedEdge, got %v", err)
	}
}

func TestReadEdgeListFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.tsv")
	if err := os.WriteFile(path, []byte("a\tb\nb\tc\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	edges, err := ReadEdgeListFile(path)
	if err != nil {
		t.Fatalf("ReadEdgeListFile failed: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("Expected 2 edges, got %d", len(edges))
	}
}

func TestReadEdgeListFile_Missing(t *testing.T) {
	if _, err := ReadEdgeListFile(filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Error("Expected error for missing file")
	}
}
