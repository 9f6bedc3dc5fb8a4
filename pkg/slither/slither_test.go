package slither

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoadGridAndSolveFirst(t *testing.T) {
	grid, err := LoadGrid(strings.NewReader("2 2\n22\n22\n"))
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}

	sol, ok, err := SolveFirst(context.Background(), grid, DefaultConfig())
	if err != nil {
		t.Fatalf("SolveFirst: %v", err)
	}
	if !ok {
		t.Fatal("expected a solution for the trivial 2x2 grid")
	}
	if !VerifySolution(grid, sol) {
		t.Error("VerifySolution rejected a solution SolveFirst returned")
	}
}

func TestSolveFirstNoSolution(t *testing.T) {
	grid, err := LoadGrid(strings.NewReader("2 2\n03\n30\n"))
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}

	_, ok, err := SolveFirst(context.Background(), grid, DefaultConfig())
	if err != nil {
		t.Fatalf("SolveFirst: %v", err)
	}
	if ok {
		t.Fatal("expected no solution for an unsatisfiable grid")
	}
}

func TestSolveAllFindsExactlyOneUnique(t *testing.T) {
	grid, err := LoadGrid(strings.NewReader("3 3\n3.2\n..1\n0.3\n"))
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.FindAll = true
	result, err := SolveAll(context.Background(), grid, cfg)
	if err != nil {
		t.Fatalf("SolveAll: %v", err)
	}
	if !result.Complete {
		t.Fatal("expected a complete search")
	}
	if len(result.Solutions) != 1 {
		t.Fatalf("expected exactly 1 solution, got %d", len(result.Solutions))
	}
}

func TestRenderPrintsPointRowsAndCellRows(t *testing.T) {
	grid, err := LoadGrid(strings.NewReader("2 2\n22\n22\n"))
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}
	sol, ok, err := SolveFirst(context.Background(), grid, DefaultConfig())
	if err != nil || !ok {
		t.Fatalf("SolveFirst: ok=%v err=%v", ok, err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, grid, sol); err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2*grid.R+1 {
		t.Errorf("expected %d output lines, got %d", 2*grid.R+1, len(lines))
	}
}
