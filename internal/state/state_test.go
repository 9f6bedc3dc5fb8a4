package state

import (
	"testing"

	"github.com/slitherlink/solver/internal/graph"
)

func TestNewStateStartsAllUndecided(t *testing.T) {
	g := graph.Build(2, 2)
	st := New(g)

	for e := range st.EdgeState {
		if st.EdgeState[e] != Undecided {
			t.Errorf("edge %d: expected Undecided, got %v", e, st.EdgeState[e])
		}
	}
	for p := 0; p < g.NumPoints(); p++ {
		if st.PointUndecided[p] != g.PointDegree(p) {
			t.Errorf("point %d: expected PointUndecided %d, got %d", p, g.PointDegree(p), st.PointUndecided[p])
		}
		if st.PointDegree[p] != 0 {
			t.Errorf("point %d: expected PointDegree 0, got %d", p, st.PointDegree[p])
		}
	}
	for c := 0; c < g.NumCells(); c++ {
		if st.CellUndecided[c] != 4 {
			t.Errorf("cell %d: expected CellUndecided 4, got %d", c, st.CellUndecided[c])
		}
	}
}

func TestSetEdgeOnUpdatesCounters(t *testing.T) {
	g := graph.Build(2, 2)
	st := New(g)

	e := g.HorizontalEdge(0, 0)
	edge := g.Edges[e]
	st.SetEdgeOn(e)

	if st.EdgeState[e] != On {
		t.Fatalf("expected edge state On, got %v", st.EdgeState[e])
	}
	if st.PointDegree[edge.U] != 1 || st.PointDegree[edge.V] != 1 {
		t.Errorf("expected both endpoints at degree 1")
	}
	if edge.B != -1 && st.CellOn[edge.B] != 1 {
		t.Errorf("expected bordering cell on-count 1")
	}
}

func TestSetEdgeOnAlreadyDecidedPanics(t *testing.T) {
	g := graph.Build(2, 2)
	st := New(g)
	e := g.HorizontalEdge(0, 0)
	st.SetEdgeOn(e)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when re-deciding an already-decided edge")
		}
	}()
	st.SetEdgeOn(e)
}

func TestUndoReversesDecisions(t *testing.T) {
	g := graph.Build(2, 2)
	st := New(g)

	mark := st.Snapshot()
	e1 := g.HorizontalEdge(0, 0)
	e2 := g.VerticalEdge(0, 0)
	st.SetEdgeOn(e1)
	st.SetEdgeOff(e2)

	st.Undo(mark)

	if st.EdgeState[e1] != Undecided || st.EdgeState[e2] != Undecided {
		t.Fatal("expected both edges undecided after Undo")
	}
	if st.NumUndecided() != len(g.Edges) {
		t.Errorf("expected all edges undecided, got %d/%d", st.NumUndecided(), len(g.Edges))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := graph.Build(2, 2)
	st := New(g)
	e := g.HorizontalEdge(0, 0)
	st.SetEdgeOn(e)

	clone := st.Clone()
	e2 := g.HorizontalEdge(0, 1)
	clone.SetEdgeOff(e2)

	if st.EdgeState[e2] != Undecided {
		t.Fatal("mutating the clone should not affect the original")
	}
	if clone.EdgeState[e] != On {
		t.Fatal("the clone should carry over decisions made before Clone")
	}
}

func TestCellOffDerivedFromInvariant(t *testing.T) {
	g := graph.Build(1, 1)
	st := New(g)

	// A single cell: turn two edges on, one off, leave one undecided.
	edges := g.EdgesOfCell[0]
	st.SetEdgeOn(edges[0])
	st.SetEdgeOn(edges[1])
	st.SetEdgeOff(edges[2])

	if st.CellOn[0] != 2 {
		t.Errorf("expected CellOn 2, got %d", st.CellOn[0])
	}
	if st.CellUndecided[0] != 1 {
		t.Errorf("expected CellUndecided 1, got %d", st.CellUndecided[0])
	}
	if st.CellOff(0) != 1 {
		t.Errorf("expected CellOff 1, got %d", st.CellOff(0))
	}
}
