package validate

import (
	"testing"

	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/state"
)

// outerLoop2x2 decides every edge of a 2x2 grid to match the S1
// scenario: the 8 perimeter edges on, the 4 inner cross edges off.
func outerLoop2x2(g *graph.Graph, st *state.State) {
	on := []int{
		g.HorizontalEdge(0, 0), g.HorizontalEdge(0, 1),
		g.HorizontalEdge(2, 0), g.HorizontalEdge(2, 1),
		g.VerticalEdge(0, 0), g.VerticalEdge(1, 0),
		g.VerticalEdge(0, 2), g.VerticalEdge(1, 2),
	}
	for _, e := range on {
		st.SetEdgeOn(e)
	}
	for e := range st.EdgeState {
		if st.EdgeState[e] == state.Undecided {
			st.SetEdgeOff(e)
		}
	}
}

func TestCheckAcceptsSingleOuterLoop(t *testing.T) {
	g := graph.Build(2, 2)
	st := state.New(g)
	clues := []int{2, 2, 2, 2}

	outerLoop2x2(g, st)

	points, ok := Check(g, st, clues)
	if !ok {
		t.Fatal("expected the outer loop to validate")
	}
	if len(points) != 8 {
		t.Errorf("expected an 8-point cycle, got %d points", len(points))
	}
}

func TestCheckRejectsUnsatisfiedClue(t *testing.T) {
	g := graph.Build(2, 2)
	st := state.New(g)
	clues := []int{2, 2, 2, 3} // cell 3 wants 3, the outer loop gives it 2

	outerLoop2x2(g, st)

	if _, ok := Check(g, st, clues); ok {
		t.Fatal("expected Check to reject a violated clue")
	}
}

func TestCheckRejectsDisjointCycles(t *testing.T) {
	// A 2x6 grid with two separate 2x2 loops, one at columns 0-1 and
	// one at columns 4-5, with a two-column gap between them so the
	// two loops share no lattice edge.
	g := graph.Build(2, 6)
	st := state.New(g)
	clues := make([]int, 12)
	for i := range clues {
		clues[i] = -1
	}

	on := []int{
		g.HorizontalEdge(0, 0), g.HorizontalEdge(0, 1),
		g.HorizontalEdge(2, 0), g.HorizontalEdge(2, 1),
		g.VerticalEdge(0, 0), g.VerticalEdge(1, 0),
		g.VerticalEdge(0, 2), g.VerticalEdge(1, 2),

		g.HorizontalEdge(0, 4), g.HorizontalEdge(0, 5),
		g.HorizontalEdge(2, 4), g.HorizontalEdge(2, 5),
		g.VerticalEdge(0, 4), g.VerticalEdge(1, 4),
		g.VerticalEdge(0, 6), g.VerticalEdge(1, 6),
	}
	for _, e := range on {
		st.SetEdgeOn(e)
	}
	for e := range st.EdgeState {
		if st.EdgeState[e] == state.Undecided {
			st.SetEdgeOff(e)
		}
	}

	if _, ok := Check(g, st, clues); ok {
		t.Fatal("expected Check to reject two disjoint cycles")
	}
}

func TestQuicklyUnsolvableDetectsCellOverflow(t *testing.T) {
	g := graph.Build(1, 1)
	st := state.New(g)
	clues := []int{1}

	edges := g.EdgesOfCell[0]
	st.SetEdgeOn(edges[0])
	st.SetEdgeOn(edges[1])

	if !QuicklyUnsolvable(g, st, clues) {
		t.Error("expected a cell with too many on-edges to be flagged unsolvable")
	}
}

func TestQuicklyUnsolvableAllowsFeasibleState(t *testing.T) {
	g := graph.Build(2, 2)
	st := state.New(g)
	clues := []int{3, 3, 3, 3}

	if QuicklyUnsolvable(g, st, clues) {
		t.Error("a fresh state should never be flagged unsolvable")
	}
}
