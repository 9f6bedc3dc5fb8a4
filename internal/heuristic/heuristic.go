// Package heuristic selects which undecided edge the search driver
// should branch on next.
//
// The Heuristic contract mirrors a labeling-strategy interface:
// pick a variable (here, an edge) and let the caller decide value
// order, plus Name()/Description() for introspection. It is
// generalized from "pick a variable, offer its value choices" to
// "pick an edge", since a Slitherlink edge only ever has two possible
// values and the search driver already knows to try off before on.
package heuristic

import (
	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/state"
)

// Heuristic picks the next edge to branch on.
type Heuristic interface {
	// Select returns the id of an undecided edge to branch on next,
	// or ok=false if every edge is already decided.
	Select(g *graph.Graph, st *state.State) (edge int, ok bool)
	Name() string
	Description() string
}

// MinBranchingHeuristic is the default selection policy: prefer an
// edge whose assignment is already forced to one branch by an
// endpoint's degree, else prefer the edge whose ON/OFF choice is most
// likely to cascade into further forced decisions.
type MinBranchingHeuristic struct {
	clues []int
}

// NewMinBranching creates the default heuristic for a puzzle with the
// given clue array (length g.NumCells(), -1 for blank).
func NewMinBranching(clues []int) *MinBranchingHeuristic {
	return &MinBranchingHeuristic{clues: clues}
}

func (h *MinBranchingHeuristic) Name() string { return "min-branching" }

func (h *MinBranchingHeuristic) Description() string {
	return "prefers forced (single-branch) edges, then scores the rest by forcing potential"
}

func (h *MinBranchingHeuristic) Select(g *graph.Graph, st *state.State) (int, bool) {
	bestEdge := -1
	bestScore := -1

	for e, v := range st.EdgeState {
		if v != state.Undecided {
			continue
		}
		edge := g.Edges[e]

		if isForcedEndpoint(st, edge.U) || isForcedEndpoint(st, edge.V) {
			return e, true
		}

		score := 0
		if st.PointDegree[edge.U] == 1 || st.PointDegree[edge.V] == 1 {
			score += 10000
		}
		if isOpenPair(st, edge.U) || isOpenPair(st, edge.V) {
			score += 5000
		}
		score += h.cellScore(st, edge.A)
		score += h.cellScore(st, edge.B)

		if score > bestScore {
			bestScore = score
			bestEdge = e
		}
	}

	if bestEdge == -1 {
		return -1, false
	}
	return bestEdge, true
}

// isForcedEndpoint reports whether point p's degree already pins the
// branch factor of every incident undecided edge to one: either the
// point needs exactly its one remaining undecided edge (degree 1, one
// undecided left, so that edge must end up on), or the point already
// has degree 2 (so every remaining undecided edge must end up off).
func isForcedEndpoint(st *state.State, p int) bool {
	degree := st.PointDegree[p]
	undecided := st.PointUndecided[p]
	return (degree == 1 && undecided == 1) || degree >= 2
}

// isOpenPair reports whether point p is untouched (degree 0) with
// exactly two undecided edges left, the case where p's own two
// remaining choices will resolve together.
func isOpenPair(st *state.State, p int) bool {
	return st.PointDegree[p] == 0 && st.PointUndecided[p] == 2
}

func (h *MinBranchingHeuristic) cellScore(st *state.State, c int) int {
	if c == -1 || h.clues[c] == -1 {
		return 0
	}
	need := h.clues[c] - st.CellOn[c]
	undecided := st.CellUndecided[c]

	switch {
	case need == undecided || need == 0:
		return 2000
	case undecided == 1:
		return 1500
	case undecided <= 2:
		return 1000
	default:
		diff := 2*need - undecided
		if diff < 0 {
			diff = -diff
		}
		score := 100 - diff
		if score < 0 {
			score = 0
		}
		return score
	}
}

// FirstUndecidedHeuristic is a trivial baseline: it always returns the
// lowest-id undecided edge, with no scoring at all. It exists so a
// test can hold the search driver's correctness constant while
// swapping out heuristic quality: a driver that only finds solutions
// when wired to MinBranchingHeuristic would indicate a bug in the
// driver, not the heuristic.
type FirstUndecidedHeuristic struct{}

// NewFirstUndecided creates the baseline heuristic.
func NewFirstUndecided() *FirstUndecidedHeuristic { return &FirstUndecidedHeuristic{} }

func (h *FirstUndecidedHeuristic) Name() string { return "first-undecided" }

func (h *FirstUndecidedHeuristic) Description() string {
	return "picks the lowest-id undecided edge, ignoring all constraint structure"
}

func (h *FirstUndecidedHeuristic) Select(g *graph.Graph, st *state.State) (int, bool) {
	for e, v := range st.EdgeState {
		if v == state.Undecided {
			return e, true
		}
	}
	return -1, false
}

// DegreeWeightedHeuristic is a second, simpler strategy that scores an
// edge purely by how constrained its endpoints already are. It is
// never the default; it exists so a caller can compare it against
// MinBranchingHeuristic, the same way a solver can ship several
// interchangeable labeling strategies side by side.
type DegreeWeightedHeuristic struct{}

// NewDegreeWeighted creates the comparison heuristic.
func NewDegreeWeighted() *DegreeWeightedHeuristic { return &DegreeWeightedHeuristic{} }

func (h *DegreeWeightedHeuristic) Name() string { return "degree-weighted" }

func (h *DegreeWeightedHeuristic) Description() string {
	return "picks the undecided edge whose endpoints have the highest combined degree"
}

func (h *DegreeWeightedHeuristic) Select(g *graph.Graph, st *state.State) (int, bool) {
	bestEdge := -1
	bestScore := -1

	for e, v := range st.EdgeState {
		if v != state.Undecided {
			continue
		}
		edge := g.Edges[e]
		score := st.PointDegree[edge.U] + st.PointDegree[edge.V]
		if score > bestScore {
			bestScore = score
			bestEdge = e
		}
	}

	if bestEdge == -1 {
		return -1, false
	}
	return bestEdge, true
}
