// Package propagate implements the deterministic fixpoint constraint
// propagator: from the current search state, it derives every edge
// assignment forced by a cell's clue or a point's degree bound, or
// reports a contradiction.
//
// The fixpoint loop is a classic two-worklist algorithm: a cell queue
// and a point queue, each with a parallel queued-flag slice to keep
// duplicate entries out, generalized to two independent entity kinds
// instead of one.
package propagate

import (
	"errors"

	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/state"
)

// ErrContradiction is returned by Propagate and ApplyDecision when the
// state cannot be extended to a valid solution. The branch that
// produced it must be abandoned; the caller is responsible for
// undoing back to a snapshot taken before the call.
var ErrContradiction = errors.New("propagate: contradiction")

// Propagator applies the cell-clue and point-degree forcing rules to
// a State.
type Propagator struct {
	g     *graph.Graph
	clues []int // length NumCells(), -1 for a blank cell
}

// New creates a Propagator for g with the given clue array (length
// g.NumCells(), -1 for blank cells).
func New(g *graph.Graph, clues []int) *Propagator {
	return &Propagator{g: g, clues: clues}
}

// Propagate runs the two-worklist fixpoint over every clued cell and
// every point, mutating st in place. It returns ErrContradiction if
// any rule's bound is violated; st may be partially modified in that
// case and must be discarded (undone) by the caller.
//
// Each call reseeds both worklists from scratch rather than resuming
// from wherever propagation last stopped. The rules form a confluent,
// monotone system, so reprocessing an entity already at fixpoint is a
// cheap no-op; this keeps a State's queues out of the trail entirely;
// only edge_state and the four counter arrays need to survive Undo.
func (p *Propagator) Propagate(st *state.State) error {
	cellQueue := make([]int, 0, len(p.clues))
	cellQueued := make([]bool, len(p.clues))
	for c, clue := range p.clues {
		if clue != -1 {
			cellQueue = append(cellQueue, c)
			cellQueued[c] = true
		}
	}

	n := p.g.NumPoints()
	pointQueue := make([]int, n)
	pointQueued := make([]bool, n)
	for pt := 0; pt < n; pt++ {
		pointQueue[pt] = pt
		pointQueued[pt] = true
	}

	requeue := func(e int) {
		edge := p.g.Edges[e]
		for _, c := range [2]int{edge.A, edge.B} {
			if c != -1 && p.clues[c] != -1 && !cellQueued[c] {
				cellQueued[c] = true
				cellQueue = append(cellQueue, c)
			}
		}
		for _, pt := range [2]int{edge.U, edge.V} {
			if !pointQueued[pt] {
				pointQueued[pt] = true
				pointQueue = append(pointQueue, pt)
			}
		}
	}

	for len(cellQueue) > 0 || len(pointQueue) > 0 {
		if len(cellQueue) > 0 {
			c := cellQueue[0]
			cellQueue = cellQueue[1:]
			cellQueued[c] = false
			if err := p.processCell(st, c, requeue); err != nil {
				return err
			}
			continue
		}

		pt := pointQueue[0]
		pointQueue = pointQueue[1:]
		pointQueued[pt] = false
		if err := p.processPoint(st, pt, requeue); err != nil {
			return err
		}
	}

	return nil
}

func (p *Propagator) processCell(st *state.State, c int, requeue func(int)) error {
	clue := p.clues[c]
	on := st.CellOn[c]
	undecided := st.CellUndecided[c]

	if on > clue || on+undecided < clue {
		return ErrContradiction
	}

	switch {
	case on+undecided == clue:
		for _, e := range st.Graph().EdgesOfCell[c] {
			if st.EdgeState[e] == state.Undecided {
				st.SetEdgeOn(e)
				requeue(e)
			}
		}
	case on == clue && undecided > 0:
		for _, e := range st.Graph().EdgesOfCell[c] {
			if st.EdgeState[e] == state.Undecided {
				st.SetEdgeOff(e)
				requeue(e)
			}
		}
	}

	return nil
}

func (p *Propagator) processPoint(st *state.State, pt int, requeue func(int)) error {
	degree := st.PointDegree[pt]
	undecided := st.PointUndecided[pt]

	if degree > 2 || (degree == 1 && undecided == 0) {
		return ErrContradiction
	}

	switch {
	case degree == 1 && undecided == 1:
		for _, e := range st.Graph().EdgesOfPoint[pt] {
			if st.EdgeState[e] == state.Undecided {
				st.SetEdgeOn(e)
				requeue(e)
				break
			}
		}
	case degree == 2 && undecided > 0:
		for _, e := range st.Graph().EdgesOfPoint[pt] {
			if st.EdgeState[e] == state.Undecided {
				st.SetEdgeOff(e)
				requeue(e)
			}
		}
	}

	return nil
}

// ApplyDecision sets one undecided edge to value v, updating all four
// counter arrays, then performs the immediate bound check (not a full
// fixpoint) on the cells and points incident to e. The caller runs
// Propagate afterwards if it wants the fixpoint consequences.
func (p *Propagator) ApplyDecision(st *state.State, e int, v state.Value) error {
	switch v {
	case state.On:
		st.SetEdgeOn(e)
	case state.Off:
		st.SetEdgeOff(e)
	default:
		panic("propagate: ApplyDecision requires On or Off")
	}

	edge := st.Graph().Edges[e]

	for _, pt := range [2]int{edge.U, edge.V} {
		degree := st.PointDegree[pt]
		undecided := st.PointUndecided[pt]
		if degree > 2 || (degree == 1 && undecided == 0) {
			return ErrContradiction
		}
	}

	for _, c := range [2]int{edge.A, edge.B} {
		if c == -1 || p.clues[c] == -1 {
			continue
		}
		clue := p.clues[c]
		on := st.CellOn[c]
		undecided := st.CellUndecided[c]
		if on > clue || on+undecided < clue {
			return ErrContradiction
		}
	}

	return nil
}
