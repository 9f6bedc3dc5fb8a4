// Package state implements the mutable per-branch search state: the
// edge assignment array and the derived point/cell counters, kept in
// sync via a trail of applied decisions.
//
// Rather than copying the whole counter set on every branch (the
// simplest correct semantics, and what Clone still provides for the
// cases that need two fully independent States), the normal path
// mutates one State in place and records just enough per decision (the
// edge id and the value it was set to) to reverse it later.
// Undo(mark) walks the trail back to a saved Snapshot() position,
// recomputing which counters to decrement from the graph's fixed
// edge-to-point/edge-to-cell adjacency, which is already available and
// never changes. This differential undo stack is observationally
// equivalent to cloning the whole state before every decision, at a
// fraction of the cost.
package state

import "github.com/slitherlink/solver/internal/graph"

// Value is the state of one edge.
type Value int8

const (
	Undecided Value = 0
	On        Value = 1
	Off       Value = -1
)

// State is mutable and owned by exactly one search branch at a time.
// It is not safe for concurrent use; parallel branches each get their
// own State via Clone.
type State struct {
	g *graph.Graph

	EdgeState      []Value
	PointDegree    []int
	PointUndecided []int
	CellOn         []int
	CellUndecided  []int

	trail []decision
}

type decision struct {
	edge  int
	value Value
}

// New builds the root State for g: every edge undecided, every point's
// undecided count at its full degree, every cell's undecided count at
// 4.
func New(g *graph.Graph) *State {
	s := &State{
		g:              g,
		EdgeState:      make([]Value, len(g.Edges)),
		PointDegree:    make([]int, g.NumPoints()),
		PointUndecided: make([]int, g.NumPoints()),
		CellOn:         make([]int, g.NumCells()),
		CellUndecided:  make([]int, g.NumCells()),
	}
	for p := 0; p < g.NumPoints(); p++ {
		s.PointUndecided[p] = g.PointDegree(p)
	}
	for c := 0; c < g.NumCells(); c++ {
		s.CellUndecided[c] = 4
	}
	return s
}

// Graph returns the graph this State was built from.
func (s *State) Graph() *graph.Graph { return s.g }

// CellOff returns the number of an off edges bordering cell c, derived
// from the invariant cell_on + cell_undecided + cell_off == 4.
func (s *State) CellOff(c int) int { return 4 - s.CellOn[c] - s.CellUndecided[c] }

// Clone returns a deep, independent copy with an empty trail. Used
// when a branch must be handed to an independent goroutine that
// cannot share this State's trail.
func (s *State) Clone() *State {
	c := &State{
		g:              s.g,
		EdgeState:      append([]Value(nil), s.EdgeState...),
		PointDegree:    append([]int(nil), s.PointDegree...),
		PointUndecided: append([]int(nil), s.PointUndecided...),
		CellOn:         append([]int(nil), s.CellOn...),
		CellUndecided:  append([]int(nil), s.CellUndecided...),
	}
	return c
}

// Snapshot returns a mark that can later be passed to Undo to reverse
// every decision applied since this call.
func (s *State) Snapshot() int { return len(s.trail) }

// Undo reverses every decision applied since the Snapshot call that
// produced mark. mark must be a value previously returned by Snapshot
// on this same State, not since passed to Undo itself.
func (s *State) Undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		d := s.trail[i]
		s.revert(d.edge, d.value)
	}
	s.trail = s.trail[:mark]
}

// SetEdgeOn assigns edge e to On. e must currently be Undecided;
// re-deciding an already-decided edge is a programming error and
// panics.
func (s *State) SetEdgeOn(e int) {
	if s.EdgeState[e] != Undecided {
		panic("state: SetEdgeOn on an already-decided edge")
	}
	s.apply(e, On)
}

// SetEdgeOff assigns edge e to Off. Same re-decision contract as
// SetEdgeOn.
func (s *State) SetEdgeOff(e int) {
	if s.EdgeState[e] != Undecided {
		panic("state: SetEdgeOff on an already-decided edge")
	}
	s.apply(e, Off)
}

func (s *State) apply(e int, v Value) {
	edge := s.g.Edges[e]

	s.PointUndecided[edge.U]--
	s.PointUndecided[edge.V]--
	if v == On {
		s.PointDegree[edge.U]++
		s.PointDegree[edge.V]++
	}

	if edge.A != -1 {
		s.CellUndecided[edge.A]--
		if v == On {
			s.CellOn[edge.A]++
		}
	}
	if edge.B != -1 {
		s.CellUndecided[edge.B]--
		if v == On {
			s.CellOn[edge.B]++
		}
	}

	s.EdgeState[e] = v
	s.trail = append(s.trail, decision{edge: e, value: v})
}

func (s *State) revert(e int, v Value) {
	edge := s.g.Edges[e]

	s.PointUndecided[edge.U]++
	s.PointUndecided[edge.V]++
	if v == On {
		s.PointDegree[edge.U]--
		s.PointDegree[edge.V]--
	}

	if edge.A != -1 {
		s.CellUndecided[edge.A]++
		if v == On {
			s.CellOn[edge.A]--
		}
	}
	if edge.B != -1 {
		s.CellUndecided[edge.B]++
		if v == On {
			s.CellOn[edge.B]--
		}
	}

	s.EdgeState[e] = Undecided
}

// NumUndecided returns how many edges remain undecided.
func (s *State) NumUndecided() int {
	n := 0
	for _, v := range s.EdgeState {
		if v == Undecided {
			n++
		}
	}
	return n
}
