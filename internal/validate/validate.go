// Package validate checks a complete State against the two acceptance
// conditions of a solved grid: every clue satisfied, and the ON-edge
// subgraph forming a single closed loop rather than a union of
// disjoint cycles. The propagator's local rules cannot detect the
// multi-cycle case; only this final pass can.
package validate

import (
	"sort"

	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/state"
)

// Point is a lattice corner in (row, col) form.
type Point struct {
	R, C int
}

// QuicklyUnsolvable performs a cheap, non-mutating scan for a
// contradiction the full fixpoint would otherwise have to allocate
// two worklists to discover: any clued cell already over- or
// under-committed, or any point whose on-degree already exceeds 2 or
// is stuck at degree 1 with no undecided edge left to complete it.
func QuicklyUnsolvable(g *graph.Graph, st *state.State, clues []int) bool {
	for c, clue := range clues {
		if clue == -1 {
			continue
		}
		on := st.CellOn[c]
		undecided := st.CellUndecided[c]
		if on > clue || on+undecided < clue {
			return true
		}
	}

	for p := 0; p < g.NumPoints(); p++ {
		degree := st.PointDegree[p]
		undecided := st.PointUndecided[p]
		if degree > 2 || (degree == 1 && undecided == 0) {
			return true
		}
	}

	return false
}

// Check validates a complete state (no undecided edges) against the
// clues and the single-loop condition. On success it returns the
// cycle's points in traversal order, starting from the lowest-id
// on-point and proceeding to its lowest-id neighbor first.
func Check(g *graph.Graph, st *state.State, clues []int) ([]Point, bool) {
	for c, clue := range clues {
		if clue == -1 {
			continue
		}
		if st.CellOn[c] != clue {
			return nil, false
		}
	}

	onNeighbors := make([][]int, g.NumPoints())
	degree2 := make([]int, 0)
	for p := 0; p < g.NumPoints(); p++ {
		for _, e := range g.EdgesOfPoint[p] {
			if st.EdgeState[e] != state.On {
				continue
			}
			edge := g.Edges[e]
			other := edge.U
			if other == p {
				other = edge.V
			}
			onNeighbors[p] = append(onNeighbors[p], other)
		}
		switch len(onNeighbors[p]) {
		case 0:
		case 2:
			degree2 = append(degree2, p)
		default:
			return nil, false // not a 0-or-2-regular subgraph
		}
	}

	if len(degree2) == 0 {
		return nil, false // no loop at all
	}

	for _, neighbors := range onNeighbors {
		sort.Ints(neighbors)
	}

	start := degree2[0]
	visited := make(map[int]bool, len(degree2))
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range onNeighbors[p] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(visited) != len(degree2) {
		return nil, false // multiple disjoint cycles
	}

	path := walkCycle(start, onNeighbors)
	points := make([]Point, len(path))
	for i, p := range path {
		points[i] = pointCoord(g, p)
	}
	return points, true
}

// walkCycle traverses the single cycle starting at p0, stepping to its
// lowest-id neighbor first and then always forward (away from the
// point just visited) until it returns to p0.
func walkCycle(p0 int, onNeighbors [][]int) []int {
	path := make([]int, 0, len(onNeighbors))

	prev := -1
	cur := p0
	for {
		path = append(path, cur)

		a, b := onNeighbors[cur][0], onNeighbors[cur][1]
		next := a
		if a == prev {
			next = b
		}

		if next == p0 {
			break
		}
		prev = cur
		cur = next
	}

	return path
}

func pointCoord(g *graph.Graph, p int) Point {
	return Point{R: p / (g.C + 1), C: p % (g.C + 1)}
}
