// Package slither is the public entry point to the Slitherlink
// solver: load a grid, configure a search, and render a solution.
// Everything under internal/ is wired together here; callers never
// import internal/ packages directly.
package slither

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/heuristic"
	"github.com/slitherlink/solver/internal/ioformat"
	"github.com/slitherlink/solver/internal/search"
	"github.com/slitherlink/solver/internal/state"
	"github.com/slitherlink/solver/internal/validate"
)

// Grid is an immutable puzzle: R rows, C columns, and a clue array
// indexed r*C+c with -1 marking a blank cell.
type Grid struct {
	R, C  int
	Clues []int
}

// LoadGrid parses a puzzle from r in the text format documented
// alongside the loader (an "R C" header followed by R clue rows).
func LoadGrid(r io.Reader) (*Grid, error) {
	g, err := ioformat.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Grid{R: g.R, C: g.C, Clues: g.Clues}, nil
}

// Config selects how a search explores the grid.
type Config struct {
	// Threads is the worker count. 0 selects CPUFraction-derived auto
	// sizing; 1 forces deterministic sequential search.
	Threads int
	// CPUFraction is the share of hardware threads to use when
	// Threads == 0. Must be in (0, 1].
	CPUFraction float64
	// FindAll requests every solution up to MaxSolutions.
	FindAll bool
	// MaxSolutions caps the result count in FindAll mode. -1 is
	// unlimited.
	MaxSolutions int64
	// Timeout bounds the search. 0 means no timeout.
	Timeout time.Duration
}

// DefaultConfig is a single-solution search at half the machine's
// hardware threads, with no cap and no timeout.
func DefaultConfig() Config {
	return Config{
		Threads:      0,
		CPUFraction:  0.5,
		FindAll:      false,
		MaxSolutions: -1,
		Timeout:      0,
	}
}

// Point is a lattice corner in (row, col) form.
type Point struct {
	R, C int
}

// Solution is one accepted loop assignment: the value of every edge
// (indexable via Graph's Horizontal/VerticalEdge helpers) plus the
// cycle's points in traversal order.
type Solution struct {
	EdgeOn      []bool
	CyclePoints []Point
}

// DeadlockAlert reports one parallel branch that ran far longer than
// expected. Always empty when the search ran single-threaded.
type DeadlockAlert struct {
	TaskID      string
	Description string
	Running     time.Duration
}

// SolveAllResult is the outcome of SolveAll: the solutions found,
// whether the search ran to completion, and any stuck-branch alerts
// the parallel driver observed along the way.
type SolveAllResult struct {
	Solutions []Solution
	Complete  bool
	Alerts    []DeadlockAlert
}

func toDriver(g *Grid) (*graph.Graph, *search.Driver) {
	gr := graph.Build(g.R, g.C)
	d := search.New(gr, g.Clues, heuristic.NewMinBranching(g.Clues))
	return gr, d
}

func toPublicSolution(s search.Solution) Solution {
	edgeOn := make([]bool, len(s.EdgeAssignment))
	for i, v := range s.EdgeAssignment {
		edgeOn[i] = v == state.On
	}
	points := make([]Point, len(s.CyclePoints))
	for i, p := range s.CyclePoints {
		points[i] = Point{R: p.R, C: p.C}
	}
	return Solution{EdgeOn: edgeOn, CyclePoints: points}
}

func toSearchConfig(cfg Config, findAll bool, maxSolutions int64) search.Config {
	return search.Config{
		Threads:      cfg.Threads,
		CPUFraction:  cfg.CPUFraction,
		FindAll:      findAll,
		MaxSolutions: maxSolutions,
		Timeout:      cfg.Timeout,
	}
}

// SolveFirst searches grid for a single solution. It returns ok=false
// (with no error) when the grid has no valid loop.
func SolveFirst(ctx context.Context, grid *Grid, cfg Config) (*Solution, bool, error) {
	_, d := toDriver(grid)
	result := d.Run(ctx, toSearchConfig(cfg, false, 1))
	if len(result.Solutions) == 0 {
		return nil, false, nil
	}
	sol := toPublicSolution(result.Solutions[0])
	return &sol, true, nil
}

// SolveAll searches grid for every solution, up to cfg.MaxSolutions
// (-1 for unlimited). Result.Complete is false if cfg.Timeout or ctx
// cancellation cut the search short; Result.Solutions still holds
// whatever was found up to that point.
func SolveAll(ctx context.Context, grid *Grid, cfg Config) (SolveAllResult, error) {
	_, d := toDriver(grid)
	result := d.Run(ctx, toSearchConfig(cfg, true, cfg.MaxSolutions))

	solutions := make([]Solution, len(result.Solutions))
	for i, s := range result.Solutions {
		solutions[i] = toPublicSolution(s)
	}
	alerts := make([]DeadlockAlert, len(result.Alerts))
	for i, a := range result.Alerts {
		alerts[i] = DeadlockAlert{TaskID: a.TaskID, Description: a.Description, Running: a.Running}
	}
	return SolveAllResult{Solutions: solutions, Complete: result.Complete, Alerts: alerts}, nil
}

// Render writes sol as ASCII art: grid points as '+', horizontal
// edges as '-' or ' ', vertical edges as '|' or ' ', and each cell's
// clue digit (or a space for blank) in its center.
func Render(w io.Writer, grid *Grid, sol *Solution) error {
	g := graph.Build(grid.R, grid.C)

	edgeOn := func(e int) bool {
		if e < 0 || e >= len(sol.EdgeOn) {
			return false
		}
		return sol.EdgeOn[e]
	}

	for row := 0; row <= grid.R; row++ {
		line := make([]byte, 0, grid.C*4)
		for col := 0; col < grid.C; col++ {
			line = append(line, '+')
			if edgeOn(g.HorizontalEdge(row, col)) {
				line = append(line, '-', '-', '-')
			} else {
				line = append(line, ' ', ' ', ' ')
			}
		}
		line = append(line, '+')
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}

		if row == grid.R {
			break
		}

		line = line[:0]
		for col := 0; col <= grid.C; col++ {
			if edgeOn(g.VerticalEdge(row, col)) {
				line = append(line, '|')
			} else {
				line = append(line, ' ')
			}
			if col < grid.C {
				clue := grid.Clues[g.CellIndex(row, col)]
				if clue == -1 {
					line = append(line, ' ', ' ', ' ')
				} else {
					line = append(line, ' ', byte('0'+clue), ' ')
				}
			}
		}
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}
	}

	return nil
}

// VerifySolution re-checks a Solution's edge assignment against clue
// satisfaction and the single-loop condition, independent of how it
// was produced. Useful for an external sanity check on a solution
// read back from disk rather than returned directly by SolveFirst or
// SolveAll.
func VerifySolution(grid *Grid, sol *Solution) bool {
	g := graph.Build(grid.R, grid.C)
	st := state.New(g)
	for e, on := range sol.EdgeOn {
		if on {
			st.SetEdgeOn(e)
		} else {
			st.SetEdgeOff(e)
		}
	}
	_, ok := validate.Check(g, st, grid.Clues)
	return ok
}
