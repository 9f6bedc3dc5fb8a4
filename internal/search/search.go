// Package search implements the recursive backtracking driver: select
// an edge via a heuristic, branch on both values, run the propagator,
// and on a complete assignment hand the state to the loop validator.
//
// A single Driver runs either sequentially, sharing one State across
// the whole recursion through Snapshot/Undo, or in parallel, where an
// initial top-level frontier of cloned States is expanded and then
// searched independently on a work-stealing pool, mirroring the
// construct-pool/submit-one-task-per-branch/collect-under-a-mutex
// shape of a parallel goal executor generalized from logic-variable
// streams to a fixed edge array.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/slitherlink/solver/internal/graph"
	"github.com/slitherlink/solver/internal/heuristic"
	"github.com/slitherlink/solver/internal/parallel"
	"github.com/slitherlink/solver/internal/propagate"
	"github.com/slitherlink/solver/internal/state"
	"github.com/slitherlink/solver/internal/validate"
)

// Config controls how Driver.Run explores the search tree.
type Config struct {
	// Threads is the worker count. 0 selects CPUFraction-derived auto
	// sizing; 1 forces deterministic sequential DFS.
	Threads int
	// CPUFraction is the share of runtime.NumCPU() to use when
	// Threads == 0. Must be in (0, 1]; a value outside that range
	// falls back to 0.5.
	CPUFraction float64
	// FindAll requests every solution up to MaxSolutions rather than
	// stopping at the first.
	FindAll bool
	// MaxSolutions caps the result count in FindAll mode. -1 means
	// unlimited.
	MaxSolutions int64
	// Timeout bounds the search. 0 means no timeout.
	Timeout time.Duration
}

// DefaultConfig is a single-solution search at half the machine's
// hardware threads with no cap and no timeout.
func DefaultConfig() Config {
	return Config{
		Threads:      0,
		CPUFraction:  0.5,
		FindAll:      false,
		MaxSolutions: -1,
		Timeout:      0,
	}
}

// Solution is one candidate loop assignment accepted by the validator.
type Solution struct {
	EdgeAssignment []state.Value
	CyclePoints    []validate.Point
}

// Stats is internal bookkeeping exposed for diagnostics (e.g. a CLI's
// --verbose output); it is not part of the solver's acceptance
// contract.
type Stats struct {
	Branches       int64
	Contradictions int64
}

// DeadlockAlert reports one parallel branch that ran far longer than
// expected, surfaced from the pool's DeadlockDetector without pulling
// internal/parallel into callers' public surface.
type DeadlockAlert struct {
	TaskID      string
	Description string
	Running     time.Duration
}

// Result is the outcome of a Run call.
type Result struct {
	Solutions []Solution
	// Complete is false when Run stopped because of context
	// cancellation or a timeout rather than exhausting the search
	// (or, in single-solution mode, finding an answer).
	Complete bool
	Stats    Stats
	// Alerts lists any parallel branch the DeadlockDetector observed
	// running past its timeout. Always empty in sequential mode, since
	// no pool (and so no detector) runs there.
	Alerts []DeadlockAlert
}

// Driver ties the propagator and heuristic to one graph and clue set.
type Driver struct {
	g     *graph.Graph
	clues []int
	prop  *propagate.Propagator
	heur  heuristic.Heuristic
}

// New creates a Driver for g and clues (length g.NumCells(), -1 for
// blank), using heur to select the next branching edge.
func New(g *graph.Graph, clues []int, heur heuristic.Heuristic) *Driver {
	return &Driver{g: g, clues: clues, prop: propagate.New(g, clues), heur: heur}
}

// Run searches grid for solutions per cfg, honoring ctx cancellation
// in addition to cfg.Timeout.
func (d *Driver) Run(ctx context.Context, cfg Config) Result {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	root := state.New(d.g)
	if err := d.prop.Propagate(root); err != nil {
		return Result{Complete: true}
	}

	sess := newSession(cfg)
	sess.d = d
	defer close(sess.done)

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				sess.stop.Store(true)
			case <-sess.done:
			}
		}()
	}

	threads := resolvedThreads(cfg)
	if threads <= 1 {
		sess.search(root)
	} else {
		d.runParallel(ctx, sess, root, threads)
	}

	return Result{
		Solutions: sess.solutions,
		Complete:  ctx.Err() == nil,
		Stats:     sess.stats,
		Alerts:    sess.alerts,
	}
}

func resolvedThreads(cfg Config) int {
	if cfg.Threads > 0 {
		return cfg.Threads
	}
	frac := cfg.CPUFraction
	if frac <= 0 || frac > 1 {
		frac = 0.5
	}
	n := int(float64(runtime.NumCPU()) * frac)
	if n < 1 {
		n = 1
	}
	return n
}

// runParallel expands root into a frontier of >= 4*threads States
// (fewer if the tree runs out of branchable states first) and
// searches each one independently on a work-stealing pool.
func (d *Driver) runParallel(ctx context.Context, sess *session, root *state.State, threads int) {
	frontier := d.expandFrontier(root, threads)

	pool := parallel.NewPool(threads)
	defer pool.Shutdown()

	stopDrain := make(chan struct{})
	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		alerts := pool.Detector().Alerts()
		for {
			select {
			case a := <-alerts:
				sess.recordAlert(a)
			case <-stopDrain:
				for {
					select {
					case a := <-alerts:
						sess.recordAlert(a)
					default:
						return
					}
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i, st := range frontier {
		st := st
		taskID := fmt.Sprintf("branch-%d", i)

		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			pool.Detector().RegisterTask(taskID)
			defer pool.Detector().UnregisterTask(taskID)
			sess.search(st)
		})
		if err != nil {
			wg.Done()
		}
	}
	wg.Wait()

	close(stopDrain)
	<-drainDone
}

// expandFrontier repeatedly branches the lowest-index undecided state
// in the queue on its heuristic-selected edge until the combined
// queue and leaf count reaches target, or no state remains that can
// still be branched. Per the modular contract, only children for
// which ApplyDecision and the subsequent Propagate both succeed are
// kept; a child that proves immediately contradictory is dropped here
// rather than handed to a worker.
func (d *Driver) expandFrontier(root *state.State, threads int) []*state.State {
	target := 4 * threads

	queue := []*state.State{root}
	var leaves []*state.State

	for len(queue) > 0 && len(queue)+len(leaves) < target {
		st := queue[0]
		queue = queue[1:]

		e, ok := d.heur.Select(d.g, st)
		if !ok {
			leaves = append(leaves, st)
			continue
		}

		for _, v := range [2]state.Value{state.Off, state.On} {
			child := st.Clone()
			if err := d.prop.ApplyDecision(child, e, v); err != nil {
				continue
			}
			if err := d.prop.Propagate(child); err != nil {
				continue
			}
			queue = append(queue, child)
		}
	}

	return append(leaves, queue...)
}

// session holds the state shared across every branch of one Run call:
// the solution collector, the stop flag, and the bookkeeping counters.
type session struct {
	d            *Driver
	mu           sync.Mutex
	solutions    []Solution
	alerts       []DeadlockAlert
	findAll      bool
	maxSolutions int64
	stop         atomic.Bool
	stats        Stats
	done         chan struct{}
}

func newSession(cfg Config) *session {
	return &session{
		findAll:      cfg.FindAll,
		maxSolutions: cfg.MaxSolutions,
		done:         make(chan struct{}),
	}
}

// search is the recursive backtracker. It mutates st in place and
// relies entirely on Snapshot/Undo to restore it before returning, so
// the same State may be reused across an entire sequential recursion
// or, in parallel mode, across one frontier branch's subtree.
func (sess *session) search(st *state.State) {
	atomic.AddInt64(&sess.stats.Branches, 1)

	if sess.stop.Load() {
		return
	}
	if validate.QuicklyUnsolvable(sess.d.g, st, sess.d.clues) {
		atomic.AddInt64(&sess.stats.Contradictions, 1)
		return
	}
	if err := sess.d.prop.Propagate(st); err != nil {
		atomic.AddInt64(&sess.stats.Contradictions, 1)
		return
	}

	e, ok := sess.d.heur.Select(sess.d.g, st)
	if !ok {
		if st.NumUndecided() == 0 {
			if points, valid := validate.Check(sess.d.g, st, sess.d.clues); valid {
				sess.record(st, points)
			}
		}
		return
	}

	mark := st.Snapshot()
	if err := sess.d.prop.ApplyDecision(st, e, state.Off); err == nil {
		sess.search(st)
	} else {
		atomic.AddInt64(&sess.stats.Contradictions, 1)
	}
	st.Undo(mark)

	if sess.stop.Load() {
		return
	}

	mark = st.Snapshot()
	if err := sess.d.prop.ApplyDecision(st, e, state.On); err == nil {
		sess.search(st)
	} else {
		atomic.AddInt64(&sess.stats.Contradictions, 1)
	}
	st.Undo(mark)
}

func (sess *session) recordAlert(a parallel.Alert) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.alerts = append(sess.alerts, DeadlockAlert{
		TaskID:      a.TaskID,
		Description: a.Description,
		Running:     a.Running,
	})
}

func (sess *session) record(st *state.State, points []validate.Point) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.stop.Load() {
		return
	}

	sess.solutions = append(sess.solutions, Solution{
		EdgeAssignment: append([]state.Value(nil), st.EdgeState...),
		CyclePoints:    points,
	})

	if !sess.findAll {
		sess.stop.Store(true)
		return
	}
	if sess.maxSolutions >= 0 && int64(len(sess.solutions)) >= sess.maxSolutions {
		sess.stop.Store(true)
	}
}
