// Package parallel provides a work-stealing worker pool used to run
// independent top-level search branches concurrently. It is internal
// infrastructure: callers submit closures and read results back
// through their own channels or mutex-protected collectors.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Pool is a fixed-size work-stealing worker pool. Each worker has its
// own local deque; a worker with an empty deque steals from another
// worker before falling back to the shared global queue. This balances
// load across branches of uneven running time, which is the normal
// case for backtracking search: one branch may hit a contradiction in
// microseconds while another explores a large subtree.
type Pool struct {
	workers []*worker
	global  chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once

	detector *DeadlockDetector
}

type worker struct {
	id    int
	deque chan func()
	pool  *Pool
}

// NewPool creates a pool with the given fixed number of workers. A
// size <= 0 defaults to runtime.NumCPU().
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*worker, size),
		global:   make(chan func(), size*4),
		done:     make(chan struct{}),
		detector: NewDeadlockDetector(30*time.Second, 5*time.Second),
	}

	for i := 0; i < size; i++ {
		p.workers[i] = &worker{id: i, deque: make(chan func(), 64), pool: p}
	}

	p.wg.Add(size)
	for _, w := range p.workers {
		go w.run(&p.wg)
	}

	return p
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Detector returns the pool's deadlock detector, so a caller can
// register long-running top-level tasks for timeout diagnostics.
func (p *Pool) Detector() *DeadlockDetector { return p.detector }

// Submit enqueues task for execution. It blocks until the task is
// accepted, the context is cancelled, or the pool is shut down.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case <-p.done:
		return ErrPoolShutdown
	default:
	}
	select {
	case p.global <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting new work and waits for in-flight tasks to
// finish. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.done)
		p.wg.Wait()
		p.detector.Shutdown()
	})
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		task := w.next()
		if task == nil {
			return
		}
		// A branch task is not wrapped in recover: deciding an
		// already-decided edge or a similar programming error is a
		// fatal assertion, not a recoverable fault, so the panic must
		// surface rather than be swallowed.
		task()
	}
}

// next returns the next task to execute, or nil once the pool is
// shutting down and no work remains for this worker.
func (w *worker) next() func() {
	select {
	case task := <-w.deque:
		return task
	case <-w.pool.done:
		return w.drain()
	default:
	}

	if task := w.steal(); task != nil {
		return task
	}

	select {
	case task := <-w.pool.global:
		return task
	case task := <-w.deque:
		return task
	case <-w.pool.done:
		return w.drain()
	}
}

// drain picks up any task left in this worker's own deque or the
// global queue without blocking, so shutdown doesn't discard
// already-queued work.
func (w *worker) drain() func() {
	select {
	case task := <-w.deque:
		return task
	default:
	}
	select {
	case task := <-w.pool.global:
		return task
	default:
	}
	return nil
}

func (w *worker) steal() func() {
	n := len(w.pool.workers)
	start := (w.id + 1) % n
	for i := 0; i < n; i++ {
		victim := w.pool.workers[(start+i)%n]
		if victim.id == w.id {
			continue
		}
		select {
		case task := <-victim.deque:
			return task
		default:
		}
	}
	return nil
}

// ErrPoolShutdown is returned by Submit once the pool has begun
// shutting down.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shut down")
