package parallel

import (
	"fmt"
	"sync"
	"time"
)

// DeadlockDetector watches a set of named in-flight tasks and reports
// any that have been running far longer than expected. It does not
// prevent or break a deadlock, only surfaces one, which is enough for
// a caller (the CLI's --verbose flag) to report a stuck search instead
// of hanging silently until its own timeout fires.
type DeadlockDetector struct {
	mu sync.Mutex

	timeout       time.Duration
	checkInterval time.Duration

	tasks map[string]time.Time

	shutdown chan struct{}
	alerts   chan Alert
	once     sync.Once
}

// Alert describes one task that exceeded the detector's timeout.
type Alert struct {
	TaskID      string
	Description string
	Running     time.Duration
}

// NewDeadlockDetector creates a detector that checks every
// checkInterval for tasks running longer than timeout.
func NewDeadlockDetector(timeout, checkInterval time.Duration) *DeadlockDetector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if checkInterval <= 0 {
		checkInterval = 5 * time.Second
	}

	d := &DeadlockDetector{
		timeout:       timeout,
		checkInterval: checkInterval,
		tasks:         make(map[string]time.Time),
		shutdown:      make(chan struct{}),
		alerts:        make(chan Alert, 8),
	}
	go d.monitor()
	return d
}

// RegisterTask marks taskID as started now.
func (d *DeadlockDetector) RegisterTask(taskID string) {
	d.mu.Lock()
	d.tasks[taskID] = time.Now()
	d.mu.Unlock()
}

// UnregisterTask marks taskID as finished.
func (d *DeadlockDetector) UnregisterTask(taskID string) {
	d.mu.Lock()
	delete(d.tasks, taskID)
	d.mu.Unlock()
}

// Alerts returns the channel of overrun alerts. Alerts are dropped,
// not blocked on, if the channel is full.
func (d *DeadlockDetector) Alerts() <-chan Alert { return d.alerts }

// Shutdown stops the monitor goroutine. Safe to call more than once.
func (d *DeadlockDetector) Shutdown() {
	d.once.Do(func() { close(d.shutdown) })
}

func (d *DeadlockDetector) monitor() {
	ticker := time.NewTicker(d.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.check()
		case <-d.shutdown:
			return
		}
	}
}

func (d *DeadlockDetector) check() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, start := range d.tasks {
		if running := now.Sub(start); running > d.timeout {
			alert := Alert{
				TaskID:      id,
				Description: fmt.Sprintf("branch %q has been running for %v", id, running),
				Running:     running,
			}
			select {
			case d.alerts <- alert:
			default:
			}
		}
	}
}
