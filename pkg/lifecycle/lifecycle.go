// Package lifecycle coordinates startup and shutdown of long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// ReadinessFunc adapts a function to ReadinessChecker.
type ReadinessFunc func() bool

func (f ReadinessFunc) Ready() bool { return f() }

// Status is a point-in-time readiness report.
type Status struct {
	Ready     bool            `json:"ready"`
	StartedAt time.Time       `json:"started_at,omitzero"`
	Checks    map[string]bool `json:"checks,omitempty"`
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu        sync.RWMutex
	ready     bool
	startedAt time.Time
	checks    map[string]ReadinessChecker
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Check registers a named readiness check consulted by Ready and Status.
func (c *Coordinator) Check(name string, checker ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = checker
}

// Ready returns true after all startup hooks have completed and every
// registered check passes.
func (c *Coordinator) Ready() bool {
	return c.Status().Ready
}

// Status reports startup completion and the result of each registered check.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{Ready: c.ready, StartedAt: c.startedAt}
	if len(c.checks) == 0 {
		return s
	}

	s.Checks = make(map[string]bool, len(c.checks))
	for _, name := range slices.Sorted(maps.Keys(c.checks)) {
		ok := c.checks[name].Ready()
		s.Checks[name] = ok
		s.Ready = s.Ready && ok
	}
	return s
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.ready = true
	c.startedAt = time.Now().UTC()
	c.mu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
