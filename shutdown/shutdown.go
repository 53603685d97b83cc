// Package shutdown coordinates phase-ordered graceful shutdown. The
// server registers its components with a phase number; on SIGINT or
// SIGTERM handlers run phase by phase, lowest first, so the HTTP
// listener drains before storage closes.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

// Handler is one component's shutdown hook.
type Handler func(ctx context.Context) error

// Phases used by the server. Lower phases run first.
const (
	PhaseServer  = 10 // stop accepting requests
	PhaseStorage = 20 // flush and close storage
)

type registration struct {
	name    string
	phase   int
	handler Handler
}

// Result is the outcome of one handler.
type Result struct {
	Name     string
	Phase    int
	Duration time.Duration
	Err      error
}

// Coordinator collects handlers and runs them on shutdown.
type Coordinator struct {
	timeout    time.Duration
	onProgress func(Result)

	mu       sync.Mutex
	handlers []registration
	once     sync.Once
	done     chan struct{}
	err      error
}

// New creates a coordinator. timeout bounds the whole shutdown
// sequence; onProgress, if non-nil, is called after each handler.
func New(timeout time.Duration, onProgress func(Result)) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coordinator{
		timeout:    timeout,
		onProgress: onProgress,
		done:       make(chan struct{}),
	}
}

// Register adds a handler at the given phase.
func (c *Coordinator) Register(name string, phase int, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, registration{name: name, phase: phase, handler: h})
}

// Wait blocks until SIGINT or SIGTERM arrives, then runs the shutdown
// sequence and returns its first error.
func (c *Coordinator) Wait() error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return c.Shutdown()
}

// Shutdown runs all handlers in phase order under the configured
// timeout. Safe to call more than once; later calls return the first
// run's error.
func (c *Coordinator) Shutdown() error {
	c.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.err = c.run(ctx)
		close(c.done)
	})
	<-c.done
	return c.err
}

// Done is closed once shutdown has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mu.Lock()
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].phase < handlers[j].phase
	})

	var firstErr error
	for _, reg := range handlers {
		select {
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			return firstErr
		default:
		}

		start := time.Now()
		err := reg.handler(ctx)
		if c.onProgress != nil {
			c.onProgress(Result{
				Name:     reg.name,
				Phase:    reg.phase,
				Duration: time.Since(start),
				Err:      err,
			})
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
