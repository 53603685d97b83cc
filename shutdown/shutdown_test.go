package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdownRunsInPhaseOrder(t *testing.T) {
	var order []string
	c := New(time.Second, nil)

	c.Register("storage", PhaseStorage, func(ctx context.Context) error {
		order = append(order, "storage")
		return nil
	})
	c.Register("server", PhaseServer, func(ctx context.Context) error {
		order = append(order, "server")
		return nil
	})

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if len(order) != 2 || order[0] != "server" || order[1] != "storage" {
		t.Errorf("wrong phase order: %v", order)
	}

	select {
	case <-c.Done():
	default:
		t.Error("Done must be closed after shutdown")
	}
}

func TestShutdownCollectsFirstError(t *testing.T) {
	boom := errors.New("flush failed")
	var ran bool
	c := New(time.Second, nil)

	c.Register("server", PhaseServer, func(ctx context.Context) error {
		return boom
	})
	c.Register("storage", PhaseStorage, func(ctx context.Context) error {
		ran = true
		return nil
	})

	if err := c.Shutdown(); !errors.Is(err, boom) {
		t.Errorf("expected first error, got %v", err)
	}
	if !ran {
		t.Error("later phases must still run after an error")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	calls := 0
	c := New(time.Second, nil)
	c.Register("once", PhaseServer, func(ctx context.Context) error {
		calls++
		return nil
	})

	c.Shutdown()
	c.Shutdown()
	if calls != 1 {
		t.Errorf("handlers ran %d times", calls)
	}
}

func TestShutdownReportsProgress(t *testing.T) {
	var results []Result
	c := New(time.Second, func(r Result) { results = append(results, r) })

	c.Register("a", PhaseServer, func(ctx context.Context) error { return nil })
	c.Register("b", PhaseStorage, func(ctx context.Context) error { return errors.New("nope") })

	c.Shutdown()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "a" || results[1].Name != "b" {
		t.Errorf("unexpected result order: %+v", results)
	}
	if results[1].Err == nil {
		t.Error("handler error missing from result")
	}
}
