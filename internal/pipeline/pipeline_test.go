package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRun(t *testing.T) {
	var called int32
	boom := errors.New("test error")
	task := func(fail bool) func(context.Context) error {
		return func(context.Context) error {
			atomic.AddInt32(&called, 1)
			if fail {
				return boom
			}
			return nil
		}
	}
	tasks := []Task{
		{Name: "a", Run: task(false)},
		{Name: "b", Run: task(true)},
		{Name: "c", Run: task(false)},
		{Name: "d", Run: task(true)},
	}

	errs := Run(context.Background(), tasks, 2)

	if called != int32(len(tasks)) {
		t.Fatalf("expected %d calls, got %d", len(tasks), called)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Task != "b" || errs[1].Task != "d" {
		t.Fatalf("expected errors in task order, got %v", errs)
	}
	if !errors.Is(errs[0], boom) {
		t.Fatalf("expected wrapped error, got %v", errs[0])
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called int32
	tasks := []Task{
		{Name: "a", Run: func(context.Context) error { atomic.AddInt32(&called, 1); return nil }},
		{Name: "b", Run: func(context.Context) error { atomic.AddInt32(&called, 1); return nil }},
	}
	errs := Run(ctx, tasks, 0)
	if called != 0 {
		t.Fatalf("expected no task to run, got %d", called)
	}
	if len(errs) != 2 || !errors.Is(errs[0], context.Canceled) {
		t.Fatalf("expected canceled errors, got %v", errs)
	}
}

func TestRunEmpty(t *testing.T) {
	if errs := Run(context.Background(), nil, 4); errs != nil {
		t.Fatalf("expected nil, got %v", errs)
	}
}
