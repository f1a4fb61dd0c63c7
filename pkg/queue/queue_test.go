package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"narrator/pkg/generator"
	"narrator/pkg/schema"
)

type genFunc func(ctx context.Context, req *schema.Request, onPart func(generator.Part)) (string, error)

func (f genFunc) Generate(ctx context.Context, req *schema.Request, onPart func(generator.Part)) (string, error) {
	return f(ctx, req, onPart)
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
		return Result{}
	}
}

func TestQueueRunsGenerations(t *testing.T) {
	q := New(genFunc(func(_ context.Context, req *schema.Request, onPart func(generator.Part)) (string, error) {
		onPart(generator.Part{Index: 1, Total: 1, Text: req.Input})
		return "script: " + req.Input, nil
	}), 4, 2)
	q.Start()
	defer q.Stop()

	var parts []generator.Part
	ch, err := q.Add(context.Background(), &schema.Request{Input: "a"}, func(p generator.Part) { parts = append(parts, p) })
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	r := receive(t, ch)
	if r.Err != nil || r.Script != "script: a" {
		t.Errorf("result = %+v", r)
	}
	if len(parts) != 1 || parts[0].Text != "a" {
		t.Errorf("parts = %+v", parts)
	}
}

func TestQueueFull(t *testing.T) {
	// not started, so nothing drains the buffer
	q := New(genFunc(func(context.Context, *schema.Request, func(generator.Part)) (string, error) {
		return "", nil
	}), 1, 1)

	first, err := q.Add(context.Background(), &schema.Request{}, nil)
	if err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if _, err := q.Add(context.Background(), &schema.Request{}, nil); !errors.Is(err, ErrFull) {
		t.Errorf("want ErrFull, got %v", err)
	}
	if q.Pending() != 1 {
		t.Errorf("pending = %d", q.Pending())
	}

	q.Stop()
	if r := receive(t, first); !errors.Is(r.Err, ErrStopped) {
		t.Errorf("queued item should fail with ErrStopped, got %v", r.Err)
	}
	if _, err := q.Add(context.Background(), &schema.Request{}, nil); !errors.Is(err, ErrStopped) {
		t.Errorf("Add after Stop = %v", err)
	}
}

func TestQueueSkipsCanceled(t *testing.T) {
	called := false
	q := New(genFunc(func(context.Context, *schema.Request, func(generator.Part)) (string, error) {
		called = true
		return "x", nil
	}), 2, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch, err := q.Add(ctx, &schema.Request{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	q.Start()
	defer q.Stop()

	if r := receive(t, ch); !errors.Is(r.Err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", r.Err)
	}
	if called {
		t.Error("canceled item reached the generator")
	}
}
