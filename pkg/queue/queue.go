// Package queue runs script generations on a fixed number of workers so a
// burst of users cannot open unbounded provider sessions at once.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"narrator/pkg/generator"
	"narrator/pkg/metrics"
	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

var (
	ErrFull    = errors.New("queue is full")
	ErrStopped = errors.New("queue stopped")
)

type Generator interface {
	Generate(ctx context.Context, req *schema.Request, onPart func(generator.Part)) (string, error)
}

type Result struct {
	Script string
	Err    error
}

type Item struct {
	Ctx     context.Context
	Request *schema.Request
	OnPart  func(generator.Part)
	Result  chan Result
}

type Queue struct {
	gen     Generator
	workers int
	items   chan *Item
	stop    chan struct{}
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func New(gen Generator, size, workers int) *Queue {
	return &Queue{
		gen:     gen,
		workers: max(workers, 1),
		items:   make(chan *Item, max(size, 1)),
		stop:    make(chan struct{}),
	}
}

func (q *Queue) Start() {
	for range q.workers {
		q.wg.Add(1)
		go q.processLoop()
	}
	log.Info("generation queue started", "workers", q.workers, "size", cap(q.items))
}

// Stop waits for running generations and fails everything still queued.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.stop)
	q.mu.Unlock()

	q.wg.Wait()
	for {
		select {
		case item := <-q.items:
			metrics.QueueDepth.Dec()
			item.Result <- Result{Err: ErrStopped}
		default:
			log.Info("generation queue stopped")
			return
		}
	}
}

// Add enqueues a generation. The returned channel receives exactly one Result.
func (q *Queue) Add(ctx context.Context, req *schema.Request, onPart func(generator.Part)) (<-chan Result, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return nil, ErrStopped
	}

	item := &Item{Ctx: ctx, Request: req, OnPart: onPart, Result: make(chan Result, 1)}
	select {
	case q.items <- item:
		metrics.QueueDepth.Inc()
		return item.Result, nil
	default:
		return nil, ErrFull
	}
}

// Pending is the number of generations waiting for a worker.
func (q *Queue) Pending() int {
	return len(q.items)
}

func (q *Queue) processLoop() {
	defer q.wg.Done()
	for {
		select {
		case <-q.stop:
			return
		case item := <-q.items:
			q.processItem(item)
		}
	}
}

func (q *Queue) processItem(item *Item) {
	metrics.QueueDepth.Dec()
	if err := item.Ctx.Err(); err != nil {
		// caller gave up while waiting
		item.Result <- Result{Err: err}
		return
	}

	log.Debug("processing generation", "user", item.Request.UserID, "input", utils.LimitStr(item.Request.Input, 50))
	script, err := q.gen.Generate(item.Ctx, item.Request, item.OnPart)
	item.Result <- Result{Script: script, Err: err}
}
