// Package flight deduplicates expensive calls: concurrent callers with the
// same key share one execution, and successful results are kept for a while.
package flight

import (
	"sync"
	"sync/atomic"
	"time"
	"weak"
)

type Cache[K comparable, V any] struct {
	// finished holds completed results. Each entry keeps a strong reference
	// until its deadline passes, after which only the weak pointer remains.
	finished map[K]*entry[V]
	fmu      *sync.RWMutex

	pending map[K]*call[V]
	pmu     *sync.Mutex

	// ttl is the strong-hold duration in nanoseconds; <= 0 holds forever.
	ttl *atomic.Int64
}

type entry[V any] struct {
	w        weak.Pointer[V]
	strong   *V
	deadline time.Time // zero => infinite
}

type call[V any] struct {
	val  V
	err  error
	done chan struct{}
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		finished: make(map[K]*entry[V]),
		fmu:      new(sync.RWMutex),
		pending:  make(map[K]*call[V]),
		pmu:      new(sync.Mutex),
		ttl:      new(atomic.Int64),
	}
	c.Expiry(ttl)
	return c
}

// Expiry sets the strong-hold duration for future writes.
func (c *Cache[K, V]) Expiry(d time.Duration) {
	c.ttl.Store(int64(max(d, 0)))
}

// Get returns the cached value for k, joins a running call for k, or runs
// work. Errors are never cached.
func (c *Cache[K, V]) Get(k K, work func() (V, error)) (V, error) {
	c.pmu.Lock()

	if e, ok := c.loadEntry(k); ok {
		if vp := e.w.Value(); vp != nil {
			c.pmu.Unlock()
			return *vp, nil
		}
		c.fmu.Lock()
		if cur, ok := c.finished[k]; ok && cur == e && e.w.Value() == nil {
			delete(c.finished, k)
		}
		c.fmu.Unlock()
	}

	if running, ok := c.pending[k]; ok {
		c.pmu.Unlock()
		<-running.done
		return running.val, running.err
	}

	cl := &call[V]{done: make(chan struct{})}
	c.pending[k] = cl
	c.pmu.Unlock()

	return c.run(k, cl, work)
}

// Force ignores any cached value and runs work once running calls for k finish.
func (c *Cache[K, V]) Force(k K, work func() (V, error)) (V, error) {
	for {
		c.pmu.Lock()
		if running, ok := c.pending[k]; ok {
			c.pmu.Unlock()
			<-running.done
			continue
		}
		cl := &call[V]{done: make(chan struct{})}
		c.pending[k] = cl
		c.pmu.Unlock()
		return c.run(k, cl, work)
	}
}

// Peek returns the cached value for k without running anything.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if e, ok := c.loadEntry(k); ok {
		if vp := e.w.Value(); vp != nil {
			return *vp, true
		}
	}
	var zero V
	return zero, false
}

// Forget drops the cached value for k.
func (c *Cache[K, V]) Forget(k K) {
	c.fmu.Lock()
	delete(c.finished, k)
	c.fmu.Unlock()
}

func (c *Cache[K, V]) run(k K, cl *call[V], work func() (V, error)) (V, error) {
	defer func() {
		c.pmu.Lock()
		close(cl.done)
		delete(c.pending, k)
		c.pmu.Unlock()
	}()

	cl.val, cl.err = work()
	if cl.err == nil {
		c.storeEntry(k, cl.val)
	}
	return cl.val, cl.err
}

func (c *Cache[K, V]) loadEntry(k K) (*entry[V], bool) {
	c.fmu.RLock()
	e, ok := c.finished[k]
	c.fmu.RUnlock()
	if !ok {
		return nil, false
	}

	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		c.fmu.Lock()
		if cur, ok := c.finished[k]; ok && cur == e && e.strong != nil {
			e.strong = nil
		}
		c.fmu.Unlock()
	}
	return e, true
}

func (c *Cache[K, V]) storeEntry(k K, val V) {
	// dedicated heap cell so the weak pointer has a stable target
	v := new(V)
	*v = val

	e := &entry[V]{w: weak.Make(v), strong: v}
	if d := time.Duration(c.ttl.Load()); d > 0 {
		e.deadline = time.Now().Add(d)
	}

	c.fmu.Lock()
	c.finished[k] = e
	c.fmu.Unlock()
}
