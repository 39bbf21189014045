// Package scheduler provides the worker pool every bulk file and compile operation runs on.
package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.trai.ch/anvil/internal/core/domain"
)

// queueSize bounds the shared FIFO. Tickets that do not fit are run by the submitting goroutine.
const queueSize = 1024

type mode uint8

const (
	modeUnconfigured mode = iota
	modePooled
	modeInline
)

// Pool is a bounded set of persistent worker goroutines plus a parallel-for primitive.
//
// ForEach never spawns goroutines. The submitting goroutine claims and runs items of its
// own batch while it waits, so nested ForEach calls always make progress and the number of
// goroutines executing work is bounded by the workers plus the blocked callers.
type Pool struct {
	mu       sync.RWMutex
	mode     mode
	workers  int
	stopped  bool
	queue    chan *batch
	workerWG sync.WaitGroup
}

// NewPool returns an unconfigured pool. The first ForEach configures it with one worker per CPU
// unless Configure or SingleThreaded was called before.
func NewPool() *Pool {
	return &Pool{}
}

// Configure starts n persistent workers. n <= 0 means one worker per available CPU.
func (p *Pool) Configure(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configureLocked(n)
}

func (p *Pool) configureLocked(n int) error {
	if p.stopped {
		return domain.ErrPoolShutdown
	}
	if p.mode != modeUnconfigured {
		return domain.ErrPoolConfigured
	}
	if n <= 0 {
		n = runtime.NumCPU()
	}

	p.mode = modePooled
	p.workers = n
	p.queue = make(chan *batch, queueSize)
	p.workerWG.Add(n)
	for range n {
		go p.work()
	}
	return nil
}

// SingleThreaded makes every ForEach run its items in order on the calling goroutine.
func (p *Pool) SingleThreaded() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return domain.ErrPoolShutdown
	}
	if p.mode != modeUnconfigured {
		return domain.ErrPoolConfigured
	}
	p.mode = modeInline
	return nil
}

// Workers returns the number of persistent workers, zero when single threaded or unconfigured.
func (p *Pool) Workers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.workers
}

// Shutdown stops the workers after their current item and waits for them to exit.
// It is safe to call more than once. ForEach keeps working afterwards, inline.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if p.queue != nil {
		close(p.queue)
	}
	p.mu.Unlock()

	p.workerWG.Wait()
}

func (p *Pool) work() {
	defer p.workerWG.Done()
	for b := range p.queue {
		if i, ok := b.claim(); ok {
			b.exec(i)
		}
	}
}

// ForEachIndex runs fn(i) for every i in [0, n) and returns once all calls have completed.
// A panic in fn is re-raised on the calling goroutine after the batch finishes.
func (p *Pool) ForEachIndex(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	b := newBatch(n, fn)
	if p.submit(b) {
		b.drain()
		b.done.Wait()
	} else {
		b.drain()
	}

	if b.panicked.Load() {
		panic(b.panicValue)
	}
}

// submit hands tickets for b to the workers. It reports false when the batch must run inline.
func (p *Pool) submit(b *batch) bool {
	p.mu.RLock()
	if p.mode == modeUnconfigured && !p.stopped {
		p.mu.RUnlock()
		p.mu.Lock()
		if p.mode == modeUnconfigured && !p.stopped {
			_ = p.configureLocked(0)
		}
		p.mu.Unlock()
		p.mu.RLock()
	}
	defer p.mu.RUnlock()

	if p.mode != modePooled || p.stopped {
		return false
	}

	// One ticket per item in sequence order. A full queue means the workers are saturated,
	// the caller picks up the remainder.
	for range b.n {
		select {
		case p.queue <- b:
		default:
			return true
		}
	}
	return true
}

// ForEach runs action once per item on p and blocks until every call has completed.
// Execution order across items is unspecified unless p is single threaded.
func ForEach[T any](p *Pool, items []T, action func(T)) {
	p.ForEachIndex(len(items), func(i int) {
		action(items[i])
	})
}

// batch is the shared accounting of one ForEach call.
type batch struct {
	n    int
	fn   func(int)
	next atomic.Int64
	done sync.WaitGroup

	panicked   atomic.Bool
	panicOnce  sync.Once
	panicValue any
}

func newBatch(n int, fn func(int)) *batch {
	b := &batch{n: n, fn: fn}
	b.done.Add(n)
	return b
}

// claim reserves the next unclaimed index. Indexes are handed out in sequence order.
func (b *batch) claim() (int, bool) {
	i := int(b.next.Add(1) - 1)
	return i, i < b.n
}

func (b *batch) drain() {
	for {
		i, ok := b.claim()
		if !ok {
			return
		}
		b.exec(i)
	}
}

func (b *batch) exec(i int) {
	defer b.done.Done()
	defer func() {
		if r := recover(); r != nil {
			b.panicOnce.Do(func() {
				b.panicValue = r
				b.panicked.Store(true)
			})
		}
	}()
	b.fn(i)
}
