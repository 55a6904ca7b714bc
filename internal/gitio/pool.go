package gitio

import (
	"container/heap"
	"context"
	"runtime"
	"sync"
	"time"

	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Priority controls dispatch order within the worker pool. Jobs are
// dispatched by priority then FIFO (spec §5).
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Future is the handle a submitted job's caller waits on.
type Future struct {
	done chan struct{}
	val  interface{}
	err  error
}

// Wait blocks until the job completes and returns its result.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type job struct {
	priority Priority
	seq      int // FIFO tie-break within a priority
	fn       func(ctx context.Context) (interface{}, error)
	timeout  time.Duration
	future   *Future
}

// priorityQueue orders jobs by priority (high first) then FIFO (lower
// seq first).
type priorityQueue []*job

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(*job)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Pool is the bounded worker pool jobs are submitted to (spec §5:
// "submit(priority, job, {timeoutMs, metadata}) -> future").
// Parallelism is bounded by a golang.org/x/sync/semaphore.Weighted; a
// priority heap feeds a single dispatch loop so jobs are released by
// priority then FIFO as capacity frees up.
type Pool struct {
	sem *semaphore.Weighted

	mu      sync.Mutex
	cond    *sync.Cond
	queue   priorityQueue
	nextSeq int
	closed  bool

	wg sync.WaitGroup
}

// NewPool creates a pool with the given bounded parallelism (default:
// number of cores, per spec §5, when capacity <= 0).
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = runtime.NumCPU()
	}
	p := &Pool{sem: semaphore.NewWeighted(int64(capacity))}
	p.cond = sync.NewCond(&p.mu)
	go p.dispatchLoop()
	return p
}

// Submit enqueues fn at the given priority; timeout of zero means no
// per-job timeout beyond the caller's own context. Returns a Future
// the caller can Wait on.
func (p *Pool) Submit(priority Priority, timeout time.Duration, fn func(ctx context.Context) (interface{}, error)) *Future {
	future := &Future{done: make(chan struct{})}

	p.mu.Lock()
	j := &job{priority: priority, seq: p.nextSeq, fn: fn, timeout: timeout, future: future}
	p.nextSeq++
	heap.Push(&p.queue, j)
	p.wg.Add(1)
	p.cond.Signal()
	p.mu.Unlock()

	return future
}

// ExecuteJob is a convenience for synchronous step execution with
// timeout: it submits fn at PriorityHigh and blocks until it
// completes, translating a timeout into StepTimeout (spec §5:
// "executeJob(fn, {timeoutMs}) is a convenience for synchronous step
// execution with timeout").
func (p *Pool) ExecuteJob(ctx context.Context, stepID string, timeout time.Duration, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	future := p.Submit(PriorityHigh, timeout, fn)
	val, err := future.Wait(ctx)
	if err == context.DeadlineExceeded {
		return nil, khookerrors.NewStepTimeout(stepID, err)
	}
	return val, err
}

func (p *Pool) dispatchLoop() {
	for {
		p.mu.Lock()
		for p.queue.Len() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed && p.queue.Len() == 0 {
			p.mu.Unlock()
			return
		}
		j := heap.Pop(&p.queue).(*job)
		p.mu.Unlock()

		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			j.future.err = err
			close(j.future.done)
			p.wg.Done()
			continue
		}

		go p.run(j)
	}
}

func (p *Pool) run(j *job) {
	defer p.sem.Release(1)
	defer p.wg.Done()

	ctx := context.Background()
	var cancel context.CancelFunc
	if j.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	val, err := j.fn(ctx)
	if ctx.Err() == context.DeadlineExceeded {
		err = context.DeadlineExceeded
	}
	j.future.val = val
	j.future.err = err
	close(j.future.done)
}

// Close stops accepting new dispatch loop iterations once the queue
// drains; in-flight jobs already dispatched continue to completion.
// Wait blocks until every submitted job has completed.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Wait blocks until every job ever submitted to the pool has
// completed.
func (p *Pool) Wait() {
	p.wg.Wait()
}
