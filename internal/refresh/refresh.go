package refresh

import (
	"context"
	"sync"
	"time"
)

// Job names the snapshot to rebuild. Jobs with the same key collapse while one is in flight.
type Job struct {
	Key string
}

// Refresher runs jobs on a fixed pool of workers fed by a bounded queue.
type Refresher struct {
	ch      chan Job
	inFly   sync.Map // key -> struct{}
	do      func(ctx context.Context, j Job)
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
	ctx     context.Context
	cancel  context.CancelFunc
}

type Options struct {
	Capacity int
	Workers  int
	Timeout  time.Duration
}

func New(opts Options, do func(ctx context.Context, j Job)) *Refresher {
	if opts.Capacity <= 0 {
		opts.Capacity = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{ch: make(chan Job, opts.Capacity), do: do, timeout: opts.Timeout, ctx: ctx, cancel: cancel}
	r.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go r.worker()
	}
	return r
}

// Enqueue schedules j unless the same key is already queued or running.
// It reports false when the job was collapsed, dropped, or the pool is closed.
func (r *Refresher) Enqueue(j Job) bool {
	if r.ctx.Err() != nil {
		return false
	}
	if _, exists := r.inFly.LoadOrStore(j.Key, struct{}{}); exists {
		return false
	}
	select {
	case r.ch <- j:
		return true
	default:
		// saturated
		r.inFly.Delete(j.Key)
		return false
	}
}

// Close stops accepting jobs, cancels running ones and waits for the workers.
func (r *Refresher) Close() {
	r.once.Do(func() {
		r.cancel()
		r.wg.Wait()
	})
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case j := <-r.ch:
			r.run(j)
		}
	}
}

func (r *Refresher) run(j Job) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer func() {
		r.inFly.Delete(j.Key)
		cancel()
	}()
	if r.do != nil {
		r.do(ctx, j)
	}
}
