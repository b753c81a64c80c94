package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/sasha-s/go-deadlock"
)

// Pool runs submitted jobs on a fixed amount of goroutines. A panicking job is reported to sentry and
// does not take its worker down.
type Pool struct {
	jobs chan func()

	pending sync.WaitGroup
	workers sync.WaitGroup

	mu     deadlock.RWMutex
	closed bool
}

// New starts a pool with the amount of workers passed, or one per CPU if it is not positive.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan func(), workers)}
	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Submit queues a job. It returns false if the pool was closed.
func (p *Pool) Submit(f func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.pending.Add(1)
	p.jobs <- f
	return true
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Close stops the pool once the queued jobs have run.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.workers.Wait()
}

func (p *Pool) work() {
	defer p.workers.Done()
	for f := range p.jobs {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer p.pending.Done()
	defer sentry.Recover()
	f()
}
