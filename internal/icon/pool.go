package icon

import (
	"sync"

	"github.com/rs/zerolog"
)

const defaultWorkers = 2

// Pool runs materialization jobs on a bounded set of goroutines so decoding
// never blocks the UI loop.
type Pool struct {
	mu     sync.Mutex
	closed bool
	jobs   chan func()
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// NewPool starts workers goroutines.
func NewPool(workers int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	p := &Pool{
		jobs: make(chan func(), workers*4),
		log:  log.With().Str("component", "icon-pool").Logger(),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.log.Debug().Int("workers", workers).Msg("pool started")
	return p
}

// Submit queues job without blocking. It reports false when the pool is
// closed or its queue is full; the caller then runs the job itself.
func (p *Pool) Submit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Debug().Msg("pool saturated")
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}
