package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/polkiloo/usercreds/internal/pkg/auth"
)

// HashPool bounds the number of concurrent bcrypt computations. It wraps a
// PasswordHasher and runs Hash and Compare on a fixed set of workers.
//
// A job handed to a worker always runs to completion. Calls made while the
// pool is stopped run on the caller's goroutine.
type HashPool struct {
	inner   auth.PasswordHasher
	workers int
	logger  *slog.Logger

	mu     sync.Mutex
	jobs   chan func()
	done   <-chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHashPool constructs hashing worker pool.
func NewHashPool(inner auth.PasswordHasher, workers int, logger *slog.Logger) *HashPool {
	if workers <= 0 {
		workers = 1
	}
	return &HashPool{
		inner:   inner,
		workers: workers,
		logger:  logger,
	}
}

// Start launches the workers. Starting a running pool is a no-op.
func (p *HashPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = runCtx.Done()
	p.jobs = make(chan func())

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx.Done(), p.jobs)
	}
	p.logger.Debug("hash pool started", slog.Int("workers", p.workers))
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *HashPool) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("hash pool stopped")
}

// Hash computes the hash of password on a pool worker.
func (p *HashPool) Hash(password string) (string, error) {
	var (
		hash string
		err  error
	)
	p.run(func() { hash, err = p.inner.Hash(password) })
	return hash, err
}

// Compare checks password against hash on a pool worker.
func (p *HashPool) Compare(hash string, password string) error {
	var err error
	p.run(func() { err = p.inner.Compare(hash, password) })
	return err
}

// NeedsRehash only parses the hash header, so it runs inline.
func (p *HashPool) NeedsRehash(hash string) bool {
	return p.inner.NeedsRehash(hash)
}

func (p *HashPool) run(task func()) {
	p.mu.Lock()
	jobs, done, running := p.jobs, p.done, p.cancel != nil
	p.mu.Unlock()

	if !running {
		task()
		return
	}

	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		task()
	}

	select {
	case jobs <- job:
		<-finished
	case <-done:
		task()
	}
}

func (p *HashPool) worker(done <-chan struct{}, jobs <-chan func()) {
	defer p.wg.Done()
	for {
		select {
		case <-done:
			return
		case job := <-jobs:
			job()
		}
	}
}

var _ auth.PasswordHasher = (*HashPool)(nil)
