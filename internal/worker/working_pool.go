package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"invoice-service/internal/logger"

	"github.com/rs/zerolog"
)

type Job func(ctx context.Context) error

var (
	ErrQueueFull  = errors.New("job queue is full")
	ErrPoolClosed = errors.New("working pool is shut down")
)

// WorkingPool runs submitted jobs on a fixed set of goroutines.
type WorkingPool struct {
	NumWorkers int
	jobChan    chan Job
	log        zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	return &WorkingPool{
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
		log:        logger.WithComponent("working_pool"),
	}
}

// TrySubmit enqueues job without blocking the caller.
func (p *WorkingPool) TrySubmit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobChan <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start blocks until ctx is canceled, then stops intake and drains the queue.
// Jobs run with a context that is not canceled by shutdown, so each job must
// bound itself with its own timeout.
func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	jobCtx := context.WithoutCancel(ctx)
	var workerWg sync.WaitGroup
	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(jobCtx, &workerWg, i+1)
	}

	<-ctx.Done()

	p.mu.Lock()
	p.closed = true
	queued := len(p.jobChan)
	close(p.jobChan)
	p.mu.Unlock()
	p.log.Info().Int("queued", queued).Msg("shutdown signaled, draining job queue")

	workerWg.Wait()
	p.log.Info().Msg("all workers stopped")
}

// worker exits once the job channel is closed and empty.
func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for job := range p.jobChan {
		_ = p.safeExecution(ctx, job, id)
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
			p.log.Error().Int("worker", workerID).Interface("panic", r).Msg("panic recovered in job")
		}
	}()

	if err = job(ctx); err != nil {
		p.log.Warn().Int("worker", workerID).Err(err).Msg("job failed")
	}
	return err
}
