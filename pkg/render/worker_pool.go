package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/util"
)

// Job is one example to render.
type Job struct {
	Component *catalog.Component
	Example   catalog.Example
	JobID     int
}

// Result is a written snippet.
type Result struct {
	Path  string
	JobID int
}

// JobError reports a failed job.
type JobError struct {
	Component string
	Example   string
	Err       error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Component, e.Example, e.Err)
}

func (e JobError) Unwrap() error { return e.Err }

// ProcessFunc renders and writes one job, returning the written path.
type ProcessFunc func(job Job) (string, error)

// WorkerPool renders jobs on a fixed set of goroutines.
//
//	pool := NewWorkerPool(ctx, 0, process, logger)
//	pool.Start()
//
//	go func() {
//	    for _, job := range jobs {
//	        if err := pool.Submit(job); err != nil {
//	            break
//	        }
//	    }
//	    pool.Stop() // closes Results and Errors once workers drain
//	}()
//
//	// read Results() and Errors() until both are closed
type WorkerPool struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	errors     chan JobError
	wg         sync.WaitGroup
	process    ProcessFunc
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers goroutines
// (util.GetOptimalPoolSize when numWorkers <= 0). Cancelling ctx stops the
// workers after their current job.
func NewWorkerPool(ctx context.Context, numWorkers int, process ProcessFunc, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*2),
		results:    make(chan Result, numWorkers),
		errors:     make(chan JobError, numWorkers),
		process:    process,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting render workers", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("render worker cancelled", "worker_id", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job Job) {
	path, err := wp.process(job)
	if err != nil {
		wp.logger.Debug("render job failed", "worker_id", workerID, "component", job.Component.Name, "example", job.Example.Title, "error", err)
		wp.jobsFailed.Add(1)
		wp.errors <- JobError{Component: job.Component.Name, Example: job.Example.Title, Err: err}
		return
	}

	wp.jobsProcessed.Add(1)
	wp.results <- Result{Path: path, JobID: job.JobID}
}

// Submit enqueues a job. Blocks while the queue is full.
//
// Safe for concurrent calls.
func (wp *WorkerPool) Submit(job Job) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan JobError {
	return wp.errors
}

// Stop closes the queue, waits for in-flight jobs and closes Results and
// Errors. Idempotent.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}

	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)

	wp.cancel()

	wp.logger.Debug("render workers stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// Stats returns current pool counters.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
	}
}

// WorkerPoolStats contains worker pool counters.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
}
