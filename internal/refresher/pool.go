package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"instalytics/pkg/analytics"
	"instalytics/pkg/logger"
)

// RefreshJob represents a single per-account analytics run
type RefreshJob struct {
	Handle string
	Ref    string
}

// RefreshResult represents the outcome of a refresh job
type RefreshResult struct {
	Job      RefreshJob
	Report   *analytics.Analytics
	Err      error
	Duration time.Duration
}

// AccountRunner produces a fresh report for one account
type AccountRunner interface {
	RunAccount(ctx context.Context, ref string) (*analytics.Analytics, error)
}

// WorkerPool fans per-account refresh jobs out across a bounded set of
// workers. A failed account surfaces as a result carrying its error; it
// never stops the other workers.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan RefreshJob
	resultQueue chan RefreshResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	runner      AccountRunner
	logger      logger.Logger

	mu      sync.Mutex
	stopped bool
}

// NewWorkerPool creates a refresh worker pool. Workers inherit ctx, so
// cancelling it aborts in-flight account runs and stops job pickup.
func NewWorkerPool(ctx context.Context, numWorkers int, runner AccountRunner, log logger.Logger) *WorkerPool {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan RefreshJob, numWorkers*2),
		resultQueue: make(chan RefreshResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		runner:      runner,
		logger:      log,
	}
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting refresh worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight jobs to drain and then
// closes the result channel. Calling Stop more than once is safe.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Refresh worker pool stopped")
}

// Submit queues a refresh job. Submitting after Stop is an error, not a
// panic on the closed queue.
func (wp *WorkerPool) Submit(job RefreshJob) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		return fmt.Errorf("worker pool is shutting down")
	}

	wp.jobQueue <- job
	wp.logger.DebugWithFields("Refresh job submitted", map[string]interface{}{
		"handle": job.Handle,
	})
	return nil
}

// Results returns the channel refresh outcomes are delivered on
func (wp *WorkerPool) Results() <-chan RefreshResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job RefreshJob, workerID int) RefreshResult {
	start := time.Now()

	wp.logger.DebugWithFields("Worker refreshing account", map[string]interface{}{
		"worker_id": workerID,
		"handle":    job.Handle,
	})

	report, err := wp.runner.RunAccount(wp.ctx, job.Ref)
	result := RefreshResult{
		Job:      job,
		Report:   report,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil {
		wp.logger.ErrorWithFields("Worker failed to refresh account", map[string]interface{}{
			"worker_id": workerID,
			"handle":    job.Handle,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	wp.logger.DebugWithFields("Worker refreshed account", map[string]interface{}{
		"worker_id": workerID,
		"handle":    job.Handle,
		"duration":  result.Duration,
	})

	return result
}

// QueueSize returns the number of queued jobs not yet picked up
func (wp *WorkerPool) QueueSize() int {
	return len(wp.jobQueue)
}
