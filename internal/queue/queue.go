// Package queue serializes paper analyses: one job runs at a time and the
// rest wait in arrival order.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

// Runner executes one job. It is never called concurrently by a Queue.
type Runner func(ctx context.Context, job *Job) (*models.AnalysisResult, error)

type Outcome struct {
	Result *models.AnalysisResult
	Err    error
}

type Job struct {
	ID         string
	Title      string
	Text       string
	FileKey    string
	EnqueuedAt time.Time

	ctx  context.Context
	done chan Outcome
}

// NewJob creates a job whose run is detached from ctx's cancellation: a
// caller that goes away does not stop the analysis.
func NewJob(ctx context.Context, title, text, fileKey string) *Job {
	return &Job{
		ID:         utils.GenerateID(),
		Title:      title,
		Text:       text,
		FileKey:    fileKey,
		EnqueuedAt: time.Now(),
		ctx:        context.WithoutCancel(ctx),
		done:       make(chan Outcome, 1),
	}
}

// Done delivers exactly one Outcome.
func (j *Job) Done() <-chan Outcome {
	return j.done
}

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) (*models.AnalysisResult, error) {
	select {
	case out := <-j.done:
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Queue admits one job at a time. busy is true iff a Runner call is in
// flight; waiting holds the rest in FIFO order. Both are guarded by mu.
type Queue struct {
	mu      sync.Mutex
	busy    bool
	waiting []*Job

	run    Runner
	logger *utils.Logger
}

func New(run Runner, logger *utils.Logger) *Queue {
	return &Queue{run: run, logger: logger}
}

// Submit starts job immediately if the queue is idle, otherwise appends it to
// the waiting list. It reports whether the job started.
func (q *Queue) Submit(job *Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.submitLocked(job)
}

func (q *Queue) submitLocked(job *Job) bool {
	if q.busy {
		q.waiting = append(q.waiting, job)
		q.logger.Info("Job queued", "job_id", job.ID, "title", job.Title, "position", len(q.waiting))
		return false
	}

	q.busy = true
	go q.execute(job)
	return true
}

func (q *Queue) execute(job *Job) {
	q.logger.Info("Job started", "job_id", job.ID, "title", job.Title,
		"waited_ms", time.Since(job.EnqueuedAt).Milliseconds())

	result, err := q.runSafely(job)
	if err != nil {
		q.logger.Error("Job failed", "job_id", job.ID, "error", err)
	} else {
		q.logger.Info("Job finished", "job_id", job.ID)
	}

	job.done <- Outcome{Result: result, Err: err}
	q.onComplete()
}

func (q *Queue) runSafely(job *Job) (result *models.AnalysisResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return q.run(job.ctx, job)
}

// onComplete clears busy and starts the head of the waiting list. Both happen
// under one lock so a concurrent Submit cannot overtake a waiting job.
func (q *Queue) onComplete() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.busy = false
	if len(q.waiting) == 0 {
		return
	}

	next := q.waiting[0]
	q.waiting[0] = nil
	q.waiting = q.waiting[1:]
	q.submitLocked(next)
}

func (q *Queue) Status() models.QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return models.QueueStatus{Busy: q.busy, Waiting: len(q.waiting)}
}
