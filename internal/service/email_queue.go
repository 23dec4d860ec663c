package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"journal-directory-backend/internal/logger"
)

var ErrEmailQueueFull = errors.New("email queue is full")

const sendTimeout = 30 * time.Second

type noticeKind int

const (
	noticeRegistrationReceived noticeKind = iota
	noticeRejection
)

type emailJob struct {
	kind    noticeKind
	to      string
	name    string
	reason  string
	attempt int
}

// EmailQueue sends best-effort notices from a worker pool with retries.
// Recovery links bypass the queue because callers report their failure.
type EmailQueue struct {
	inner      EmailService
	jobs       chan emailJob
	workers    int
	maxRetries int
	backoff    func(attempt int) time.Duration
}

func NewEmailQueue(inner EmailService, workers, queueSize, maxRetries int) *EmailQueue {
	if workers < 1 {
		workers = 1
	}
	return &EmailQueue{
		inner:      inner,
		jobs:       make(chan emailJob, queueSize),
		workers:    workers,
		maxRetries: maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
	}
}

// Run processes queued notices until ctx is done, then returns once every
// worker has stopped. Jobs still queued at that point are dropped.
func (q *EmailQueue) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			q.worker(ctx, id)
		}(i)
	}
	wg.Wait()
	if n := len(q.jobs); n > 0 {
		logger.Warn("Email queue stopped with unsent notices", "count", n)
	}
}

func (q *EmailQueue) worker(ctx context.Context, id int) {
	logger.Debug("Email worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *EmailQueue) process(ctx context.Context, job emailJob) {
	for {
		err := q.send(ctx, job)
		if err == nil {
			return
		}
		if job.attempt >= q.maxRetries {
			logger.Error("Notice email failed", "to", job.to, "attempts", job.attempt+1, "error", err)
			return
		}
		job.attempt++
		logger.Warn("Retrying notice email", "to", job.to, "attempt", job.attempt, "error", err)

		timer := time.NewTimer(q.backoff(job.attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (q *EmailQueue) send(ctx context.Context, job emailJob) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	switch job.kind {
	case noticeRejection:
		return q.inner.SendRejectionNotice(ctx, job.to, job.name, job.reason)
	default:
		return q.inner.SendRegistrationReceived(ctx, job.to, job.name)
	}
}

func (q *EmailQueue) enqueue(job emailJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrEmailQueueFull
	}
}

func (q *EmailQueue) SendRecoveryLink(ctx context.Context, to, link string, kind RecoveryKind) error {
	return q.inner.SendRecoveryLink(ctx, to, link, kind)
}

func (q *EmailQueue) SendRegistrationReceived(_ context.Context, to, name string) error {
	return q.enqueue(emailJob{kind: noticeRegistrationReceived, to: to, name: name})
}

func (q *EmailQueue) SendRejectionNotice(_ context.Context, to, name, reason string) error {
	return q.enqueue(emailJob{kind: noticeRejection, to: to, name: name, reason: reason})
}
