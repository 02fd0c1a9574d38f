package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maxCascadeBackoff caps the wait between two attempts of a cascade job.
const maxCascadeBackoff = time.Minute

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

type cascadeConsumer struct {
	logger      *zap.Logger
	queue       Queuer
	removers    map[string]DocumentRemover
	maxAttempts int
	backoff     time.Duration
}

// NewCascadeConsumer provides a consumer which replays failed cascades against
// the given collections. A failed job waits backoff, doubled on each attempt,
// before being pushed back. A job failing maxAttempts times is dropped.
func NewCascadeConsumer(logger *zap.Logger, q Queuer, maxAttempts int, backoff time.Duration, removers ...DocumentRemover) Consumer {
	m := make(map[string]DocumentRemover, len(removers))
	for _, r := range removers {
		m[r.Name()] = r
	}
	return &cascadeConsumer{logger: logger, queue: q, removers: m, maxAttempts: maxAttempts, backoff: backoff}
}

// delay returns the wait before the next run of a job which failed its attempt.
func (cc *cascadeConsumer) delay(attempt int) time.Duration {
	d := cc.backoff
	for i := 1; i < attempt && d < maxCascadeBackoff; i++ {
		d *= 2
	}
	if d > maxCascadeBackoff {
		d = maxCascadeBackoff
	}
	return d
}

func (cc *cascadeConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		if ctx.Err() != nil {
			cc.logger.Info("consumer: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}
		qid, job, err := cc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			cc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			cc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if qid != CascadeQueue {
			cc.logger.Warn("consumer: received job on unknow queue id", zap.String("qid", qid), zap.Any("job", job))
			continue
		}
		cc.process(ctx, job)
	}
}

// process runs the job once and pushes it back on failure until the
// attempts are exhausted.
func (cc *cascadeConsumer) process(ctx context.Context, job CascadeJob) {
	logger := cc.logger.With(
		zap.String("collection", job.Collection),
		zap.String("field", job.Field),
		zap.String("value", job.Value),
		zap.Int("attempt", job.Attempt),
	)
	remover, found := cc.removers[job.Collection]
	if !found {
		logger.Warn("consumer: no collection to replay the cascade on")
		return
	}

	n, err := remover.DeleteWhere(ctx, Filter{job.Field: job.Value})
	if err == nil {
		logger.Info("consumer: cascade replayed", zap.Int("deleted", n))
		return
	}

	if job.Attempt >= cc.maxAttempts {
		logger.Error("consumer: cascade abandoned, dependents left orphaned", zap.Error(err))
		return
	}
	delay := cc.delay(job.Attempt)
	job.Attempt++

	// on shutdown the job is pushed back right away so that it survives.
	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if perr := cc.queue.Push(pctx, CascadeQueue, job); perr != nil {
		logger.Error("consumer: failed to requeue cascade", zap.NamedError("cause", err), zap.Error(perr))
		return
	}
	logger.Warn("consumer: cascade failed, requeued", zap.Duration("delay", delay), zap.Error(err))
}
