package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Predefinied Queue IDs.
const (
	CascadeQueue = "cascade"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of cascade jobs.
type Queuer interface {
	Push(ctx context.Context, qid string, job CascadeJob) error
	Pop(ctx context.Context, qids ...string) (string, CascadeJob, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
	prefix string
}

func NewRedisQueue(client *redis.Client, prefix string) Queuer {
	return &redisQueue{client: client, prefix: prefix}
}

func (q *redisQueue) key(qid string) string {
	return q.prefix + "queue:" + qid
}

// Push enqueues a job onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, job CascadeJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.key(qid), jobBytes).Err()
}

// Pop returns the first dequeued job from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, CascadeJob, error) {
	var job CascadeJob
	var qid string
	keys := make([]string, 0, len(qids))
	for _, id := range qids {
		keys = append(keys, q.key(id))
	}
	infos, err := q.client.BLPop(ctx, 0*time.Second, keys...).Result()
	if err != nil {
		return qid, job, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &job); err != nil {
		return qid, job, err
	}
	for _, id := range qids {
		if q.key(id) == infos[0] {
			qid = id
		}
	}
	return qid, job, nil
}

// queueRetrier hands failed cascades over to the cascade queue.
type queueRetrier struct {
	logger *zap.Logger
	queue  Queuer
}

var _ CascadeRetrier = (*queueRetrier)(nil)

func NewQueueRetrier(logger *zap.Logger, queue Queuer) CascadeRetrier {
	return &queueRetrier{logger: logger, queue: queue}
}

// Retry enqueues the job. The caller request context may be about to end so
// the push runs on a detached one.
func (qr *queueRetrier) Retry(ctx context.Context, job CascadeJob) error {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := qr.queue.Push(pctx, CascadeQueue, job); err != nil {
		return err
	}
	qr.logger.Info("cascade: scheduled retry",
		zap.String("collection", job.Collection),
		zap.String("field", job.Field),
		zap.String("value", job.Value),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}
