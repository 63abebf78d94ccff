package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue carries ids of finished tasks from workers to the tracker.
type Queue interface {
	Enqueue(ctx context.Context, taskID string) error
	ClaimBlocking(ctx context.Context, timeout time.Duration) (string, error)
	Ack(ctx context.Context, taskID string) error
	RequeueStale(ctx context.Context, max int64) (int64, error)
}

type Lane struct {
	QueueKey      string
	ProcessingKey string
}

// redisQueue implements a reliable queue on two Redis lists.
// Producers: LPUSH lane.queue
// Claim:     BRPOPLPUSH lane.queue -> lane.processing
// Ack:       LREM lane.processing
type redisQueue struct {
	rdb  *redis.Client
	lane Lane
}

func NewRedisQueue(rdb *redis.Client, lane Lane) Queue {
	return &redisQueue{rdb: rdb, lane: lane}
}

func (q *redisQueue) Enqueue(ctx context.Context, taskID string) error {
	return q.rdb.LPush(ctx, q.lane.QueueKey, taskID).Err()
}

// ClaimBlocking waits up to timeout for a task id; timeout <= 0 waits forever.
// It returns redis.Nil when nothing arrived in time.
func (q *redisQueue) ClaimBlocking(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout < 0 {
		timeout = 0
	}
	id, err := q.rdb.BRPopLPush(ctx, q.lane.QueueKey, q.lane.ProcessingKey, timeout).Result()
	if err != nil {
		return "", err
	}
	return id, nil
}

func (q *redisQueue) Ack(ctx context.Context, taskID string) error {
	return q.rdb.LRem(ctx, q.lane.ProcessingKey, 1, taskID).Err()
}

// RequeueStale moves up to max ids from processing back to the queue.
// It's a simple "reaper": at-least-once delivery.
func (q *redisQueue) RequeueStale(ctx context.Context, max int64) (int64, error) {
	var moved int64
	for i := int64(0); i < max; i++ {
		id, err := q.rdb.RPopLPush(ctx, q.lane.ProcessingKey, q.lane.QueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				break
			}
			return moved, err
		}
		if id != "" {
			moved++
		}
	}
	return moved, nil
}
