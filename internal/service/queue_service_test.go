package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"job-tracker-service/internal/service"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestRedisQueue_ClaimAckRequeue(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	lane := service.Lane{QueueKey: "tasks:finished", ProcessingKey: "tasks:finished:processing"}
	q := service.NewRedisQueue(rdb, lane)

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))

	// FIFO: first pushed, first claimed.
	id, err := q.ClaimBlocking(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	n, err := rdb.LLen(ctx, lane.ProcessingKey).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, q.Ack(ctx, "a"))
	n, err = rdb.LLen(ctx, lane.ProcessingKey).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	// claimed but never acked
	id, err = q.ClaimBlocking(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	moved, err := q.RequeueStale(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved)

	id, err = q.ClaimBlocking(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestRedisQueue_ClaimTimeout(t *testing.T) {
	rdb := setupRedis(t)
	q := service.NewRedisQueue(rdb, service.Lane{QueueKey: "empty", ProcessingKey: "empty:processing"})

	_, err := q.ClaimBlocking(context.Background(), time.Second)
	assert.True(t, errors.Is(err, redis.Nil))
}
