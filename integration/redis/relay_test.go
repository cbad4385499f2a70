package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/integration/redis"
	"github.com/dmitrymomot/reactive/pkg/async"
)

type order struct {
	ID    int     `json:"id"`
	Total float64 `json:"total"`
}

func TestForward_DecodesIntoSubject(t *testing.T) {
	t.Parallel()

	msgs := make(chan *goredis.Message, 3)
	msgs <- &goredis.Message{Channel: "orders", Payload: `{"id":1,"total":9.5}`}
	msgs <- &goredis.Message{Channel: "orders", Payload: `{"id":2,"total":20}`}
	close(msgs)

	orders := subject.New[order]()
	all := async.Collect(context.Background(), orders)

	err := redis.Forward(context.Background(), msgs, orders, redis.JSONCodec[order]{})
	require.NoError(t, err)

	got, err := all.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, []order{{ID: 1, Total: 9.5}, {ID: 2, Total: 20}}, got)
	assert.True(t, orders.HasCompleted())
}

func TestForward_DecodeError(t *testing.T) {
	t.Parallel()

	msgs := make(chan *goredis.Message, 2)
	msgs <- &goredis.Message{Channel: "orders", Payload: `not json`}
	msgs <- &goredis.Message{Channel: "orders", Payload: `{"id":3}`}

	orders := subject.New[order]()
	err := redis.Forward(context.Background(), msgs, orders, redis.JSONCodec[order]{})

	assert.ErrorIs(t, err, redis.ErrDecode)
	assert.True(t, orders.HasError())
	assert.ErrorIs(t, orders.Err(), redis.ErrDecode)
}

func TestForward_SkipInvalid(t *testing.T) {
	t.Parallel()

	msgs := make(chan *goredis.Message, 3)
	msgs <- &goredis.Message{Channel: "orders", Payload: `not json`}
	msgs <- &goredis.Message{Channel: "orders", Payload: `{"id":3,"total":1}`}
	close(msgs)

	orders := subject.New[order]()
	all := async.Collect(context.Background(), orders)

	err := redis.Forward(context.Background(), msgs, orders, redis.JSONCodec[order]{}, redis.WithSkipInvalid())
	require.NoError(t, err)

	got, err := all.Await()
	require.NoError(t, err)
	assert.Equal(t, []order{{ID: 3, Total: 1}}, got)
}

func TestForward_WithoutCompletion(t *testing.T) {
	t.Parallel()

	msgs := make(chan *goredis.Message)
	close(msgs)

	s := subject.New[string]()
	require.NoError(t, redis.Forward(context.Background(), msgs, s, redis.StringCodec{}, redis.WithoutCompletion()))
	assert.False(t, s.IsTerminated())
}

func TestForward_ContextCancel(t *testing.T) {
	t.Parallel()

	msgs := make(chan *goredis.Message)
	s := subject.New[string]()

	ctx, cancel := context.WithCancel(context.Background())
	var (
		wg  sync.WaitGroup
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = redis.Forward(ctx, msgs, s, redis.StringCodec{})
	}()

	cancel()
	wg.Wait()

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.IsTerminated(), "context cancellation leaves the sink open")
}

func TestListen_Live(t *testing.T) {
	url := redisURL(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: url, RetryAttempts: 1, RetryInterval: time.Second})
	require.NoError(t, err)
	defer client.Close()

	channel := "reactive-test-" + t.Name()
	s := subject.New[string]()
	first := async.First(ctx, s)

	listenCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = redis.Listen(listenCtx, client, channel, s, redis.StringCodec{}) }()

	require.Eventually(t, func() bool {
		n, err := client.Publish(ctx, channel, "hello").Result()
		return err == nil && n > 0
	}, 3*time.Second, 50*time.Millisecond)

	v, err := first.AwaitWithTimeout(3 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}
