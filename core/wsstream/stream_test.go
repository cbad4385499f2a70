package wsstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/core/wsstream"
	"github.com/dmitrymomot/reactive/pkg/demand"
)

type tick struct {
	Seq int `json:"seq"`
}

// capture hands out the server-side subscription of every connection.
type capture[T any] struct {
	src  subject.Observable[T]
	subs chan subject.Subscription
}

func newCapture[T any](src subject.Observable[T]) *capture[T] {
	return &capture[T]{src: src, subs: make(chan subject.Subscription, 4)}
}

func (c *capture[T]) Subscribe(o subject.Observer[T]) subject.Subscription {
	s := c.src.Subscribe(o)
	c.subs <- s
	return s
}

func (c *capture[T]) next(t *testing.T) subject.Subscription {
	t.Helper()
	select {
	case s := <-c.subs:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("server never subscribed")
		return nil
	}
}

type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
}

func (r *recorder[T]) OnNext(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder[T]) OnCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recorder[T]) snapshot() ([]T, []error, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...), append([]error(nil), r.errs...), r.completed
}

// awareRecorder starts with the demand it requests itself.
type awareRecorder[T any] struct {
	recorder[T]
	initial int64
}

func (a *awareRecorder[T]) OnSubscribe(s subject.Subscription) {
	if a.initial > 0 {
		s.Request(a.initial)
	}
}

func serve[T any](t *testing.T, src subject.Observable[T], opts ...wsstream.Option) string {
	t.Helper()
	opts = append([]wsstream.Option{wsstream.WithAllowAnyOrigin()}, opts...)
	server := httptest.NewServer(wsstream.Handler(src, opts...))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end")
	}
}

func TestStream_ValuesAndCompletion(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)

	serverSub := c.next(t)
	require.Eventually(t, func() bool {
		return serverSub.Requested() == demand.Unbounded
	}, 2*time.Second, 5*time.Millisecond)

	for i := 1; i <= 3; i++ {
		s.OnNext(tick{Seq: i})
	}
	s.OnCompleted()

	waitDone(t, sub.Done())

	values, errs, completed := rec.snapshot()
	assert.Equal(t, []tick{{1}, {2}, {3}}, values)
	assert.Empty(t, errs)
	assert.Equal(t, 1, completed)
	assert.Equal(t, int64(3), sub.Delivered())
	assert.True(t, sub.IsCancelled())
}

func TestStream_RemoteDemandBoundsDelivery(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	rec := &awareRecorder[tick]{initial: 2}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)

	serverSub := c.next(t)
	require.Eventually(t, func() bool {
		return serverSub.Requested() == 2
	}, 2*time.Second, 5*time.Millisecond)

	for i := 1; i <= 5; i++ {
		s.OnNext(tick{Seq: i})
	}
	s.OnCompleted()

	waitDone(t, sub.Done())

	values, _, completed := rec.snapshot()
	assert.Equal(t, []tick{{1}, {2}}, values)
	assert.Equal(t, 1, completed)
}

func TestStream_ErrorFrame(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)
	c.next(t)

	s.OnError(errors.New("upstream failed"))
	waitDone(t, sub.Done())

	_, errs, completed := rec.snapshot()
	require.Len(t, errs, 1)
	assert.Zero(t, completed)

	var remote *wsstream.RemoteError
	require.ErrorAs(t, errs[0], &remote)
	assert.Equal(t, "upstream failed", remote.Message)
}

func TestStream_LateSubscriber(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	s.OnNext(tick{Seq: 1})
	s.OnCompleted()
	url := serve[tick](t, s)

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)

	waitDone(t, sub.Done())

	values, errs, completed := rec.snapshot()
	assert.Empty(t, values)
	assert.Empty(t, errs)
	assert.Equal(t, 1, completed)
}

func TestStream_ClientCancel(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)
	c.next(t)
	require.True(t, s.HasObservers())

	sub.Cancel()
	sub.Cancel()

	waitDone(t, sub.Done())
	require.Eventually(t, func() bool {
		return !s.HasObservers()
	}, 2*time.Second, 5*time.Millisecond)

	s.OnNext(tick{Seq: 1})
	s.OnCompleted()

	values, errs, completed := rec.snapshot()
	assert.Empty(t, values)
	assert.Empty(t, errs)
	assert.Zero(t, completed)
	assert.Zero(t, sub.Requested())
}

func TestStream_NegativeRequest(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	rec := &awareRecorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)
	c.next(t)

	sub.Request(-1)
	waitDone(t, sub.Done())

	_, errs, _ := rec.snapshot()
	require.Len(t, errs, 1)

	var remote *wsstream.RemoteError
	require.ErrorAs(t, errs[0], &remote)
	assert.Contains(t, remote.Message, subject.ErrInvalidRequest.Error())
	assert.False(t, s.HasObservers())
}

func TestStream_RawFrames(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	serverSub := c.next(t)
	require.NoError(t, conn.WriteJSON(wsstream.Frame{Type: wsstream.FrameRequest, N: 1}))
	require.Eventually(t, func() bool {
		return serverSub.Requested() == 1
	}, 2*time.Second, 5*time.Millisecond)

	s.OnNext(tick{Seq: 7})
	s.OnNext(tick{Seq: 8})
	s.OnCompleted()

	var f wsstream.Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, wsstream.FrameNext, f.Type)

	var got tick
	require.NoError(t, json.Unmarshal(f.Data, &got))
	assert.Equal(t, tick{Seq: 7}, got)

	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, wsstream.FrameComplete, f.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestHandler_OnConnectRejects(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	url := serve[tick](t, s, wsstream.WithOnConnect(func(ctx context.Context, conn *websocket.Conn) error {
		return errors.New("not allowed")
	}))

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)

	waitDone(t, sub.Done())

	_, errs, _ := rec.snapshot()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], wsstream.ErrConnectionLost)
	assert.False(t, s.HasObservers())
}

func TestHandler_ErrorHandlerOnBadUpgrade(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		reported error
	)
	s := subject.New[tick]()
	server := httptest.NewServer(wsstream.Handler[tick](s, wsstream.WithErrorHandler(func(ctx context.Context, err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
	})))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mu.Lock()
	assert.Error(t, reported)
	mu.Unlock()
	assert.False(t, s.HasObservers())
}

func TestDial_Failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := wsstream.Dial[tick](
		context.Background(),
		"ws"+strings.TrimPrefix(server.URL, "http"),
		&recorder[tick]{},
	)
	require.ErrorIs(t, err, wsstream.ErrDialFailed)
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	s := subject.New[tick]()
	c := newCapture[tick](s)
	url := serve[tick](t, c, wsstream.WithConfig(wsstream.Config{
		ReadBufferSize: 512,
		SendBufferSize: 1,
		WriteTimeout:   time.Second,
	}))

	rec := &recorder[tick]{}
	sub, err := wsstream.Dial[tick](context.Background(), url, rec)
	require.NoError(t, err)

	serverSub := c.next(t)
	require.Eventually(t, func() bool {
		return serverSub.Requested() == demand.Unbounded
	}, 2*time.Second, 5*time.Millisecond)

	s.OnNext(tick{Seq: 1})
	s.OnCompleted()
	waitDone(t, sub.Done())

	values, _, completed := rec.snapshot()
	assert.LessOrEqual(t, len(values), 1)
	assert.Equal(t, 1, completed)
}
