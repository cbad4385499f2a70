package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/pkg/async"
)

func TestFirst(t *testing.T) {
	t.Parallel()

	s := subject.New[int]()
	f := async.First(context.Background(), s)

	if f.IsComplete() {
		t.Fatal("Expected pending future")
	}

	s.OnNext(1)
	s.OnNext(2)

	v, err := f.AwaitWithTimeout(time.Second)
	if err != nil || v != 1 {
		t.Errorf("Expected (1, nil), got (%d, %v)", v, err)
	}
	if s.HasObservers() {
		t.Error("Expected subscription to be cancelled after the first value")
	}
}

func TestFirstCompletedWithoutValue(t *testing.T) {
	t.Parallel()

	s := subject.New[int]()
	f := async.First(context.Background(), s)
	s.OnCompleted()

	if _, err := f.Await(); !errors.Is(err, async.ErrNoValue) {
		t.Errorf("Expected ErrNoValue, got: %v", err)
	}
}

func TestFirstAfterTermination(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := subject.New[int]()
	s.OnError(boom)

	f := async.First(context.Background(), s)
	if !f.IsComplete() {
		t.Fatal("Expected future settled synchronously by the stored terminal event")
	}
	if _, err := f.Await(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got: %v", err)
	}
}

func TestFirstContextCancellation(t *testing.T) {
	t.Parallel()

	s := subject.New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := async.First(ctx, s)
	_, err := f.AwaitWithTimeout(time.Second)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context deadline exceeded error, got: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for s.HasObservers() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.HasObservers() {
		t.Error("Expected subscription to be cancelled with the context")
	}
}

func TestLast(t *testing.T) {
	t.Parallel()

	s := subject.New[string]()
	f := async.Last(context.Background(), s)

	s.OnNext("a")
	s.OnNext("b")
	s.OnNext("c")
	if f.IsComplete() {
		t.Fatal("Expected Last to wait for completion")
	}
	s.OnCompleted()

	v, err := f.Await()
	if err != nil || v != "c" {
		t.Errorf("Expected (c, nil), got (%s, %v)", v, err)
	}

	empty := subject.New[string]()
	ef := async.Last(context.Background(), empty)
	empty.OnCompleted()
	if _, err := ef.Await(); !errors.Is(err, async.ErrNoValue) {
		t.Errorf("Expected ErrNoValue, got: %v", err)
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	s := subject.New[int]()
	f := async.Collect(context.Background(), s)

	for i := range 5 {
		s.OnNext(i)
	}
	s.OnCompleted()

	values, err := f.Await()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(values) != 5 {
		t.Fatalf("Expected 5 values, got %d", len(values))
	}
	for i, v := range values {
		if v != i {
			t.Errorf("Expected values[%d] = %d, got %d", i, i, v)
		}
	}
}

func TestCollectError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := subject.New[int]()
	f := async.Collect(context.Background(), s)

	s.OnNext(1)
	s.OnError(boom)

	if _, err := f.Await(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got: %v", err)
	}
}

func TestCollectEmpty(t *testing.T) {
	t.Parallel()

	s := subject.New[int]()
	f := async.Collect(context.Background(), s)
	s.OnCompleted()

	values, err := f.Await()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if values == nil || len(values) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", values)
	}
}
