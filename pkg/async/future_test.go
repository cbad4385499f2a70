package async

import (
	"errors"
	"testing"
	"time"
)

func TestFutureResolveOnce(t *testing.T) {
	t.Parallel()

	f := newFuture[int]()
	if f.IsComplete() {
		t.Fatal("Expected future to be pending")
	}

	f.resolve(1, nil)
	f.resolve(2, errors.New("ignored"))

	v, err := f.Await()
	if err != nil || v != 1 {
		t.Errorf("Expected (1, nil), got (%d, %v)", v, err)
	}
	if !f.IsComplete() {
		t.Error("Expected future to be complete")
	}
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	f := newFuture[string]()
	if _, err := f.AwaitWithTimeout(20 * time.Millisecond); !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got: %v", err)
	}

	f.resolve("ok", nil)
	v, err := f.AwaitWithTimeout(time.Second)
	if err != nil || v != "ok" {
		t.Errorf("Expected (ok, nil), got (%s, %v)", v, err)
	}
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	futures := []*Future[int]{newFuture[int](), newFuture[int](), newFuture[int]()}
	for i, f := range futures {
		go f.resolve(i*10, nil)
	}

	results, err := WaitAll(futures...)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range results {
		if v != i*10 {
			t.Errorf("Expected results[%d] = %d, got %d", i, i*10, v)
		}
	}

	boom := errors.New("boom")
	failing := []*Future[int]{newFuture[int](), newFuture[int]()}
	failing[0].resolve(1, nil)
	failing[1].fail(boom)
	if _, err := WaitAll(failing...); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got: %v", err)
	}
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	slow := newFuture[int]()
	fast := newFuture[int]()
	fast.resolve(7, nil)

	index, v, err := WaitAny(slow, fast)
	if err != nil || index != 1 || v != 7 {
		t.Errorf("Expected (1, 7, nil), got (%d, %d, %v)", index, v, err)
	}

	if _, _, err := WaitAny[int](); !errors.Is(err, ErrNoFutures) {
		t.Errorf("Expected ErrNoFutures, got: %v", err)
	}
}
