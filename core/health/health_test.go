package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/subject"
)

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.NoContent(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("redis down") }

	tests := []struct {
		name     string
		checks   []health.Check
		wantCode int
		wantBody string
	}{
		{name: "no checks", wantCode: http.StatusOK, wantBody: "READY"},
		{name: "all pass", checks: []health.Check{ok, ok}, wantCode: http.StatusOK, wantBody: "READY"},
		{name: "one fails", checks: []health.Check{ok, down}, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			health.Readiness(nil, tt.checks...)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	t.Run("active", func(t *testing.T) {
		t.Parallel()

		s := subject.New[int]()
		require.NoError(t, health.Stream(s)(context.Background()))
	})

	t.Run("completed", func(t *testing.T) {
		t.Parallel()

		s := subject.New[int]()
		s.OnCompleted()

		err := health.Stream(s)(context.Background())
		require.ErrorIs(t, err, health.ErrStreamTerminated)
	})

	t.Run("failed", func(t *testing.T) {
		t.Parallel()

		upstream := errors.New("feed lost")
		s := subject.New[int]()
		s.OnError(upstream)

		err := health.Stream(s)(context.Background())
		require.ErrorIs(t, err, health.ErrStreamTerminated)
		require.ErrorIs(t, err, upstream)
	})
}
