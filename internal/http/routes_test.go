package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	s := newTestStack(t, stackOptions{})

	resp := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, healthResponse, string(body))

	head := s.do(t, http.MethodHead, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, head.StatusCode)
}

func TestHealthz_DependencyDown(t *testing.T) {
	s := newTestStack(t, stackOptions{health: []Pinger{
		pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	}})

	resp := s.do(t, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	t.Run("absent when not configured", func(t *testing.T) {
		s := newTestStack(t, stackOptions{})
		resp := s.do(t, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("served when configured", func(t *testing.T) {
		s := newTestStack(t, stackOptions{metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics")
		})})
		resp := s.do(t, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "# metrics", string(body))
	})
}
