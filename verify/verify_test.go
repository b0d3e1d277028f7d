package verify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortex-fintech/crmclean/foundation/timeutil"
	"github.com/vortex-fintech/crmclean/verify"
)

func newClient(t *testing.T, srv *httptest.Server) *verify.Client {
	t.Helper()
	c, err := verify.New(verify.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Pace:    time.Second,
	}, timeutil.NewFrozenClock(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := verify.New(verify.Config{APIKey: "   "}, nil)
	assert.Error(t, err)
}

func TestVerifyDeliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
		w.Write([]byte(`{"deliverability":"DELIVERABLE","quality_score":"0.95","is_valid_format":{"value":true}}`))
	}))
	defer srv.Close()

	ok, err := newClient(t, srv).Verify(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyLowQualityScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deliverability":"DELIVERABLE","quality_score":"0.30","is_valid_format":{"value":true}}`))
	}))
	defer srv.Close()

	ok, err := newClient(t, srv).Verify(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUndeliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deliverability":"UNDELIVERABLE","quality_score":"0.95","is_valid_format":{"value":true}}`))
	}))
	defer srv.Close()

	ok, err := newClient(t, srv).Verify(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"deliverability":"DELIVERABLE","quality_score":"0.95","is_valid_format":{"value":true}}`))
	}))
	defer srv.Close()

	ok, err := newClient(t, srv).Verify(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(2), calls.Load())
}

func TestVerifyQuotaExhaustedLatches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, err := c.Verify(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, verify.ErrQuotaExhausted)
	assert.True(t, c.QuotaExhausted())
	assert.Equal(t, int32(1), calls.Load())

	// Further calls never touch the network.
	_, err = c.Verify(context.Background(), "b@c.com")
	assert.ErrorIs(t, err, verify.ErrQuotaExhausted)
	assert.Equal(t, int32(1), calls.Load())
}

func TestVerifyPacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deliverability":"DELIVERABLE","quality_score":"0.95","is_valid_format":{"value":true}}`))
	}))
	defer srv.Close()

	start := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewFrozenClock(start)
	c, err := verify.New(verify.Config{BaseURL: srv.URL, APIKey: "k", Pace: time.Second}, clock)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = c.Verify(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, start, clock.Now(), "first request is not delayed")

	_, err = c.Verify(ctx, "b@c.com")
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Second), clock.Now(), "second request waits out the pace")
}

func TestVerifyCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Verify(ctx, "a@b.com")
	assert.ErrorIs(t, err, context.Canceled)
}
