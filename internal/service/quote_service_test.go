package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuoteService_Fetch(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = w.Write([]byte("  Stay hungry, stay foolish.\n"))
	}))
	defer srv.Close()

	svc := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL + "/", Timeout: time.Second}, zap.NewNop(), nil)

	quote, err := svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Stay hungry, stay foolish.", quote)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/quotes", gotPath)
}

func TestQuoteService_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	quote, err := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL}, zap.NewNop(), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", quote)
}

func TestQuoteService_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := metrics.NewCollector()
	_, err := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL}, zap.NewNop(), m).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQuoteUnavailable))
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteFailuresTotal))
}

func TestQuoteService_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewQuoteService(QuoteServiceConfig{BaseURL: url, Timeout: time.Second}, zap.NewNop(), nil).Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrQuoteUnavailable))
}

func TestQuoteService_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop(), nil).Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrQuoteUnavailable))
}

func TestQuoteService_ConcurrentFetchesCollapse(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte("quote"))
	}))
	defer srv.Close()

	svc := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote, err := svc.Fetch(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "quote", quote)
		}()
	}

	require.Eventually(t, func() bool { return hits.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Less(t, hits.Load(), int32(5))
}

func TestQuoteService_RateLimited(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("quote"))
	}))
	defer srv.Close()

	svc := NewQuoteService(QuoteServiceConfig{BaseURL: srv.URL, RatePerSecond: 0.001, RateBurst: 1}, zap.NewNop(), nil)

	_, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrQuoteUnavailable))
	assert.Equal(t, int32(1), hits.Load())
}
