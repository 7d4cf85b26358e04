package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReturnsTaskResult(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	want := errors.New("boom")
	err := p.Submit(context.Background(), "failing", func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)

	err = p.Submit(context.Background(), "ok", func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestSubmitAsyncDrainedOnShutdown(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 16}, nil)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), "count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(10), ran.Load())
	assert.True(t, p.IsClosed())
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.SubmitAsync(context.Background(), "late", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
}

func TestQueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.SubmitAsync(context.Background(), "block", func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	}))
	<-started

	require.NoError(t, p.SubmitAsync(context.Background(), "queued", func(ctx context.Context) error { return nil }))
	err := p.SubmitAsync(context.Background(), "overflow", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(block)
}

func TestPanicIsRecovered(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 2}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), "panics", func(ctx context.Context) error {
		panic("bad task")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad task")

	// the worker survives the panic
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, p.Submit(ctx, "after", func(ctx context.Context) error { return nil }))
	assert.Equal(t, int64(1), p.GetMetrics().FailedCount)
}

func TestSubmitKeyedKeepsOrder(t *testing.T) {
	p := New(&Config{MaxWorkers: 4, QueueSize: 64}, nil)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, p.SubmitKeyed(context.Background(), "notes", "write", func(ctx context.Context) error {
			// later tasks finish faster when they are allowed to overlap
			time.Sleep(time.Duration(50-i) * 10 * time.Microsecond)
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}))
	}
	require.NoError(t, p.Shutdown(context.Background()))

	require.Len(t, got, 50)
	assert.IsIncreasing(t, got)

	p2 := New(nil, nil)
	defer p2.Shutdown(context.Background())
	assert.Error(t, p2.SubmitKeyed(context.Background(), "", "x", func(ctx context.Context) error { return nil }))
}

func TestCancelledTaskIsSkipped(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var called atomic.Bool
	err := p.Submit(ctx, "cancelled", func(ctx context.Context) error {
		called.Store(true)
		return nil
	})
	assert.Error(t, err)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.False(t, called.Load())
}
