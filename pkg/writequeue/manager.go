// Package writequeue serializes writes per key, one lane per table,
// so a SQLite database never sees two writers at once
// Package writequeue 按 key 串行化写操作，每张表一条通道
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout is returned when the caller stops waiting. The write itself
	// still runs if it was already dequeued.
	// ErrWriteTimeout 等待超时，已出队的写操作仍会执行
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每个 key 的待执行上限，默认 100
	QueueCapacity int
	// WriteTimeout 调用方最长等待时间，默认 30 秒
	WriteTimeout time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
	}
}

// Stats 队列统计
type Stats struct {
	Lanes    int    `json:"lanes"`
	Pending  int    `json:"pending"`
	Executed uint64 `json:"executed"`
	Rejected uint64 `json:"rejected"`
	TimedOut uint64 `json:"timedOut"`
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// Manager owns one FIFO lane per key. Lanes are created on first use and
// live until Shutdown, which runs every queued write before returning.
// Manager 每个 key 一条 FIFO 通道，Shutdown 时执行完所有已排队的写操作
type Manager struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[string]chan writeOp
	closed bool
	wg     sync.WaitGroup

	executed atomic.Uint64
	rejected atomic.Uint64
	timedOut atomic.Uint64
}

// New 创建写队列管理器，cfg 为 nil 或字段非正时使用默认值
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: c, logger: logger, lanes: make(map[string]chan writeOp)}
}

// Execute queues fn on the lane of key and waits for its result.
// fn is skipped when ctx is already done at the time it would run.
// Execute 在 key 对应通道排队执行 fn 并等待结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}
	if err := m.enqueue(key, op); err != nil {
		return err
	}

	timeout := m.cfg.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		m.timedOut.Add(1)
		m.logger.Warn("write queue wait timeout", zap.String("key", key), zap.Duration("timeout", timeout))
		return ErrWriteTimeout
	}
}

// enqueue sends under the lock so Shutdown never closes a lane mid-send
func (m *Manager) enqueue(key string, op writeOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrWriteQueueClosed
	}

	lane, ok := m.lanes[key]
	if !ok {
		lane = make(chan writeOp, m.cfg.QueueCapacity)
		m.lanes[key] = lane
		m.wg.Add(1)
		go m.run(key, lane)
		m.logger.Debug("write lane created", zap.String("key", key))
	}

	select {
	case lane <- op:
		return nil
	default:
		m.rejected.Add(1)
		return ErrWriteQueueFull
	}
}

func (m *Manager) run(key string, lane <-chan writeOp) {
	defer m.wg.Done()
	for op := range lane {
		if err := op.ctx.Err(); err != nil {
			op.result <- err
			continue
		}
		err := op.fn()
		m.executed.Add(1)
		op.result <- err
	}
	m.logger.Debug("write lane drained", zap.String("key", key))
}

// Shutdown stops accepting writes and waits for queued ones, bounded by ctx
// Shutdown 停止接收新写入并等待已排队的写操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for _, lane := range m.lanes {
		close(lane)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue shutdown timeout", zap.Int("pending", m.Stats().Pending))
		return ctx.Err()
	}
}

// Stats 返回当前统计
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	s := Stats{Lanes: len(m.lanes)}
	for _, lane := range m.lanes {
		s.Pending += len(lane)
	}
	m.mu.Unlock()
	s.Executed = m.executed.Load()
	s.Rejected = m.rejected.Load()
	s.TimedOut = m.timedOut.Load()
	return s
}

// QueueCount 返回通道数量
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}

// IsClosed 返回管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
