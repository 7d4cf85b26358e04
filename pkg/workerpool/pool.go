// Package workerpool runs background jobs on a fixed set of workers.
// Each worker owns a lane, jobs submitted with the same key land on the
// same lane and run in submission order.
// Package workerpool 固定数量的 worker，每个 worker 一条队列，同 key 任务按提交顺序执行
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 目标队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 已关闭
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务执行前 context 已结束
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config worker pool configuration
// Config Worker Pool 配置
type Config struct {
	// MaxWorkers worker 数量，默认 4
	MaxWorkers int
	// QueueSize 每个 worker 的队列容量，默认 256
	QueueSize int
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{MaxWorkers: 4, QueueSize: 256}
}

// Task 后台任务
type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	name string
	fn   Task
	done chan error
}

// Pool 任务池
type Pool struct {
	config Config
	logger *zap.Logger

	lanes []chan job
	next  atomic.Uint32
	wg    sync.WaitGroup

	active atomic.Int64
	failed atomic.Int64

	// mu guards closed and the lane channels against close during send
	mu     sync.RWMutex
	closed bool
}

// New 创建并启动 Pool，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{config: c, logger: logger, lanes: make([]chan job, c.MaxWorkers)}
	for i := range p.lanes {
		p.lanes[i] = make(chan job, c.QueueSize)
		p.wg.Add(1)
		go p.worker(p.lanes[i])
	}
	p.logger.Debug("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))
	return p
}

func (p *Pool) worker(lane <-chan job) {
	defer p.wg.Done()
	for j := range lane {
		p.execute(j)
	}
}

func (p *Pool) execute(j job) {
	p.active.Add(1)
	defer p.active.Add(-1)

	start := time.Now()
	err := ErrTaskCancelled
	if j.ctx.Err() == nil {
		err = p.run(j)
	}
	if err != nil {
		p.failed.Add(1)
		p.logger.Error("worker pool task failed",
			zap.String("task", j.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
	if j.done != nil {
		j.done <- err
	}
}

// run turns a panic into the task's error
func (p *Pool) run(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panic: %v", j.name, r)
		}
	}()
	return j.fn(j.ctx)
}

func (p *Pool) laneFor(key string) chan job {
	if key == "" {
		// shortest lane, scanning from a rotating start
		start := int(p.next.Add(1))
		best := p.lanes[start%len(p.lanes)]
		for i := 1; i < len(p.lanes); i++ {
			if l := p.lanes[(start+i)%len(p.lanes)]; len(l) < len(best) {
				best = l
			}
		}
		return best
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return p.lanes[h.Sum32()%uint32(len(p.lanes))]
}

func (p *Pool) enqueue(key string, j job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.laneFor(key) <- j:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Submit 提交任务并等待结果
func (p *Pool) Submit(ctx context.Context, name string, fn Task) error {
	j := job{ctx: ctx, name: name, fn: fn, done: make(chan error, 1)}
	if err := p.enqueue("", j); err != nil {
		return err
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitAsync 异步提交任务，不保证与其他任务的先后顺序
func (p *Pool) SubmitAsync(ctx context.Context, name string, fn Task) error {
	return p.enqueue("", job{ctx: ctx, name: name, fn: fn})
}

// SubmitKeyed queues fn behind every earlier task submitted with the same key
// SubmitKeyed 异步提交任务，同 key 的任务按提交顺序串行执行
func (p *Pool) SubmitKeyed(ctx context.Context, key, name string, fn Task) error {
	if key == "" {
		return errors.New("workerpool: empty key")
	}
	return p.enqueue(key, job{ctx: ctx, name: name, fn: fn})
}

// IsClosed 是否已关闭
func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown stops accepting tasks and runs everything already queued, bounded by ctx
// Shutdown 停止接收新任务并执行完已排队任务
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for _, lane := range p.lanes {
		close(lane)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timeout", zap.Int("queued", p.queued()))
		return ctx.Err()
	}
}

func (p *Pool) queued() int {
	n := 0
	for _, lane := range p.lanes {
		n += len(lane)
	}
	return n
}

// Metrics Worker Pool 指标
type Metrics struct {
	MaxWorkers    int   `json:"maxWorkers"`
	ActiveCount   int64 `json:"activeCount"`
	FailedCount   int64 `json:"failedCount"`
	QueuedCount   int   `json:"queuedCount"`
	QueueCapacity int   `json:"queueCapacity"`
	IsClosed      bool  `json:"isClosed"`
}

// GetMetrics 获取当前指标
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.active.Load(),
		FailedCount:   p.failed.Load(),
		QueuedCount:   p.queued(),
		QueueCapacity: p.config.QueueSize * p.config.MaxWorkers,
		IsClosed:      p.IsClosed(),
	}
}
