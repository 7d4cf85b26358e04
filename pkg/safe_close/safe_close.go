// Package safe_close coordinates the shutdown of long running goroutines
// Package safe_close 协调常驻 goroutine 的关闭
package safe_close

import "sync"

// SafeClose broadcasts one close signal to every attached goroutine and waits for them
// SafeClose 向所有挂载的 goroutine 广播关闭信号并等待其退出
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

// NewSafeClose 创建 SafeClose
func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach starts fn in its own goroutine; fn must call done when it returns
// Attach 在独立 goroutine 中运行 fn，fn 返回前必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	go fn(func() { once.Do(s.wg.Done) }, s.closeSignal)
}

// SendCloseSignal closes the signal channel; only the first call records err
// SendCloseSignal 发送关闭信号，只记录第一次调用的 err
func (s *SafeClose) SendCloseSignal(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.closeSignal)
	})
}

// WaitClosed blocks until every attached goroutine has called done
// WaitClosed 等待所有挂载的 goroutine 退出
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
