package viewmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrControllerClosed 控制器已关闭
var ErrControllerClosed = errors.New("controller closed")

// NotesGateway is the subset of the note gateway the controller calls
// NotesGateway 控制器使用的笔记网关
type NotesGateway interface {
	Insert(note *domain.Note) error
	Update(note *domain.Note) error
	Delete(id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Note, error)
	Subscribe(fn func([]*domain.Note)) func()
}

// QuoteGateway 名言网关
type QuoteGateway interface {
	Fetch(ctx context.Context) (string, error)
}

// Config 控制器配置
type Config struct {
	DefaultText string
	SaveMessage string
	EventBuffer int
	LoadTimeout time.Duration
	Now         func() time.Time
}

func (c Config) withDefaults() Config {
	if c.DefaultText == "" {
		c.DefaultText = "text"
	}
	if c.SaveMessage == "" {
		c.SaveMessage = "Action done"
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 16
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 10 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Controller owns the editing state.
// State changes are serialized. Load results arriving after a newer Load,
// CloseDialog or Save are discarded.
// Controller 持有编辑状态，过期的 Load 结果会被丢弃
type Controller struct {
	notes   NotesGateway
	quotes  QuoteGateway
	logger  *zap.Logger
	metrics *metrics.Collector
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// notifyMu orders state listener calls the same way as the mutations
	notifyMu   sync.Mutex
	mu         sync.Mutex
	state      State
	generation uint64
	closed     bool

	listenerMu sync.Mutex
	listeners  map[uint64]func(State)
	nextID     uint64

	eventsMu     sync.RWMutex
	events       chan Notification
	eventsClosed bool
}

// NewController 创建控制器
func NewController(notes NotesGateway, quotes QuoteGateway, lg *zap.Logger, m *metrics.Collector, cfg Config) *Controller {
	if lg == nil {
		lg = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		notes:     notes,
		quotes:    quotes,
		logger:    lg,
		metrics:   m,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		state:     State{Text: cfg.DefaultText},
		listeners: make(map[uint64]func(State)),
		events:    make(chan Notification, cfg.EventBuffer),
	}
}

// State 返回当前状态的拷贝
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Events returns the one-shot notification channel.
// Notifications are dropped when the buffer is full. The channel is closed by Close.
// Events 一次性通知通道，缓冲区满时丢弃
func (c *Controller) Events() <-chan Notification {
	return c.events
}

// SubscribeNotes 订阅笔记列表，订阅时立即推送当前列表
func (c *Controller) SubscribeNotes(fn func([]*domain.Note)) func() {
	return c.notes.Subscribe(fn)
}

// SubscribeState registers fn for every state change.
// fn must not call Dispatch synchronously.
// SubscribeState 订阅状态变化，回调中不能同步调用 Dispatch
func (c *Controller) SubscribeState(fn func(State)) func() {
	c.listenerMu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenerMu.Lock()
			delete(c.listeners, id)
			c.listenerMu.Unlock()
		})
	}
}

// Dispatch applies intent. State changes are visible on return;
// store writes, loads and quote fetches finish in the background.
// Dispatch 处理意图，状态同步变更，IO 在后台完成
func (c *Controller) Dispatch(intent Intent) error {
	if intent == nil {
		return pkgerrors.New("nil intent")
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrControllerClosed
	}

	c.metrics.IncIntent(IntentName(intent))

	switch in := intent.(type) {
	case SetText:
		c.update(func(s *State, _ uint64) bool {
			if s.Text == in.Text {
				return false
			}
			s.Text = in.Text
			return true
		})
	case SetImagePath:
		c.update(func(s *State, _ uint64) bool {
			s.ImagePath = cloneString(in.Path)
			return true
		})
	case OpenDialog:
		c.update(func(s *State, _ uint64) bool {
			if s.DialogOpen {
				return false
			}
			s.DialogOpen = true
			return true
		})
	case CloseDialog:
		c.update(func(s *State, _ uint64) bool {
			c.generation++
			changed := s.DialogOpen
			s.DialogOpen = false
			return changed
		})
	case Load:
		return c.load(in.ID)
	case Save:
		return c.save()
	case Delete:
		if in.ID == nil {
			return nil
		}
		return c.notes.Delete(*in.ID)
	case FireQuote:
		c.fireQuote()
	default:
		return pkgerrors.Errorf("unknown intent %T", intent)
	}
	return nil
}

func (c *Controller) load(id *int64) error {
	if id == nil {
		c.update(func(s *State, _ uint64) bool {
			c.generation++
			s.EditingID = nil
			s.Text = c.cfg.DefaultText
			s.ImagePath = nil
			s.DialogOpen = true
			return true
		})
		return nil
	}

	noteID := *id
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.goBackground(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.LoadTimeout)
		defer cancel()

		note, err := c.notes.FindByID(ctx, noteID)
		if err != nil {
			if errors.Is(err, context.Canceled) && c.ctx.Err() != nil {
				return
			}
			c.logger.Warn("load note failed",
				zap.Int64(logger.FieldNoteID, noteID),
				zap.Uint64(logger.FieldGeneration, gen),
				zap.Error(err))
			c.mu.Lock()
			stale := c.generation != gen
			c.mu.Unlock()
			if !stale {
				c.emit(Notification{Kind: NotificationLoadFailed, Message: err.Error(), NoteID: domain.Int64Ptr(noteID), Err: err})
			}
			return
		}

		c.update(func(s *State, current uint64) bool {
			if current != gen {
				c.logger.Debug("stale load discarded",
					zap.Int64(logger.FieldNoteID, noteID),
					zap.Uint64(logger.FieldGeneration, gen))
				return false
			}
			s.EditingID = domain.Int64Ptr(noteID)
			s.Text = note.Text
			s.ImagePath = cloneString(note.ImagePath)
			s.DialogOpen = true
			return true
		})
	})
	return nil
}

func (c *Controller) save() error {
	var note *domain.Note
	c.update(func(s *State, _ uint64) bool {
		c.generation++
		note = &domain.Note{
			ID:        cloneInt64(s.EditingID),
			Text:      s.Text,
			UpdatedAt: c.cfg.Now(),
			ImagePath: cloneString(s.ImagePath),
		}
		s.DialogOpen = false
		return true
	})

	var err error
	if note.ID != nil {
		err = c.notes.Update(note)
	} else {
		err = c.notes.Insert(note)
	}
	if err != nil {
		c.logger.Error("save note failed", zap.Error(err))
		return err
	}
	c.emit(Notification{Kind: NotificationSaveCompleted, Message: c.cfg.SaveMessage, NoteID: cloneInt64(note.ID)})
	return nil
}

func (c *Controller) fireQuote() {
	c.goBackground(func(ctx context.Context) {
		quote, err := c.quotes.Fetch(ctx)
		if err != nil {
			if c.ctx.Err() == nil {
				c.logger.Warn("fetch quote failed", zap.Error(err))
			}
			return
		}
		c.emit(Notification{Kind: NotificationQuoteReceived, Message: quote})
	})
}

// update runs fn under the state lock, then notifies listeners in mutation order
func (c *Controller) update(fn func(s *State, generation uint64) bool) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	changed := fn(&c.state, c.generation)
	snapshot := c.state.Clone()
	c.mu.Unlock()

	if !changed {
		return
	}

	c.listenerMu.Lock()
	listeners := make([]func(State), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.listenerMu.Unlock()

	for _, l := range listeners {
		l(snapshot.Clone())
	}
}

func (c *Controller) emit(n Notification) {
	c.eventsMu.RLock()
	defer c.eventsMu.RUnlock()
	if c.eventsClosed {
		return
	}
	select {
	case c.events <- n:
		c.metrics.IncNotification(string(n.Kind), "emitted")
	default:
		c.metrics.IncNotification(string(n.Kind), "dropped")
		c.logger.Warn("notification dropped, buffer full", zap.String(logger.FieldNotification, string(n.Kind)))
	}
}

func (c *Controller) goBackground(fn func(ctx context.Context)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		fn(c.ctx)
	}()
}

// Wait blocks until in-flight loads and quote fetches finish
// Wait 等待后台任务完成
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels background work and closes the Events channel. Safe to call twice.
// Close 取消后台任务并关闭通知通道
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.eventsMu.Lock()
	c.eventsClosed = true
	close(c.events)
	c.eventsMu.Unlock()
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
