package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

// WebSocketMessage 客户端消息，线上格式为 "Type|json"
type WebSocketMessage struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketClient 结构体来存储每个 WebSocket 连接及其相关状态
type WebsocketClient struct {
	conn     *gws.Conn
	done     chan struct{}
	doneOnce sync.Once
	Ctx      *gin.Context
	server   *WebsocketServer

	// cleanups run once when the connection closes
	cleanupMu sync.Mutex
	cleanups  []func()
}

// OnClose registers fn to run when the connection closes
// OnClose 注册连接关闭时执行的清理函数
func (c *WebsocketClient) OnClose(fn func()) {
	c.cleanupMu.Lock()
	defer c.cleanupMu.Unlock()
	c.cleanups = append(c.cleanups, fn)
}

func (c *WebsocketClient) close() {
	c.doneOnce.Do(func() {
		close(c.done)
		c.cleanupMu.Lock()
		fns := c.cleanups
		c.cleanups = nil
		c.cleanupMu.Unlock()
		for _, fn := range fns {
			fn()
		}
	})
}

// BindAndValid 解码 JSON 消息并校验
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	if err := json.Unmarshal(data, obj); err != nil {
		return false, ValidErrors{&ValidError{Key: "body", Message: "Invalid message format"}}
	}
	return ValidStruct(c.Ctx, obj)
}

// PingLoop 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				c.server.logger.Debug("WebsocketServer Client Ping err", zap.Error(err))
				return
			}
		}
	}
}

// ToResponse 将结果转换为 JSON 格式并发送给客户端
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action string) {
	c.Send(action, NewRes(codeObj, c.Ctx.GetString(LangKey)))
}

// Send 发送 "action|json" 消息
func (c *WebsocketClient) Send(action string, content any) {
	payload, err := encode(action, content)
	if err != nil {
		c.server.logger.Error("WebsocketServer encode err", zap.String("type", action), zap.Error(err))
		return
	}
	if err := c.conn.WriteMessage(gws.OpcodeText, payload); err != nil {
		c.server.logger.Debug("WebsocketServer write err", zap.String("type", action), zap.Error(err))
	}
}

func encode(action string, content any) ([]byte, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	if action == "" {
		return body, nil
	}
	return []byte(fmt.Sprintf(`%s|%s`, action, body)), nil
}

// ------------------------------------> WebsocketServer

type ConnStorage = map[*gws.Conn]*WebsocketClient

type WebsocketServer struct {
	handlers  map[string]func(*WebsocketClient, *WebSocketMessage)
	onConnect func(*WebsocketClient)
	clients   ConnStorage
	mu        sync.Mutex
	up        *gws.Upgrader
	config    *WebsocketServerConfig
	logger    *zap.Logger
}

func NewWebsocketServer(c WebsocketServerConfig, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval <= 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait <= 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WebsocketServer{
		handlers: make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:  make(ConnStorage),
		config:   &c,
		logger:   logger,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run upgrades the request and starts the read loop
// Run 升级连接并启动读循环
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("WebsocketServer Start err", zap.Error(err))
			return
		}
		client := &WebsocketClient{conn: socket, done: make(chan struct{}), Ctx: c.Copy(), server: w}
		w.AddClient(client)
		if w.onConnect != nil {
			w.onConnect(client)
		}
		go client.PingLoop(w.config.PingInterval)
		go socket.ReadLoop()
	}
}

// Use 注册消息处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// UseConnect 注册连接建立后的回调
func (w *WebsocketServer) UseConnect(fn func(*WebsocketClient)) {
	w.onConnect = fn
}

// Broadcast 广播 "action|json" 给所有客户端
func (w *WebsocketServer) Broadcast(action string, content any) {
	payload, err := encode(action, content)
	if err != nil {
		w.logger.Error("WebsocketServer encode err", zap.String("type", action), zap.Error(err))
		return
	}

	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.clients))
	for conn := range w.clients {
		conns = append(conns, conn)
	}
	w.mu.Unlock()

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()
	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
}

func (w *WebsocketServer) GetClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients[conn]
}

func (w *WebsocketServer) AddClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) RemoveClient(conn *gws.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

// ClientCount 当前连接数
func (w *WebsocketServer) ClientCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// CloseAll 关闭所有连接
func (w *WebsocketServer) CloseAll() {
	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.clients))
	for conn := range w.clients {
		conns = append(conns, conn)
	}
	w.mu.Unlock()
	for _, conn := range conns {
		conn.WriteClose(1001, []byte("ServerShutdown"))
	}
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	w.logger.Info("WebsocketServer Client Connect", zap.Int("Count", w.ClientCount()))
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	if c := w.GetClient(conn); c != nil {
		c.close()
	}
	w.RemoveClient(conn)
	w.logger.Info("WebsocketServer Client Leave", zap.Int("Count", w.ClientCount()))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	if message.Opcode != gws.OpcodeText {
		return
	}
	messageStr := message.Data.String()
	if messageStr == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.GetClient(conn)
	if c == nil {
		return
	}

	index := strings.Index(messageStr, "|")
	if index == -1 {
		w.logger.Warn("WebsocketServer OnMessage", zap.String("type", "Illegal message type"))
		c.ToResponse(code.ErrorInvalidParams.Clone().WithDetails("message must be Type|json"), "Error")
		return
	}
	msg := WebSocketMessage{Type: messageStr[:index], Data: []byte(messageStr[index+1:])}

	handler, exists := w.handlers[msg.Type]
	if !exists {
		w.logger.Warn("WebsocketServer OnMessage", zap.String("msg", "Unknown message type"), zap.String("type", msg.Type))
		c.ToResponse(code.ErrorUnknownIntent.Clone().WithDetails(msg.Type), "Error")
		return
	}
	handler(c, &msg)
}
