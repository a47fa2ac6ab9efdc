package ticker

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"coinwatch/pkg/logger"
)

// 价格websocket网关：轮询循环每拿到一个新价格就推给所有在线连接。
// 推送不保证送达，发送缓冲写满直接丢弃该连接。

// keepalive的ping间隔
const pingPeriod = 30 * time.Second
const pongWait = 60 * time.Second

// client send buffer
const sendBufSize = 64

// PriceUpdate 推送给客户端的消息格式
type PriceUpdate struct {
	Event  string  `json:"event"` // price_update
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Time   int64   `json:"time"` // 毫秒时间戳
}

type ClientConn struct {
	Conn *websocket.Conn
	Send chan []byte // 异步发送通道
}

type Handler struct {
	mu      sync.RWMutex
	clients map[*ClientConn]struct{}
	// 最近一次广播的消息，新连接建立时立即补发
	lastUpdate []byte

	upgrader websocket.Upgrader
}

func NewHandler() *Handler {
	return &Handler{
		clients: make(map[*ClientConn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // 允许跨域
		},
	}
}

// ServeWS 建立websocket连接
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("ticker upgrade error: %v", err)
		return
	}

	client := &ClientConn{
		Conn: conn,
		Send: make(chan []byte, sendBufSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	last := h.lastUpdate
	h.mu.Unlock()

	// 新连接先补发一次最近价格
	if last != nil {
		select {
		case client.Send <- last:
		default:
		}
	}

	go client.writePump()
	client.readPump(h)
}

// Publish 实现service.Broadcaster，向所有在线连接推送最新价格
func (h *Handler) Publish(symbol string, price float64) {
	msg, err := json.Marshal(PriceUpdate{
		Event:  "price_update",
		Symbol: symbol,
		Price:  price,
		Time:   time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	h.lastUpdate = msg
	for client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			// 发送缓冲满说明对端写不过来，断开它
			delete(h.clients, client)
			close(client.Send)
		}
	}
	h.mu.Unlock()
}

func (h *Handler) remove(client *ClientConn) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()
}

// ClientCount 当前在线连接数
func (h *Handler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// 不断从Send channel取消息写入websocket，顺带维持心跳
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// 循环读取客户端消息，客户端断开时清理连接
func (c *ClientConn) readPump(h *Handler) {
	defer func() {
		h.remove(c)
		c.Conn.Close()
	}()
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
