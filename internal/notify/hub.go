package notify

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/raysh454/fraudwatch/internal/interfaces"
	"github.com/raysh454/fraudwatch/internal/logging"
)

// MsgType tags a hub message so dashboard clients can route it.
type MsgType string

const (
	MsgToast MsgType = "toast"
	MsgStats MsgType = "stats"
)

// WSMessage is the envelope pushed to every connected dashboard client.
type WSMessage struct {
	Type    MsgType `json:"type"`
	Payload any     `json:"payload"`
}

// ToastPayload is the payload of a MsgToast message.
type ToastPayload struct {
	Severity interfaces.Severity `json:"severity"`
	Message  string              `json:"message"`
}

// Client is one connected dashboard socket. Writes go through a buffered
// channel drained by a per-client write pump; a slow client drops messages
// rather than stalling the hub.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub fans notifications and stats snapshots out to connected WebSocket
// clients. It implements interfaces.Notifier so it can sit behind the same
// toast channel as the log notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	logger  logging.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

// Add registers an upgraded connection and starts its write pump. The caller
// owns the read side and must call Remove when the connection drops.
func (h *Hub) Add(conn *websocket.Conn) *Client {
	c := newClient(conn)
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

// Remove unregisters a client and closes its write pump.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast marshals msg once and sends it to every client. Clients whose
// buffers are full miss this message.
func (h *Hub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("marshaling hub message", logging.Field{Key: "error", Value: err.Error()})
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the message
		}
	}
}

// Notify implements interfaces.Notifier by broadcasting a toast message.
func (h *Hub) Notify(severity interfaces.Severity, message string) {
	h.Broadcast(WSMessage{
		Type:    MsgToast,
		Payload: ToastPayload{Severity: severity, Message: message},
	})
}

// PushStats broadcasts a stats payload to all clients.
func (h *Hub) PushStats(payload any) {
	h.Broadcast(WSMessage{Type: MsgStats, Payload: payload})
}

// Close drops all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
