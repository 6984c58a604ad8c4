package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// broadcastBuffer is how many undelivered messages Publish queues before dropping.
const broadcastBuffer = 256

// Conn is the part of a WebSocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans committed audit entries out to every connected client.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug("ws client connected", "clients", h.ClientCount())

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			h.mutex.Unlock()
			h.logger.Debug("ws client disconnected", "clients", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("ws write failed, dropping client", "error", err)
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues msg for every client. It never blocks the caller; when the queue is full the
// message is dropped.
func (h *Hub) Publish(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws broadcast queue full, message dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Upgrade rejects plain HTTP requests to the WebSocket route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler registers each connection and keeps it open until the client goes away.
// Clients only listen; anything they send is discarded.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		select {
		case h.register <- c:
		case <-h.done:
			return
		}
		defer func() {
			select {
			case h.unregister <- c:
			case <-h.done:
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
