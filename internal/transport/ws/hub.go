package ws

import (
	"encoding/json"
	"sync"

	"manova/internal/platform/logger"
)

// Message is the WebSocket envelope format.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per user. A user may hold several
// connections at once (phone and laptop); events go to all of them.
type Hub struct {
	log   *logger.Logger
	conns map[string]map[*Connection]struct{} // userID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *userMessage
}

// Connection represents one WebSocket connection.
type Connection struct {
	UserID string
	Send   chan []byte
	Hub    *Hub
}

type userMessage struct {
	userID  string
	message *Message
}

// NewHub creates the hub and starts its event loop.
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		log:        log.With("component", "ws"),
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *userMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.UserID] == nil {
				h.conns[conn.UserID] = make(map[*Connection]struct{})
			}
			h.conns[conn.UserID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("client connected", "userId", conn.UserID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.UserID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.UserID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("client disconnected", "userId", conn.UserID)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.message)
			if err != nil {
				h.log.Warn("event marshal failed", "event", msg.message.Event, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.userID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends an event to all of a user's connections (implements
// service.Broadcaster).
func (h *Hub) Publish(userID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Warn("payload marshal failed", "event", event, "error", err)
		return
	}
	h.broadcast <- &userMessage{
		userID: userID,
		message: &Message{
			Event:   event,
			Payload: data,
		},
	}
}
