package debugview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams simulation frames to websocket subscribers
type Hub struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]*subscriber
	last        []byte
	upgrader    websocket.Upgrader
	logger      *log.Logger
}

// NewHub creates an empty hub
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		subscribers: make(map[uuid.UUID]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With("component", "debugview"),
	}
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends frame to every subscriber. Subscribers that fail to
// receive it are disconnected.
func (h *Hub) Broadcast(frame Frame) {
	frame.Type = "frame"
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to marshal frame", "tick", frame.Tick, "err", err)
		return
	}

	h.mu.Lock()
	h.last = data
	subs := make(map[uuid.UUID]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Warn("failed to send frame", "session", id, "err", err)
			h.Disconnect(id)
		}
	}
}

// subscribe registers conn and returns its session id together with the
// most recent frame, if any
func (h *Hub) subscribe(conn *websocket.Conn) (uuid.UUID, *subscriber, []byte) {
	id := uuid.New()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[id] = sub
	return id, sub, h.last
}

// Disconnect removes a subscriber and closes its connection
func (h *Hub) Disconnect(id uuid.UUID) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
		h.logger.Debug("subscriber left", "session", id)
	}
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.Disconnect(id)
	}
}

// ServeHTTP upgrades the request and keeps the subscriber until it hangs up
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id, sub, last := h.subscribe(conn)
	h.logger.Debug("subscriber joined", "session", id, "remote", r.RemoteAddr)

	welcome, err := json.Marshal(welcomeMessage{Type: "welcome", Session: id.String()})
	if err != nil {
		h.logger.Error("failed to marshal welcome", "err", err)
		h.Disconnect(id)
		return
	}
	if err := sub.write(welcome); err != nil {
		h.Disconnect(id)
		return
	}
	if last != nil {
		if err := sub.write(last); err != nil {
			h.Disconnect(id)
			return
		}
	}

	// Clients only listen; reading detects the hang up
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Disconnect(id)
			return
		}
	}
}
