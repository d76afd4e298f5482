// Package broadcast fans events out to websocket subscribers.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/iudanet/notekeeper/internal/events"
)

const (
	defaultBufferSize   = 64
	defaultWriteTimeout = 5 * time.Second
)

// Hub is an events.Sink that forwards every published event, JSON encoded,
// to all connected websocket clients. A slow or broken client is dropped.
type Hub struct {
	clients      map[*websocket.Conn]struct{}
	logger       *slog.Logger
	queue        chan events.Event
	done         chan struct{}
	writeTimeout time.Duration
	mu           sync.RWMutex
	closeOnce    sync.Once
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:      make(map[*websocket.Conn]struct{}),
		logger:       logger,
		queue:        make(chan events.Event, defaultBufferSize),
		done:         make(chan struct{}),
		writeTimeout: defaultWriteTimeout,
	}
}

// Publish implements events.Sink. It never blocks: when the queue is full
// the event is dropped.
func (h *Hub) Publish(_ context.Context, ev events.Event) {
	select {
	case h.queue <- ev:
	case <-h.done:
	default:
		h.logger.Debug("Broadcast queue full, dropping event", "kind", ev.Kind)
	}
}

// Run delivers queued events until ctx is cancelled, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	defer h.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.queue:
			h.deliver(ev)
		}
	}
}

// ServeHTTP upgrades the request to a websocket and keeps it registered
// until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("Subscriber connected", "clients", count)

	// Входящие сообщения не обрабатываются: CloseRead читает до закрытия соединения
	ctx := conn.CloseRead(r.Context())
	select {
	case <-ctx.Done():
	case <-h.done:
	}

	h.remove(conn, websocket.StatusNormalClosure, "")
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. It is safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for c := range h.clients {
			conns = append(conns, c)
		}
		h.clients = make(map[*websocket.Conn]struct{})
		h.mu.Unlock()

		for _, c := range conns {
			_ = c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	})
}

func (h *Hub) deliver(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to encode event", "kind", ev.Kind, "error", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	// Пишем вне блокировки, чтобы медленный клиент не держал остальных
	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), h.writeTimeout)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.logger.Debug("Failed to deliver event, dropping subscriber", "error", err)
			h.remove(c, websocket.StatusPolicyViolation, "write failed")
		}
	}
}

func (h *Hub) remove(c *websocket.Conn, code websocket.StatusCode, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		_ = c.Close(code, reason)
	}
}
