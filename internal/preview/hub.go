package preview

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Hub manages SSE clients for reload broadcasts. Each successful rebuild
// produces a new generation token; clients reload when the token changes.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]*hubClient
	metrics   *Metrics
	closed    bool
	lastToken string
}

type hubClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewHub creates an SSE hub.
func NewHub(metrics *Metrics) *Hub {
	return &Hub{clients: map[int]*hubClient{}, metrics: metrics}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &hubClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastToken
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetClients(count)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("livereload write", "error", err)
		h.removeClient(client.id)
		return
	}
	if current != "" {
		if _, err := bw.WriteString("data: {\"token\":\"" + current + "\"}\n\n"); err != nil {
			slog.Debug("livereload write", "error", err)
			h.removeClient(client.id)
			return
		}
	}
	if err := bw.Flush(); err != nil {
		slog.Debug("livereload flush", "error", err)
		h.removeClient(client.id)
		return
	}
	flusher.Flush()

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err == nil {
				bw.Flush()
				flusher.Flush()
			} else {
				slog.Debug("livereload ping write", "error", err)
				h.removeClient(client.id)
				return
			}
		case token := <-client.ch:
			if _, err := bw.WriteString("data: {\"token\":\"" + token + "\"}\n\n"); err == nil {
				bw.Flush()
				flusher.Flush()
			} else {
				slog.Debug("livereload broadcast write", "error", err)
				h.removeClient(client.id)
				return
			}
		}
	}
}

func (h *Hub) removeClient(id int) {
	h.mu.Lock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetClients(count)
}

// Broadcast sends a new generation token to all clients. Unchanged or empty
// tokens are ignored; slow clients are dropped rather than blocked on.
func (h *Hub) Broadcast(token string) {
	h.mu.Lock()
	if h.closed || token == "" || token == h.lastToken {
		h.mu.Unlock()
		return
	}
	h.lastToken = token
	snapshot := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		select {
		case c.ch <- token:
		default:
			slog.Debug("livereload client too slow, dropping", "client", c.id)
			h.removeClient(c.id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close refuses new connections and disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*hubClient{}
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
	h.metrics.SetClients(0)
}
