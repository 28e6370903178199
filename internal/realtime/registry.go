package realtime

import (
	"log/slog"
	"sync"
	"time"
)

// Registry tracks currently live realtime connections.
//
// Concurrency guarantees:
// - Register/Unregister are safe under concurrent publishes.
// - Unregister is idempotent; removing an absent handle is a no-op.
// - Snapshot is a point-in-time view; it makes no coherence promise against
//   sends racing a concurrent disconnect.
//
// A single mutex around the map is enough at the expected connection counts.
type Registry struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry constructs an empty Registry.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:     log,
		clients: make(map[string]*Client),
	}
}

// Register allocates a new client handle and adds it to the live set.
func (r *Registry) Register(now time.Time, sendQueueSize int) *Client {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	c := NewClient(NewRandomHex(10), now, sendQueueSize)

	r.mu.Lock()
	r.clients[c.ID] = c
	n := len(r.clients)
	r.mu.Unlock()

	metricConnectionsLive.Set(float64(n))
	r.log.Info("realtime.client.register", "connection_id", c.ID, "live", n)
	return c
}

// Unregister removes a client from the live set and signals its shutdown.
// Calling it again for the same id, or for an unknown id, is a no-op.
func (r *Registry) Unregister(id string) {
	if id == "" {
		return
	}

	r.mu.Lock()
	c, ok := r.clients[id]
	delete(r.clients, id)
	n := len(r.clients)
	r.mu.Unlock()

	if !ok {
		return
	}

	// Signal shutdown after removal so a broadcaster holding the pointer
	// sees Done() closed rather than a half-removed entry.
	c.Close()

	metricConnectionsLive.Set(float64(n))
	r.log.Info("realtime.client.unregister", "connection_id", id, "live", n)
}

// Snapshot returns the currently live clients at call time.
func (r *Registry) Snapshot() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Len reports the current number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
