package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks all currently open connections by id. It is the only
// shared mutable state in the relay; the accept handler inserts, the close
// handler removes, and nothing else mutates it.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty connection registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register assigns the client a fresh unique id and adds it to the registry
func (r *Registry) Register(client *Client) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := r.clients[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	client.id = id
	r.clients[id] = client
	return id
}

// Unregister removes the id from the registry. Removing an absent id is a
// no-op, not an error.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// Lookup returns the client for id. Absence is a normal outcome; the peer
// may have disconnected mid-exchange.
func (r *Registry) Lookup(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	return client, ok
}

// Snapshot returns the currently registered clients
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

// Len reports the number of open connections
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
