package core

import "sync"

// Registry is the single source of truth mapping connection ids to live
// clients. Safe for concurrent use from independent connection lifecycles.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a client with empty room membership. Registering an id
// twice violates transport semantics and fails with ErrDuplicateConnection.
func (r *Registry) Register(c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c.ID]; exists {
		return ErrDuplicateConnection
	}
	r.clients[c.ID] = c
	return nil
}

// Unregister removes a client and reports whether it was present.
// Unregistering an absent id is a no-op, not an error, so duplicate close
// notifications stay harmless.
func (r *Registry) Unregister(id string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	return c, ok
}

// Lookup returns the client registered under id.
func (r *Registry) Lookup(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Snapshot returns the current set of registered clients. Broadcasts
// iterate the snapshot outside the lock so a stalled send cannot block
// registration or unregistration.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Len reports the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
