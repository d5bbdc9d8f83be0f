package runtime

import (
	"sort"
	"sync"
)

// Client is the registry's handle for one connected user: its display name,
// emoji and the mailbox its broadcasts are queued into. A handle is created
// on the first inbound frame of a connection and owned by the registry until
// the connection's read loop terminates.
type Client struct {
	Name    string
	Emoji   string
	Mailbox *Mailbox
}

// Registry maps display names to live client handles. It is the only shared
// mutable structure of the server; every operation serializes on one mutex
// and never performs blocking I/O while holding it.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register inserts a client handle, silently replacing any earlier handle
// registered under the same name (last-writer-wins, no collision detection).
// The displaced handle's mailbox simply receives no further broadcasts.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Name] = c
}

// Unregister removes a client by name. Removing an absent name is a no-op,
// so racing teardown paths can both call it safely.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
}

// Snapshot returns a point-in-time copy of all registered handles. Callers
// iterate the copy outside the lock, so a slow or full mailbox can never
// block new registrations.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Names returns the registered display names in stable order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
