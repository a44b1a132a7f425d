// Package realtime pushes events to connected websocket clients, keyed by
// user id. Admin staff share the "admin" identity.
package realtime

import (
	"encoding/json"
	"sync"
)

// Event is the frame written to a client.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Conn is one live client connection.
type Conn interface {
	Send(ev Event) error
	Close() error
}

// Registry maps a user id to its current connection. The latest registration
// for an id wins.
type Registry interface {
	Register(userID string, c Conn) (previous Conn)
	Lookup(userID string) (Conn, bool)
	// Deregister removes the mapping only while c is still the current one.
	Deregister(userID string, c Conn)
	Count() int
}

type MemoryRegistry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{conns: make(map[string]Conn)}
}

func (r *MemoryRegistry) Register(userID string, c Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.conns[userID]
	r.conns[userID] = c
	return prev
}

func (r *MemoryRegistry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

func (r *MemoryRegistry) Deregister(userID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[userID]; ok && cur == c {
		delete(r.conns, userID)
	}
}

func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
