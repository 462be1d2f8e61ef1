package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Entry tracks one live session in the registry. Sessions are keyed by
// session ID, not by connection: a connection handle is just where the
// session currently talks, not its identity.
type Entry struct {
	SessionID string
	ConnID    string
	Orch      *Orchestrator
	Created   time.Time
}

// Registry indexes live orchestrators by session ID.
type Registry struct {
	sessions sync.Map
	byConn   sync.Map
	count    atomic.Int64
	draining atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a started orchestrator. It returns false without storing
// when the registry is draining.
func (r *Registry) Add(connID string, orch *Orchestrator) bool {
	if r.draining.Load() {
		return false
	}
	entry := &Entry{
		SessionID: orch.SessionID(),
		ConnID:    connID,
		Orch:      orch,
		Created:   time.Now(),
	}
	if _, loaded := r.sessions.LoadOrStore(entry.SessionID, entry); loaded {
		return false
	}
	r.byConn.Store(connID, entry.SessionID)
	r.count.Add(1)
	return true
}

func (r *Registry) Get(sessionID string) (*Entry, bool) {
	if v, ok := r.sessions.Load(sessionID); ok {
		return v.(*Entry), true
	}
	return nil, false
}

// GetByConn resolves the session currently bound to a connection.
func (r *Registry) GetByConn(connID string) (*Entry, bool) {
	v, ok := r.byConn.Load(connID)
	if !ok {
		return nil, false
	}
	return r.Get(v.(string))
}

// Remove closes and forgets the session.
func (r *Registry) Remove(sessionID string) {
	if v, ok := r.sessions.LoadAndDelete(sessionID); ok {
		entry := v.(*Entry)
		r.byConn.Delete(entry.ConnID)
		_ = entry.Orch.Close()
		r.count.Add(-1)
	}
}

// RemoveByConn closes the session bound to a disconnecting client.
func (r *Registry) RemoveByConn(connID string) {
	if v, ok := r.byConn.Load(connID); ok {
		r.Remove(v.(string))
	}
}

func (r *Registry) CloseAll() {
	r.sessions.Range(func(key, value any) bool {
		if sessionID, ok := key.(string); ok {
			r.Remove(sessionID)
		}
		return true
	})
}

func (r *Registry) Count() int64 {
	return r.count.Load()
}

func (r *Registry) SetDraining(v bool) {
	r.draining.Store(v)
}

func (r *Registry) Draining() bool {
	return r.draining.Load()
}

func (r *Registry) WaitForEmpty(ctx context.Context, interval time.Duration) bool {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if r.Count() == 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
