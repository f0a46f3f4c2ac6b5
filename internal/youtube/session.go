package youtube

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SessionManager owns the process-wide collaborator session. The
// session is created lazily on first Acquire and cached for reuse;
// concurrent initializers are collapsed into a single in-flight
// initialization that all callers await. A failed initialization
// leaves nothing cached, so the next Acquire starts over.
type SessionManager struct {
	mu       sync.Mutex
	provider VideoProvider

	group       singleflight.Group
	newProvider func() (VideoProvider, error)
}

// NewSessionManager creates a manager that builds sessions with
// NewProvider.
func NewSessionManager() *SessionManager {
	return &SessionManager{newProvider: NewProvider}
}

// NewSessionManagerWith creates a manager with a custom session
// factory. Used by tests.
func NewSessionManagerWith(factory func() (VideoProvider, error)) *SessionManager {
	return &SessionManager{newProvider: factory}
}

// Acquire returns the cached session, initializing it first if needed.
func (m *SessionManager) Acquire(ctx context.Context) (VideoProvider, error) {
	m.mu.Lock()
	p := m.provider
	m.mu.Unlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := m.group.Do("session", func() (interface{}, error) {
		provider, err := m.newProvider()
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.provider = provider
		m.mu.Unlock()
		return provider, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(VideoProvider), nil
}

// Invalidate discards the cached session so the next Acquire creates a
// fresh one. The pipeline calls this before each retry attempt.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	m.provider = nil
	m.mu.Unlock()
}
