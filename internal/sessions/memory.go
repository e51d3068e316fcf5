package sessions

import (
	"context"
	"strings"
	"sync"
)

// Memory keeps sessions in process memory.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Identity)}
}

func (m *Memory) Create(_ context.Context, identity Identity) (string, error) {
	token := newToken()
	m.mu.Lock()
	m.sessions[token] = identity
	m.mu.Unlock()
	return token, nil
}

func (m *Memory) Get(_ context.Context, token string) (Identity, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, false, nil
	}
	m.mu.RLock()
	identity, ok := m.sessions[token]
	m.mu.RUnlock()
	return identity, ok, nil
}

func (m *Memory) Delete(_ context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return false, nil
	}
	delete(m.sessions, token)
	return true, nil
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
