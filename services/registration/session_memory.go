package registration

import (
	"context"
	"sync"
)

// MemorySessionStore keeps sessions in process memory. It is used when no
// Redis address is configured; sessions do not expire and are not shared
// between replicas.
type MemorySessionStore struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
	locked    map[string]bool
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{snapshots: map[string]Snapshot{}, locked: map[string]bool{}}
}

func (m *MemorySessionStore) Save(_ context.Context, sessionID string, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = s
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context, sessionID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snapshots[sessionID]
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

func (m *MemorySessionStore) Lock(_ context.Context, sessionID string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked[sessionID] {
		return nil, ErrSessionBusy
	}
	m.locked[sessionID] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locked, sessionID)
	}, nil
}
