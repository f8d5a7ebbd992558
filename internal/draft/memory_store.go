package draft

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"facturas/internal/domain"
)

// MemoryStore keeps sessions in process memory. Sessions are stored as
// clones so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, id uuid.UUID, fn func(s *Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	m.sessions[id] = working.Clone()
	return working, nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrDraftNotFound
	}
	delete(m.sessions, id)
	return nil
}
