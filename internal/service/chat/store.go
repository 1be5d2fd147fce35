package chat

import (
	"context"
	"sync"

	"github.com/zhouzirui/codex-landing/backend/internal/model/chat"
)

// Store keeps conversation snapshots for the lifetime of a session.
// Load returns ErrSessionNotFound for unknown or expired sessions.
type Store interface {
	Load(ctx context.Context, sessionID string) (chat.Snapshot, error)
	Save(ctx context.Context, snapshot chat.Snapshot) error
}

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]chat.Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]chat.Snapshot)}
}

// Load returns a copy of the stored snapshot.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (chat.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[sessionID]
	if !ok {
		return chat.Snapshot{}, ErrSessionNotFound
	}
	return snapshot.Clone(), nil
}

// Save stores a copy of snapshot under its session id.
func (s *MemoryStore) Save(_ context.Context, snapshot chat.Snapshot) error {
	if snapshot.Session.ID == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	s.snapshots[snapshot.Session.ID] = snapshot.Clone()
	s.mu.Unlock()
	return nil
}
