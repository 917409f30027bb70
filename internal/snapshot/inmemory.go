package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a lock-guarded keyed snapshot table for local/dev use.
type InMemoryStore struct {
	mu       sync.RWMutex
	byKey    map[string]Snapshot
	latestID string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byKey: make(map[string]Snapshot)}
}

func (s *InMemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	s.byKey[snap.SessionID] = snap
	s.latestID = snap.SessionID
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, sessionID string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byKey[sessionID]
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

func (s *InMemoryStore) Latest(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byKey[s.latestID]
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

func (s *InMemoryStore) Close() error { return nil }
