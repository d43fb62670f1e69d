// SPDX-License-Identifier: MIT

package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in process. Values are stored as JSON so
// callers never share state with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[uuid.UUID][]byte
	latest uuid.UUID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[uuid.UUID][]byte)}
}

// Save stores s and marks it latest.
func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[s.ID] = doc
	m.latest = s.ID

	return nil
}

// Load returns the snapshot with id or ErrNotFound.
func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	doc, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}

	return decode(doc)
}

// Latest returns the most recently saved snapshot or ErrNotFound.
func (m *MemoryStore) Latest(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	id := m.latest
	m.mu.RUnlock()
	if id == uuid.Nil {
		return nil, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}

	return m.Load(ctx, id)
}

func decode(doc []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}

	return &s, nil
}
