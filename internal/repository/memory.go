package repository

import (
	"context"
	"fmt"
	"sync"

	"chit-auction/internal/auctionerrors"
	"chit-auction/utils"
)

// memoryBus is the storage shared by every MemoryStore handle forked from the same root
type memoryBus struct {
	mu       sync.RWMutex
	data     map[string][]byte // key -> JSON document
	notifier *notifier
}

// MemoryStore is a concurrency-safe in-memory implementation of KVStore.
// Handles created with Fork share data and see each other's writes as changes,
// the way browser tabs of one origin share local storage.
type MemoryStore struct {
	bus    *memoryBus
	writer string
}

// NewMemoryStore creates a new in-memory store with a fresh writer identity
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bus: &memoryBus{
			data:     make(map[string][]byte),
			notifier: newNotifier(),
		},
		writer: utils.GenerateID(),
	}
}

// Fork returns another handle on the same data with its own writer identity
func (s *MemoryStore) Fork() *MemoryStore {
	return &MemoryStore{bus: s.bus, writer: utils.GenerateID()}
}

// WriterID identifies this handle in change notifications
func (s *MemoryStore) WriterID() string {
	return s.writer
}

// Get returns a copy of the stored document, or nil when the key is absent
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", key, auctionerrors.ErrStoreUnavailable, err)
	}

	s.bus.mu.RLock()
	defer s.bus.mu.RUnlock()

	v, ok := s.bus.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set stores one document and notifies other handles
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}

// SetMany stores every document under a single lock, so readers never observe a partial batch
func (s *MemoryStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("set %d keys: %w: %w", len(values), auctionerrors.ErrStoreUnavailable, err)
	}

	changes := make([]Change, 0, len(values))

	s.bus.mu.Lock()
	for key, value := range values {
		v := append([]byte(nil), value...)
		s.bus.data[key] = v
		changes = append(changes, Change{Key: key, Value: v, Writer: s.writer})
	}
	s.bus.mu.Unlock()

	s.bus.notifier.publish(changes)
	return nil
}

// Subscribe registers fn for writes made through other handles
func (s *MemoryStore) Subscribe(fn func(Change)) func() {
	return s.bus.notifier.subscribe(s.writer, fn)
}
