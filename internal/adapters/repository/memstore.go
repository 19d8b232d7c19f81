package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/okian/matchboard/pkg/logger"
	"github.com/okian/matchboard/pkg/metrics"
)

// MemoryStore keeps encoded documents in a map. Values are stored as JSON
// bytes so callers never share memory with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[Key][]byte
	closed bool
	log    logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := newSettings(opts)
	return &MemoryStore{
		docs: make(map[Key][]byte),
		log:  s.logger,
	}
}

// Driver implements Store.
func (s *MemoryStore) Driver() string { return DriverMemory }

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, key Key, dst any) (found bool, err error) {
	defer observe(DriverMemory, "read", time.Now(), &err)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false, ErrClosed
	}
	b, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// Write implements Store.
func (s *MemoryStore) Write(ctx context.Context, key Key, v any) (err error) {
	defer observe(DriverMemory, "write", time.Now(), &err)

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.docs[key] = b
	s.log.Debug(ctx, "document written", logger.String("key", string(key)), logger.Int("bytes", len(b)))
	return nil
}

// WriteRaw stores pre-encoded bytes without validation.
func (s *MemoryStore) WriteRaw(key Key, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), b...)
}

// Remove implements Store.
func (s *MemoryStore) Remove(ctx context.Context, key Key) (err error) {
	defer observe(DriverMemory, "remove", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.docs, key)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.docs = nil
	return nil
}

func observe(driver, op string, start time.Time, err *error) {
	metrics.RecordStoreLatency(driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && *err != nil {
		metrics.RecordStoreError(driver, op)
	}
}
