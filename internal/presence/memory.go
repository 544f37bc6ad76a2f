package presence

import (
	"context"
	"sync"
	"time"

	"github.com/linkup-app/messaging-core/pkg/metrics"
)

// MemoryStore is an in-process Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored record, or the default when unset.
func (s *MemoryStore) Get(ctx context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec == nil {
		return DefaultRecord(time.Now()), nil
	}
	return *s.rec, nil
}

// Set validates and stores the record.
func (s *MemoryStore) Set(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.rec = &rec
	s.mu.Unlock()

	metrics.PresenceUpdatesTotal.WithLabelValues(string(rec.Status)).Inc()
	return nil
}
