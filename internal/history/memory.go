package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// MemoryStore keeps the history list in memory. Used when no redis address
// is configured and as the test double for the redis store.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
}

// NewMemoryStore creates an in-memory history store.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	return &MemoryStore{limit: limit}
}

// Save prepends a new entry, dropping the oldest past the limit.
func (s *MemoryStore) Save(_ context.Context, kind string, result interface{}) (Entry, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to serialize %s result: %w", kind, err)
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Result:    raw,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	entries := make([]Entry, limit)
	copy(entries, s.entries[:limit])
	return entries, nil
}
