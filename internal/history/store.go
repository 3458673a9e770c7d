// Package history persists recent calculation result envelopes for session
// restore. Results are stored as JSON so any envelope the calculators
// produce can round-trip without special casing.
package history

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one stored calculation result.
type Entry struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
	Result    json.RawMessage `json:"result"`
}

// Store holds recent calculation results, newest first, bounded by the
// configured limit.
type Store interface {
	Save(ctx context.Context, kind string, result interface{}) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
