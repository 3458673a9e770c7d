package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

const historyKey = "mortgage-calculator:history"

// RedisStore keeps the history list in redis.
type RedisStore struct {
	client *redis.Client
	limit  int64
}

// NewRedisStore connects to redis at the given address.
func NewRedisStore(addr string, limit int) *RedisStore {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: client, limit: int64(limit)}
}

// Save pushes a new entry onto the head of the history list and trims the
// list to the configured limit.
func (s *RedisStore) Save(ctx context.Context, kind string, result interface{}) (Entry, error) {
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

	payload, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to serialize history entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, historyKey, payload)
	pipe.LTrim(ctx, historyKey, 0, s.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return Entry{}, fmt.Errorf("failed to store history entry: %w", err)
	}

	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || int64(limit) > s.limit {
		limit = int(s.limit)
	}

	payloads, err := s.client.LRange(ctx, historyKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]Entry, 0, len(payloads))
	for _, payload := range payloads {
		var entry Entry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ping verifies the redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
