package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zhouzirui/codex-landing/backend/internal/model/chat"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionKeyPrefix  = "codex:session:"
)

// RedisClient is the subset of the redis client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps snapshots as JSON with a TTL, so a session ends when it
// has been idle for longer than the TTL.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore wraps client. A non-positive ttl falls back to 24h.
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// OpenRedis parses url and verifies the server answers PING.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Load reads and decodes the snapshot for sessionID.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (chat.Snapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return chat.Snapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return chat.Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	}

	var snapshot chat.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return chat.Snapshot{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return snapshot, nil
}

// Save encodes snapshot and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, snapshot chat.Snapshot) error {
	if snapshot.Session.ID == "" {
		return ErrSessionNotFound
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(snapshot.Session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}
