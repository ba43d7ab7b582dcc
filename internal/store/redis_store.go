package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ten-exorcism/backend/internal/config"
	"github.com/ten-exorcism/backend/internal/session"
)

// completedKey is a sorted set of finalized session ids scored by end time.
const completedKey = "sessions:completed"

// RedisStore implements the Store interface using Redis.
// Sessions are stored as JSON with a TTL for automatic cleanup.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // Time-to-live for sessions (0 = no expiration)
}

// NewRedisStore creates a new Redis store instance and checks the connection.
//
// Parameters:
//   - cfg: Redis address, password and database number
//   - ttl: Time-to-live for sessions (0 = no expiration)
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// CreateSession creates a new session in Redis.
func (s *RedisStore) CreateSession(ctx context.Context, gs *session.GameSession) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	created, err := s.client.SetNX(ctx, sessionKey(gs.SessionID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !created {
		return ErrSessionExists
	}

	return s.indexCompleted(ctx, gs)
}

// GetSession retrieves a session from Redis.
func (s *RedisStore) GetSession(ctx context.Context, id string) (*session.GameSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var gs session.GameSession
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &gs, nil
}

// UpdateSession replaces an existing session in Redis, refreshing its TTL.
func (s *RedisStore) UpdateSession(ctx context.Context, gs *session.GameSession) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	updated, err := s.client.SetXX(ctx, sessionKey(gs.SessionID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !updated {
		return ErrSessionNotFound
	}

	return s.indexCompleted(ctx, gs)
}

// DeleteSession deletes a session from Redis.
func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id))
		pipe.ZRem(ctx, completedKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListCompleted returns finalized sessions, oldest end time first.
// Ids whose session has expired are pruned from the index.
func (s *RedisStore) ListCompleted(ctx context.Context, limit int) ([]*session.GameSession, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRange(ctx, completedKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}

	sessions := make([]*session.GameSession, 0, len(values))
	var expired []interface{}
	for i, value := range values {
		data, ok := value.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var gs session.GameSession
		if err := json.Unmarshal([]byte(data), &gs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", ids[i], err)
		}
		sessions = append(sessions, &gs)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, completedKey, expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}

	return sessions, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// indexCompleted adds a finalized session to the completed index.
func (s *RedisStore) indexCompleted(ctx context.Context, gs *session.GameSession) error {
	if !gs.IsComplete {
		return nil
	}
	err := s.client.ZAdd(ctx, completedKey, redis.Z{
		Score:  float64(gs.EndTime),
		Member: gs.SessionID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index completed session: %w", err)
	}
	return nil
}

// sessionKey generates a Redis key for a session.
func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
