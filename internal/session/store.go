package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"compliance-portal/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store keeps the current-session records in Redis with a TTL.
type Store interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

type record struct {
	UserID    string      `json:"userId"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Create opens a new session for user.
func (s *RedisStore) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
	}

	raw, err := json.Marshal(record{UserID: sess.UserID, Role: sess.Role, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get resolves a session id. Missing or expired sessions report false.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Session, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// an unreadable record is not a session
		return nil, false, nil
	}
	return &domain.Session{
		ID:        sessionID,
		UserID:    rec.UserID,
		Role:      rec.Role,
		ExpiresAt: rec.ExpiresAt,
	}, true, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
