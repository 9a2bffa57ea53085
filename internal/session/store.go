package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
)

// KeyPrefix namespaces session records in Redis.
const KeyPrefix = "sess:"

// Store maps opaque session ids to user ids.
type Store interface {
	// Create opens a session for userID and returns its id.
	Create(ctx context.Context, userID int64) (string, error)
	// UserID returns model.ErrSessionNotFound for unknown or expired ids.
	UserID(ctx context.Context, sid string) (int64, error)
	Destroy(ctx context.Context, sid string) error
}

// RedisStore implements Store with one string key per session.
// TTL is not refreshed on access.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sid string) string {
	return KeyPrefix + sid
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()

	if err := s.client.Set(ctx, sessionKey(sid), userID, s.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("[SessionStore] Create FAILED")
		return "", fmt.Errorf("create session: %w", err)
	}

	logrus.WithField("user_id", userID).Debug("[SessionStore] Create OK")
	return sid, nil
}

func (s *RedisStore) UserID(ctx context.Context, sid string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, model.ErrSessionNotFound
	}
	if err != nil {
		logrus.WithError(err).Error("[SessionStore] Get FAILED")
		return 0, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session user id: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionKey(sid)).Err(); err != nil {
		logrus.WithError(err).Error("[SessionStore] Destroy FAILED")
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
