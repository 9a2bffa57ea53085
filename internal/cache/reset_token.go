package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
)

const (
	// ResetTokenPrefix is the key prefix for password reset tokens
	ResetTokenPrefix = "forget-password:"

	// ResetTokenTTL is how long a reset link stays valid (3 days)
	ResetTokenTTL = 3 * 24 * time.Hour
)

// ResetTokenStore maps single-use password reset tokens to user ids.
type ResetTokenStore interface {
	// Save stores token -> userID with ResetTokenTTL (SET key value EX).
	Save(ctx context.Context, token string, userID int64) error

	// UserID resolves a token. Returns model.ErrResetTokenNotFound when absent or expired.
	UserID(ctx context.Context, token string) (int64, error)

	// Delete consumes the token.
	Delete(ctx context.Context, token string) error
}

// RedisResetTokenStore implements ResetTokenStore with plain string keys.
type RedisResetTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetTokenStore creates a ResetTokenStore backed by Redis.
func NewResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client, ttl: ResetTokenTTL}
}

func resetKey(token string) string {
	return ResetTokenPrefix + token
}

func (s *RedisResetTokenStore) Save(ctx context.Context, token string, userID int64) error {
	startTime := time.Now()

	if err := s.client.Set(ctx, resetKey(token), userID, s.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("[ResetTokenStore] Save FAILED")
		return fmt.Errorf("save reset token: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"duration": time.Since(startTime),
	}).Info("[ResetTokenStore] Save OK")
	return nil
}

func (s *RedisResetTokenStore) UserID(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, model.ErrResetTokenNotFound
	}
	if err != nil {
		logrus.WithError(err).Error("[ResetTokenStore] Get FAILED")
		return 0, fmt.Errorf("get reset token: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse reset token user id: %w", err)
	}
	return userID, nil
}

func (s *RedisResetTokenStore) Delete(ctx context.Context, token string) error {
	removed, err := s.client.Del(ctx, resetKey(token)).Result()
	if err != nil {
		logrus.WithError(err).Error("[ResetTokenStore] Delete FAILED")
		return fmt.Errorf("delete reset token: %w", err)
	}

	logrus.WithField("removed", removed).Info("[ResetTokenStore] Delete OK")
	return nil
}
