package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event MailEvent) (messageID string, err error)

	// PublishPasswordReset queues the reset-link mail on StreamMail.
	PublishPasswordReset(ctx context.Context, userID int64, to, username, link string) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish appends the event with XADD and an auto-generated id.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event MailEvent) (string, error) {
	startTime := time.Now()
	log := logrus.WithFields(logrus.Fields{"stream": stream, "type": event.Type})

	values, err := event.ToMap()
	if err != nil {
		log.WithError(err).Error("[Publisher] Publish FAILED")
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.WithError(err).Error("[Publisher] Publish FAILED")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.WithFields(logrus.Fields{
		"msg_id":   messageID,
		"user_id":  event.UserID,
		"duration": time.Since(startTime),
	}).Info("[Publisher] Publish OK")

	return messageID, nil
}

func (p *RedisPublisher) PublishPasswordReset(ctx context.Context, userID int64, to, username, link string) (string, error) {
	return p.Publish(ctx, StreamMail, NewPasswordResetEvent(userID, to, username, link))
}
