package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Message represents a message read from a Redis stream.
type Message struct {
	ID    string // Redis message ID (e.g., "1702000000000-0")
	Event MailEvent
}

// Consumer defines the interface for consuming events from a stream.
type Consumer interface {
	// EnsureGroup creates the consumer group (and stream) if missing.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read returns new messages for this consumer via XREADGROUP ">".
	// block is how long to wait for new messages (0 = forever).
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error)

	// ReadPending returns messages delivered to this consumer but never acknowledged.
	ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error)

	// Ack removes messages from the consumer's pending list.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error

	// Pending returns the number of unacknowledged messages for the group.
	Pending(ctx context.Context, stream, group string) (int64, error)
}

// RedisConsumer implements Consumer using Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

// NewConsumer creates a new Consumer backed by Redis Streams.
func NewConsumer(client *redis.Client) *RedisConsumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup runs XGROUP CREATE ... 0 MKSTREAM; an existing group is fine.
func (c *RedisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	log := logrus.WithFields(logrus.Fields{"stream": stream, "group": group})

	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			log.Debug("[Consumer] EnsureGroup: already exists")
			return nil
		}
		log.WithError(err).Error("[Consumer] EnsureGroup FAILED")
		return fmt.Errorf("create consumer group: %w", err)
	}

	log.Info("[Consumer] EnsureGroup OK (created)")
	return nil
}

func (c *RedisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error) {
	messages, err := c.read(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	})
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}
	return messages, nil
}

func (c *RedisConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]Message, error) {
	// "0" instead of ">" replays this consumer's pending entries list
	messages, err := c.read(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, "0"},
		Count:    count,
		Block:    -1,
	})
	if err != nil {
		return nil, fmt.Errorf("xreadgroup pending: %w", err)
	}
	return messages, nil
}

func (c *RedisConsumer) read(ctx context.Context, args *redis.XReadGroupArgs) ([]Message, error) {
	startTime := time.Now()
	log := logrus.WithFields(logrus.Fields{
		"stream":   args.Streams[0],
		"group":    args.Group,
		"consumer": args.Consumer,
		"from":     args.Streams[1],
	})

	streams, err := c.client.XReadGroup(ctx, args).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Error("[Consumer] Read FAILED")
		return nil, err
	}

	var messages []Message
	for _, s := range streams {
		for _, msg := range s.Messages {
			event, err := ParseMailEvent(msg.Values)
			if err != nil {
				log.WithError(err).WithField("msg_id", msg.ID).Warn("[Consumer] Skipping malformed message")
				continue
			}
			messages = append(messages, Message{ID: msg.ID, Event: event})
		}
	}

	if len(messages) > 0 {
		log.WithFields(logrus.Fields{
			"count":    len(messages),
			"duration": time.Since(startTime),
		}).Info("[Consumer] Read OK")
	}
	return messages, nil
}

// Ack acknowledges messages using XACK.
func (c *RedisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	acked, err := c.client.XAck(ctx, stream, group, messageIDs...).Result()
	if err != nil {
		logrus.WithError(err).WithField("ids", messageIDs).Error("[Consumer] Ack FAILED")
		return fmt.Errorf("xack: %w", err)
	}

	logrus.WithFields(logrus.Fields{"stream": stream, "acked": acked}).Debug("[Consumer] Ack OK")
	return nil
}

func (c *RedisConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	info, err := c.client.XPending(ctx, stream, group).Result()
	if err != nil {
		logrus.WithError(err).WithField("stream", stream).Error("[Consumer] Pending FAILED")
		return 0, fmt.Errorf("xpending: %w", err)
	}
	return info.Count, nil
}
