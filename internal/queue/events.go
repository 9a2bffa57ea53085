package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the mail stream
const (
	EventPasswordResetRequested = "password_reset_requested"
)

// Stream names
const (
	StreamMail = "stream:mail"
)

// Consumer group name for mail workers
const (
	ConsumerGroupMail = "mail_workers"
)

// MailEvent is a request to deliver one e-mail, published by the services
// and consumed by the mail workers.
type MailEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	UserID    int64  `json:"user_id"`
	To        string `json:"to"`
	Username  string `json:"username,omitempty"`
	ResetLink string `json:"reset_link,omitempty"`
}

// NewPasswordResetEvent creates an event asking the worker to send a reset link.
func NewPasswordResetEvent(userID int64, to, username, resetLink string) MailEvent {
	return MailEvent{
		Type:      EventPasswordResetRequested,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		To:        to,
		Username:  username,
		ResetLink: resetLink,
	}
}

// ToMap converts the event to XADD field-value pairs; the payload is JSON in "data".
func (e MailEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMailEvent parses a MailEvent from Redis stream message values.
func ParseMailEvent(values map[string]interface{}) (MailEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MailEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MailEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MailEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
