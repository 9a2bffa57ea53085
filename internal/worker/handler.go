package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"lireddit/internal/mail"
	"lireddit/internal/queue"
)

// Handler processes mail events from the queue.
type Handler struct {
	mailer mail.Mailer
}

// NewHandler creates a new event handler.
func NewHandler(mailer mail.Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MailEvent) error {
	startTime := time.Now()
	log := logrus.WithField("type", event.Type)

	var err error
	switch event.Type {
	case queue.EventPasswordResetRequested:
		err = h.handlePasswordReset(ctx, event)
	default:
		log.Warn("[Worker] Unknown event type")
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.WithError(err).WithField("duration", time.Since(startTime)).Error("[Worker] HandleEvent FAILED")
		return err
	}

	log.WithField("duration", time.Since(startTime)).Info("[Worker] HandleEvent OK")
	return nil
}

func (h *Handler) handlePasswordReset(ctx context.Context, event queue.MailEvent) error {
	if event.To == "" || event.ResetLink == "" {
		return fmt.Errorf("password reset event for user=%d is missing recipient or link", event.UserID)
	}

	body, err := mail.ResetPasswordBody(event.Username, event.ResetLink)
	if err != nil {
		return err
	}

	if err := h.mailer.Send(ctx, event.To, mail.ResetPasswordSubject, body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	logrus.WithField("user_id", event.UserID).Info("[Worker] PasswordReset DONE")
	return nil
}
