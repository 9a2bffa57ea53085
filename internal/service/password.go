package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lireddit/internal/auth"
	"lireddit/internal/cache"
	"lireddit/internal/model"
	"lireddit/internal/queue"
	"lireddit/internal/repository"
)

// PasswordService runs the forgot-password / change-password flow.
type PasswordService struct {
	users       repository.UserRepository
	tokens      cache.ResetTokenStore
	publisher   queue.Publisher
	hasher      auth.PasswordHasher
	frontendURL string
}

func NewPasswordService(
	users repository.UserRepository,
	tokens cache.ResetTokenStore,
	publisher queue.Publisher,
	hasher auth.PasswordHasher,
	frontendURL string,
) *PasswordService {
	return &PasswordService{
		users:       users,
		tokens:      tokens,
		publisher:   publisher,
		hasher:      hasher,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// ResetLink is where the e-mailed token is redeemed.
func (s *PasswordService) ResetLink(token string) string {
	return s.frontendURL + "/change-password/" + token
}

// ForgotPassword reports true whether or not the email is registered.
// For a known user it stores a fresh token and queues the reset e-mail.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, user.ID); err != nil {
		return false, err
	}

	if _, err := s.publisher.PublishPasswordReset(ctx, user.ID, user.Email, user.Username, s.ResetLink(token)); err != nil {
		// the token stays valid; the user can ask again
		logrus.WithError(err).WithField("user_id", user.ID).Error("[PasswordService] ForgotPassword: publish FAILED")
	}

	return true, nil
}

// ChangePassword redeems a reset token. It does not log the user in.
func (s *PasswordService) ChangePassword(ctx context.Context, req *model.ChangePasswordRequest) (*model.UserResponse, error) {
	if tooShort(req.NewPassword) {
		return model.FieldErrorResponse("newPassword", "password is too short"), nil
	}

	userID, err := s.tokens.UserID(ctx, req.Token)
	if errors.Is(err, model.ErrResetTokenNotFound) {
		return model.FieldErrorResponse("token", "token expired"), nil
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.FieldErrorResponse("token", "user no longer exists"), nil
	}
	if err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.FieldErrorResponse("token", "user no longer exists"), nil
		}
		return nil, err
	}
	user.Password = hashedPassword

	if err := s.tokens.Delete(ctx, req.Token); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("[PasswordService] ChangePassword OK")
	return &model.UserResponse{User: user}, nil
}
