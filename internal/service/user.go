package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"lireddit/internal/auth"
	"lireddit/internal/model"
	"lireddit/internal/repository"
	"lireddit/internal/session"
)

// UserService handles registration, login and the account lifecycle.
type UserService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
}

func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
	}
}

// Register validates the input, stores the user and logs them in.
// A duplicate username or email is reported in-band and no session is created.
func (s *UserService) Register(ctx context.Context, sess session.Session, req *model.RegisterRequest) (*model.UserResponse, error) {
	if errs := ValidateRegistration(req); errs != nil {
		return &model.UserResponse{Errors: errs}, nil
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var uniqueErr *model.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			return model.FieldErrorResponse(uniqueErr.Field, uniqueErr.Error()), nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := sess.Establish(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("[UserService] Register OK")
	return &model.UserResponse{User: user}, nil
}

// Login looks the user up by email when the identifier contains "@",
// by username otherwise.
func (s *UserService) Login(ctx context.Context, sess session.Session, req *model.LoginRequest) (*model.UserResponse, error) {
	var user *model.User
	var err error
	if strings.Contains(req.EmailOrUsername, "@") {
		user, err = s.repo.GetByEmail(ctx, req.EmailOrUsername)
	} else {
		user, err = s.repo.GetByUsername(ctx, req.EmailOrUsername)
	}
	if errors.Is(err, model.ErrUserNotFound) {
		return model.FieldErrorResponse("emailOrUsername", "user not found"), nil
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return model.FieldErrorResponse("password", "incorrect password"), nil
	}

	if err := sess.Establish(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	return &model.UserResponse{User: user}, nil
}

// Me returns the session's user, or nil when anonymous or the user is gone.
func (s *UserService) Me(ctx context.Context, sess session.Session) (*model.User, error) {
	userID, ok := sess.UserID()
	if !ok {
		return nil, nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns nil when the user does not exist.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes the logged-in user's account when email matches it,
// then ends the session. Posts and votes go with the account.
func (s *UserService) DeleteUser(ctx context.Context, sess session.Session, email string) (bool, error) {
	userID, ok := sess.UserID()
	if !ok {
		return false, nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.Email != email {
		return false, nil
	}

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := sess.Destroy(ctx); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("[UserService] DeleteUser: session destroy FAILED")
		return false, nil
	}

	logrus.WithField("user_id", userID).Info("[UserService] DeleteUser OK")
	return true, nil
}

// Logout destroys the session and clears the cookie.
func (s *UserService) Logout(ctx context.Context, sess session.Session) bool {
	if err := sess.Destroy(ctx); err != nil {
		logrus.WithError(err).Error("[UserService] Logout FAILED")
		return false
	}
	return true
}
