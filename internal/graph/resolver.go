// Package graph exposes the services as a GraphQL schema.
//
// Resolvers only unpack arguments, pick the request session out of the
// context and call a service; they hold no business rules of their own.
package graph

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
	"lireddit/internal/session"
)

// ErrNotAuthenticated rejects mutations that need a logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

var errInternal = errors.New("internal server error")

type UserService interface {
	Register(ctx context.Context, sess session.Session, req *model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, sess session.Session, req *model.LoginRequest) (*model.UserResponse, error)
	Me(ctx context.Context, sess session.Session) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, sess session.Session, email string) (bool, error)
	Logout(ctx context.Context, sess session.Session) bool
}

type PasswordService interface {
	ForgotPassword(ctx context.Context, email string) (bool, error)
	ChangePassword(ctx context.Context, req *model.ChangePasswordRequest) (*model.UserResponse, error)
}

type PostService interface {
	List(ctx context.Context, limit int, cursor *string) (*model.PaginatedPosts, error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, authorID int64, req model.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, id int64, title *string) (*model.Post, error)
	Delete(ctx context.Context, id int64) bool
}

type VoteService interface {
	Vote(ctx context.Context, userID, postID int64, value int) (bool, error)
}

// Resolver holds the services every field resolver dispatches to.
type Resolver struct {
	Users     UserService
	Passwords PasswordService
	Posts     PostService
	Votes     VoteService
}

// sessionFrom returns the request session; the session middleware always sets one.
func sessionFrom(ctx context.Context) (session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		logrus.Error("[Graph] No session in request context")
		return nil, errInternal
	}
	return sess, nil
}

// requireUser is the auth gate for mutations that need a logged-in user.
func requireUser(ctx context.Context) (int64, error) {
	sess, err := sessionFrom(ctx)
	if err != nil {
		return 0, err
	}
	userID, ok := sess.UserID()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return userID, nil
}

// viewerID is the logged-in user or false for anonymous requests.
func viewerID(ctx context.Context) (int64, bool) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return 0, false
	}
	return sess.UserID()
}

// internal logs an infrastructure failure and hides its details from the client.
func internal(p graphql.ResolveParams, err error) error {
	if errors.Is(err, model.ErrInvalidCursor) {
		return err
	}
	logrus.WithError(err).WithField("field", p.Info.FieldName).Error("[Graph] Resolver FAILED")
	return errInternal
}

// millis formats a timestamp the way the posts cursor expects it.
func millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func optionalString(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}
