// Package session tracks authenticated identities in Redis behind a signed cookie.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"lireddit/internal/model"
)

// CookieName is the name of the session cookie.
const CookieName = "qid"

// Session is the identity of one request plus the ability to log it in or out.
type Session interface {
	// UserID returns the authenticated user, or false for an anonymous request.
	UserID() (int64, bool)
	// Establish binds the request to userID and sets the cookie.
	Establish(ctx context.Context, userID int64) error
	// Destroy removes the server record and clears the cookie.
	Destroy(ctx context.Context) error
}

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	MaxAge int // seconds
	Secure bool
}

// Manager builds a Scope per request.
type Manager struct {
	store  Store
	codec  *Codec
	cookie CookieConfig
}

func NewManager(store Store, codec *Codec, cookie CookieConfig) *Manager {
	return &Manager{store: store, codec: codec, cookie: cookie}
}

// Load resolves the request cookie into a Scope. A missing, forged or
// expired cookie yields an anonymous scope; only store failures are errors.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Scope, error) {
	scope := &Scope{manager: m, w: w}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return scope, nil
	}

	sid, err := m.codec.Decode(cookie.Value)
	if err != nil {
		logrus.WithField("remote", r.RemoteAddr).Debug("[Session] Ignoring invalid cookie")
		return scope, nil
	}

	userID, err := m.store.UserID(r.Context(), sid)
	if errors.Is(err, model.ErrSessionNotFound) {
		return scope, nil
	}
	if err != nil {
		return nil, err
	}

	scope.sid = sid
	scope.userID = userID
	return scope, nil
}

// Scope is the Session of a single HTTP request.
type Scope struct {
	manager *Manager
	w       http.ResponseWriter

	mu     sync.Mutex
	sid    string
	userID int64
}

func (s *Scope) UserID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.sid != ""
}

// Establish rotates the session id so a pre-login cookie is never promoted.
func (s *Scope) Establish(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sid != "" {
		if err := s.manager.store.Destroy(ctx, s.sid); err != nil {
			return err
		}
	}

	sid, err := s.manager.store.Create(ctx, userID)
	if err != nil {
		return err
	}
	value, err := s.manager.codec.Encode(sid)
	if err != nil {
		return err
	}

	s.sid = sid
	s.userID = userID
	http.SetCookie(s.w, s.manager.newCookie(value, s.manager.cookie.MaxAge))
	return nil
}

func (s *Scope) Destroy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sid != "" {
		if err := s.manager.store.Destroy(ctx, s.sid); err != nil {
			return err
		}
	}

	s.sid = ""
	s.userID = 0
	http.SetCookie(s.w, s.manager.newCookie("", -1))
	return nil
}

func (m *Manager) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.cookie.Secure,
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext extracts the request Session set by the session middleware.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}
