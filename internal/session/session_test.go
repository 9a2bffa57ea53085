package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit/internal/model"
)

func setupStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, 42)
	require.NoError(t, err)
	assert.True(t, mr.Exists(KeyPrefix+sid))

	userID, err := store.UserID(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, store.Destroy(ctx, sid))
	_, err = store.UserID(ctx, sid)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.UserID(ctx, sid)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestCodec_RoundTripAndTamper(t *testing.T) {
	codec := NewCodec("secret")

	value, err := codec.Encode("abc")
	require.NoError(t, err)

	sid, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "abc", sid)

	_, err = NewCodec("other").Decode(value)
	assert.ErrorIs(t, err, ErrInvalidCookie)

	_, err = codec.Decode("garbage")
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func newManager(t *testing.T) (*Manager, *RedisStore) {
	store, _ := setupStore(t)
	return NewManager(store, NewCodec("secret"), CookieConfig{MaxAge: 3600}), store
}

func TestManager_LoadAnonymous(t *testing.T) {
	m, _ := newManager(t)

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	scope, err := m.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)

	_, ok := scope.UserID()
	assert.False(t, ok)
}

func TestManager_EstablishThenLoad(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	scope, err := m.Load(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	require.NoError(t, err)
	require.NoError(t, scope.Establish(ctx, 5))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// next request presents the cookie
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.AddCookie(cookies[0])
	next, err := m.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)

	userID, ok := next.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(5), userID)
}

func TestManager_DestroyClearsCookieAndRecord(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	scope, err := m.Load(rec, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	require.NoError(t, err)
	require.NoError(t, scope.Establish(ctx, 5))
	sid := scope.sid

	destroyRec := httptest.NewRecorder()
	scope.w = destroyRec
	require.NoError(t, scope.Destroy(ctx))

	_, ok := scope.UserID()
	assert.False(t, ok)

	_, err = store.UserID(ctx, sid)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	cookies := destroyRec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestManager_EstablishRotatesSessionID(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	scope, err := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	require.NoError(t, err)
	require.NoError(t, scope.Establish(ctx, 1))
	first := scope.sid

	require.NoError(t, scope.Establish(ctx, 2))
	assert.NotEqual(t, first, scope.sid)

	_, err = store.UserID(ctx, first)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	m, _ := newManager(t)
	scope, err := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	got, ok := FromContext(NewContext(context.Background(), scope))
	assert.True(t, ok)
	assert.Same(t, scope, got)
}
