package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit/internal/model"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestResetTokenStore_SaveSetsValueAndTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewResetTokenStore(client)

	require.NoError(t, store.Save(context.Background(), "tok", 9))

	val, err := mr.Get(ResetTokenPrefix + "tok")
	require.NoError(t, err)
	assert.Equal(t, "9", val)
	assert.Equal(t, 72*time.Hour, mr.TTL(ResetTokenPrefix+"tok"))
}

func TestResetTokenStore_ResolveAndDelete(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewResetTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok", 9))

	userID, err := store.UserID(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)

	require.NoError(t, store.Delete(ctx, "tok"))

	_, err = store.UserID(ctx, "tok")
	assert.ErrorIs(t, err, model.ErrResetTokenNotFound)
}

func TestResetTokenStore_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewResetTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok", 1))
	mr.FastForward(ResetTokenTTL + time.Second)

	_, err := store.UserID(ctx, "tok")
	assert.ErrorIs(t, err, model.ErrResetTokenNotFound)
}

func TestResetTokenStore_UnknownToken(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewResetTokenStore(client)

	_, err := store.UserID(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrResetTokenNotFound)
}
