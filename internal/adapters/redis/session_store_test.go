package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/marketplace-ui/internal/domain/auth"
	"github.com/target/marketplace-ui/internal/testutil"
)

func sellerSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID: id,
		User: domainauth.User{
			ID:        "user-123",
			Email:     "seller@example.com",
			FirstName: "Sam",
			IsSeller:  true,
		},
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore(testutil.SetupTestRedis(t))
	ctx := context.Background()

	sess := sellerSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.User, got.User)
	assert.True(t, got.User.Seller())
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	store := NewSessionStore(testutil.SetupTestRedis(t))

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(testutil.SetupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sellerSession("test-session-delete", 30*time.Minute)))
	_, err := store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))
	_, err = store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	store := NewSessionStore(testutil.SetupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sellerSession("test-session-ttl", 100*time.Millisecond)))
	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	store := NewSessionStore(testutil.SetupTestRedis(t))
	ctx := context.Background()

	err := store.Save(ctx, sellerSession("", time.Hour))
	require.Error(t, err)

	err = store.Save(ctx, sellerSession("already-expired", -time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestSessionStore_MalformedSellerFlagDecodesFalse(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	raw := `{"id":"legacy","user":{"id":"u1","email":"a@example.com","is_seller":"yes"},"expires_at":"` +
		time.Now().Add(time.Hour).UTC().Format(time.RFC3339Nano) + `"}`
	require.NoError(t, client.Set(ctx, DefaultSessionPrefix+"legacy", raw, time.Hour).Err())

	got, err := store.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.User.ID)
	assert.False(t, got.User.Seller())
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "custom:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sellerSession("abc", time.Hour)))

	n, err := client.Exists(ctx, "custom:abc").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
