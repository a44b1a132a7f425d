package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	t.Run("SaveAndGet", func(t *testing.T) {
		userID := uuid.New()
		c := New(userID)
		require.NoError(t, c.Add(chairs(uuid.New(), 2)))
		start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, c.SetDates(start, start.AddDate(0, 0, 2)))

		require.NoError(t, store.Save(ctx, c))

		got, err := store.Get(ctx, userID)
		require.NoError(t, err)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, 2, got.Lines[0].Quantity)
		assert.Equal(t, 2, got.RentalDays())
		assert.Equal(t, time.Hour, s.TTL(cartKey(userID)))
	})

	t.Run("MissingCartIsEmpty", func(t *testing.T) {
		got, err := store.Get(ctx, uuid.New())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Lines)
	})

	t.Run("Expires", func(t *testing.T) {
		userID := uuid.New()
		c := New(userID)
		require.NoError(t, c.Add(chairs(uuid.New(), 1)))
		require.NoError(t, store.Save(ctx, c))

		s.FastForward(2 * time.Hour)

		got, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, got.Lines)
	})

	t.Run("Delete", func(t *testing.T) {
		userID := uuid.New()
		c := New(userID)
		require.NoError(t, c.Add(chairs(uuid.New(), 1)))
		require.NoError(t, store.Save(ctx, c))

		require.NoError(t, store.Delete(ctx, userID))
		assert.False(t, s.Exists(cartKey(userID)))
	})

	t.Run("Lock", func(t *testing.T) {
		userID := uuid.New()

		unlock, ok, err := store.Lock(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, LockTTL, s.TTL(lockKey(userID)))

		_, ok, err = store.Lock(ctx, userID)
		require.NoError(t, err)
		assert.False(t, ok, "second checkout must wait")

		require.NoError(t, unlock(ctx))
		assert.False(t, s.Exists(lockKey(userID)))

		_, ok, err = store.Lock(ctx, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("StaleUnlockKeepsNewOwner", func(t *testing.T) {
		userID := uuid.New()

		stale, ok, err := store.Lock(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)

		s.FastForward(LockTTL + time.Second)
		_, ok, err = store.Lock(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, stale(ctx))
		assert.True(t, s.Exists(lockKey(userID)))
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	c := New(userID)
	require.NoError(t, c.Add(chairs(uuid.New(), 3)))
	require.NoError(t, store.Save(ctx, c))

	// the saved cart is a copy
	c.Lines[0].Quantity = 9

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Lines[0].Quantity)

	require.NoError(t, store.Delete(ctx, userID))
	got, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestMemoryStore_Lock(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	unlock, ok, err := store.Lock(ctx, userID)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.Lock(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	// other users are not blocked
	_, ok, err = store.Lock(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, unlock(ctx))
	_, ok, err = store.Lock(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
}
