package cache

import (
	"context"
	"testing"
	"time"

	"centime/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *WalletCache {
	t.Helper()
	server := miniredis.RunT(t)
	client := NewRedisClient(&RedisConfig{Addr: server.Addr()})
	return NewWalletCache(client, time.Minute)
}

func TestWalletCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	wallet := &models.Wallet{
		ID:        7,
		OwnerID:   "owner-1",
		OwnerType: models.OwnerTypeUser,
		Currency:  "USD",
		Balance:   10000,
	}

	require.NoError(t, c.SetWallet(ctx, wallet))

	got, err := c.GetWallet(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, got.ID)
	assert.Equal(t, wallet.Balance, got.Balance)
	assert.Equal(t, wallet.Currency, got.Currency)
}

func TestWalletCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.GetWallet(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestWalletCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	wallet := &models.Wallet{ID: 3, OwnerID: "owner-3", OwnerType: models.OwnerTypeUser, Currency: "USD"}
	require.NoError(t, c.SetWallet(ctx, wallet))
	require.NoError(t, c.InvalidateWallet(ctx, 3))

	_, err := c.GetWallet(ctx, 3)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
