package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/repository/kv"
)

func TestOpenStore_File(t *testing.T) {
	cfg := config.Config{StorageDriver: config.DriverFile, DataDir: t.TempDir()}
	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, store.Ping(context.Background()))
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), config.Config{StorageDriver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{StorageDriver: config.DriverRedis, RedisAddr: mr.Addr()}
	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, store.Set(context.Background(), "cart_items", "[]"))
	assert.True(t, mr.Exists("storefront:cart_items"))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), config.Config{StorageDriver: "etcd"}, zap.NewNop())
	assert.Error(t, err)
}
