package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/config"
)

// runContract checks the behaviour every backend must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		req := require.New(t)
		v, ok, err := s.Get(ctx, "missing")
		req.NoError(err)
		req.False(ok)
		req.Empty(v)
	})

	t.Run("set then get", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.Set(ctx, "cart", `[{"quantity":1}]`))
		v, ok, err := s.Get(ctx, "cart")
		req.NoError(err)
		req.True(ok)
		req.Equal(`[{"quantity":1}]`, v)
	})

	t.Run("last write wins", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.Set(ctx, "cart", "first"))
		req.NoError(s.Set(ctx, "cart", "second"))
		v, ok, err := s.Get(ctx, "cart")
		req.NoError(err)
		req.True(ok)
		req.Equal("second", v)
	})

	t.Run("empty value is distinct from absent", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.Set(ctx, "blank", ""))
		_, ok, err := s.Get(ctx, "blank")
		req.NoError(err)
		req.True(ok)
	})

	t.Run("remove", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.Set(ctx, "cart", "[]"))
		req.NoError(s.Remove(ctx, "cart"))
		_, ok, err := s.Get(ctx, "cart")
		req.NoError(err)
		req.False(ok)
	})

	t.Run("remove absent key", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "never-set"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		req := require.New(t)
		_, _, err := s.Get(ctx, "")
		req.ErrorIs(err, ErrEmptyKey)
		req.ErrorIs(s.Set(ctx, "", "x"), ErrEmptyKey)
		req.ErrorIs(s.Remove(ctx, ""), ErrEmptyKey)
	})
}

func TestMemory(t *testing.T) {
	runContract(t, NewMemory())
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "memory"}}

	s, closeFn, err := Open(context.Background(), cfg, "", zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, &Memory{}, s)
}

func TestOpen_Badger(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "badger", BadgerPath: t.TempDir()}}

	s, closeFn, err := Open(context.Background(), cfg, "", zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	require.IsType(t, &Badger{}, s)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "etcd"}}

	_, _, err := Open(context.Background(), cfg, "", zap.NewNop())
	require.ErrorIs(t, err, ErrUnknownDriver)
}
