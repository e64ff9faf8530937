package store

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestBadger(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	defer db.Close()

	runContract(t, NewBadger(db))
}

func TestBadger_SurvivesReopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	first, err := OpenBadger(dir)
	req.NoError(err)
	req.NoError(first.Set(ctx, "cart", `[{"quantity":3}]`))
	req.NoError(first.Close())

	second, err := OpenBadger(dir)
	req.NoError(err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "cart")
	req.NoError(err)
	req.True(ok)
	req.Equal(`[{"quantity":3}]`, v)
}
