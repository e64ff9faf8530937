package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerPrefix = "kv:"

// Badger persists entries in an embedded badger database on local disk.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database at path
func OpenBadger(path string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return NewBadger(db), nil
}

func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func (b *Badger) Get(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger get failed: %w", err)
	}
	return string(value), true, nil
}

func (b *Badger) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger set failed: %w", err)
	}
	return nil
}

func (b *Badger) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete failed: %w", err)
	}
	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func badgerKey(key string) []byte {
	return []byte(badgerPrefix + key)
}
