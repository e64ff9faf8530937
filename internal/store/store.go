// Package store holds the persisted key-value adapters the cart writes through to.
//
// Values are opaque strings. A missing key is reported as ok=false with a nil
// error; removing a missing key is not an error. None of the backends offer
// transactions across keys.
package store

import (
	"context"
	"errors"
)

var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrEmptyKey      = errors.New("store key must not be empty")
)

// Store is the get/set/remove contract the cart persists through
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
