// Package cart owns the shopping cart: an ordered product → quantity mapping
// mirrored to a persisted key-value store on every mutation.
//
// The cart is the single writer of its persisted entry. Lines keep first-add
// order, there is at most one line per product id and no line ever holds a
// quantity below one.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrDuplicateLine = errors.New("duplicate product line")

// HydrateResult tells an observer whether a persisted cart existed at startup
type HydrateResult int

const (
	// Absent means no usable persisted entry: never shopped, cleared, or malformed.
	Absent HydrateResult = iota
	// Restored means a persisted entry was read, possibly an empty cart.
	Restored
)

func (r HydrateResult) String() string {
	if r == Restored {
		return "restored"
	}
	return "absent"
}

const (
	writeRetries = 2
	writeBackoff = 50 * time.Millisecond
)

type Store struct {
	mu    sync.Mutex
	kv    store.Store
	key   string
	log   *zap.Logger
	lines []domain.CartLine
	index map[int64]int
}

// New creates an empty cart persisted under key. Call Hydrate to load saved state.
func New(kv store.Store, key string, logger *zap.Logger) *Store {
	return &Store{
		kv:    kv,
		key:   key,
		log:   logger.With(zap.String("component", "cart")),
		index: make(map[int64]int),
	}
}

// Hydrate replaces the in-memory cart with the persisted one. A missing or
// malformed entry leaves the cart empty; malformed values are logged only.
func (s *Store) Hydrate(ctx context.Context) HydrateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Error("Failed to read persisted cart", zap.Error(err))
		return Absent
	}
	if !ok {
		return Absent
	}

	lines, err := decode(raw)
	if err != nil {
		s.log.Warn("Discarding malformed persisted cart", zap.String("key", s.key), zap.Error(err))
		return Absent
	}

	for _, line := range lines {
		s.index[line.Product.ID] = len(s.lines)
		s.lines = append(s.lines, line)
	}
	s.log.Debug("Cart hydrated", zap.Int("lines", len(s.lines)))
	return Restored
}

// Add puts one more unit of product in the cart, appending a new line on first add.
func (s *Store) Add(ctx context.Context, product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[product.ID]; ok {
		s.lines[i].Quantity++
	} else {
		s.index[product.ID] = len(s.lines)
		s.lines = append(s.lines, domain.CartLine{Product: product.Clone(), Quantity: 1})
	}
	s.persist(ctx)
}

// SetQuantity sets the exact quantity of a line. Quantities at or below zero
// remove the line; removing an absent product is a no-op that still persists.
// Setting a positive quantity for an absent product does nothing, since the
// cart has no product record to build a line from.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	switch {
	case quantity <= 0 && ok:
		s.removeAt(i)
	case ok:
		s.lines[i].Quantity = quantity
	}
	s.persist(ctx)
}

// Increment adds one unit to an existing line
func (s *Store) Increment(ctx context.Context, productID int64) {
	s.SetQuantity(ctx, productID, s.Quantity(productID)+1)
}

// Decrement removes one unit, dropping the line when it reaches zero
func (s *Store) Decrement(ctx context.Context, productID int64) {
	s.SetQuantity(ctx, productID, s.Quantity(productID)-1)
}

// Clear empties the cart and deletes the persisted entry so that a later
// Hydrate reports Absent rather than an empty cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.kv.Remove(ctx, s.key)
	})
	if err != nil {
		s.log.Error("Failed to remove persisted cart, in-memory cart stays empty", zap.Error(err))
	}
}

// Lines returns a copy of the cart lines in first-add order
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// LinesFor returns copies of the lines whose product ids are in ids, in cart order
func (s *Store) LinesFor(ids ...int64) []domain.CartLine {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CartLine
	for _, line := range s.lines {
		if _, ok := want[line.Product.ID]; ok {
			out = append(out, line.Clone())
		}
	}
	return out
}

// Quantity returns the quantity held for productID, zero when absent
func (s *Store) Quantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[productID]; ok {
		return s.lines[i].Quantity
	}
	return 0
}

// Subtotal is the sum of price × quantity over all lines
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.lines)
}

// LineCount is the number of distinct product lines
func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// ItemCount is the total number of units across all lines
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal sums price × quantity over lines
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}

// persist writes the full cart. Callers hold s.mu, which keeps the order of
// writes identical to the order of mutations.
func (s *Store) persist(ctx context.Context) {
	payload, err := encode(s.lines)
	if err != nil {
		s.log.Error("Failed to encode cart", zap.Error(err))
		return
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.kv.Set(ctx, s.key, payload)
	})
	if err != nil {
		s.log.Error("Failed to persist cart, keeping in-memory state",
			zap.Int("lines", len(s.lines)),
			zap.Error(err),
		)
	}
}

// withRetry runs a write detached from the caller's cancellation: the
// in-memory change already happened, so the persisted entry must follow it.
func (s *Store) withRetry(ctx context.Context, op func(context.Context) error) error {
	ctx = context.WithoutCancel(ctx)
	backoff := retry.WithMaxRetries(writeRetries, retry.NewConstant(writeBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Store) removeAt(i int) {
	delete(s.index, s.lines[i].Product.ID)
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	for j := i; j < len(s.lines); j++ {
		s.index[s.lines[j].Product.ID] = j
	}
}

func (s *Store) reset() {
	s.lines = nil
	s.index = make(map[int64]int)
}

func encode(lines []domain.CartLine) (string, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decode parses a persisted cart and rejects anything the public operations
// could not have produced.
func decode(raw string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[line.Product.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLine, line.Product.ID)
		}
		seen[line.Product.ID] = struct{}{}
	}
	return lines, nil
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	for i, line := range lines {
		out[i] = line.Clone()
	}
	return out
}
