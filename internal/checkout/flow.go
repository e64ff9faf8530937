package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// Cart is what the flow needs from the cart store
type Cart interface {
	Lines() []domain.CartLine
	Clear(ctx context.Context)
}

// Flow drives one checkout from Browsing to Confirmed. A Confirmed flow is
// finished; start a new Flow for the next checkout.
type Flow struct {
	mu       sync.Mutex
	state    State
	snapshot *Snapshot
	cart     Cart
	payments PaymentProcessor
	nav      Navigator
	log      *zap.Logger
	now      func() time.Time
}

// NewFlow creates a flow in Browsing. nav may be nil.
func NewFlow(cart Cart, payments PaymentProcessor, nav Navigator, logger *zap.Logger) *Flow {
	if nav == nil {
		nav = NavigatorFunc(func(Signal) {})
	}
	return &Flow{
		state:    StateBrowsing,
		cart:     cart,
		payments: payments,
		nav:      nav,
		log:      logger.With(zap.String("component", "checkout")),
		now:      time.Now,
	}
}

// State returns the current state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot returns a copy of the order being reviewed or paid, if any
func (f *Flow) Snapshot() (Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil {
		return Snapshot{}, false
	}
	return f.snapshot.Copy(), true
}

// Review enters Reviewing and freezes the current cart. An empty cart is
// allowed and yields an empty order summary.
func (f *Flow) Review() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.transition(StateReviewing); err != nil {
		return Snapshot{}, err
	}
	snap := newSnapshot(f.cart.Lines(), f.now())
	f.snapshot = &snap

	f.log.Info("Checkout review started",
		zap.Int("lines", len(snap.Lines)),
		zap.String("total", snap.Totals.Total.String()),
	)
	return snap.Copy(), nil
}

// BackToCart leaves Reviewing without touching the cart
func (f *Flow) BackToCart() (Signal, error) {
	f.mu.Lock()
	if err := f.transition(StateBrowsing); err != nil {
		f.mu.Unlock()
		return "", err
	}
	f.snapshot = nil
	f.mu.Unlock()

	f.log.Info("Checkout abandoned, back to cart")
	f.nav.Navigate(SignalBackToCart)
	return SignalBackToCart, nil
}

// ClearCart empties the cart from the review screen and returns to Browsing
func (f *Flow) ClearCart(ctx context.Context) (Signal, error) {
	f.mu.Lock()
	if f.state != StateReviewing {
		err := fmt.Errorf("%w: clear cart from %s", ErrIllegalTransition, f.state)
		f.mu.Unlock()
		return "", err
	}
	f.cart.Clear(ctx)
	f.state = StateBrowsing
	f.snapshot = nil
	f.mu.Unlock()

	f.log.Info("Cart cleared from checkout")
	f.nav.Navigate(SignalCleared)
	return SignalCleared, nil
}

// PayNow charges the reviewed order. It blocks for the processing delay and
// cannot be cancelled once started; on success the cart is cleared and the
// flow is Confirmed. A processor error returns the flow to Reviewing with the
// cart and snapshot untouched.
func (f *Flow) PayNow(ctx context.Context) (Signal, error) {
	f.mu.Lock()
	if f.state == StatePaying {
		f.mu.Unlock()
		return "", ErrPaymentInFlight
	}
	if err := f.transition(StatePaying); err != nil {
		f.mu.Unlock()
		return "", err
	}
	order := f.snapshot.Copy()
	f.mu.Unlock()

	f.log.Info("Payment started", zap.String("total", order.Totals.Total.String()))

	ctx = context.WithoutCancel(ctx)
	chargeErr := f.payments.Charge(ctx, order)

	f.mu.Lock()
	if f.state != StatePaying {
		state := f.state
		f.mu.Unlock()
		f.log.Error("Payment finished outside Paying", zap.Stringer("state", state), zap.Error(chargeErr))
		return "", fmt.Errorf("%w: payment finished in %s", ErrIllegalTransition, state)
	}
	if chargeErr != nil {
		f.state = StateReviewing
		f.mu.Unlock()
		f.log.Warn("Payment failed, back to review", zap.Error(chargeErr))
		return "", errors.Join(ErrPaymentFailed, chargeErr)
	}
	f.cart.Clear(ctx)
	f.state = StateConfirmed
	f.mu.Unlock()

	f.log.Info("Payment succeeded, order confirmed")
	f.nav.Navigate(SignalPaymentSucceeded)
	return SignalPaymentSucceeded, nil
}

// transition moves to next when a shopper may request it. Callers hold f.mu.
func (f *Flow) transition(next State) error {
	if !canRequest(f.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.state, next)
	}
	f.state = next
	return nil
}
