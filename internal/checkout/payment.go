package checkout

import (
	"context"
	"time"
)

// PaymentProcessor charges an order. The default implementation only simulates it.
type PaymentProcessor interface {
	Charge(ctx context.Context, order Snapshot) error
}

// SimulatedProcessor waits Delay and always succeeds
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Charge(ctx context.Context, _ Snapshot) error {
	if p.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
