package checkout

import "errors"

var (
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
	ErrPaymentInFlight   = errors.New("payment already in progress")
	ErrPaymentFailed     = errors.New("payment failed")
)
