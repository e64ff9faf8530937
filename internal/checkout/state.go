package checkout

// State is a step of the checkout flow
type State string

const (
	StateBrowsing  State = "BROWSING"
	StateReviewing State = "REVIEWING"
	StatePaying    State = "PAYING"
	StateConfirmed State = "CONFIRMED"
)

// transitions lists the moves a shopper can request
var transitions = map[State][]State{
	StateBrowsing:  {StateReviewing},
	StateReviewing: {StateBrowsing, StatePaying},
	StatePaying:    {StateConfirmed},
}

// IsTerminal reports whether no transition leaves s
func (s State) IsTerminal() bool {
	return s == StateConfirmed
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

// CanTransitionTo reports whether the flow may move from one state to another.
// Paying → Reviewing exists only as the outcome of a failed charge.
func CanTransitionTo(from, to State) bool {
	return isPaymentFailure(from, to) || canRequest(from, to)
}

func isPaymentFailure(from, to State) bool {
	return from == StatePaying && to == StateReviewing
}

func canRequest(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Signal tells the navigation layer where to go after a transition
type Signal string

const (
	SignalBackToCart       Signal = "backToCart"
	SignalCleared          Signal = "cleared"
	SignalPaymentSucceeded Signal = "paymentSucceeded"
)

// Navigator receives exit signals
type Navigator interface {
	Navigate(signal Signal)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(Signal)

func (f NavigatorFunc) Navigate(signal Signal) { f(signal) }
