package checkout

import (
	"storefront/internal/cart"
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// TaxFee is a flat fee charged once per non-empty order, not a percentage.
var TaxFee = decimal.NewFromInt(10)

// Totals is the money breakdown shown on the order summary
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Taxes    decimal.Decimal `json:"taxes"`
	Total    decimal.Decimal `json:"total"`
}

// Quote prices lines: free shipping, TaxFee when there is at least one line.
func Quote(lines []domain.CartLine) Totals {
	subtotal := cart.Subtotal(lines)

	taxes := decimal.Zero
	if len(lines) > 0 {
		taxes = TaxFee
	}
	shipping := decimal.Zero

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Taxes:    taxes,
		Total:    subtotal.Add(shipping).Add(taxes),
	}
}
