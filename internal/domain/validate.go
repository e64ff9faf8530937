package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrNegativePrice = errors.New("price must not be negative")

var validate = validator.New()

// Validate checks the product fields the storefront relies on: a stable id,
// a name and a non-negative price.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid product %d: %w", p.ID, err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("invalid product %d: %w", p.ID, ErrNegativePrice)
	}
	return nil
}

// Validate checks a cart line read from outside the cart, e.g. persisted storage.
func (l CartLine) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid cart line for product %d: %w", l.Product.ID, err)
	}
	return l.Product.Validate()
}
