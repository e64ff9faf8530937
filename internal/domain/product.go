package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. It is never mutated after it is fetched.
type Product struct {
	ID            int64            `json:"id" validate:"required,gt=0"`
	Name          string           `json:"name" validate:"required"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Discount      *int             `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating        *float64         `json:"rating,omitempty"`
	SoldCount     *int             `json:"sold_count,omitempty" validate:"omitempty,gte=0"`
	Image         string           `json:"image,omitempty"`
	Labels        []string         `json:"labels,omitempty"`
}

// Clone returns a deep copy so snapshots never share pointers or label slices with the source.
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		c.OriginalPrice = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		c.Discount = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		c.Rating = &v
	}
	if p.SoldCount != nil {
		v := *p.SoldCount
		c.SoldCount = &v
	}
	if p.Labels != nil {
		c.Labels = append([]string(nil), p.Labels...)
	}
	return c
}

// CartLine is one product in the cart together with its quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// Total returns price × quantity for the line.
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone returns a deep copy of the line.
func (l CartLine) Clone() CartLine {
	return CartLine{Product: l.Product.Clone(), Quantity: l.Quantity}
}
