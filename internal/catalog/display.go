package catalog

import (
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultDiscount is shown when the backend has no (or a zero) discount
const DefaultDiscount = 17

func DisplayDiscount(p domain.Product) int {
	if p.Discount == nil || *p.Discount == 0 {
		return DefaultDiscount
	}
	return *p.Discount
}

// ListPrice is the struck-through price: the backend's original price when
// present, otherwise the price grossed up by the display discount.
func ListPrice(p domain.Product) decimal.Decimal {
	if p.OriginalPrice != nil {
		return *p.OriginalPrice
	}
	factor := decimal.NewFromInt(int64(100 - DisplayDiscount(p))).Div(decimal.NewFromInt(100))
	return p.Price.Div(factor).Round(0)
}

// FormatPrice renders a price the vi-VN way, e.g. 1.250.000
func FormatPrice(price decimal.Decimal) string {
	return humanize.FormatInteger("#.###,", int(price.Round(0).IntPart()))
}

// FormatSoldCount renders 1200 as "1.2k" and 3400000 as "3.4M"
func FormatSoldCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// ImageURL returns the product image only when it is an absolute http(s) URL
func ImageURL(p domain.Product) string {
	img := strings.TrimSpace(p.Image)
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img
	}
	return ""
}

// View is a product decorated for the list page
type View struct {
	domain.Product
	Brand         string `json:"brand"`
	Category      string `json:"category"`
	DiscountLabel int    `json:"discount_label"`
	ListPrice     string `json:"list_price"`
	PriceText     string `json:"price_text"`
	SoldText      string `json:"sold_text"`
	ImageURL      string `json:"image_url"`
}

func ViewOf(p domain.Product) View {
	sold := 0
	if p.SoldCount != nil {
		sold = *p.SoldCount
	}
	return View{
		Product:       p,
		Brand:         Brand(p),
		Category:      Category(p),
		DiscountLabel: DisplayDiscount(p),
		ListPrice:     FormatPrice(ListPrice(p)),
		PriceText:     FormatPrice(p.Price),
		SoldText:      FormatSoldCount(sold),
		ImageURL:      ImageURL(p),
	}
}
