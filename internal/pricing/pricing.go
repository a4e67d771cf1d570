// Package pricing computes the order price breakdown shown at place-order
// time and stored on the order.
package pricing

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.NewFromInt(200)
	FlatShipping          = decimal.NewFromInt(15)
	TaxRate               = decimal.RequireFromString("0.15")
)

type Line struct {
	Price    float64
	Quantity int
}

type Breakdown struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Compute sums the lines and applies shipping and tax, rounding to cents.
// Shipping is free strictly above the threshold.
func Compute(lines []Line) Breakdown {
	items := decimal.Zero
	for _, l := range lines {
		items = items.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	items = items.Round(2)

	shipping := FlatShipping
	if items.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := items.Mul(TaxRate).Round(2)
	total := items.Add(shipping).Add(tax).Round(2)

	return Breakdown{
		ItemsPrice:    toFloat(items),
		ShippingPrice: toFloat(shipping),
		TaxPrice:      toFloat(tax),
		TotalPrice:    toFloat(total),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
