package services

import (
	"storefront_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.NewFromInt(500)
	FlatShipping          = decimal.NewFromInt(25)
)

// ComputeTotals calcule les montants d'un panier. Chaque composante est arrondie
// à 2 décimales et total = subtotal + tax + shipping exactement.
func ComputeTotals(items []models.CartItem) models.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(TaxRate)

	shipping := FlatShipping
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	shipping = shipping.Round(2)

	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
