package services

import (
	"testing"

	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func line(p string, qty int) models.CartItem {
	return models.CartItem{Quantity: qty, Product: models.Product{Price: price(p)}}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartItem
		subtotal string
		tax      string
		shipping string
		total    string
	}{
		{"frais de port fixes", []models.CartItem{line("100.00", 2), line("50.00", 1)}, "250", "20", "25", "295"},
		{"livraison offerte au seuil", []models.CartItem{line("250.00", 2)}, "500", "40", "0", "540"},
		{"juste sous le seuil", []models.CartItem{line("499.99", 1)}, "499.99", "40", "25", "564.99"},
		{"arrondi de la taxe", []models.CartItem{line("19.99", 3)}, "59.97", "4.8", "25", "89.77"},
		{"panier vide", nil, "0", "0", "25", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items)
			assert.True(t, price(tt.subtotal).Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, price(tt.tax).Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, price(tt.shipping).Equal(got.Shipping), "shipping %s", got.Shipping)
			assert.True(t, price(tt.total).Equal(got.Total), "total %s", got.Total)
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.Shipping)))
		})
	}
}
