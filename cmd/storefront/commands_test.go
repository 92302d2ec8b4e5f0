package main

import (
	"bytes"
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "120", formatPrice(120))
	assert.Equal(t, "150.5", formatPrice(150.5))
	assert.Equal(t, "9.99", formatPrice(9.99))
	assert.Equal(t, "0", formatPrice(-3))
}

func TestPrintCart(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCart(&out, models.CartState{Items: []models.CartLineItem{}}))
	assert.Contains(t, out.String(), "Your cart is empty")

	out.Reset()
	state := models.CartState{
		Items:         []models.CartLineItem{{ID: "7", Name: "Vitamin C", Price: 500, Quantity: 2, TotalPrice: 1000}},
		TotalQuantity: 2,
		TotalAmount:   1000,
	}
	require.NoError(t, printCart(&out, state))
	assert.Contains(t, out.String(), "Cart (2)")
	assert.Contains(t, out.String(), "Vitamin C")
	assert.Contains(t, out.String(), "Rs. 1000")
}
