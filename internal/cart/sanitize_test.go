package cart

import (
	"encoding/json"
	"math"
	"testing"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawItem
		want models.CartLineItem
	}{
		{
			name: "valid item",
			raw:  models.RawItem{ID: "p1", Name: "Vitamin C", Price: 500.0, Quantity: 2, Image: "/img/a.jpg"},
			want: models.CartLineItem{ID: "p1", Name: "Vitamin C", Price: 500, Quantity: 2, Image: "/img/a.jpg", TotalPrice: 1000},
		},
		{
			name: "numeric strings",
			raw:  models.RawItem{ID: 7, Name: "Syrup", Price: "120.5", Quantity: "3"},
			want: models.CartLineItem{ID: "7", Name: "Syrup", Price: 120.5, Quantity: 3, Image: DefaultImage, TotalPrice: 361.5},
		},
		{
			name: "negative price and zero quantity",
			raw:  models.RawItem{ID: "n", Name: "Neg", Price: -10.0, Quantity: 0},
			want: models.CartLineItem{ID: "n", Name: "Neg", Price: 0, Quantity: 1, Image: DefaultImage, TotalPrice: 0},
		},
		{
			name: "fractional quantity is floored",
			raw:  models.RawItem{ID: "f", Name: "Frac", Price: 10.0, Quantity: 2.7},
			want: models.CartLineItem{ID: "f", Name: "Frac", Price: 10, Quantity: 2, Image: DefaultImage, TotalPrice: 20},
		},
		{
			name: "non numeric price",
			raw:  models.RawItem{ID: "s", Name: "Str", Price: "free", Quantity: true},
			want: models.CartLineItem{ID: "s", Name: "Str", Price: 0, Quantity: 1, Image: DefaultImage, TotalPrice: 0},
		},
		{
			name: "nan price",
			raw:  models.RawItem{ID: "nan", Name: "NaN", Price: math.NaN(), Quantity: math.Inf(1)},
			want: models.CartLineItem{ID: "nan", Name: "NaN", Price: 0, Quantity: 1, Image: DefaultImage, TotalPrice: 0},
		},
		{
			name: "quantity above the cap",
			raw:  models.RawItem{ID: "q", Name: "Many", Price: 2.0, Quantity: 1e300},
			want: models.CartLineItem{ID: "q", Name: "Many", Price: 2, Quantity: MaxQuantity, Image: DefaultImage, TotalPrice: 2 * MaxQuantity},
		},
		{
			name: "max int quantity",
			raw:  models.RawItem{ID: "m", Name: "MaxInt", Price: 1.0, Quantity: math.MaxInt64},
			want: models.CartLineItem{ID: "m", Name: "MaxInt", Price: 1, Quantity: MaxQuantity, Image: DefaultImage, TotalPrice: MaxQuantity},
		},
		{
			name: "price above the cap",
			raw:  models.RawItem{ID: "big", Name: "Big", Price: 1e308, Quantity: 2},
			want: models.CartLineItem{ID: "big", Name: "Big", Price: MaxPrice, Quantity: 2, Image: DefaultImage, TotalPrice: 2 * MaxPrice},
		},
		{
			name: "json numbers",
			raw:  models.RawItem{ID: json.Number("12"), Name: "Json", Price: json.Number("9.99"), Quantity: json.Number("2")},
			want: models.CartLineItem{ID: "12", Name: "Json", Price: 9.99, Quantity: 2, Image: DefaultImage, TotalPrice: 19.98},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitizeGeneratesID(t *testing.T) {
	item := Sanitize(models.RawItem{})

	_, err := uuid.Parse(item.ID)
	assert.NoError(t, err)
	assert.Equal(t, DefaultName, item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 0.0, item.TotalPrice)

	assert.NotEqual(t, item.ID, Sanitize(models.RawItem{}).ID)
}
