package cart

import (
	"math"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Bounds applied to every line so that totals stay finite and quantities
// never overflow.
const (
	MaxQuantity = 10000
	MaxPrice    = 1_000_000_000
)

// clampQuantity bounds q to [1, MaxQuantity]
func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// clampPrice bounds p to [0, MaxPrice]; NaN becomes 0
func clampPrice(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > MaxPrice {
		return MaxPrice
	}
	return p
}

// lineTotal is price * quantity over the clamped values, so it is never
// negative and always converts back to a finite float64
func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(clampPrice(price)).Mul(decimal.NewFromInt(int64(clampQuantity(quantity))))
}

// recompute refreshes every derived field of the state from its items.
// All mutating paths end here.
func recompute(state *models.CartState) {
	quantity := 0
	amount := decimal.Zero
	for i := range state.Items {
		item := &state.Items[i]
		item.Price = clampPrice(item.Price)
		item.Quantity = clampQuantity(item.Quantity)

		total := lineTotal(item.Price, item.Quantity)
		item.TotalPrice = total.InexactFloat64()
		quantity += item.Quantity
		amount = amount.Add(total)
	}
	state.TotalQuantity = quantity
	state.TotalAmount = amount.InexactFloat64()
}

// Rebuild reconstructs a consistent state from stored items. Every item is
// sanitized again and stored derived fields are ignored; duplicate ids are
// merged the same way AddItem merges them.
func Rebuild(raw []models.RawItem) models.CartState {
	state := models.CartState{Items: make([]models.CartLineItem, 0, len(raw))}
	for _, r := range raw {
		merge(&state, Sanitize(r))
	}
	recompute(&state)
	return state
}

// merge increments an existing line, saturating at MaxQuantity, or appends
// a new one
func merge(state *models.CartState, item models.CartLineItem) {
	for i := range state.Items {
		if state.Items[i].ID == item.ID {
			state.Items[i].Quantity = addQuantity(state.Items[i].Quantity, item.Quantity)
			return
		}
	}
	state.Items = append(state.Items, item)
}

func addQuantity(a, b int) int {
	a, b = clampQuantity(a), clampQuantity(b)
	if a > MaxQuantity-b {
		return MaxQuantity
	}
	return a + b
}
