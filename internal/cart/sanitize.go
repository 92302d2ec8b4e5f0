package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// Defaults applied when a payload field is missing or unusable
const (
	DefaultName  = "Unknown Product"
	DefaultImage = "/placeholder-image.jpg"
)

// Sanitize coerces a raw payload into a valid line item. It never fails:
// unusable fields fall back to defaults and numbers are clamped to
// [0, MaxPrice] and [1, MaxQuantity].
func Sanitize(raw models.RawItem) models.CartLineItem {
	id := stringOr(raw.ID, "")
	if id == "" {
		id = uuid.NewString()
	}

	price, ok := toNumber(raw.Price)
	if !ok {
		price = 0
	}
	price = clampPrice(price)

	quantity := 1
	if q, ok := toNumber(raw.Quantity); ok && q >= 1 {
		quantity = MaxQuantity
		if q < MaxQuantity {
			quantity = int(math.Floor(q))
		}
	}

	item := models.CartLineItem{
		ID:       id,
		Name:     stringOr(raw.Name, DefaultName),
		Price:    price,
		Quantity: quantity,
		Image:    stringOr(raw.Image, DefaultImage),
	}
	item.TotalPrice = lineTotal(item.Price, item.Quantity).InexactFloat64()
	return item
}

// toNumber converts v to a finite float64. Zero is reported as not usable so
// callers apply their own fallback, matching falsy coercion of the payloads
// the storefront receives.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0, false
	}
	return f, true
}

// stringOr renders v as a string, returning def for missing or empty values
func stringOr(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		if s == "" {
			return def
		}
		return s
	case bool:
		if !s {
			return def
		}
		return "true"
	case json.Number:
		return stringOr(string(s), def)
	}

	if n, ok := toNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return def
}
