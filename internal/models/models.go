package models

import "strings"

// All is the filter sentinel matching every category or subcategory.
const All = "All"

// Product represents a catalog record. Products are read-only once loaded.
type Product struct {
	ID            string   `db:"id" json:"id" yaml:"id"`
	Name          string   `db:"name" json:"name" yaml:"name"`
	Price         float64  `db:"price" json:"price" yaml:"price"`
	OriginalPrice *float64 `db:"original_price" json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	Discount      *int     `db:"discount" json:"discount,omitempty" yaml:"discount,omitempty"`
	Rating        float64  `db:"rating" json:"rating" yaml:"rating"`
	Image         string   `db:"image" json:"image" yaml:"image"`
	Category      string   `db:"category" json:"category" yaml:"category"`
	Subcategory   string   `db:"subcategory" json:"subcategory" yaml:"subcategory"`
	Description   string   `db:"description" json:"description,omitempty" yaml:"description,omitempty"`
}

// Category is a top-level catalog category with its subcategory names
type Category struct {
	Name          string   `json:"name" yaml:"name"`
	Subcategories []string `json:"subcategories" yaml:"subcategories"`
}

// HasSubcategory reports whether name belongs to the category
func (c Category) HasSubcategory(name string) bool {
	for _, s := range c.Subcategories {
		if s == name {
			return true
		}
	}
	return false
}

// CartLineItem is one product entry in the cart.
// TotalPrice is derived and always equals Price * Quantity.
type CartLineItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Image      string  `json:"image"`
	TotalPrice float64 `json:"totalPrice"`
}

// CartState is the full cart. It is also the persisted storage layout.
type CartState struct {
	Items         []CartLineItem `json:"items"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalAmount   float64        `json:"totalAmount"`
}

// Clone returns a deep copy of the state
func (s CartState) Clone() CartState {
	items := make([]CartLineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{
		Items:         items,
		TotalQuantity: s.TotalQuantity,
		TotalAmount:   s.TotalAmount,
	}
}

// Find returns the line item with the given id
func (s CartState) Find(id string) (CartLineItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartLineItem{}, false
}

// RawItem is an unvalidated add-to-cart payload or stored line item.
// Any field may be missing or carry the wrong type.
type RawItem struct {
	ID       any `json:"id"`
	Name     any `json:"name"`
	Price    any `json:"price"`
	Quantity any `json:"quantity"`
	Image    any `json:"image"`
}

// FilterSelection is the active category/subcategory filter
type FilterSelection struct {
	Category    string `json:"selectedCategory"`
	Subcategory string `json:"selectedSubcategory"`
}

// DefaultSelection matches the whole catalog
func DefaultSelection() FilterSelection {
	return FilterSelection{Category: All, Subcategory: All}
}

// Matches applies the listing predicate to a product
func (f FilterSelection) Matches(p Product) bool {
	categoryMatch := f.Category == All || p.Category == f.Category
	subcategoryMatch := f.Subcategory == All || p.Subcategory == f.Subcategory
	return categoryMatch && subcategoryMatch
}

// Action namespaces
const (
	CartNamespace   = "cart/"
	FilterNamespace = "filter/"
)

// Action types
const (
	ActionAddItem        = "cart/addItem"
	ActionRemoveItem     = "cart/removeItem"
	ActionUpdateQuantity = "cart/updateQuantity"
	ActionClear          = "cart/clear"

	ActionSetCategory       = "filter/setCategory"
	ActionSetSubcategory    = "filter/setSubcategory"
	ActionNavigateAndFilter = "filter/navigateAndFilter"
	ActionClearFilters      = "filter/clearFilters"
)

// Action identifies a state mutation for observers
type Action struct {
	Type     string `json:"type"`
	ItemID   string `json:"item_id,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// InNamespace reports whether the action tag falls under ns
func (a Action) InNamespace(ns string) bool {
	return strings.HasPrefix(a.Type, ns)
}
