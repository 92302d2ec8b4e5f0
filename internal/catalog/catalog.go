// Package catalog holds the read-only product list and category taxonomy and
// the listing projection over them.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultDocument []byte

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = errors.New("product not found")

// Catalog is immutable after construction
type Catalog struct {
	products   []models.Product
	categories []models.Category
	byID       map[string]int
}

type document struct {
	Categories []models.Category `yaml:"categories"`
	Products   []models.Product  `yaml:"products"`
}

// New builds a catalog from copies of the given records. Product ids must be
// unique and non-empty.
func New(products []models.Product, categories []models.Category) (*Catalog, error) {
	c := &Catalog{
		products:   make([]models.Product, len(products)),
		categories: make([]models.Category, len(categories)),
		byID:       make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, cat := range categories {
		subs := make([]string, len(cat.Subcategories))
		copy(subs, cat.Subcategories)
		c.categories[i] = models.Category{Name: cat.Name, Subcategories: subs}
	}

	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Parse builds a catalog from a YAML document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc.Products, doc.Categories)
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Products returns every product in catalog order
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns the taxonomy in catalog order
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	for i, cat := range c.categories {
		subs := make([]string, len(cat.Subcategories))
		copy(subs, cat.Subcategories)
		out[i] = models.Category{Name: cat.Name, Subcategories: subs}
	}
	return out
}

// Category looks up a category by name
func (c *Catalog) Category(name string) (models.Category, bool) {
	for _, cat := range c.categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return models.Category{}, false
}

// ProductByID looks up a product
func (c *Catalog) ProductByID(id string) (models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// Filter returns the products visible under sel, preserving catalog order.
// It has no side effects and is cheap enough to run on every filter change.
func (c *Catalog) Filter(sel models.FilterSelection) []models.Product {
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Window returns up to size products starting at start, for carousel paging.
// Out of range starts yield an empty slice.
func (c *Catalog) Window(start, size int) []models.Product {
	if start < 0 || size <= 0 || start >= len(c.products) {
		return []models.Product{}
	}
	end := start + size
	if end > len(c.products) {
		end = len(c.products)
	}
	out := make([]models.Product, end-start)
	copy(out, c.products[start:end])
	return out
}

// CategoryCount is the number of products in a category and per subcategory
type CategoryCount struct {
	Name          string         `json:"name"`
	Count         int            `json:"count"`
	Subcategories map[string]int `json:"subcategories"`
}

// Counts tallies products per category in taxonomy order. Total is the size
// of the whole catalog.
func (c *Catalog) Counts() (total int, counts []CategoryCount) {
	counts = make([]CategoryCount, len(c.categories))
	index := make(map[string]int, len(c.categories))
	for i, cat := range c.categories {
		subs := make(map[string]int, len(cat.Subcategories))
		for _, s := range cat.Subcategories {
			subs[s] = 0
		}
		counts[i] = CategoryCount{Name: cat.Name, Subcategories: subs}
		index[cat.Name] = i
	}

	for _, p := range c.products {
		i, ok := index[p.Category]
		if !ok {
			continue
		}
		counts[i].Count++
		if _, ok := counts[i].Subcategories[p.Subcategory]; ok {
			counts[i].Subcategories[p.Subcategory]++
		}
	}
	return len(c.products), counts
}
