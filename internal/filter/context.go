// Package filter holds the active category/subcategory selection and couples
// selection changes to navigation.
package filter

import (
	"context"
	"sync"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// RouteAllProducts is the product listing route
const RouteAllProducts = "/all-products"

// Navigator performs route transitions on behalf of the filter context.
// Routing itself belongs to the surface (HTTP redirect, CLI listing).
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, route string)

// Navigate calls f
func (f NavigatorFunc) Navigate(ctx context.Context, route string) {
	f(ctx, route)
}

// Observer is notified after every selection change
type Observer func(ctx context.Context, action models.Action, sel models.FilterSelection)

// Provider owns the FilterSelection and is its only writer
type Provider struct {
	mu        sync.Mutex
	sel       models.FilterSelection
	observers []Observer
	logger    *zap.Logger
}

// NewProvider creates a provider with both fields set to All
func NewProvider() *Provider {
	return &Provider{
		sel:    models.DefaultSelection(),
		logger: util.GetLogger(),
	}
}

// Subscribe registers an observer for subsequent changes
func (p *Provider) Subscribe(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// Selection returns the current selection
func (p *Provider) Selection() models.FilterSelection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sel
}

// SetCategory sets the category only
func (p *Provider) SetCategory(ctx context.Context, name string) models.FilterSelection {
	return p.update(ctx, models.ActionSetCategory, func(sel *models.FilterSelection) {
		sel.Category = name
	})
}

// SetSubcategory sets the subcategory only
func (p *Provider) SetSubcategory(ctx context.Context, name string) models.FilterSelection {
	return p.update(ctx, models.ActionSetSubcategory, func(sel *models.FilterSelection) {
		sel.Subcategory = name
	})
}

// SelectCategory picks a category from the listing and resets the
// subcategory to All so no stale subcategory survives the change.
func (p *Provider) SelectCategory(ctx context.Context, name string) models.FilterSelection {
	return p.update(ctx, models.ActionSetCategory, func(sel *models.FilterSelection) {
		sel.Category = name
		sel.Subcategory = models.All
	})
}

// ClearFilters resets both fields to All
func (p *Provider) ClearFilters(ctx context.Context) models.FilterSelection {
	return p.update(ctx, models.ActionClearFilters, func(sel *models.FilterSelection) {
		*sel = models.DefaultSelection()
	})
}

// setBoth sets category and subcategory in one step; empty means All
func (p *Provider) setBoth(ctx context.Context, category, subcategory string) models.FilterSelection {
	if category == "" {
		category = models.All
	}
	if subcategory == "" {
		subcategory = models.All
	}
	return p.update(ctx, models.ActionNavigateAndFilter, func(sel *models.FilterSelection) {
		sel.Category = category
		sel.Subcategory = subcategory
	})
}

func (p *Provider) update(ctx context.Context, action string, fn func(*models.FilterSelection)) models.FilterSelection {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn(&p.sel)
	sel := p.sel

	util.FilterChangesTotal.WithLabelValues(action).Inc()
	p.logger.Debug("Filter changed",
		zap.String("action", action),
		zap.String("category", sel.Category),
		zap.String("subcategory", sel.Subcategory))

	for _, o := range p.observers {
		o(ctx, models.Action{Type: action}, sel)
	}
	return sel
}

// Bind returns the context handle surfaces use, navigating through nav
func (p *Provider) Bind(nav Navigator) *Context {
	return &Context{Provider: p, nav: nav}
}

// Context is a Provider bound to a Navigator
type Context struct {
	*Provider
	nav Navigator
}

// NavigateAndFilter sets both fields atomically, then transitions to the
// product listing. Empty arguments mean All.
func (c *Context) NavigateAndFilter(ctx context.Context, category, subcategory string) models.FilterSelection {
	sel := c.setBoth(ctx, category, subcategory)
	if c.nav != nil {
		c.nav.Navigate(ctx, RouteAllProducts)
	}
	return sel
}

type contextKey struct{}

// WithContext installs fc into ctx
func WithContext(ctx context.Context, fc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, fc)
}

// FromContext returns the filter context installed in ctx. It panics when
// none is installed: reaching for the filter outside a provider is an
// integration bug.
func FromContext(ctx context.Context) *Context {
	fc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || fc == nil {
		panic("filter: FromContext called without a provider installed in the context")
	}
	return fc
}
