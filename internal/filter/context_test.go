package filter

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

type recordingNavigator struct {
	routes     []string
	selections []models.FilterSelection
	provider   *Provider
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) {
	n.routes = append(n.routes, route)
	n.selections = append(n.selections, n.provider.Selection())
}

func TestNewProviderDefaults(t *testing.T) {
	p := NewProvider()
	assert.Equal(t, models.DefaultSelection(), p.Selection())
}

func TestNavigateAndFilter(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()
	nav := &recordingNavigator{provider: p}
	fc := p.Bind(nav)

	sel := fc.NavigateAndFilter(ctx, "Medicine", "")

	want := models.FilterSelection{Category: "Medicine", Subcategory: models.All}
	assert.Equal(t, want, sel)
	assert.Equal(t, want, p.Selection())
	assert.Equal(t, []string{RouteAllProducts}, nav.routes)
	// the selection is already applied when navigation happens
	assert.Equal(t, []models.FilterSelection{want}, nav.selections)

	sel = fc.NavigateAndFilter(ctx, "Medicine", "Pain Relief")
	assert.Equal(t, models.FilterSelection{Category: "Medicine", Subcategory: "Pain Relief"}, sel)

	sel = fc.NavigateAndFilter(ctx, "", "")
	assert.Equal(t, models.DefaultSelection(), sel)
	assert.Len(t, nav.routes, 3)
}

func TestNavigateAndFilterNilNavigator(t *testing.T) {
	fc := NewProvider().Bind(nil)
	assert.NotPanics(t, func() {
		fc.NavigateAndFilter(context.Background(), "Medicine", "Allergy")
	})
}

func TestSetters(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	p.SetCategory(ctx, "Medicine")
	p.SetSubcategory(ctx, "Pain Relief")
	assert.Equal(t, models.FilterSelection{Category: "Medicine", Subcategory: "Pain Relief"}, p.Selection())

	// a direct setter leaves the other field alone
	p.SetCategory(ctx, "Personal Care")
	assert.Equal(t, "Pain Relief", p.Selection().Subcategory)

	sel := p.SelectCategory(ctx, "Medicine")
	assert.Equal(t, models.FilterSelection{Category: "Medicine", Subcategory: models.All}, sel)

	sel = p.ClearFilters(ctx)
	assert.Equal(t, models.DefaultSelection(), sel)
}

func TestObservers(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	var actions []string
	p.Subscribe(func(_ context.Context, action models.Action, sel models.FilterSelection) {
		assert.True(t, action.InNamespace(models.FilterNamespace))
		actions = append(actions, action.Type)
	})

	p.SetCategory(ctx, "Medicine")
	p.Bind(nil).NavigateAndFilter(ctx, "Medicine", "Allergy")
	p.ClearFilters(ctx)

	assert.Equal(t, []string{
		models.ActionSetCategory,
		models.ActionNavigateAndFilter,
		models.ActionClearFilters,
	}, actions)
}

func TestFromContext(t *testing.T) {
	p := NewProvider()
	fc := p.Bind(nil)

	ctx := WithContext(context.Background(), fc)
	got := FromContext(ctx)
	require.Same(t, fc, got)

	got.SetCategory(ctx, "Medicine")
	assert.Equal(t, "Medicine", p.Selection().Category)
}

func TestFromContextWithoutProvider(t *testing.T) {
	assert.Panics(t, func() {
		FromContext(context.Background())
	})
}
