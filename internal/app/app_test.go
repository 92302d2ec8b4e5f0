package app

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/config"
	"storefront/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Driver: config.StorageBadger,
			Path:   filepath.Join(t.TempDir(), "cart"),
			Key:    "cart",
		},
	}
}

func TestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, a.Cart.State().Items)

	a.Service.Tracker("7").Set(2)
	_, err = a.Service.AddProduct(ctx, "7")
	require.NoError(t, err)
	_, err = a.Service.QuickAddProduct(ctx, "7")
	require.NoError(t, err)
	want := a.Cart.State()
	require.NoError(t, a.Close())

	assert.Equal(t, 3, want.TotalQuantity)
	assert.Equal(t, 1500.0, want.TotalAmount)

	restarted, err := New(ctx, cfg)
	require.NoError(t, err)
	defer restarted.Close()

	assert.Equal(t, want, restarted.Cart.State())
}

func TestFilterStateStartsCleared(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	a.Filters.SelectCategory(ctx, "Medicine")
	require.NoError(t, a.Close())

	restarted, err := New(ctx, cfg)
	require.NoError(t, err)
	defer restarted.Close()

	assert.Equal(t, "All", restarted.Filters.Selection().Category)
}

func TestUnknownStorageDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "floppy"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
