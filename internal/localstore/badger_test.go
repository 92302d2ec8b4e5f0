package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/internal/persist"
	"storefront/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestStoreLoadSave(t *testing.T) {
	ctx := context.Background()
	store, err := Open(InMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx, "cart")
	assert.ErrorIs(t, err, persist.ErrNotFound)

	require.NoError(t, store.Save(ctx, "cart", []byte(`{"items":[]}`)))
	data, err := store.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(data))

	require.NoError(t, store.Save(ctx, "cart", []byte(`{"items":[{"id":"1"}]}`)))
	data, err = store.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"id":"1"}]}`, string(data))

	_, err = store.Load(ctx, "other")
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestSaveAfterClose(t *testing.T) {
	store, err := Open(InMemoryConfig())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Save(context.Background(), "cart", []byte("{}"))
	assert.Error(t, err)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "cart"))

	store, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "cart", []byte("persisted")))
	require.NoError(t, store.Close())

	store, err = Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}
