package redisclient

import (
	"context"
	"testing"

	"storefront/internal/persist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSave(t *testing.T) {
	// Requires a running redis on localhost:6379
	t.Skip("Integration test - requires redis")

	client, err := NewClient("localhost:6379", "", 15)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := "test-cart"
	defer client.GetClient().Del(ctx, keyPrefix+key)

	_, err = client.Load(ctx, key)
	assert.ErrorIs(t, err, persist.ErrNotFound)

	require.NoError(t, client.Save(ctx, key, []byte(`{"items":[]}`)))
	data, err := client.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(data))
}
