package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/localstore"
	"storefront/internal/models"
	"storefront/internal/persist"
	"storefront/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	util.SetLogger(zap.NewNop())
}

// memStorage is an in-process Storage with switchable failures
type memStorage struct {
	data      map[string][]byte
	loadErr   error
	saveErr   error
	panicLoad bool
	saves     int
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if m.panicLoad {
		panic("storage unavailable")
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, persist.ErrNotFound
	}
	return data, nil
}

func (m *memStorage) Save(ctx context.Context, key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = data
	return nil
}

func (m *memStorage) Close() error { return nil }

func openBadger(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(localstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHydrateMissingRecord(t *testing.T) {
	m := persist.NewMiddleware(openBadger(t), "")

	state := m.Hydrate(context.Background())
	assert.NotNil(t, state.Items)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.TotalQuantity)
	assert.Equal(t, 0.0, state.TotalAmount)
}

func TestHydrateCorruptRecord(t *testing.T) {
	ctx := context.Background()
	storage := openBadger(t)
	require.NoError(t, storage.Save(ctx, persist.DefaultKey, []byte("{not json")))

	state := persist.NewMiddleware(storage, persist.DefaultKey).Hydrate(ctx)
	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.TotalQuantity)
}

func TestHydrateStorageFailure(t *testing.T) {
	storage := newMemStorage()
	storage.loadErr = errors.New("disk on fire")

	state := persist.NewMiddleware(storage, "").Hydrate(context.Background())
	assert.Empty(t, state.Items)

	storage.loadErr = nil
	storage.panicLoad = true
	state = persist.NewMiddleware(storage, "").Hydrate(context.Background())
	assert.Empty(t, state.Items)
}

func TestHydrateRecomputesTamperedTotals(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.data[persist.DefaultKey] = []byte(`{
		"items": [
			{"id": "p1", "name": "Vitamin C", "price": 500, "quantity": 2, "totalPrice": 1},
			{"id": "p2", "price": "abc", "quantity": -1},
			{"id": "p1", "name": "Vitamin C", "price": 500, "quantity": 1}
		],
		"totalQuantity": 999,
		"totalAmount": "lots"
	}`)

	state := persist.NewMiddleware(storage, "").Hydrate(ctx)

	require.Len(t, state.Items, 2)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, 3, state.Items[0].Quantity)
	assert.Equal(t, 1500.0, state.Items[0].TotalPrice)
	assert.Equal(t, cart.DefaultName, state.Items[1].Name)
	assert.Equal(t, 0.0, state.Items[1].Price)
	assert.Equal(t, 4, state.TotalQuantity)
	assert.Equal(t, 1500.0, state.TotalAmount)
}

func TestHydrateClampsOversizedValues(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.data[persist.DefaultKey] = []byte(`{"items": [
		{"id": "p1", "name": "Vitamin C", "price": 500, "quantity": 1e300},
		{"id": "big", "name": "Big", "price": 1e308, "quantity": 2}
	]}`)
	m := persist.NewMiddleware(storage, "")

	state := m.Hydrate(ctx)
	require.Len(t, state.Items, 2)
	assert.Equal(t, cart.MaxQuantity, state.Items[0].Quantity)
	assert.Equal(t, float64(cart.MaxPrice), state.Items[1].Price)
	assert.Equal(t, cart.MaxQuantity+2, state.TotalQuantity)

	s := cart.NewStore(state)
	s.Subscribe(m.Observe)
	s.AddItem(ctx, models.RawItem{ID: "p1", Name: "Vitamin C", Price: 500.0, Quantity: 5})
	assert.Equal(t, 1, storage.saves)

	restored := persist.NewMiddleware(storage, "").Hydrate(ctx)
	assert.Equal(t, s.State(), restored)
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := openBadger(t)
	m := persist.NewMiddleware(storage, "")

	s := cart.NewStore(m.Hydrate(ctx))
	s.Subscribe(m.Observe)

	s.AddItem(ctx, models.RawItem{ID: "p1", Name: "Vitamin C", Price: 500.0, Quantity: 2, Image: "/img/vitc.jpg"})
	s.AddItem(ctx, models.RawItem{ID: "p2", Name: "Bandage", Price: 120.0})
	want := s.UpdateQuantity(ctx, "p2", 3)

	restored := persist.NewMiddleware(storage, "").Hydrate(ctx)
	assert.Equal(t, want, restored)

	raw, err := storage.Load(ctx, persist.DefaultKey)
	require.NoError(t, err)
	var layout map[string]any
	require.NoError(t, json.Unmarshal(raw, &layout))
	assert.Contains(t, layout, "items")
	assert.Contains(t, layout, "totalQuantity")
	assert.Contains(t, layout, "totalAmount")
}

func TestObserveIgnoresOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	m := persist.NewMiddleware(storage, "")

	m.Observe(ctx, models.Action{Type: models.ActionSetCategory}, models.CartState{})
	assert.Equal(t, 0, storage.saves)

	m.Observe(ctx, models.Action{Type: models.ActionClear}, models.CartState{Items: []models.CartLineItem{}})
	assert.Equal(t, 1, storage.saves)
}

func TestWriteFailureDoesNotAffectCart(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.saveErr = errors.New("quota exceeded")
	m := persist.NewMiddleware(storage, "")

	s := cart.NewStore(models.CartState{})
	s.Subscribe(m.Observe)

	state := s.AddItem(ctx, models.RawItem{ID: "p1", Name: "Vitamin C", Price: 500.0, Quantity: 2})
	assert.Equal(t, 1000.0, state.TotalAmount)
	assert.Equal(t, state, s.State())

	err := m.Persist(ctx, state)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	m := persist.NewMiddleware(storage, "guest-cart")

	require.NoError(t, m.Persist(ctx, models.CartState{Items: []models.CartLineItem{}}))
	assert.Contains(t, storage.data, "guest-cart")
	assert.NotContains(t, storage.data, persist.DefaultKey)
}
