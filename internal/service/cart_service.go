package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrInvalidProduct is returned when an add intent is structurally invalid
	ErrInvalidProduct = errors.New("invalid product data")
	// ErrEmptyCart is returned by Checkout when there is nothing to check out
	ErrEmptyCart = errors.New("cart is empty")
)

// ProductIntent is the product data carried by an add-to-cart intent.
// Price is a pointer so that a missing price can be told apart from zero.
type ProductIntent struct {
	ID    string   `json:"id" validate:"required"`
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required,finite"`
	Image string   `json:"image"`
}

// IntentFromProduct builds an intent from a catalog product
func IntentFromProduct(p models.Product) ProductIntent {
	price := p.Price
	return ProductIntent{ID: p.ID, Name: p.Name, Price: &price, Image: p.Image}
}

// CartService sits between the surfaces and the cart store. Unlike the store,
// which sanitizes anything it is given, it refuses invalid products.
type CartService struct {
	store     *cart.Store
	catalog   *catalog.Catalog
	notifiers []Notifier
	validate  *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	trackers map[string]*QuantityTracker
}

// NewCartService creates a new cart service
func NewCartService(store *cart.Store, cat *catalog.Catalog, notifiers ...Notifier) *CartService {
	return &CartService{
		store:     store,
		catalog:   cat,
		notifiers: notifiers,
		validate:  newValidator(),
		logger:    util.GetLogger(),
		trackers:  make(map[string]*QuantityTracker),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.Float32, reflect.Float64:
			f := field.Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return true
	})
	return v
}

// Validate reports whether intent may be added to the cart
func (s *CartService) Validate(intent ProductIntent) error {
	if err := s.validate.Struct(intent); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// State returns the current cart
func (s *CartService) State() models.CartState {
	return s.store.State()
}

// Tracker returns the quantity tracker of a product view, creating it at 1
func (s *CartService) Tracker(productID string) *QuantityTracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trackers[productID]
	if !ok {
		t = NewQuantityTracker()
		s.trackers[productID] = t
	}
	return t
}

// LookupTracker returns the tracker of a product view, or nil when none has
// been created. It never allocates, so client-supplied ids cannot grow the
// registry.
func (s *CartService) LookupTracker(productID string) *QuantityTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackers[productID]
}

// AddToCart adds the tracked quantity of a product and resets the tracker
// to 1; a nil tracker adds one unit. Invalid intents are logged and dropped
// without touching the cart.
func (s *CartService) AddToCart(ctx context.Context, intent ProductIntent, tracker *QuantityTracker) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	quantity := 1
	if tracker != nil {
		quantity = tracker.Value()
	}

	state, err := s.add(ctx, intent, quantity, false)
	if err != nil {
		return state, err
	}

	if tracker != nil {
		tracker.Reset()
	}
	return state, nil
}

// QuickAdd always adds one unit and leaves every tracker alone
func (s *CartService) QuickAdd(ctx context.Context, intent ProductIntent) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.QuickAdd")
	defer span.End()

	return s.add(ctx, intent, 1, true)
}

// AddProduct resolves a catalog product and adds it through the tracked path
func (s *CartService) AddProduct(ctx context.Context, productID string) (models.CartState, error) {
	p, err := s.catalog.ProductByID(productID)
	if err != nil {
		return s.store.State(), err
	}
	return s.AddToCart(ctx, IntentFromProduct(p), s.Tracker(productID))
}

// QuickAddProduct resolves a catalog product and quick-adds it
func (s *CartService) QuickAddProduct(ctx context.Context, productID string) (models.CartState, error) {
	p, err := s.catalog.ProductByID(productID)
	if err != nil {
		return s.store.State(), err
	}
	return s.QuickAdd(ctx, IntentFromProduct(p))
}

func (s *CartService) add(ctx context.Context, intent ProductIntent, quantity int, quick bool) (models.CartState, error) {
	mode := "tracked"
	if quick {
		mode = "quick"
	}

	if err := s.Validate(intent); err != nil {
		util.AddIntentsTotal.WithLabelValues(mode, "rejected").Inc()
		s.logger.Error("Invalid product data",
			zap.String("product_id", intent.ID),
			zap.String("name", intent.Name),
			zap.Error(err))
		return s.store.State(), err
	}

	raw := models.RawItem{
		ID:       intent.ID,
		Name:     intent.Name,
		Price:    *intent.Price,
		Quantity: quantity,
		Image:    intent.Image,
	}
	state := s.store.AddItem(ctx, raw)
	util.AddIntentsTotal.WithLabelValues(mode, "added").Inc()

	added := cart.Sanitize(raw)
	for _, n := range s.notifiers {
		if err := n.ItemAdded(ctx, added, quick); err != nil {
			s.logger.Warn("Failed to send add-to-cart notification", zap.Error(err))
		}
	}
	return state, nil
}

// SetLineQuantity applies a quantity chosen in the cart view: below 1 the
// line is removed, otherwise its quantity is updated.
func (s *CartService) SetLineQuantity(ctx context.Context, id string, quantity int) models.CartState {
	if quantity < 1 {
		return s.store.RemoveItem(ctx, id)
	}
	return s.store.UpdateQuantity(ctx, id, quantity)
}

// RemoveLine removes a line from the cart
func (s *CartService) RemoveLine(ctx context.Context, id string) models.CartState {
	return s.store.RemoveItem(ctx, id)
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context) models.CartState {
	return s.store.Clear(ctx)
}

// Checkout is a stub: it reports the cart to the notifiers and returns it.
// No order is placed and the cart is kept.
func (s *CartService) Checkout(ctx context.Context) (models.CartState, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Checkout")
	defer span.End()

	state := s.store.State()
	if len(state.Items) == 0 {
		return state, ErrEmptyCart
	}

	util.CheckoutRequestsTotal.Inc()
	s.logger.Info("Proceeding to checkout",
		zap.Int("line_items", len(state.Items)),
		zap.Float64("total_amount", state.TotalAmount))

	for _, n := range s.notifiers {
		if err := n.CheckoutRequested(ctx, state); err != nil {
			s.logger.Warn("Failed to send checkout notification", zap.Error(err))
		}
	}
	return state, nil
}
