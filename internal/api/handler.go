package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/filter"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cartService *service.CartService
	catalog     *catalog.Catalog
	filters     *filter.Provider
}

// NewHandler creates a new HTTP handler
func NewHandler(cartService *service.CartService, cat *catalog.Catalog, filters *filter.Provider) *Handler {
	return &Handler{
		cartService: cartService,
		catalog:     cat,
		filters:     filters,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	scoped := router.Group("/", h.filterContext())
	scoped.GET(filter.RouteAllProducts, h.listProducts)

	v1 := scoped.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/quantity", h.getQuantity)
		v1.POST("/products/:id/quantity", h.changeQuantity)
		v1.GET("/categories", h.listCategories)

		v1.GET("/filter", h.getFilter)
		v1.PUT("/filter/category", h.setCategory)
		v1.PUT("/filter/subcategory", h.setSubcategory)
		v1.DELETE("/filter", h.clearFilters)
		v1.POST("/filter/navigate", h.navigateAndFilter)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addToCart)
		v1.POST("/cart/items/quick", h.quickAdd)
		v1.PATCH("/cart/items/:id", h.updateQuantity)
		v1.DELETE("/cart/items/:id", h.removeItem)
		v1.DELETE("/cart", h.clearCart)
		v1.POST("/cart/checkout", h.checkout)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// redirectNavigator turns filter navigation into an HTTP redirect
type redirectNavigator struct {
	c *gin.Context
}

func (n redirectNavigator) Navigate(_ context.Context, route string) {
	n.c.Redirect(http.StatusSeeOther, route)
}

// filterContext installs the filter context for the request
func (h *Handler) filterContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		fc := h.filters.Bind(redirectNavigator{c: c})
		c.Request = c.Request.WithContext(filter.WithContext(c.Request.Context(), fc))
		c.Next()
	}
}

type listingResponse struct {
	Selection models.FilterSelection `json:"filter"`
	Count     int                    `json:"count"`
	Products  []models.Product       `json:"products"`
}

// listProducts renders the listing under the active filter
func (h *Handler) listProducts(c *gin.Context) {
	sel := filter.FromContext(c.Request.Context()).Selection()
	products := h.catalog.Filter(sel)

	c.JSON(http.StatusOK, listingResponse{
		Selection: sel,
		Count:     len(products),
		Products:  products,
	})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.ProductByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) listCategories(c *gin.Context) {
	total, counts := h.catalog.Counts()
	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"categories": h.catalog.Categories(),
		"counts":     counts,
	})
}

type quantityRequest struct {
	Action string `json:"action" binding:"required,oneof=increase decrease reset set"`
	Value  int    `json:"value"`
}

func (h *Handler) getQuantity(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.catalog.ProductByID(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "quantity": h.cartService.Tracker(id).Value()})
}

// changeQuantity adjusts the quantity a product view will add
func (h *Handler) changeQuantity(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.catalog.ProductByID(id); err != nil {
		h.respondError(c, err)
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	tracker := h.cartService.Tracker(id)
	switch req.Action {
	case "increase":
		tracker.Increase()
	case "decrease":
		tracker.Decrease()
	case "reset":
		tracker.Reset()
	case "set":
		tracker.Set(req.Value)
	}

	c.JSON(http.StatusOK, gin.H{"product_id": id, "quantity": tracker.Value()})
}

func (h *Handler) getFilter(c *gin.Context) {
	c.JSON(http.StatusOK, filter.FromContext(c.Request.Context()).Selection())
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// setCategory picks a category and resets the subcategory
func (h *Handler) setCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, filter.FromContext(ctx).SelectCategory(ctx, req.Name))
}

func (h *Handler) setSubcategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, filter.FromContext(ctx).SetSubcategory(ctx, req.Name))
}

func (h *Handler) clearFilters(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, filter.FromContext(ctx).ClearFilters(ctx))
}

type navigateRequest struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// navigateAndFilter applies the filter and redirects to the listing
func (h *Handler) navigateAndFilter(c *gin.Context) {
	var req navigateRequest
	// an empty body means both fields were omitted
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()
	filter.FromContext(ctx).NavigateAndFilter(ctx, req.Category, req.Subcategory)
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.State())
}

// addItemRequest names a catalog product, or carries the product data itself
type addItemRequest struct {
	ProductID string                 `json:"product_id"`
	Product   *service.ProductIntent `json:"product"`
}

func (h *Handler) addToCart(c *gin.Context) {
	h.add(c, false)
}

func (h *Handler) quickAdd(c *gin.Context) {
	h.add(c, true)
}

func (h *Handler) add(c *gin.Context, quick bool) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		state models.CartState
		err   error
	)
	switch {
	case req.Product != nil && quick:
		state, err = h.cartService.QuickAdd(ctx, *req.Product)
	case req.Product != nil:
		state, err = h.cartService.AddToCart(ctx, *req.Product, h.cartService.LookupTracker(req.Product.ID))
	case quick:
		state, err = h.cartService.QuickAddProduct(ctx, req.ProductID)
	default:
		state, err = h.cartService.AddProduct(ctx, req.ProductID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// updateQuantity sets a line's quantity; below 1 removes the line
func (h *Handler) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.cartService.SetLineQuantity(c.Request.Context(), c.Param("id"), *req.Quantity))
}

func (h *Handler) removeItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.RemoveLine(c.Request.Context(), c.Param("id")))
}

func (h *Handler) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartService.ClearCart(c.Request.Context()))
}

// checkout is a stub; no order is placed
func (h *Handler) checkout(c *gin.Context) {
	state, err := h.cartService.Checkout(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": "checkout_pending",
		"cart":   state,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidProduct):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
