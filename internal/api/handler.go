package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"purechain-store/internal/cart"
	"purechain-store/internal/models"
	"purechain-store/internal/service"
	"purechain-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ContactGateway is the slice of the sheet gateway contact submission uses.
type ContactGateway interface {
	SubmitContact(ctx context.Context, contact models.ContactRow) error
}

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	cart     *cart.Cart
	checkout *service.CheckoutSequencer
	tracker  *service.Tracker
	contact  ContactGateway
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	c *cart.Cart,
	checkout *service.CheckoutSequencer,
	tracker *service.Tracker,
	contact ContactGateway,
) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     c,
		checkout: checkout,
		tracker:  tracker,
		contact:  contact,
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

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/sensor", h.getSensorSeries)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PATCH("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.POST("/checkout", h.doCheckout)

		v1.GET("/orders", h.listOrders)
		v1.POST("/orders/refresh", h.refreshOrders)

		v1.POST("/contact", h.submitContact)
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

// listProducts returns the full adapted catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to load products",
			"details":   err.Error(),
			"retryable": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct returns one adapted product
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to load product",
			"details":   err.Error(),
			"retryable": true,
		})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// getSensorSeries returns the chartable sensor series for a product
func (h *Handler) getSensorSeries(c *gin.Context) {
	readings, isReal, err := h.catalog.SensorSeries(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to load sensor data",
			"details":   err.Error(),
			"retryable": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"readings":  readings,
		"real_data": isReal,
	})
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// addCartItem merges a product into the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to load product",
			"details":   err.Error(),
			"retryable": true,
		})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	h.cart.Add(*product, req.Quantity)
	h.respondCart(c)
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// updateCartItem sets a line's quantity; zero or less removes the line
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	h.cart.SetQuantity(c.Param("id"), *req.Quantity)
	h.respondCart(c)
}

// removeCartItem removes a line
func (h *Handler) removeCartItem(c *gin.Context) {
	h.cart.Remove(c.Param("id"))
	h.respondCart(c)
}

// clearCart empties the cart
func (h *Handler) clearCart(c *gin.Context) {
	h.cart.Clear()
	h.respondCart(c)
}

// getCart returns the cart with derived totals
func (h *Handler) getCart(c *gin.Context) {
	h.respondCart(c)
}

func (h *Handler) respondCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":       h.cart.Items(),
		"total_items": h.cart.TotalItems(),
		"subtotal":    h.cart.Subtotal(),
	})
}

// doCheckout drains the cart into placed orders
func (h *Handler) doCheckout(c *gin.Context) {
	result := h.checkout.Checkout(c.Request.Context())

	if errors.Is(result.Err, service.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	if !result.Success {
		// Partial state: orders created before the failure are real and are
		// returned so the caller can show them.
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"orders":  result.Orders,
			"error":   result.Err.Error(),
		})
		return
	}

	h.tracker.Reload()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  result.Orders,
	})
}

// listOrders returns the reconciled order-tracking view
func (h *Handler) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":       h.tracker.Orders(),
		"last_refresh": h.tracker.LastRefresh(),
	})
}

// refreshOrders forces a live-status poll
func (h *Handler) refreshOrders(c *gin.Context) {
	h.tracker.Reload()
	h.tracker.Refresh(c.Request.Context())
	h.listOrders(c)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

// submitContact writes a contact row with the composed message
func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	contact := models.ContactRow{
		Email:   req.Email,
		Message: fmt.Sprintf("Name: %s | Phone: %s | %s", req.Name, req.Phone, req.Message),
	}
	if err := h.contact.SubmitContact(c.Request.Context(), contact); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "Failed to send message",
			"details":   err.Error(),
			"retryable": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
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
