package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// OrderHandler handles checkout and order endpoints.
type OrderHandler struct {
	registry *service.RegistryService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(registry *service.RegistryService) *OrderHandler {
	return &OrderHandler{registry: registry}
}

// PlaceOrder handles POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.registry.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 201, "Order placed", order)
}

type quoteRequest struct {
	Items []service.CartItemRequest `json:"items" binding:"required"`
}

// QuoteCart handles POST /v1/cart/quote
func (h *OrderHandler) QuoteCart(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	totals, err := h.registry.QuoteCart(c.Request.Context(), req.Items)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Cart priced", totals)
}

// ListOrders handles GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.registry.FetchAllOrders(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessList(c, "Orders retrieved", orders, len(orders))
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /v1/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.registry.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Order status updated", order)
}
