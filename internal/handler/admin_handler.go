package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// AdminHandler handles marketplace moderation and dashboard endpoints.
type AdminHandler struct {
	registry *service.RegistryService
	feed     *service.NotificationLog
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(registry *service.RegistryService, feed *service.NotificationLog) *AdminHandler {
	return &AdminHandler{registry: registry, feed: feed}
}

// ListSellers handles GET /v1/admin/sellers
func (h *AdminHandler) ListSellers(c *gin.Context) {
	sellers, err := h.registry.FetchAllSellers(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessList(c, "Sellers retrieved", sellers, len(sellers))
}

// ToggleSeller handles POST /v1/admin/sellers/:id/toggle
func (h *AdminHandler) ToggleSeller(c *gin.Context) {
	sellers, err := h.registry.ToggleShopStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessList(c, "Seller status updated", sellers, len(sellers))
}

// ApproveShop handles POST /v1/admin/shops/:id/approve
func (h *AdminHandler) ApproveShop(c *gin.Context) {
	shop, err := h.registry.ApproveShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Shop approved", shop)
}

// GetStats handles GET /v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.registry.Stats(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Stats retrieved", stats)
}

// ListNotifications handles GET /v1/admin/notifications[?limit=n]
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}

	items := h.feed.Recent(limit)
	utils.SuccessList(c, "Notifications retrieved", items, len(items))
}
