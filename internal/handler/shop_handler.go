package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// ShopHandler handles seller onboarding and storefront lookups.
type ShopHandler struct {
	registry *service.RegistryService
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(registry *service.RegistryService) *ShopHandler {
	return &ShopHandler{registry: registry}
}

// CreateShop handles POST /v1/shops
func (h *ShopHandler) CreateShop(c *gin.Context) {
	var req service.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	shop, err := h.registry.CreateShop(c.Request.Context(), &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	// The OTP is returned in the response; there is no SMS gateway.
	utils.Success(c, 201, "Shop created, verify the OTP to continue", shop)
}

type verifyOTPRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyOTP handles POST /v1/shops/:id/verify
func (h *ShopHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ok, err := h.registry.VerifyOTP(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if !ok {
		utils.Error(c, 400, "INVALID_OTP", "Invalid verification code")
		return
	}

	utils.Success(c, 200, "Shop verified, awaiting admin approval", gin.H{"verified": true})
}

// ListShops handles GET /v1/shops
func (h *ShopHandler) ListShops(c *gin.Context) {
	shops, err := h.registry.FetchAllShops(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	public := make([]models.Shop, 0, len(shops))
	for _, shop := range shops {
		public = append(public, shop.Public())
	}
	utils.SuccessList(c, "Shops retrieved", public, len(public))
}

// GetShop handles GET /v1/shops/:id
func (h *ShopHandler) GetShop(c *gin.Context) {
	shop, err := h.registry.FetchShopByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if shop == nil {
		utils.Error(c, 404, utils.ErrShopNotFound.Error(), "Shop not found")
		return
	}
	utils.Success(c, 200, "Shop retrieved", shop.Public())
}

// GetShopBySlug handles GET /v1/shops/slug/:slug
func (h *ShopHandler) GetShopBySlug(c *gin.Context) {
	shop, err := h.registry.FetchShopBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if shop == nil {
		utils.Error(c, 404, utils.ErrShopNotFound.Error(), "Shop not found")
		return
	}
	utils.Success(c, 200, "Shop retrieved", shop.Public())
}

// ListShopProducts handles GET /v1/shops/:id/products[?published=true]
func (h *ShopHandler) ListShopProducts(c *gin.Context) {
	products, err := h.registry.FetchProductsByShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	if c.Query("published") == "true" {
		published := products[:0]
		for _, p := range products {
			if p.Published {
				published = append(published, p)
			}
		}
		products = published
	}

	utils.SuccessList(c, "Products retrieved", products, len(products))
}

// ListShopOrders handles GET /v1/shops/:id/orders
func (h *ShopHandler) ListShopOrders(c *gin.Context) {
	orders, err := h.registry.FetchOrdersByShop(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessList(c, "Orders retrieved", orders, len(orders))
}
