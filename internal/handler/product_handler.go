package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	registry *service.RegistryService
	images   *service.ImageService
}

// NewProductHandler constructs a ProductHandler. images may be nil when
// uploads are not configured.
func NewProductHandler(registry *service.RegistryService, images *service.ImageService) *ProductHandler {
	return &ProductHandler{registry: registry, images: images}
}

// productRequest is the writable part of a product.
type productRequest struct {
	ShopID      string   `json:"shopId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Sizes       []string `json:"sizes"`
	Published   bool     `json:"published"`
}

func (r *productRequest) toProduct(id string) *models.Product {
	return &models.Product{
		ID:          id,
		ShopID:      r.ShopID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		Sizes:       r.Sizes,
		Published:   r.Published,
	}
}

// CreateProduct handles POST /v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product := req.toProduct("")
	if err := h.registry.SaveProduct(c.Request.Context(), product); err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	existing, err := h.registry.FetchProductByID(ctx, c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if existing == nil {
		utils.Error(c, 404, utils.ErrProductNotFound.Error(), "Product not found")
		return
	}

	product := req.toProduct(existing.ID)
	product.CreatedAt = existing.CreatedAt
	if err := h.registry.SaveProduct(ctx, product); err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// ListProducts handles GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.registry.FetchAllProducts(c.Request.Context())
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	utils.SuccessList(c, "Products retrieved", products, len(products))
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.registry.FetchProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}
	if product == nil {
		utils.Error(c, 404, utils.ErrProductNotFound.Error(), "Product not found")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// UploadImage handles POST /v1/products/images (multipart: shopId, image)
func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxProductImageSize+1<<20)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxProductImageSize+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read image")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.images.UploadProductImage(c.Request.Context(), c.PostForm("shopId"), data, contentType)
	if err != nil {
		if errors.Is(err, utils.ErrImageStorageOff) {
			utils.ErrorFrom(c, err)
			return
		}
		utils.Error(c, 400, "UPLOAD_FAILED", err.Error())
		return
	}

	utils.Success(c, 201, "Image uploaded", gin.H{"imageUrl": url})
}
