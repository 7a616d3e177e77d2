package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_market/internal/config"
	"github.com/GTDGit/gtd_market/internal/handler"
	"github.com/GTDGit/gtd_market/internal/middleware"
	"github.com/GTDGit/gtd_market/internal/repository"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/sse"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewRegistryRepository(repository.NewMemoryBlobStore(), "main_test")
	registry := service.NewRegistryService(repo, nil, false)
	feed := service.NewNotificationLog(10)

	limiter := middleware.NewOTPAttemptLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)

	router := gin.New()
	setupRoutes(router, &Handlers{
		Health:  handler.NewHealthHandler(repo, config.StoreDriverMemory),
		Shop:    handler.NewShopHandler(registry),
		Product: handler.NewProductHandler(registry, nil),
		Order:   handler.NewOrderHandler(registry),
		Admin:   handler.NewAdminHandler(registry, feed),
		SSE:     handler.NewSSEHandler(sse.NewHub()),
	}, limiter)
	return router
}

func TestSetupRoutes(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/v1/health", http.StatusOK},
		{http.MethodGet, "/v1/shops", http.StatusOK},
		{http.MethodGet, "/v1/shops/slug/zahra-fabrics", http.StatusOK},
		{http.MethodGet, "/v1/shops/shop_seed_zahra", http.StatusOK},
		{http.MethodGet, "/v1/shops/shop_seed_zahra/products", http.StatusOK},
		{http.MethodGet, "/v1/shops/shop_seed_zahra/orders", http.StatusOK},
		{http.MethodGet, "/v1/products", http.StatusOK},
		{http.MethodGet, "/v1/products/prd_seed_lawn", http.StatusOK},
		{http.MethodGet, "/v1/orders", http.StatusOK},
		{http.MethodGet, "/v1/admin/sellers", http.StatusOK},
		{http.MethodGet, "/v1/admin/stats", http.StatusOK},
		{http.MethodGet, "/v1/admin/notifications", http.StatusOK},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupRoutes_VerifyIsRateLimited(t *testing.T) {
	router := newRouter(t)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/shops/shop_seed_zahra/verify", strings.NewReader(`{"code":"999999"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	require.Len(t, codes, 3)
	assert.Equal(t, http.StatusBadRequest, codes[0])
	assert.Equal(t, http.StatusBadRequest, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestOpenBlobStore_Memory(t *testing.T) {
	blobs, closeStore, err := openBlobStore(&config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}})
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &repository.MemoryBlobStore{}, blobs)
}
