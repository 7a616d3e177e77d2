package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/repository"
	"github.com/GTDGit/gtd_market/internal/utils"
)

const testRegistryKey = "gtd_market_registry_test"

// countingStore wraps a RegistryStore and counts calls.
type countingStore struct {
	repository.RegistryStore
	loads   int
	saves   int
	saveErr error
}

func (s *countingStore) Load(ctx context.Context) (*models.Registry, error) {
	s.loads++
	return s.RegistryStore.Load(ctx)
}

func (s *countingStore) Save(ctx context.Context, reg *models.Registry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	return s.RegistryStore.Save(ctx, reg)
}

type recordingNotifier struct {
	mu      sync.Mutex
	sellers []models.Seller
	orders  []models.Order
}

func (n *recordingNotifier) NotifyNewSeller(s models.Seller) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sellers = append(n.sellers, s)
}

func (n *recordingNotifier) NotifyNewOrder(o models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
}

func newTestService(t *testing.T, allowMasterOTP bool) (*RegistryService, *countingStore, *recordingNotifier) {
	t.Helper()
	store := &countingStore{
		RegistryStore: repository.NewRegistryRepository(repository.NewMemoryBlobStore(), testRegistryKey),
	}
	// Trigger seeding so that later counts only reflect the operation under test.
	_, err := store.RegistryStore.Load(context.Background())
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc := NewRegistryService(store, notifier, allowMasterOTP)
	svc.now = func() time.Time { return time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC) }
	return svc, store, notifier
}

func createShop(t *testing.T, svc *RegistryService) *models.Shop {
	t.Helper()
	shop, err := svc.CreateShop(context.Background(), &CreateShopRequest{
		Name:           "Lahore Leather Co",
		Email:          "owner@lahoreleather.pk",
		WhatsappNumber: "+923001112222",
		Category:       "Accessories",
		PayoutInfo:     models.PayoutInfo{Method: "bank", AccountNumber: "PK00TEST", AccountTitle: "LLC"},
	})
	require.NoError(t, err)
	return shop
}

func TestRegistryService_CreateShop(t *testing.T) {
	svc, store, _ := newTestService(t, false)

	shop := createShop(t, svc)

	assert.Regexp(t, `^shop_[0-9a-f]{16}$`, shop.ID)
	assert.Regexp(t, `^usr_[0-9a-f]{16}$`, shop.OwnerID)
	assert.Regexp(t, `^\d{6}$`, shop.OTPCode)
	assert.Equal(t, "lahore-leather-co", shop.Slug)
	assert.Equal(t, models.ShopStatusPendingVerification, shop.Status)
	assert.False(t, shop.Verified)
	assert.Equal(t, 1, store.saves)

	stored, err := svc.FetchShopByID(context.Background(), shop.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, shop.OTPCode, stored.OTPCode)
}

func TestRegistryService_CreateShopSlugStripsPunctuation(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	shop, err := svc.CreateShop(context.Background(), &CreateShopRequest{Name: "Zahra Fabrics!!"})
	require.NoError(t, err)
	assert.Equal(t, "zahra-fabrics", shop.Slug)
}

func TestRegistryService_FetchShopBySlug(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	shop, err := svc.FetchShopBySlug(ctx, "zahra-fabrics")
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "shop_seed_zahra", shop.ID)

	missing, err := svc.FetchShopBySlug(ctx, "no-such-shop")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRegistryService_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code", func(t *testing.T) {
		svc, store, notifier := newTestService(t, false)
		shop := createShop(t, svc)

		ok, err := svc.VerifyOTP(ctx, shop.ID, shop.OTPCode)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, store.saves)

		stored, err := svc.FetchShopByID(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusPendingAdminApproval, stored.Status)
		assert.True(t, stored.Verified)
		assert.Empty(t, stored.OTPCode)

		require.Len(t, notifier.sellers, 1)
		assert.Equal(t, shop.OwnerID, notifier.sellers[0].ID)
		assert.Equal(t, shop.ID, notifier.sellers[0].ShopID)
	})

	t.Run("wrong code leaves shop untouched", func(t *testing.T) {
		svc, store, notifier := newTestService(t, false)
		shop := createShop(t, svc)
		wrong := "111111"
		if shop.OTPCode == wrong {
			wrong = "222222"
		}

		ok, err := svc.VerifyOTP(ctx, shop.ID, wrong)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, store.saves)
		assert.Empty(t, notifier.sellers)

		stored, err := svc.FetchShopByID(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusPendingVerification, stored.Status)
		assert.False(t, stored.Verified)
	})

	t.Run("unknown shop", func(t *testing.T) {
		svc, store, _ := newTestService(t, true)

		ok, err := svc.VerifyOTP(ctx, "shop_missing", MasterOTP)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, store.saves)
	})

	t.Run("master code disabled", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		shop := createShop(t, svc)
		if shop.OTPCode == MasterOTP {
			t.Skip("generated OTP collided with the master code")
		}

		ok, err := svc.VerifyOTP(ctx, shop.ID, MasterOTP)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("master code enabled", func(t *testing.T) {
		svc, _, notifier := newTestService(t, true)
		shop := createShop(t, svc)

		ok, err := svc.VerifyOTP(ctx, shop.ID, MasterOTP)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, notifier.sellers, 1)
	})

	t.Run("master code on suspended shop", func(t *testing.T) {
		svc, store, notifier := newTestService(t, true)
		_, err := svc.ToggleShopStatus(ctx, "usr_seed_zahra")
		require.NoError(t, err)

		ok, err := svc.VerifyOTP(ctx, "shop_seed_zahra", MasterOTP)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, store.saves)
		assert.Empty(t, notifier.sellers)

		stored, err := svc.FetchShopByID(ctx, "shop_seed_zahra")
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusSuspended, stored.Status)
	})

	t.Run("already verified shop", func(t *testing.T) {
		svc, store, _ := newTestService(t, true)
		shop := createShop(t, svc)
		ok, err := svc.VerifyOTP(ctx, shop.ID, shop.OTPCode)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = svc.VerifyOTP(ctx, shop.ID, MasterOTP)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 2, store.saves)
	})
}

func TestRegistryService_ApproveShop(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()
	shop := createShop(t, svc)

	_, err := svc.ApproveShop(ctx, shop.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidShopStatus)

	ok, err := svc.VerifyOTP(ctx, shop.ID, shop.OTPCode)
	require.NoError(t, err)
	require.True(t, ok)

	approved, err := svc.ApproveShop(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShopStatusActive, approved.Status)

	_, err = svc.ApproveShop(ctx, "shop_missing")
	assert.ErrorIs(t, err, utils.ErrShopNotFound)
}

func TestRegistryService_ToggleShopStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("active and suspended are symmetric", func(t *testing.T) {
		svc, store, _ := newTestService(t, false)

		sellers, err := svc.ToggleShopStatus(ctx, "usr_seed_zahra")
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusSuspended, findSeller(sellers, "usr_seed_zahra").Status)

		sellers, err = svc.ToggleShopStatus(ctx, "usr_seed_zahra")
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusActive, findSeller(sellers, "usr_seed_zahra").Status)
		assert.Equal(t, 2, store.saves)
	})

	t.Run("pending shop is not saved", func(t *testing.T) {
		svc, store, _ := newTestService(t, false)
		shop := createShop(t, svc)

		sellers, err := svc.ToggleShopStatus(ctx, shop.OwnerID)
		require.NoError(t, err)
		assert.Equal(t, models.ShopStatusPendingVerification, findSeller(sellers, shop.OwnerID).Status)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("unknown seller", func(t *testing.T) {
		svc, store, _ := newTestService(t, false)

		sellers, err := svc.ToggleShopStatus(ctx, "usr_missing")
		require.NoError(t, err)
		assert.Len(t, sellers, 3)
		assert.Zero(t, store.saves)
	})
}

func findSeller(sellers []models.Seller, id string) models.Seller {
	for _, s := range sellers {
		if s.ID == id {
			return s
		}
	}
	return models.Seller{}
}

func TestRegistryService_FetchAllSellers(t *testing.T) {
	svc, _, _ := newTestService(t, false)

	sellers, err := svc.FetchAllSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, sellers, 3)
	assert.Equal(t, "usr_seed_zahra", sellers[0].ID)
	assert.Equal(t, "shop_seed_zahra", sellers[0].ShopID)
	assert.Equal(t, "Zahra Fabrics", sellers[0].FullName)
}

func TestRegistryService_SaveProduct(t *testing.T) {
	svc, store, _ := newTestService(t, false)
	ctx := context.Background()

	product := &models.Product{ShopID: "shop_seed_multan", Name: "Camel Skin Lamp", Price: 5200, Stock: 4}
	require.NoError(t, svc.SaveProduct(ctx, product))
	assert.Regexp(t, `^prd_[0-9a-f]{16}$`, product.ID)
	assert.False(t, product.CreatedAt.IsZero())

	product.Price = 4900
	require.NoError(t, svc.SaveProduct(ctx, product))
	assert.Equal(t, 2, store.saves)

	all, err := svc.FetchAllProducts(ctx)
	require.NoError(t, err)
	count := 0
	for _, p := range all {
		if p.ID == product.ID {
			count++
			assert.Equal(t, 4900.0, p.Price)
		}
	}
	assert.Equal(t, 1, count, "upsert must not duplicate")

	byShop, err := svc.FetchProductsByShop(ctx, "shop_seed_multan")
	require.NoError(t, err)
	assert.Len(t, byShop, 2)

	empty, err := svc.FetchProductsByShop(ctx, "shop_missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	store.saveErr = errors.New("disk full")
	draft := &models.Product{ShopID: "shop_seed_multan", Name: "Ajrak Shawl"}
	assert.EqualError(t, svc.SaveProduct(ctx, draft), "disk full")
	assert.Empty(t, draft.ID, "failed save leaves the caller's product untouched")
	assert.True(t, draft.CreatedAt.IsZero())
	assert.Nil(t, draft.Sizes)
}

func TestRegistryService_SaveOrderIsAppendOnly(t *testing.T) {
	svc, _, notifier := newTestService(t, false)
	ctx := context.Background()

	order := &models.Order{ID: "ORDDUPE01", ShopID: "shop_seed_zahra", TotalAmount: 100, Status: models.OrderStatusPending}
	require.NoError(t, svc.SaveOrder(ctx, order))
	require.NoError(t, svc.SaveOrder(ctx, order))

	orders, err := svc.FetchAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 4)
	assert.Len(t, notifier.orders, 2)
}

func TestRegistryService_PlaceOrder(t *testing.T) {
	svc, store, notifier := newTestService(t, false)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, &PlaceOrderRequest{
		CustomerName:    "Sana Malik",
		CustomerPhone:   "+923009998877",
		CustomerAddress: "Gulberg III, Lahore",
		PaymentMethod:   "cod",
		Items: []CartItemRequest{
			{ProductID: "prd_seed_lawn", Quantity: 2, Size: "L"},
			{ProductID: "prd_seed_shawl", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Len(t, order.ID, 8)
	assert.Equal(t, "shop_seed_zahra", order.ShopID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 16800.0, order.TotalAmount)
	require.NotNil(t, order.Commission)
	assert.Equal(t, 15960.0, order.Commission.AdminAmount)
	assert.Equal(t, 840.0, order.Commission.SellerAmount)
	assert.Equal(t, 1, store.loads)
	assert.Equal(t, 1, store.saves)
	require.Len(t, notifier.orders, 1)
	assert.Equal(t, order.ID, notifier.orders[0].ID)

	// Later price changes must not touch the stored snapshot.
	lawn, err := svc.FetchProductByID(ctx, "prd_seed_lawn")
	require.NoError(t, err)
	lawn.Price = 9999
	require.NoError(t, svc.SaveProduct(ctx, lawn))

	orders, err := svc.FetchOrdersByShop(ctx, "shop_seed_zahra")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 4500.0, orders[1].Items[0].Price)
	assert.Equal(t, 16800.0, orders[1].TotalAmount)
}

func TestRegistryService_PlaceOrderErrors(t *testing.T) {
	ctx := context.Background()
	base := PlaceOrderRequest{CustomerName: "A", CustomerPhone: "1", CustomerAddress: "X"}

	tests := []struct {
		name    string
		shopID  string
		items   []CartItemRequest
		wantErr error
	}{
		{name: "empty cart", wantErr: utils.ErrEmptyCart},
		{name: "zero quantity", items: []CartItemRequest{{ProductID: "prd_seed_lawn", Quantity: 0}}, wantErr: utils.ErrInvalidQuantity},
		{name: "unknown product", items: []CartItemRequest{{ProductID: "prd_missing", Quantity: 1}}, wantErr: utils.ErrProductNotFound},
		{
			name:    "mixed shops",
			items:   []CartItemRequest{{ProductID: "prd_seed_lawn", Quantity: 1}, {ProductID: "prd_seed_khussa", Quantity: 1}},
			wantErr: utils.ErrProductNotFound,
		},
		{
			name:    "product of another shop",
			shopID:  "shop_seed_multan",
			items:   []CartItemRequest{{ProductID: "prd_seed_lawn", Quantity: 1}},
			wantErr: utils.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, notifier := newTestService(t, false)
			req := base
			req.ShopID = tt.shopID
			req.Items = tt.items

			_, err := svc.PlaceOrder(ctx, &req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, store.saves)
			assert.Empty(t, notifier.orders)
		})
	}
}

func TestRegistryService_QuoteCart(t *testing.T) {
	svc, store, _ := newTestService(t, false)

	totals, err := svc.QuoteCart(context.Background(), []CartItemRequest{{ProductID: "prd_seed_peshawari", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 9600.0, totals.TotalAmount)
	assert.Equal(t, 9120.0, totals.Commission.AdminAmount)
	assert.Equal(t, 480.0, totals.Commission.SellerAmount)
	assert.Zero(t, store.saves)
}

func TestRegistryService_UpdateOrderStatus(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()

	updated, err := svc.UpdateOrderStatus(ctx, "ORD9PZT4A", models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, 3200.0, updated.TotalAmount)
	assert.Equal(t, 160.0, updated.Commission.SellerAmount)

	_, err = svc.UpdateOrderStatus(ctx, "ORDMISSING", models.OrderStatusFailed)
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}

func TestRegistryService_Stats(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	ctx := context.Background()
	createShop(t, svc)
	// Legacy order without a commission snapshot.
	require.NoError(t, svc.SaveOrder(ctx, &models.Order{ID: "ORDLEGACY", ShopID: "shop_seed_multan", TotalAmount: 1000}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalShops)
	assert.Equal(t, 3, stats.ActiveShops)
	assert.Equal(t, 1, stats.PendingShops)
	assert.Equal(t, 5, stats.TotalProducts)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 13200.0, stats.GrossVolume)
	assert.Equal(t, 12540.0, stats.PlatformEarnings)
	assert.Equal(t, 660.0, stats.SellerEarnings)
}

func TestRegistryService_SaveFailurePropagates(t *testing.T) {
	svc, store, notifier := newTestService(t, false)
	store.saveErr = errors.New("disk full")

	err := svc.SaveOrder(context.Background(), &models.Order{ID: "ORDFAIL01"})
	assert.Error(t, err)
	assert.Empty(t, notifier.orders)
}
