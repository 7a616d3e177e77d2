package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/repository"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// MasterOTP is accepted for every shop when the override is enabled.
const MasterOTP = "000000"

// EventNotifier is what the registry uses to announce admin-relevant events.
type EventNotifier interface {
	NotifyNewSeller(seller models.Seller)
	NotifyNewOrder(order models.Order)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) NotifyNewSeller(models.Seller) {}
func (NopNotifier) NotifyNewOrder(models.Order)   {}

// RegistryService implements the marketplace operations over the registry.
//
// Every mutation is exactly one Load, an in-memory change and one Save.
// The service keeps no state of its own.
type RegistryService struct {
	store          repository.RegistryStore
	notifier       EventNotifier
	allowMasterOTP bool
	now            func() time.Time
}

// NewRegistryService constructs a RegistryService. allowMasterOTP enables the
// MasterOTP override and must stay off outside demo environments.
func NewRegistryService(store repository.RegistryStore, notifier EventNotifier, allowMasterOTP bool) *RegistryService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RegistryService{
		store:          store,
		notifier:       notifier,
		allowMasterOTP: allowMasterOTP,
		now:            time.Now,
	}
}

// CreateShopRequest represents a seller's onboarding form.
type CreateShopRequest struct {
	Name           string            `json:"name" binding:"required"`
	Email          string            `json:"email" binding:"required"`
	WhatsappNumber string            `json:"whatsappNumber" binding:"required"`
	Category       string            `json:"category"`
	PayoutInfo     models.PayoutInfo `json:"payoutInfo"`
}

// CreateShop registers a new shop awaiting OTP verification.
func (s *RegistryService) CreateShop(ctx context.Context, req *CreateShopRequest) (*models.Shop, error) {
	shopID, err := utils.GenerateShopID()
	if err != nil {
		return nil, err
	}
	ownerID, err := utils.GenerateOwnerID()
	if err != nil {
		return nil, err
	}
	otp, err := utils.GenerateOTP()
	if err != nil {
		return nil, err
	}

	shop := models.Shop{
		ID:             shopID,
		OwnerID:        ownerID,
		Name:           req.Name,
		Slug:           utils.Slugify(req.Name),
		Status:         models.ShopStatusPendingVerification,
		Verified:       false,
		OTPCode:        otp,
		WhatsappNumber: req.WhatsappNumber,
		Email:          req.Email,
		Category:       req.Category,
		JoinedAt:       s.now(),
		PayoutInfo:     req.PayoutInfo,
	}

	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	reg.Shops = append(reg.Shops, shop)
	if err := s.store.Save(ctx, reg); err != nil {
		return nil, err
	}

	log.Info().Str("shop_id", shop.ID).Str("slug", shop.Slug).Msg("Shop created, awaiting OTP verification")
	return &shop, nil
}

// VerifyOTP checks code against the shop's OTP (or MasterOTP when enabled).
// On success the shop moves to pending_admin_approval and a NEW_SELLER
// event is emitted. Unknown shops, shops past pending_verification and
// wrong codes return false and write nothing.
func (s *RegistryService) VerifyOTP(ctx context.Context, shopID, code string) (bool, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}

	idx := findShop(reg.Shops, func(sh *models.Shop) bool { return sh.ID == shopID })
	if idx < 0 {
		return false, nil
	}
	shop := &reg.Shops[idx]
	if shop.Status != models.ShopStatusPendingVerification {
		return false, nil
	}

	matched := code != "" && code == shop.OTPCode
	if !matched && s.allowMasterOTP && code == MasterOTP {
		log.Warn().Str("shop_id", shopID).Msg("Shop verified with master OTP override")
		matched = true
	}
	if !matched {
		return false, nil
	}

	shop.Status = models.ShopStatusPendingAdminApproval
	shop.Verified = true
	shop.OTPCode = ""
	if err := s.store.Save(ctx, reg); err != nil {
		return false, err
	}

	s.notifier.NotifyNewSeller(models.SellerFromShop(*shop))
	return true, nil
}

// ApproveShop activates a verified shop awaiting admin approval.
func (s *RegistryService) ApproveShop(ctx context.Context, shopID string) (*models.Shop, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findShop(reg.Shops, func(sh *models.Shop) bool { return sh.ID == shopID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrShopNotFound, shopID)
	}
	shop := &reg.Shops[idx]
	if shop.Status != models.ShopStatusPendingAdminApproval {
		return nil, fmt.Errorf("%w: shop %s is %s", utils.ErrInvalidShopStatus, shopID, shop.Status)
	}

	shop.Status = models.ShopStatusActive
	if err := s.store.Save(ctx, reg); err != nil {
		return nil, err
	}

	approved := *shop
	log.Info().Str("shop_id", shopID).Msg("Shop approved")
	return &approved, nil
}

// FetchShopBySlug returns the first shop with slug, or nil when none matches.
func (s *RegistryService) FetchShopBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	return s.fetchShop(ctx, func(sh *models.Shop) bool { return sh.Slug == slug })
}

// FetchShopByID returns the shop with id, or nil when none matches.
func (s *RegistryService) FetchShopByID(ctx context.Context, id string) (*models.Shop, error) {
	return s.fetchShop(ctx, func(sh *models.Shop) bool { return sh.ID == id })
}

func (s *RegistryService) fetchShop(ctx context.Context, match func(*models.Shop) bool) (*models.Shop, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findShop(reg.Shops, match)
	if idx < 0 {
		return nil, nil
	}
	shop := reg.Shops[idx]
	return &shop, nil
}

// FetchAllShops returns every shop in insertion order.
func (s *RegistryService) FetchAllShops(ctx context.Context) ([]models.Shop, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Shops, nil
}

// FetchAllSellers derives the seller view from the current shops.
func (s *RegistryService) FetchAllSellers(ctx context.Context) ([]models.Seller, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return models.SellersFromShops(reg.Shops), nil
}

// ToggleShopStatus flips the seller's shop between active and suspended.
// Shops in any other status are left alone. It returns the refreshed
// seller list.
func (s *RegistryService) ToggleShopStatus(ctx context.Context, sellerID string) ([]models.Seller, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := findShop(reg.Shops, func(sh *models.Shop) bool { return sh.OwnerID == sellerID })
	if idx >= 0 {
		shop := &reg.Shops[idx]
		switch shop.Status {
		case models.ShopStatusActive:
			shop.Status = models.ShopStatusSuspended
		case models.ShopStatusSuspended:
			shop.Status = models.ShopStatusActive
		default:
			return models.SellersFromShops(reg.Shops), nil
		}

		if err := s.store.Save(ctx, reg); err != nil {
			return nil, err
		}
		log.Info().Str("seller_id", sellerID).Str("status", string(shop.Status)).Msg("Shop status toggled")
	}

	return models.SellersFromShops(reg.Shops), nil
}

// SaveProduct inserts product or replaces the stored product with the same
// id. A product without id gets a generated id and creation time.
func (s *RegistryService) SaveProduct(ctx context.Context, product *models.Product) error {
	p := *product
	if p.ID == "" {
		id, err := utils.GenerateProductID()
		if err != nil {
			return err
		}
		p.ID = id
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}

	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range reg.Products {
		if reg.Products[i].ID == p.ID {
			reg.Products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		reg.Products = append(reg.Products, p)
	}

	if err := s.store.Save(ctx, reg); err != nil {
		return err
	}
	*product = p
	return nil
}

// FetchProductsByShop returns the shop's products in insertion order.
func (s *RegistryService) FetchProductsByShop(ctx context.Context, shopID string) ([]models.Product, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0)
	for _, p := range reg.Products {
		if p.ShopID == shopID {
			products = append(products, p)
		}
	}
	return products, nil
}

// FetchAllProducts returns every product.
func (s *RegistryService) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Products, nil
}

// FetchProductByID returns the product with id, or nil when absent.
func (s *RegistryService) FetchProductByID(ctx context.Context, id string) (*models.Product, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range reg.Products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// SaveOrder appends order to the registry. Orders are append-only: saving an
// id that already exists stores a second record.
func (s *RegistryService) SaveOrder(ctx context.Context, order *models.Order) error {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	reg.Orders = append(reg.Orders, *order)
	if err := s.store.Save(ctx, reg); err != nil {
		return err
	}

	s.notifier.NotifyNewOrder(*order)
	return nil
}

// CartItemRequest is one cart line as submitted by a buyer.
type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
}

// PlaceOrderRequest represents a checkout.
type PlaceOrderRequest struct {
	ShopID          string            `json:"shopId"`
	CustomerName    string            `json:"customerName" binding:"required"`
	CustomerPhone   string            `json:"customerPhone" binding:"required"`
	CustomerAddress string            `json:"customerAddress" binding:"required"`
	PaymentMethod   string            `json:"paymentMethod"`
	Items           []CartItemRequest `json:"items" binding:"required"`
}

// QuoteCart prices the cart at current product prices without storing anything.
func (s *RegistryService) QuoteCart(ctx context.Context, items []CartItemRequest) (*OrderTotals, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	cart, _, err := resolveCart(reg.Products, "", items)
	if err != nil {
		return nil, err
	}
	totals := CalculateOrder(cart)
	return &totals, nil
}

// PlaceOrder prices the cart from product snapshots, stores the resulting
// pending order and emits NEW_ORDER. All products must belong to one shop.
func (s *RegistryService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*models.Order, error) {
	orderID, err := utils.GenerateOrderCode()
	if err != nil {
		return nil, err
	}

	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	cart, shopID, err := resolveCart(reg.Products, req.ShopID, req.Items)
	if err != nil {
		return nil, err
	}
	totals := CalculateOrder(cart)
	commission := totals.Commission

	order := models.Order{
		ID:              orderID,
		ShopID:          shopID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           totals.Items,
		TotalAmount:     totals.TotalAmount,
		Commission:      &commission,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       s.now(),
	}

	reg.Orders = append(reg.Orders, order)
	if err := s.store.Save(ctx, reg); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID).
		Str("shop_id", order.ShopID).
		Float64("total", order.TotalAmount).
		Msg("Order placed")
	s.notifier.NotifyNewOrder(order)
	return &order, nil
}

// resolveCart looks up each requested product. When shopID is empty the
// first product's shop is used; every product must belong to that shop.
func resolveCart(products []models.Product, shopID string, items []CartItemRequest) ([]CartLine, string, error) {
	if len(items) == 0 {
		return nil, "", utils.ErrEmptyCart
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		if _, seen := byID[p.ID]; !seen {
			byID[p.ID] = p
		}
	}

	cart := make([]CartLine, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, "", fmt.Errorf("%w: %d for product %s", utils.ErrInvalidQuantity, item.Quantity, item.ProductID)
		}
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", utils.ErrProductNotFound, item.ProductID)
		}
		if shopID == "" {
			shopID = p.ShopID
		}
		if p.ShopID != shopID {
			return nil, "", fmt.Errorf("%w: %s is not sold by shop %s", utils.ErrProductNotFound, item.ProductID, shopID)
		}
		cart = append(cart, CartLine{Product: p, Quantity: item.Quantity, Size: item.Size})
	}
	return cart, shopID, nil
}

// UpdateOrderStatus records the outcome of a payment for the first order
// with orderID. Totals and commission are never touched.
func (s *RegistryService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range reg.Orders {
		if reg.Orders[i].ID != orderID {
			continue
		}
		reg.Orders[i].Status = status
		if err := s.store.Save(ctx, reg); err != nil {
			return nil, err
		}
		updated := reg.Orders[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("%w: %s", utils.ErrOrderNotFound, orderID)
}

// FetchAllOrders returns every order in insertion order.
func (s *RegistryService) FetchAllOrders(ctx context.Context) ([]models.Order, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Orders, nil
}

// FetchOrdersByShop returns the shop's orders.
func (s *RegistryService) FetchOrdersByShop(ctx context.Context, shopID string) ([]models.Order, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0)
	for _, o := range reg.Orders {
		if o.ShopID == shopID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// Stats aggregates shops, products and orders for the admin dashboard.
// Orders stored without a commission snapshot are split at the fixed rate.
func (s *RegistryService) Stats(ctx context.Context) (*models.AdminStats, error) {
	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.AdminStats{
		TotalShops:    len(reg.Shops),
		TotalProducts: len(reg.Products),
		TotalOrders:   len(reg.Orders),
	}
	for _, sh := range reg.Shops {
		switch sh.Status {
		case models.ShopStatusActive:
			stats.ActiveShops++
		case models.ShopStatusSuspended:
			stats.SuspendedShops++
		case models.ShopStatusPendingVerification, models.ShopStatusPendingAdminApproval:
			stats.PendingShops++
		}
	}

	gross, platform, seller := decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range reg.Orders {
		commission := SplitCommission(o.TotalAmount)
		if o.Commission != nil {
			commission = *o.Commission
		}
		gross = gross.Add(decimal.NewFromFloat(o.TotalAmount))
		platform = platform.Add(decimal.NewFromFloat(commission.AdminAmount))
		seller = seller.Add(decimal.NewFromFloat(commission.SellerAmount))
	}
	stats.GrossVolume = gross.InexactFloat64()
	stats.PlatformEarnings = platform.InexactFloat64()
	stats.SellerEarnings = seller.InexactFloat64()

	return stats, nil
}

func findShop(shops []models.Shop, match func(*models.Shop) bool) int {
	for i := range shops {
		if match(&shops[i]) {
			return i
		}
	}
	return -1
}
