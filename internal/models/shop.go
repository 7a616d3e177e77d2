package models

import "time"

// ShopStatus enumerates the onboarding and moderation states of a shop.
type ShopStatus string

const (
	ShopStatusPendingVerification  ShopStatus = "pending_verification"
	ShopStatusPendingAdminApproval ShopStatus = "pending_admin_approval"
	ShopStatusActive               ShopStatus = "active"
	ShopStatusSuspended            ShopStatus = "suspended"
)

// PayoutInfo describes where a seller's earnings are paid out.
type PayoutInfo struct {
	Method        string `json:"method"`
	AccountNumber string `json:"accountNumber"`
	AccountTitle  string `json:"accountTitle"`
}

// Shop is the persisted storefront record and the source of truth for seller identity.
// Slug is derived once at creation and never recomputed.
type Shop struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"ownerId"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Status         ShopStatus `json:"status"`
	Verified       bool       `json:"verified"`
	OTPCode        string     `json:"otpCode,omitempty"`
	WhatsappNumber string     `json:"whatsappNumber"`
	Email          string     `json:"email"`
	Category       string     `json:"category"`
	JoinedAt       time.Time  `json:"joinedAt"`
	PayoutInfo     PayoutInfo `json:"payoutInfo"`
}

// Public returns a copy of the shop safe for storefront responses.
func (s Shop) Public() Shop {
	s.OTPCode = ""
	return s
}

// Seller is a read-only projection of a Shop. It is never persisted by the
// registry; see SellerFromShop.
type Seller struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	ShopID      string     `json:"shopId"`
	Status      ShopStatus `json:"status"`
	JoinedAt    time.Time  `json:"joinedAt"`
	PayoutInfo  PayoutInfo `json:"payoutInfo"`
}

// SellerFromShop maps a shop onto its owner's seller view.
func SellerFromShop(s Shop) Seller {
	return Seller{
		ID:          s.OwnerID,
		FullName:    s.Name,
		Email:       s.Email,
		PhoneNumber: s.WhatsappNumber,
		ShopID:      s.ID,
		Status:      s.Status,
		JoinedAt:    s.JoinedAt,
		PayoutInfo:  s.PayoutInfo,
	}
}

// SellersFromShops projects every shop, preserving order.
func SellersFromShops(shops []Shop) []Seller {
	sellers := make([]Seller, 0, len(shops))
	for _, s := range shops {
		sellers = append(sellers, SellerFromShop(s))
	}
	return sellers
}
