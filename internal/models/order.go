package models

import "time"

// OrderStatus enumerates the known order states. The set is open: payment
// simulations may record other values.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// OrderItem is a product snapshot taken when the order was created.
type OrderItem struct {
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductImageURL string  `json:"productImageUrl"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	Size            string  `json:"size,omitempty"`
}

// Commission is the platform/seller split of an order total.
type Commission struct {
	AdminAmount  float64 `json:"adminAmount"`
	SellerAmount float64 `json:"sellerAmount"`
}

// Order is a buyer purchase from a single shop. TotalAmount and Commission
// are frozen at creation and never recomputed.
type Order struct {
	ID              string      `json:"id"`
	ShopID          string      `json:"shopId"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	Commission      *Commission `json:"commission,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}
