package models

// Registry is the full persisted container. Sellers is only kept for blobs
// written by older schemas; the live seller view is always derived from Shops.
type Registry struct {
	Shops    []Shop    `json:"shops"`
	Products []Product `json:"products"`
	Orders   []Order   `json:"orders"`
	Sellers  []Seller  `json:"sellers,omitempty"`
}

// Normalize replaces nil collections with empty ones so that callers and
// JSON output never see null arrays.
func (r *Registry) Normalize() {
	if r.Shops == nil {
		r.Shops = []Shop{}
	}
	if r.Products == nil {
		r.Products = []Product{}
	}
	if r.Orders == nil {
		r.Orders = []Order{}
	}
	for i := range r.Products {
		if r.Products[i].Sizes == nil {
			r.Products[i].Sizes = []string{}
		}
	}
}

// AdminStats aggregates the registry for the admin dashboard.
type AdminStats struct {
	TotalShops       int     `json:"totalShops"`
	ActiveShops      int     `json:"activeShops"`
	PendingShops     int     `json:"pendingShops"`
	SuspendedShops   int     `json:"suspendedShops"`
	TotalProducts    int     `json:"totalProducts"`
	TotalOrders      int     `json:"totalOrders"`
	GrossVolume      float64 `json:"grossVolume"`
	PlatformEarnings float64 `json:"platformEarnings"`
	SellerEarnings   float64 `json:"sellerEarnings"`
}
