package service

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_market/internal/models"
)

var (
	// platformShare of every order total goes to the marketplace.
	platformShare = decimal.RequireFromString("0.95")
	// sellerShare of every order total is the seller commission.
	sellerShare = decimal.RequireFromString("0.05")
)

// CartLine is one product in a buyer's cart.
type CartLine struct {
	Product  models.Product
	Quantity int
	Size     string
}

// OrderTotals is the priced form of a cart.
type OrderTotals struct {
	Items       []models.OrderItem `json:"items"`
	TotalAmount float64            `json:"totalAmount"`
	Commission  models.Commission  `json:"commission"`
}

// CalculateOrder snapshots each cart line into an order item and computes
// total = Σ price × quantity plus the commission split. It has no side
// effects and returns the same result for the same cart.
func CalculateOrder(cart []CartLine) OrderTotals {
	items := make([]models.OrderItem, 0, len(cart))
	total := decimal.Zero

	for _, line := range cart {
		price := decimal.NewFromFloat(line.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))

		items = append(items, models.OrderItem{
			ProductID:       line.Product.ID,
			ProductName:     line.Product.Name,
			ProductImageURL: line.Product.ImageURL,
			Quantity:        line.Quantity,
			Price:           line.Product.Price,
			Size:            line.Size,
		})
	}

	return OrderTotals{
		Items:       items,
		TotalAmount: total.InexactFloat64(),
		Commission:  splitCommission(total),
	}
}

// SplitCommission divides an order total 95/5 between platform and seller.
func SplitCommission(total float64) models.Commission {
	return splitCommission(decimal.NewFromFloat(total))
}

func splitCommission(total decimal.Decimal) models.Commission {
	return models.Commission{
		AdminAmount:  total.Mul(platformShare).InexactFloat64(),
		SellerAmount: total.Mul(sellerShare).InexactFloat64(),
	}
}
