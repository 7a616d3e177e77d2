package repository

import (
	"time"

	"github.com/GTDGit/gtd_market/internal/models"
	"github.com/GTDGit/gtd_market/internal/utils"
)

// sampleSeller is the legacy seller shape the sample dataset is authored in.
type sampleSeller struct {
	ID          string
	ShopID      string
	ShopName    string
	Email       string
	PhoneNumber string
	Category    string
	JoinedAt    time.Time
	PayoutInfo  models.PayoutInfo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

var sampleSellers = []sampleSeller{
	{
		ID:          "usr_seed_zahra",
		ShopID:      "shop_seed_zahra",
		ShopName:    "Zahra Fabrics",
		Email:       "hello@zahrafabrics.pk",
		PhoneNumber: "+923001234567",
		Category:    "Clothing",
		JoinedAt:    day(2024, time.January, 12),
		PayoutInfo:  models.PayoutInfo{Method: "jazzcash", AccountNumber: "03001234567", AccountTitle: "Zahra Bibi"},
	},
	{
		ID:          "usr_seed_kicks",
		ShopID:      "shop_seed_kicks",
		ShopName:    "Karachi Kicks",
		Email:       "orders@karachikicks.pk",
		PhoneNumber: "+923211112233",
		Category:    "Footwear",
		JoinedAt:    day(2024, time.February, 3),
		PayoutInfo:  models.PayoutInfo{Method: "bank", AccountNumber: "PK36SCBL0000001123456702", AccountTitle: "Karachi Kicks Traders"},
	},
	{
		ID:          "usr_seed_multan",
		ShopID:      "shop_seed_multan",
		ShopName:    "Multan Crafts",
		Email:       "contact@multancrafts.pk",
		PhoneNumber: "+923334445566",
		Category:    "Handicrafts",
		JoinedAt:    day(2024, time.March, 21),
		PayoutInfo:  models.PayoutInfo{Method: "easypaisa", AccountNumber: "03334445566", AccountTitle: "Imran Qureshi"},
	},
}

var sampleProducts = []models.Product{
	{
		ID:          "prd_seed_lawn",
		ShopID:      "shop_seed_zahra",
		Name:        "Embroidered Lawn Suit",
		Description: "Three-piece unstitched lawn with chiffon dupatta.",
		Price:       4500,
		Category:    "Clothing",
		ImageURL:    "https://images.unsplash.com/photo-1583391733956-6c78276477e2",
		Stock:       25,
		Sizes:       []string{"S", "M", "L"},
		Published:   true,
		CreatedAt:   day(2024, time.January, 14),
	},
	{
		ID:          "prd_seed_shawl",
		ShopID:      "shop_seed_zahra",
		Name:        "Pashmina Shawl",
		Description: "Hand-finished wool shawl.",
		Price:       7800,
		Category:    "Clothing",
		ImageURL:    "https://images.unsplash.com/photo-1601924994987-69e26d50dc26",
		Stock:       10,
		Sizes:       []string{},
		Published:   true,
		CreatedAt:   day(2024, time.January, 20),
	},
	{
		ID:          "prd_seed_peshawari",
		ShopID:      "shop_seed_kicks",
		Name:        "Peshawari Chappal",
		Description: "Leather chappal with double stitched sole.",
		Price:       3200,
		Category:    "Footwear",
		ImageURL:    "https://images.unsplash.com/photo-1603487742131-4160ec999306",
		Stock:       40,
		Sizes:       []string{"40", "41", "42", "43", "44"},
		Published:   true,
		CreatedAt:   day(2024, time.February, 5),
	},
	{
		ID:          "prd_seed_khussa",
		ShopID:      "shop_seed_kicks",
		Name:        "Embellished Khussa",
		Description: "Traditional khussa with tilla work.",
		Price:       2500,
		Category:    "Footwear",
		ImageURL:    "https://images.unsplash.com/photo-1543163521-1bf539c55dd2",
		Stock:       0,
		Sizes:       []string{"37", "38", "39"},
		Published:   false,
		CreatedAt:   day(2024, time.February, 11),
	},
	{
		ID:          "prd_seed_bluepottery",
		ShopID:      "shop_seed_multan",
		Name:        "Blue Pottery Vase",
		Description: "Hand-painted Multani blue pottery.",
		Price:       1800,
		Category:    "Handicrafts",
		ImageURL:    "https://images.unsplash.com/photo-1578749556568-bc2c40e68b61",
		Stock:       15,
		Sizes:       []string{},
		Published:   true,
		CreatedAt:   day(2024, time.March, 25),
	},
}

var sampleOrders = []models.Order{
	{
		ID:              "ORD7KQ2MX",
		ShopID:          "shop_seed_zahra",
		CustomerName:    "Ayesha Khan",
		CustomerPhone:   "+923451234567",
		CustomerAddress: "House 12, Street 4, DHA Phase 5, Lahore",
		Items: []models.OrderItem{
			{ProductID: "prd_seed_lawn", ProductName: "Embroidered Lawn Suit", ProductImageURL: "https://images.unsplash.com/photo-1583391733956-6c78276477e2", Quantity: 2, Price: 4500, Size: "M"},
		},
		TotalAmount:   9000,
		Commission:    &models.Commission{AdminAmount: 8550, SellerAmount: 450},
		PaymentMethod: "cod",
		Status:        models.OrderStatusCompleted,
		CreatedAt:     day(2024, time.April, 2),
	},
	{
		ID:              "ORD9PZT4A",
		ShopID:          "shop_seed_kicks",
		CustomerName:    "Bilal Ahmed",
		CustomerPhone:   "+923007654321",
		CustomerAddress: "Flat 3B, Clifton Block 2, Karachi",
		Items: []models.OrderItem{
			{ProductID: "prd_seed_peshawari", ProductName: "Peshawari Chappal", ProductImageURL: "https://images.unsplash.com/photo-1603487742131-4160ec999306", Quantity: 1, Price: 3200, Size: "42"},
		},
		TotalAmount:   3200,
		Commission:    &models.Commission{AdminAmount: 3040, SellerAmount: 160},
		PaymentMethod: "jazzcash",
		Status:        models.OrderStatusPending,
		CreatedAt:     day(2024, time.April, 9),
	},
}

// SeedRegistry builds the initial registry: every sample seller becomes an
// active, verified shop; sample products and orders are copied as-is.
func SeedRegistry() *models.Registry {
	reg := &models.Registry{
		Shops:    make([]models.Shop, 0, len(sampleSellers)),
		Products: make([]models.Product, 0, len(sampleProducts)),
		Orders:   make([]models.Order, 0, len(sampleOrders)),
	}

	for _, s := range sampleSellers {
		reg.Shops = append(reg.Shops, models.Shop{
			ID:             s.ShopID,
			OwnerID:        s.ID,
			Name:           s.ShopName,
			Slug:           utils.Slugify(s.ShopName),
			Status:         models.ShopStatusActive,
			Verified:       true,
			WhatsappNumber: s.PhoneNumber,
			Email:          s.Email,
			Category:       s.Category,
			JoinedAt:       s.JoinedAt,
			PayoutInfo:     s.PayoutInfo,
		})
	}

	for _, p := range sampleProducts {
		p.Sizes = append([]string{}, p.Sizes...)
		reg.Products = append(reg.Products, p)
	}

	for _, o := range sampleOrders {
		o.Items = append([]models.OrderItem(nil), o.Items...)
		if o.Commission != nil {
			c := *o.Commission
			o.Commission = &c
		}
		reg.Orders = append(reg.Orders, o)
	}

	return reg
}
