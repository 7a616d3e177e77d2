package models

import "time"

// Product is a sellable item owned by a shop. ID is unique within the
// product collection; saving an existing ID replaces the stored record.
type Product struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shopId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
}
