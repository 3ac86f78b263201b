package model

import "time"

// Product represents a sellable product in the distributor catalogue.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductVariant represents a pack size or flavour of a product with its own
// rate. When an order line names a variant, the variant rate wins over the
// base product rate.
type ProductVariant struct {
	ID        string  `json:"id" db:"id"`
	ProductID string  `json:"productId" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"price"`
}

// ProductDetail is a product together with its variants, as served by the
// single-product endpoint.
type ProductDetail struct {
	Product
	Variants []ProductVariant `json:"variants"`
}
