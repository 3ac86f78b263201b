package model

import (
	"time"

	"field-kart/internal/scheme"

	"github.com/google/uuid"
)

// Order represents a field-sales order placed against a retailer, with its
// pricing breakdown frozen at creation time.
type Order struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	RetailerID    *uuid.UUID `json:"retailerId,omitempty" db:"retailer_id"`
	Subtotal      float64    `json:"subtotal" db:"subtotal"`
	TotalDiscount float64    `json:"totalDiscount" db:"total_discount"`
	FinalTotal    float64    `json:"finalTotal" db:"final_total"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Discount holds the portion
// of the order discount attributed to this line by the pricing engine.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	VariantID *string   `json:"variantId,omitempty" db:"variant_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitRate  float64   `json:"unitRate" db:"unit_rate"`
	Discount  float64   `json:"discount" db:"discount"`
}

// OrderScheme records one promotion that contributed to an order's discount.
type OrderScheme struct {
	ID             uuid.UUID `json:"-" db:"id"`
	OrderID        uuid.UUID `json:"-" db:"order_id"`
	SchemeID       string    `json:"schemeId" db:"scheme_id"`
	SchemeName     string    `json:"schemeName" db:"scheme_name"`
	SchemeType     string    `json:"schemeType" db:"scheme_type"`
	DiscountAmount float64   `json:"discountAmount" db:"discount_amount"`
}

// OrderItemRequest is a single cart line in an order or quote request.
type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

// OrderRequest is the payload for creating an order. SchemeIDs restricts
// pricing to caller-selected promotions; empty means auto-apply every active
// scheme.
type OrderRequest struct {
	RetailerID *uuid.UUID         `json:"retailerId,omitempty"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	SchemeIDs  []string           `json:"schemeIds,omitempty"`
}

// QuoteRequest is the payload for pricing a cart without persisting it.
type QuoteRequest struct {
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	SchemeIDs []string           `json:"schemeIds,omitempty"`
}

// OrderResponse is the API representation of a created or fetched order.
type OrderResponse struct {
	ID             uuid.UUID     `json:"id"`
	RetailerID     *uuid.UUID    `json:"retailerId,omitempty"`
	Items          []OrderItem   `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	TotalDiscount  float64       `json:"totalDiscount"`
	FinalTotal     float64       `json:"finalTotal"`
	AppliedSchemes []OrderScheme `json:"appliedSchemes"`
	Products       []Product     `json:"products"`
}

// QuoteResponse carries a pricing result plus the ready-to-print invoice
// summary of the applied schemes.
type QuoteResponse struct {
	Pricing scheme.PricingResult `json:"pricing"`
	Summary string               `json:"summary,omitempty"`
}
