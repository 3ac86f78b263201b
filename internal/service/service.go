package service

import (
	"context"

	"field-kart/internal/model"
	"field-kart/internal/scheme"

	"github.com/google/uuid"
)

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID together with its variants.
	GetByID(ctx context.Context, id string) (*model.ProductDetail, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder prices the requested cart against the promotion catalog
	// and persists the order with its frozen pricing breakdown.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items, applied schemes
	// and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// PricingService prices carts without persisting them.
type PricingService interface {
	// Quote runs the pricing engine over the requested cart and returns the
	// full breakdown plus an invoice-ready summary of applied schemes.
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error)

	// ApplicableSchemes returns the active promotions that would apply to
	// the requested cart, without computing discounts.
	ApplicableSchemes(ctx context.Context, req *model.QuoteRequest) ([]scheme.PromotionRule, error)
}
