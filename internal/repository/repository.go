package repository

import (
	"context"

	"field-kart/internal/model"
	"field-kart/internal/scheme"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetVariantsByIDs retrieves product variants by their IDs.
	GetVariantsByIDs(ctx context.Context, ids []string) ([]model.ProductVariant, error)

	// GetVariantsByProductID retrieves all variants of a product.
	GetVariantsByProductID(ctx context.Context, productID string) ([]model.ProductVariant, error)

	// ValidateProductsExist checks if all provided product IDs exist in the database.
	// Returns error if any product ID does not exist.
	ValidateProductsExist(ctx context.Context, ids []string) error
}

// SchemeRepository defines the interface for promotion scheme catalog access.
type SchemeRepository interface {
	// ListSchemes retrieves the full promotion catalog mapped onto engine
	// rules. Activation filtering is the engine's job, not the query's.
	ListSchemes(ctx context.Context) ([]scheme.PromotionRule, error)

	// GetByIDs retrieves specific schemes by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]scheme.PromotionRule, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreateOrderSchemes inserts the applied-scheme rows within the provided transaction.
	CreateOrderSchemes(ctx context.Context, tx pgx.Tx, schemes []model.OrderScheme) error

	// GetByID retrieves an order by its ID along with its items and applied schemes.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderScheme, error)
}
