package repository

import (
	"context"
	"testing"
	"time"

	"field-kart/internal/model"
	"field-kart/internal/scheme"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	createSchema(t, pool)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
			category TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

		CREATE TABLE IF NOT EXISTS product_variants (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id),
			name TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0)
		);

		CREATE TABLE IF NOT EXISTS schemes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			type TEXT NOT NULL,
			target_product_id TEXT,
			target_variant_id TEXT,
			discount_percentage DECIMAL(7,3),
			discount_amount DECIMAL(10,2),
			buy_quantity INT,
			free_quantity INT,
			free_product_id TEXT,
			free_product_name TEXT,
			condition_quantity INT,
			quantity_condition_type TEXT,
			min_order_value DECIMAL(10,2),
			is_active BOOLEAN,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			retailer_id UUID,
			subtotal DECIMAL(12,2) NOT NULL,
			total_discount DECIMAL(12,2) NOT NULL,
			final_total DECIMAL(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id TEXT NOT NULL,
			variant_id TEXT,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_rate DECIMAL(10,2) NOT NULL,
			discount DECIMAL(10,2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS order_schemes (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			scheme_id TEXT NOT NULL,
			scheme_name TEXT NOT NULL,
			scheme_type TEXT NOT NULL,
			discount_amount DECIMAL(10,2) NOT NULL
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, price, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query, p.ID, p.Name, p.Price, p.Category, p.CreatedAt)
		require.NoError(t, err)
	}
}

// seedVariants inserts test product variants into the database.
func seedVariants(t *testing.T, pool *pgxpool.Pool, variants []model.ProductVariant) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO product_variants (id, product_id, name, price)
		VALUES ($1, $2, $3, $4)
	`

	for _, v := range variants {
		_, err := pool.Exec(ctx, query, v.ID, v.ProductID, v.Name, v.Price)
		require.NoError(t, err)
	}
}

// seedSchemes inserts test promotion rules into the database. Zero-valued
// optional fields are stored as NULLs so the scan path is exercised.
func seedSchemes(t *testing.T, pool *pgxpool.Pool, rules []scheme.PromotionRule) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO schemes (
			id, name, description, type,
			target_product_id, target_variant_id,
			discount_percentage, discount_amount,
			buy_quantity, free_quantity, free_product_id, free_product_name,
			condition_quantity, quantity_condition_type, min_order_value,
			is_active, start_date, end_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	for _, r := range rules {
		_, err := pool.Exec(ctx, query,
			r.ID, r.Name, nullIfEmpty(r.Description), r.Type,
			nullIfEmpty(r.TargetProductID), nullIfEmpty(r.TargetVariantID),
			nullIfZeroFloat(r.DiscountPercentage), nullIfZeroFloat(r.DiscountAmount),
			nullIfZeroInt(r.BuyQuantity), nullIfZeroInt(r.FreeQuantity),
			nullIfEmpty(r.FreeProductID), nullIfEmpty(r.FreeProductName),
			nullIfZeroInt(r.ConditionQuantity), nullIfEmpty(r.QuantityConditionType),
			nullIfZeroFloat(r.MinOrderValue),
			r.IsActive, r.StartDate, r.EndDate,
		)
		require.NoError(t, err)
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZeroInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullIfZeroFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
