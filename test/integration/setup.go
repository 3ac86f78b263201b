package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
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
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id),
			variant_id TEXT,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_rate DECIMAL(10,2) NOT NULL,
			discount DECIMAL(10,2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS order_schemes (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			scheme_id TEXT NOT NULL,
			scheme_name TEXT NOT NULL,
			scheme_type TEXT NOT NULL,
			discount_amount DECIMAL(10,2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_schemes_order_id ON order_schemes(order_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product and variant data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    float64
		category string
	}{
		{"P001", "Cola", 100.00, "Beverages"},
		{"P002", "Chips", 20.00, "Snacks"},
		{"P003", "Soap Bar", 30.00, "Personal Care"},
		{"P004", "Detergent", 40.00, "Household"},
		{"P005", "Biscuits", 50.00, "Snacks"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, category) VALUES ($1, $2, $3, $4)",
			p.id, p.name, p.price, p.category,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}

	variants := []struct {
		id        string
		productID string
		name      string
		price     float64
	}{
		{"V001", "P001", "Cola 500ml", 40.00},
		{"V002", "P001", "Cola 2L", 95.00},
	}

	for _, v := range variants {
		_, err := pool.Exec(ctx,
			"INSERT INTO product_variants (id, product_id, name, price) VALUES ($1, $2, $3, $4)",
			v.id, v.productID, v.name, v.price,
		)
		if err != nil {
			t.Fatalf("failed to seed variant %s: %v", v.id, err)
		}
	}
}

// SeedSchemes inserts test promotion scheme data into the database.
func SeedSchemes(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	// SCH001: 10% off Cola at 5+. SCH002: flat 150 off orders above 800.
	// SCH003: buy 3 soaps get 1 free. SCH004: retired scheme, never applies.
	_, err := pool.Exec(ctx, `
		INSERT INTO schemes (id, name, type, target_product_id, discount_percentage, condition_quantity)
		VALUES ('SCH001', 'Monsoon Cola Offer', 'percentage', 'P001', 10, 5);

		INSERT INTO schemes (id, name, type, discount_amount, min_order_value)
		VALUES ('SCH002', 'Festival Flat 150', 'flat', 150, 800);

		INSERT INTO schemes (id, name, type, target_product_id, buy_quantity, free_quantity, free_product_name)
		VALUES ('SCH003', 'Buy 3 Get 1 Soap', 'buyXGetYFree', 'P003', 3, 1, 'Soap Bar');

		INSERT INTO schemes (id, name, type, target_product_id, discount_percentage, is_active)
		VALUES ('SCH004', 'Retired Offer', 'percentage', 'P001', 50, FALSE);
	`)
	if err != nil {
		t.Fatalf("failed to seed schemes: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_schemes", "order_items", "orders", "schemes", "product_variants", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
