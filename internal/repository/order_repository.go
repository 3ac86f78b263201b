package repository

import (
	"context"
	"fmt"

	"field-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, retailer_id, subtotal, total_discount, final_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.RetailerID,
		order.Subtotal, order.TotalDiscount, order.FinalTotal,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, unit_rate, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.VariantID, item.Quantity, item.UnitRate, item.Discount)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// CreateOrderSchemes inserts the applied-scheme rows within the provided transaction.
func (r *orderRepository) CreateOrderSchemes(ctx context.Context, tx pgx.Tx, schemes []model.OrderScheme) error {
	if len(schemes) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_schemes (id, order_id, scheme_id, scheme_name, scheme_type, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, s := range schemes {
		batch.Queue(query, s.ID, s.OrderID, s.SchemeID, s.SchemeName, s.SchemeType, s.DiscountAmount)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(schemes); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", schemes[i].OrderID.String()).
				Str("scheme_id", schemes[i].SchemeID).
				Msg("failed to create order scheme")
			return fmt.Errorf("failed to create order scheme: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(schemes)).
		Msg("order schemes created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items and applied schemes.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderScheme, error) {
	orderQuery := `
		SELECT id, retailer_id, subtotal, total_discount, final_total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.RetailerID,
		&order.Subtotal,
		&order.TotalDiscount,
		&order.FinalTotal,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, variant_id, quantity, unit_rate, discount
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity, &item.UnitRate, &item.Discount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	schemesQuery := `
		SELECT id, order_id, scheme_id, scheme_name, scheme_type, discount_amount
		FROM order_schemes
		WHERE order_id = $1
		ORDER BY scheme_id
	`

	schemeRows, err := r.pool.Query(ctx, schemesQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order schemes")
		return nil, nil, nil, fmt.Errorf("failed to query order schemes: %w", err)
	}
	defer schemeRows.Close()

	var schemes []model.OrderScheme
	for schemeRows.Next() {
		var s model.OrderScheme
		err := schemeRows.Scan(&s.ID, &s.OrderID, &s.SchemeID, &s.SchemeName, &s.SchemeType, &s.DiscountAmount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order scheme row")
			return nil, nil, nil, fmt.Errorf("failed to scan order scheme: %w", err)
		}
		schemes = append(schemes, s)
	}

	if err := schemeRows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order scheme rows")
		return nil, nil, nil, fmt.Errorf("error iterating order schemes: %w", err)
	}

	return &order, items, schemes, nil
}
