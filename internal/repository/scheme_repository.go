package repository

import (
	"context"
	"fmt"
	"time"

	"field-kart/internal/scheme"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schemeRepository implements the SchemeRepository interface using PostgreSQL.
type schemeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSchemeRepository creates a new PostgreSQL-backed scheme repository.
func NewSchemeRepository(pool *pgxpool.Pool, logger zerolog.Logger) SchemeRepository {
	return &schemeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "scheme").Logger(),
	}
}

const schemeColumns = `
	id, name, description, type,
	target_product_id, target_variant_id,
	discount_percentage, discount_amount,
	buy_quantity, free_quantity, free_product_id, free_product_name,
	condition_quantity, quantity_condition_type, min_order_value,
	is_active, start_date, end_date
`

// ListSchemes retrieves the full promotion catalog. Rows are mapped onto
// engine rules with nullable columns translated into the engine's "unset"
// encodings; activation filtering stays in the engine so quotes and orders
// share one definition of "active".
func (r *schemeRepository) ListSchemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	query := `SELECT ` + schemeColumns + ` FROM schemes ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query schemes")
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows, r.logger)
}

// GetByIDs retrieves specific schemes by their IDs.
func (r *schemeRepository) GetByIDs(ctx context.Context, ids []string) ([]scheme.PromotionRule, error) {
	if len(ids) == 0 {
		return []scheme.PromotionRule{}, nil
	}

	query := `SELECT ` + schemeColumns + ` FROM schemes WHERE id = ANY($1) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query schemes by IDs")
		return nil, fmt.Errorf("failed to query schemes by IDs: %w", err)
	}
	defer rows.Close()

	return scanSchemes(rows, r.logger)
}

func scanSchemes(rows pgx.Rows, logger zerolog.Logger) ([]scheme.PromotionRule, error) {
	var rules []scheme.PromotionRule
	for rows.Next() {
		rule, err := scanScheme(rows)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan scheme row")
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating scheme rows")
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	return rules, nil
}

func scanScheme(row pgx.Row) (scheme.PromotionRule, error) {
	var (
		rule               scheme.PromotionRule
		description        *string
		targetProductID    *string
		targetVariantID    *string
		discountPct        *float64
		discountAmount     *float64
		buyQty, freeQty    *int
		freeProductID      *string
		freeProductName    *string
		conditionQty       *int
		conditionType      *string
		minOrderValue      *float64
		startDate, endDate *time.Time
	)

	err := row.Scan(
		&rule.ID, &rule.Name, &description, &rule.Type,
		&targetProductID, &targetVariantID,
		&discountPct, &discountAmount,
		&buyQty, &freeQty, &freeProductID, &freeProductName,
		&conditionQty, &conditionType, &minOrderValue,
		&rule.IsActive, &startDate, &endDate,
	)
	if err != nil {
		return scheme.PromotionRule{}, err
	}

	rule.Description = deref(description)
	rule.TargetProductID = deref(targetProductID)
	rule.TargetVariantID = deref(targetVariantID)
	rule.DiscountPercentage = derefFloat(discountPct)
	rule.DiscountAmount = derefFloat(discountAmount)
	rule.BuyQuantity = derefInt(buyQty)
	rule.FreeQuantity = derefInt(freeQty)
	rule.FreeProductID = deref(freeProductID)
	rule.FreeProductName = deref(freeProductName)
	rule.ConditionQuantity = derefInt(conditionQty)
	rule.QuantityConditionType = deref(conditionType)
	rule.MinOrderValue = derefFloat(minOrderValue)
	rule.StartDate = startDate
	rule.EndDate = endDate

	return rule, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
