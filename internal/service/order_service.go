package service

import (
	"context"
	"fmt"
	"time"

	"field-kart/internal/model"
	"field-kart/internal/repository"
	"field-kart/internal/scheme"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	catalog     catalogSource
	engine      *scheme.Engine
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	catalog catalogSource,
	engine *scheme.Engine,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		catalog:     catalog,
		engine:      engine,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder prices the requested cart and persists the order atomically.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is nil")
	}
	if err := validateItems(req.Items); err != nil {
		s.logger.Warn().Err(err).Msg("invalid order request")
		return nil, err
	}

	lines, products, err := resolveCartLines(ctx, s.productRepo, req.Items)
	if err != nil {
		s.logger.Warn().Err(err).Int("item_count", len(req.Items)).Msg("failed to resolve cart lines")
		return nil, err
	}

	rules, err := loadRules(ctx, s.catalog, req.SchemeIDs)
	if err != nil {
		s.logger.Warn().Err(err).Strs("scheme_ids", req.SchemeIDs).Msg("failed to load promotion rules")
		return nil, err
	}

	pricing := s.engine.Price(lines, rules, req.SchemeIDs)

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		RetailerID:    req.RetailerID,
		Subtotal:      pricing.Subtotal,
		TotalDiscount: pricing.TotalDiscount,
		FinalTotal:    pricing.FinalTotal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitRate:  line.UnitRate,
			Discount:  pricing.LineDiscounts[line.ID],
		}
		if line.VariantID != "" {
			variantID := line.VariantID
			orderItems[i].VariantID = &variantID
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	orderSchemes := make([]model.OrderScheme, len(pricing.AppliedSchemes))
	for i, applied := range pricing.AppliedSchemes {
		orderSchemes[i] = model.OrderScheme{
			ID:             uuid.New(),
			OrderID:        order.ID,
			SchemeID:       applied.ID,
			SchemeName:     applied.Name,
			SchemeType:     string(applied.Type),
			DiscountAmount: applied.DiscountAmount,
		}
	}

	if err = s.orderRepo.CreateOrderSchemes(ctx, tx, orderSchemes); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("scheme_count", len(orderSchemes)).
			Msg("failed to create order schemes")
		return nil, fmt.Errorf("failed to create order schemes: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Float64("final_total", order.FinalTotal).
		Int("applied_schemes", len(orderSchemes)).
		Msg("order created successfully")

	return &model.OrderResponse{
		ID:             order.ID,
		RetailerID:     order.RetailerID,
		Items:          orderItems,
		Subtotal:       order.Subtotal,
		TotalDiscount:  order.TotalDiscount,
		FinalTotal:     order.FinalTotal,
		AppliedSchemes: orderSchemes,
		Products:       products,
	}, nil
}

// GetByID retrieves an order by its ID with all items, applied schemes and
// product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, orderSchemes, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return &model.OrderResponse{
		ID:             order.ID,
		RetailerID:     order.RetailerID,
		Items:          items,
		Subtotal:       order.Subtotal,
		TotalDiscount:  order.TotalDiscount,
		FinalTotal:     order.FinalTotal,
		AppliedSchemes: orderSchemes,
		Products:       products,
	}, nil
}
