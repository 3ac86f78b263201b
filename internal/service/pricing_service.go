package service

import (
	"context"

	"field-kart/internal/model"
	"field-kart/internal/repository"
	"field-kart/internal/scheme"

	"github.com/rs/zerolog"
)

// pricingService implements PricingService.
type pricingService struct {
	productRepo repository.ProductRepository
	catalog     catalogSource
	engine      *scheme.Engine
	currency    string
	logger      zerolog.Logger
}

// NewPricingService creates a new pricing service.
func NewPricingService(
	productRepo repository.ProductRepository,
	catalog catalogSource,
	engine *scheme.Engine,
	currency string,
	logger zerolog.Logger,
) PricingService {
	return &pricingService{
		productRepo: productRepo,
		catalog:     catalog,
		engine:      engine,
		currency:    currency,
		logger:      logger.With().Str("service", "pricing").Logger(),
	}
}

// Quote runs the pricing engine over the requested cart.
func (s *pricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	lines, _, err := resolveCartLines(ctx, s.productRepo, req.Items)
	if err != nil {
		s.logger.Warn().Err(err).Int("item_count", len(req.Items)).Msg("failed to resolve cart lines")
		return nil, err
	}

	rules, err := loadRules(ctx, s.catalog, req.SchemeIDs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load promotion rules")
		return nil, err
	}

	result := s.engine.Price(lines, rules, req.SchemeIDs)

	s.logger.Debug().
		Float64("subtotal", result.Subtotal).
		Float64("total_discount", result.TotalDiscount).
		Int("applied_schemes", len(result.AppliedSchemes)).
		Msg("cart quoted")

	return &model.QuoteResponse{
		Pricing: result,
		Summary: scheme.FormatAppliedSchemes(result.AppliedSchemes, s.currency),
	}, nil
}

// ApplicableSchemes returns the active promotions matching the requested cart.
func (s *pricingService) ApplicableSchemes(ctx context.Context, req *model.QuoteRequest) ([]scheme.PromotionRule, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	lines, _, err := resolveCartLines(ctx, s.productRepo, req.Items)
	if err != nil {
		s.logger.Warn().Err(err).Int("item_count", len(req.Items)).Msg("failed to resolve cart lines")
		return nil, err
	}

	rules, err := loadRules(ctx, s.catalog, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load promotion rules")
		return nil, err
	}

	return s.engine.ApplicableSchemes(lines, rules), nil
}

// validateItems enforces the cart-level invariants shared by quote and order
// requests.
func validateItems(items []model.OrderItemRequest) error {
	if len(items) == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "cart must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeMissingField, "product ID is required on every item")
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}
	return nil
}
