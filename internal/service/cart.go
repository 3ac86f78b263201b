package service

import (
	"context"
	"fmt"

	"field-kart/internal/model"
	"field-kart/internal/repository"
	"field-kart/internal/scheme"
)

// resolveCartLines turns request items into engine cart lines, resolving the
// unit rate from the product catalogue. A line that names a variant takes the
// variant rate; otherwise the base product rate applies.
func resolveCartLines(ctx context.Context, productRepo repository.ProductRepository, items []model.OrderItemRequest) ([]scheme.CartLine, []model.Product, error) {
	productIDs := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	var variantIDs []string
	for _, item := range items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			productIDs = append(productIDs, item.ProductID)
		}
		if item.VariantID != nil && *item.VariantID != "" {
			variantIDs = append(variantIDs, *item.VariantID)
		}
	}

	if err := productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		return nil, nil, err
	}

	products, err := productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	productsByID := make(map[string]model.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	variantsByID := make(map[string]model.ProductVariant)
	if len(variantIDs) > 0 {
		variants, err := productRepo.GetVariantsByIDs(ctx, variantIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to retrieve product variants: %w", err)
		}
		for _, v := range variants {
			variantsByID[v.ID] = v
		}
	}

	lines := make([]scheme.CartLine, 0, len(items))
	for i, item := range items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, nil, model.ErrProductNotFound
		}

		line := scheme.CartLine{
			ID:        fmt.Sprintf("line-%d", i+1),
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitRate:  product.Price,
			Name:      product.Name,
		}

		if item.VariantID != nil && *item.VariantID != "" {
			variant, ok := variantsByID[*item.VariantID]
			if !ok || variant.ProductID != product.ID {
				return nil, nil, model.ErrVariantNotFound
			}
			line.VariantID = variant.ID
			line.UnitRate = variant.Price
		}

		lines = append(lines, line)
	}

	return lines, products, nil
}

// loadRules fetches the promotion catalog and, when the caller restricted
// pricing to selected scheme IDs, verifies each one exists.
func loadRules(ctx context.Context, source catalogSource, schemeIDs []string) ([]scheme.PromotionRule, error) {
	rules, err := source.Schemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion catalog: %w", err)
	}

	if len(schemeIDs) > 0 {
		known := make(map[string]struct{}, len(rules))
		for _, r := range rules {
			known[r.ID] = struct{}{}
		}
		for _, id := range schemeIDs {
			if _, ok := known[id]; !ok {
				return nil, model.ErrSchemeNotFound
			}
		}
	}

	return rules, nil
}

// catalogSource is the promotion catalog surface the services consume.
// Satisfied by any catalog.Source.
type catalogSource interface {
	Schemes(ctx context.Context) ([]scheme.PromotionRule, error)
}
