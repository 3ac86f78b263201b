// Package scheme implements the promotional pricing engine: given an
// immutable cart snapshot and a catalog of promotion rules it computes the
// order subtotal, the discount contributed by every qualifying rule and the
// final payable total. The package is pure - it performs no I/O, holds no
// state between calls and never mutates its inputs.
package scheme

import (
	"strings"
	"time"
)

// RuleType identifies the discount mechanics of a promotion rule.
type RuleType string

// Canonical rule types. Catalog data carries free-form spellings
// (e.g. "percentage_discount"); NormalizeType maps them onto these.
const (
	TypePercentage RuleType = "percentage"
	TypeFlat       RuleType = "flat"
	TypeBuyXGetY   RuleType = "buyXGetYFree"
	TypeBundle     RuleType = "bundle"
	TypeTiered     RuleType = "tiered"
)

// Quantity condition comparators accepted on a rule.
const (
	ConditionGTE = "gte"
	ConditionEQ  = "eq"
	ConditionLTE = "lte"
)

// NormalizeType maps a raw, case-insensitive rule type string onto its
// canonical RuleType. Unrecognised spellings are returned as-is so the
// engine can still apply the percentage fallback for unknown types.
func NormalizeType(raw string) RuleType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "percentage", "percentage_discount", "percent":
		return TypePercentage
	case "flat", "flat_discount", "fixed", "fixed_amount":
		return TypeFlat
	case "buyxgetyfree", "buy_x_get_y_free", "buy_x_get_y", "buyxgety", "bogo":
		return TypeBuyXGetY
	case "bundle", "bundle_discount":
		return TypeBundle
	case "tiered", "tiered_discount":
		return TypeTiered
	default:
		return RuleType(raw)
	}
}

// CartLine is one product entry in the order being priced. Lines are
// immutable inputs; the engine maps discounts back to them by ID.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId,omitempty"`
	VariantID string  `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitRate  float64 `json:"unitRate"`
	Name      string  `json:"name,omitempty"`
}

// Gross returns the line's undiscounted value.
func (l CartLine) Gross() float64 {
	return float64(l.Quantity) * l.UnitRate
}

// PromotionRule is one discount or free-goods offer from the catalog.
//
// A rule with no TargetProductID is order-wide: it is evaluated once against
// the whole cart, never per line. ConditionQuantity <= 0 means the rule has
// no quantity gate (catalog rows store the gate in a nullable column).
type PromotionRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Type is the raw catalog spelling; it is normalised on evaluation.
	Type string `json:"type"`

	TargetProductID string `json:"targetProductId,omitempty"`
	TargetVariantID string `json:"targetVariantId,omitempty"`

	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	DiscountAmount     float64 `json:"discountAmount,omitempty"`

	BuyQuantity     int    `json:"buyQuantity,omitempty"`
	FreeQuantity    int    `json:"freeQuantity,omitempty"`
	FreeProductID   string `json:"freeProductId,omitempty"`
	FreeProductName string `json:"freeProductName,omitempty"`

	ConditionQuantity     int     `json:"conditionQuantity,omitempty"`
	QuantityConditionType string  `json:"quantityConditionType,omitempty"`
	MinOrderValue         float64 `json:"minOrderValue,omitempty"`

	// IsActive is tri-state: nil means the rule was created without an
	// explicit flag and is treated as active.
	IsActive  *bool      `json:"isActive,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// OrderWide reports whether the rule targets the whole cart rather than a
// specific product.
func (r PromotionRule) OrderWide() bool {
	return r.TargetProductID == ""
}

// FreeItem records free goods granted by a buy-X-get-Y rule.
type FreeItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// AppliedScheme is a rule that contributed a non-zero discount to a pricing
// result.
type AppliedScheme struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Type               RuleType   `json:"type"`
	DiscountAmount     float64    `json:"discountAmount"`
	DiscountPercentage float64    `json:"discountPercentage,omitempty"`
	TargetProductID    string     `json:"targetProductId,omitempty"`
	FreeItems          []FreeItem `json:"freeItems,omitempty"`
}

// PricingResult is the consolidated outcome of pricing one cart against the
// catalog. TotalDiscount never exceeds Subtotal and FinalTotal is always
// Subtotal - TotalDiscount.
type PricingResult struct {
	Subtotal       float64            `json:"subtotal"`
	TotalDiscount  float64            `json:"totalDiscount"`
	FinalTotal     float64            `json:"finalTotal"`
	AppliedSchemes []AppliedScheme    `json:"appliedSchemes"`
	LineDiscounts  map[string]float64 `json:"lineDiscounts"`
}
