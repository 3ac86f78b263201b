package scheme

import (
	"sort"
	"strings"
	"time"
)

// Engine evaluates promotion rules against carts. The zero value is ready to
// use: it reads the wall clock and keeps the lenient legacy variant matching.
//
// Engine methods are safe for concurrent use; every call works on an
// immutable snapshot of its arguments and returns a fresh result.
type Engine struct {
	// Now supplies the evaluation time for activation windows. Nil means
	// time.Now. Tests inject a fixed clock here.
	Now func() time.Time

	// StrictVariantMatch, when set, requires a line to carry the matching
	// variant ID before a variant-scoped rule applies to it. The default
	// (lenient) mode lets a line without variant information qualify on the
	// product match alone.
	StrictVariantMatch bool
}

func (e *Engine) now() time.Time {
	if e != nil && e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Price computes the consolidated pricing result for the cart.
//
// When appliedRuleIDs is non-empty only the named rules are considered
// (caller-selected promotions); otherwise every active rule is evaluated.
// Candidate rules are evaluated in rule-ID order so the AppliedSchemes list
// is deterministic regardless of how the catalog source ordered its rows.
func (e *Engine) Price(lines []CartLine, rules []PromotionRule, appliedRuleIDs []string) PricingResult {
	result := PricingResult{LineDiscounts: map[string]float64{}}
	for _, line := range lines {
		result.Subtotal += line.Gross()
	}

	var selected map[string]struct{}
	if len(appliedRuleIDs) > 0 {
		selected = make(map[string]struct{}, len(appliedRuleIDs))
		for _, id := range appliedRuleIDs {
			selected[id] = struct{}{}
		}
	}

	now := e.now()
	candidates := make([]PromotionRule, 0, len(rules))
	for _, rule := range rules {
		if !ruleActive(rule, now) {
			continue
		}
		if selected != nil {
			if _, ok := selected[rule.ID]; !ok {
				continue
			}
		}
		candidates = append(candidates, rule)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})

	for _, rule := range candidates {
		applicable := e.applicableLines(rule, lines)
		if len(applicable) == 0 {
			continue
		}
		out := e.computeDiscount(rule, applicable, result.Subtotal)
		if out.discount <= 0 {
			continue
		}
		result.TotalDiscount += out.discount
		for id, amount := range out.lineDiscounts {
			result.LineDiscounts[id] += amount
		}
		result.AppliedSchemes = append(result.AppliedSchemes, AppliedScheme{
			ID:                 rule.ID,
			Name:               rule.Name,
			Type:               NormalizeType(rule.Type),
			DiscountAmount:     out.discount,
			DiscountPercentage: rule.DiscountPercentage,
			TargetProductID:    rule.TargetProductID,
			FreeItems:          out.freeItems,
		})
	}

	if result.TotalDiscount > result.Subtotal {
		result.TotalDiscount = result.Subtotal
	}
	result.FinalTotal = result.Subtotal - result.TotalDiscount
	return result
}

// ApplicableSchemes returns the active rules that could apply to the cart:
// order-wide rules plus any rule matching at least one line by product
// identity. It does not compute discounts; order-entry screens use it to
// show "offers you qualify for".
func (e *Engine) ApplicableSchemes(lines []CartLine, rules []PromotionRule) []PromotionRule {
	now := e.now()
	applicable := make([]PromotionRule, 0, len(rules))
	for _, rule := range rules {
		if !ruleActive(rule, now) {
			continue
		}
		if rule.OrderWide() {
			applicable = append(applicable, rule)
			continue
		}
		for _, line := range lines {
			if e.ruleApplies(rule, line) {
				applicable = append(applicable, rule)
				break
			}
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].ID < applicable[j].ID
	})
	return applicable
}

// ruleActive reports whether the rule is live at the given instant. The
// start gate compares calendar dates only; the end gate is inclusive through
// 23:59:59.999... of the end date.
func ruleActive(r PromotionRule, now time.Time) bool {
	if r.IsActive != nil && !*r.IsActive {
		return false
	}
	if r.StartDate != nil {
		s := *r.StartDate
		start := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
		if now.Before(start) {
			return false
		}
	}
	if r.EndDate != nil {
		d := *r.EndDate
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
		if now.After(end) {
			return false
		}
	}
	return true
}

// ruleApplies reports whether the rule's scope covers the line. Order-wide
// rules cover every line. Variant scope is lenient unless StrictVariantMatch
// is set: a line lacking variant information qualifies on the product match.
func (e *Engine) ruleApplies(r PromotionRule, line CartLine) bool {
	if r.OrderWide() {
		return true
	}
	if line.ProductID == "" || line.ProductID != r.TargetProductID {
		return false
	}
	if r.TargetVariantID == "" {
		return true
	}
	if line.VariantID == "" {
		return !e.StrictVariantMatch
	}
	return line.VariantID == r.TargetVariantID
}

func (e *Engine) applicableLines(r PromotionRule, lines []CartLine) []CartLine {
	applicable := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		if e.ruleApplies(r, line) {
			applicable = append(applicable, line)
		}
	}
	return applicable
}

// meetsQuantityCondition evaluates the rule's quantity gate against qty.
// A missing gate (ConditionQuantity <= 0) always passes; an unrecognised
// comparator falls back to gte semantics.
func meetsQuantityCondition(r PromotionRule, qty int) bool {
	if r.ConditionQuantity <= 0 {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(r.QuantityConditionType)) {
	case ConditionEQ:
		return qty == r.ConditionQuantity
	case ConditionLTE, "max":
		return qty <= r.ConditionQuantity
	case ConditionGTE, "min":
		return qty >= r.ConditionQuantity
	default:
		return qty >= r.ConditionQuantity
	}
}

// meetsOrderValueCondition evaluates the cart-level minimum spend gate.
func meetsOrderValueCondition(r PromotionRule, subtotal float64) bool {
	return r.MinOrderValue <= 0 || subtotal >= r.MinOrderValue
}

// outcome is the benefit one rule yields for one cart.
type outcome struct {
	discount      float64
	lineDiscounts map[string]float64
	freeItems     []FreeItem
}

// computeDiscount dispatches on the (normalised) rule type and returns the
// monetary or free-goods benefit. A zero discount is a normal outcome, not
// an error: it means no line qualified.
func (e *Engine) computeDiscount(r PromotionRule, applicable []CartLine, subtotal float64) outcome {
	out := outcome{lineDiscounts: map[string]float64{}}

	switch NormalizeType(r.Type) {
	case TypePercentage:
		e.percentageDiscount(r, applicable, subtotal, r.DiscountPercentage, &out)

	case TypeFlat:
		if r.OrderWide() {
			if !meetsOrderValueCondition(r, subtotal) {
				return out
			}
			out.discount = min(r.DiscountAmount, subtotal)
			return out
		}
		for _, line := range applicable {
			if !meetsQuantityCondition(r, line.Quantity) {
				continue
			}
			d := min(r.DiscountAmount, line.Gross())
			out.lineDiscounts[line.ID] += d
			out.discount += d
		}

	case TypeBuyXGetY:
		if r.BuyQuantity <= 0 || r.FreeQuantity <= 0 {
			return out
		}
		for _, line := range applicable {
			if line.Quantity < r.BuyQuantity {
				continue
			}
			sets := line.Quantity / r.BuyQuantity
			freeUnits := sets * r.FreeQuantity
			value := float64(freeUnits) * line.UnitRate
			out.discount += value
			out.lineDiscounts[line.ID] += value
			out.freeItems = append(out.freeItems, FreeItem{
				ProductName: freeItemName(r, line),
				Quantity:    freeUnits,
			})
		}

	case TypeBundle:
		// All-or-nothing: the gate is evaluated against the combined
		// quantity across every applicable line.
		var combined int
		var gross float64
		for _, line := range applicable {
			combined += line.Quantity
			gross += line.Gross()
		}
		if !meetsQuantityCondition(r, combined) {
			return out
		}
		out.discount = gross * r.DiscountPercentage / 100
		for _, line := range applicable {
			out.lineDiscounts[line.ID] += line.Gross() * r.DiscountPercentage / 100
		}

	case TypeTiered:
		// Tiers are expressed through the quantity gate, so each line is
		// checked independently.
		for _, line := range applicable {
			if !meetsQuantityCondition(r, line.Quantity) {
				continue
			}
			d := line.Gross() * r.DiscountPercentage / 100
			out.lineDiscounts[line.ID] += d
			out.discount += d
		}

	default:
		// Unknown type: percentage-style fallback when a percentage is
		// present, otherwise the rule contributes nothing.
		if r.DiscountPercentage > 0 {
			e.percentageDiscount(r, applicable, subtotal, r.DiscountPercentage, &out)
		}
	}

	return out
}

// percentageDiscount applies percentage mechanics: order-wide rules discount
// the subtotal behind the minimum-spend gate; product-scoped rules discount
// each qualifying line.
func (e *Engine) percentageDiscount(r PromotionRule, applicable []CartLine, subtotal float64, pct float64, out *outcome) {
	if pct <= 0 {
		return
	}
	if r.OrderWide() {
		if !meetsOrderValueCondition(r, subtotal) {
			return
		}
		out.discount = subtotal * pct / 100
		return
	}
	for _, line := range applicable {
		if !meetsQuantityCondition(r, line.Quantity) {
			continue
		}
		d := line.Gross() * pct / 100
		out.lineDiscounts[line.ID] += d
		out.discount += d
	}
}

func freeItemName(r PromotionRule, line CartLine) string {
	if r.FreeProductName != "" {
		return r.FreeProductName
	}
	if line.Name != "" {
		return line.Name
	}
	return "Free Item"
}
