package scheme

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAppliedSchemes renders applied schemes as newline-delimited invoice
// footer lines, e.g.
//
//	✓ Monsoon Offer (10% off) - Saved ₹50.00 + FREE: 2x Cola 500ml
//
// Presentation only; it carries no pricing logic.
func FormatAppliedSchemes(schemes []AppliedScheme, currency string) string {
	var b strings.Builder
	for i, s := range schemes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("✓ ")
		b.WriteString(s.Name)
		if s.DiscountPercentage > 0 {
			fmt.Fprintf(&b, " (%s%% off)", trimZeros(s.DiscountPercentage))
		}
		fmt.Fprintf(&b, " - Saved %s%.2f", currency, s.DiscountAmount)
		if len(s.FreeItems) > 0 {
			parts := make([]string, len(s.FreeItems))
			for j, item := range s.FreeItems {
				parts[j] = fmt.Sprintf("%dx %s", item.Quantity, item.ProductName)
			}
			b.WriteString(" + FREE: ")
			b.WriteString(strings.Join(parts, ", "))
		}
	}
	return b.String()
}

// trimZeros formats a percentage without trailing zeros (10 not 10.00,
// 12.5 stays 12.5).
func trimZeros(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
