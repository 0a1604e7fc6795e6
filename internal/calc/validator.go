package calc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calcerr"
)

// ValidateNumber parses a raw operand into a decimal, enforcing the maximum
// input magnitude. Surrounding whitespace is trimmed before parsing.
func ValidateNumber(raw string, maxInput decimal.Decimal) (decimal.Decimal, error) {
	num, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, calcerr.Validationf("Invalid number format: %v", raw)
	}
	if num.Abs().GreaterThan(maxInput) {
		return decimal.Decimal{}, calcerr.Validationf("Value exceeds allowed maximum: %s", maxLabel(maxInput))
	}
	return num, nil
}

// maxLabel renders the configured maximum compactly; the default bound has a
// 999-digit plain form.
func maxLabel(d decimal.Decimal) string {
	if d.Exponent() > 6 {
		return fmt.Sprintf("%se%d", d.Coefficient().String(), d.Exponent())
	}
	return d.String()
}
