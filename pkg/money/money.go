package money

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts travel over the wire as decimal strings, never floats. This package
// is the single parsing boundary between those strings and arithmetic:
// malformed input fails loudly here instead of leaking zero values into totals.

// Parse converts a decimal-string amount into a decimal.Decimal.
func Parse(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return d, nil
}

// ParseYen parses a decimal-string amount and rounds it to whole yen.
// Fractional currency units are not modeled.
func ParseYen(value string) (int64, error) {
	d, err := Parse(value)
	if err != nil {
		return 0, err
	}
	return d.Round(0).IntPart(), nil
}

// RoundYen rounds a decimal amount to whole yen, half away from zero.
func RoundYen(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ParseQuantity converts a quantity that may arrive as a string, float, or
// integer from form input into a base-10 integer.
func ParseQuantity(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("quantity %v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("quantity is empty")
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("invalid quantity %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported quantity type %T", value)
	}
}

// FormatYen renders a whole-yen amount as the decimal string the API emits.
func FormatYen(amount int64) string {
	return strconv.FormatInt(amount, 10)
}
