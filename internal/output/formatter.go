package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
)

// Formatter renders projection results into one output format. Formatters
// only read the result objects; they never re-run the simulators.
type Formatter interface {
	Name() string
	Format(results []*domain.PlanResult) ([]byte, error)
}

// GetFormatterByName returns the formatter for a format name, or nil if the
// name is unknown.
func GetFormatterByName(name string) Formatter {
	switch strings.ToLower(name) {
	case "console":
		return &ConsoleFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "json":
		return &JSONFormatter{}
	case "pdf":
		return &PDFFormatter{}
	default:
		return nil
	}
}

// FormatCurrency formats a GBP amount with thousands separators, e.g.
// £1,234,567.89.
func FormatCurrency(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s£%s.%s", sign, b.String(), frac)
}

// FormatPercentage formats a fractional rate as a percentage, e.g. 0.04 ->
// "4.00%".
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
