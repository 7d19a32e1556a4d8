package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ukplan/drawdown/internal/domain"
)

// ConsoleFormatter renders a plain-text report for terminal output.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Name() string { return "console" }

func (f *ConsoleFormatter) Format(results []*domain.PlanResult) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintln(&b, strings.Repeat("=", 78))
	fmt.Fprintln(&b, "PENSION DRAWDOWN PROJECTION")
	fmt.Fprintln(&b, strings.Repeat("=", 78))
	fmt.Fprintln(&b)

	for i, result := range results {
		fmt.Fprintf(&b, "PLAN %d: %s\n", i+1, result.Name)
		fmt.Fprintln(&b, strings.Repeat("-", 50))
		writeAccumulationSummary(&b, result.Accumulation)
		writeRetirementSummary(&b, result.Retirement)
		fmt.Fprintln(&b)
	}

	return b.Bytes(), nil
}

func writeAccumulationSummary(b *bytes.Buffer, accum *domain.AccumulationResult) {
	fmt.Fprintln(b, "ACCUMULATION")
	fmt.Fprintf(b, "  Years simulated:      %d\n", len(accum.Years))
	fmt.Fprintf(b, "  Total contributions:  %s\n", FormatCurrency(accum.TotalContributions))
	fmt.Fprintf(b, "  Total growth:         %s\n", FormatCurrency(accum.TotalReturns))
	fmt.Fprintf(b, "  Balance at retirement: %s\n", FormatCurrency(accum.FinalBalance))
	fmt.Fprintf(b, "    Pension %s | ISA %s | LISA %s | GIA %s\n",
		FormatCurrency(accum.FinalTotals.Pension),
		FormatCurrency(accum.FinalTotals.ISA),
		FormatCurrency(accum.FinalTotals.LISA),
		FormatCurrency(accum.FinalTotals.Taxable))
}

func writeRetirementSummary(b *bytes.Buffer, ret *domain.RetirementResult) {
	fmt.Fprintln(b, "RETIREMENT")
	fmt.Fprintf(b, "  Years simulated:      %d\n", len(ret.Years))
	fmt.Fprintf(b, "  Total withdrawn:      %s\n", FormatCurrency(ret.TotalWithdrawn))
	fmt.Fprintf(b, "  Total tax paid:       %s\n", FormatCurrency(ret.TotalTaxPaid))
	fmt.Fprintf(b, "  Effective tax rate:   %s\n", FormatPercentage(ret.EffectiveTaxRate()))
	fmt.Fprintf(b, "  Average annual tax:   %s\n", FormatCurrency(ret.AverageAnnualTax()))
	fmt.Fprintf(b, "  Sustainable (4%%):     %s/yr\n", FormatCurrency(ret.SustainableWithdrawal))
	fmt.Fprintf(b, "  Final balance:        %s\n", FormatCurrency(ret.FinalBalance))
	if ret.Depleted() {
		fmt.Fprintf(b, "  ** Portfolio depletes at age %d **\n", *ret.PortfolioDepletionAge)
	} else {
		fmt.Fprintln(b, "  Portfolio lasts the full horizon")
	}

	if len(ret.Years) == 0 {
		return
	}
	first := ret.Years[0]
	fmt.Fprintf(b, "  First year (age %d): target %s, net income %s, tax %s\n",
		first.Age, FormatCurrency(first.TargetIncome), FormatCurrency(first.NetIncome), FormatCurrency(first.Tax.Total()))
}
