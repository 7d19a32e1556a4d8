package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ukplan/drawdown/internal/domain"
)

// CSVFormatter writes the year-by-year drawdown table, one section per plan.
type CSVFormatter struct{}

func (f *CSVFormatter) Name() string { return "csv" }

func (f *CSVFormatter) Format(results []*domain.PlanResult) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	header := []string{
		"plan", "phase", "year", "age", "pension", "isa", "lisa", "gia",
		"state_pension", "pension_drawdown", "tax_free_lump_sum",
		"isa_withdrawal", "lisa_withdrawal", "gia_withdrawal",
		"income_tax", "capital_gains_tax", "net_income", "depleted",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, result := range results {
		for _, y := range result.Accumulation.Years {
			row := []string{
				result.Name, "accumulation",
				strconv.Itoa(y.Year), strconv.Itoa(y.Age),
				y.Totals.Pension.StringFixed(2),
				y.Totals.ISA.StringFixed(2),
				y.Totals.LISA.StringFixed(2),
				y.Totals.Taxable.StringFixed(2),
				"", "", "", "", "", "", "", "", "", "",
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write accumulation row: %w", err)
			}
		}
		for _, y := range result.Retirement.Years {
			row := []string{
				result.Name, "retirement",
				strconv.Itoa(y.Year), strconv.Itoa(y.Age),
				y.EndingTotals.Pension.StringFixed(2),
				y.EndingTotals.ISA.StringFixed(2),
				y.EndingTotals.LISA.StringFixed(2),
				y.EndingTotals.Taxable.StringFixed(2),
				y.Income.StatePension.StringFixed(2),
				y.Income.PensionDrawdown.StringFixed(2),
				y.Income.TaxFreeLumpSum.StringFixed(2),
				y.Income.ISA.StringFixed(2),
				y.Income.LISA.StringFixed(2),
				y.Income.Taxable.StringFixed(2),
				y.Tax.IncomeTax.StringFixed(2),
				y.Tax.CapitalGains.StringFixed(2),
				y.NetIncome.StringFixed(2),
				strconv.FormatBool(y.PortfolioDepleted),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write retirement row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return b.Bytes(), nil
}
