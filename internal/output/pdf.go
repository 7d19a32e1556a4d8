package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/ukplan/drawdown/internal/domain"
)

// pdfText converts UTF-8 text to PDF-safe encoding. The £ sign in UTF-8 is
// 0xC2 0xA3, but the PDF standard fonts expect Latin-1 (just 0xA3).
func pdfText(s string) string {
	return strings.ReplaceAll(s, "£", "\xa3")
}

// PDFFormatter renders a printable summary report.
type PDFFormatter struct{}

func (f *PDFFormatter) Name() string { return "pdf" }

func (f *PDFFormatter) Format(results []*domain.PlanResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Pension Drawdown Projection", false)

	for _, result := range results {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, pdfText(result.Name), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		f.writeSection(pdf, "Accumulation", [][2]string{
			{"Years simulated", fmt.Sprintf("%d", len(result.Accumulation.Years))},
			{"Total contributions", FormatCurrency(result.Accumulation.TotalContributions)},
			{"Total growth", FormatCurrency(result.Accumulation.TotalReturns)},
			{"Balance at retirement", FormatCurrency(result.Accumulation.FinalBalance)},
		})

		ret := result.Retirement
		depletion := "lasts the full horizon"
		if ret.Depleted() {
			depletion = fmt.Sprintf("depletes at age %d", *ret.PortfolioDepletionAge)
		}
		f.writeSection(pdf, "Retirement", [][2]string{
			{"Years simulated", fmt.Sprintf("%d", len(ret.Years))},
			{"Total withdrawn", FormatCurrency(ret.TotalWithdrawn)},
			{"Total tax paid", FormatCurrency(ret.TotalTaxPaid)},
			{"Effective tax rate", FormatPercentage(ret.EffectiveTaxRate())},
			{"Final balance", FormatCurrency(ret.FinalBalance)},
			{"Portfolio", depletion},
		})

		f.writeYearTable(pdf, ret)
	}

	var b bytes.Buffer
	if err := pdf.Output(&b); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return b.Bytes(), nil
}

func (f *PDFFormatter) writeSection(pdf *fpdf.Fpdf, title string, rows [][2]string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(60, 6, pdfText(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, pdfText(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (f *PDFFormatter) writeYearTable(pdf *fpdf.Fpdf, ret *domain.RetirementResult) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Drawdown by year", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	widths := []float64{12, 30, 30, 30, 30, 30}
	headers := []string{"Age", "Target", "Gross income", "Tax", "Net income", "Balance"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, y := range ret.Years {
		cells := []string{
			fmt.Sprintf("%d", y.Age),
			FormatCurrency(y.TargetIncome),
			FormatCurrency(y.Income.Total()),
			FormatCurrency(y.Tax.Total()),
			FormatCurrency(y.NetIncome),
			FormatCurrency(y.EndingTotals.Total()),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 5, pdfText(c), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
