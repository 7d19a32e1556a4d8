package domain

import (
	"github.com/shopspring/decimal"
)

// CategoryTotals holds balances aggregated by tax treatment.
type CategoryTotals struct {
	Pension decimal.Decimal `json:"pension"`
	ISA     decimal.Decimal `json:"isa"`
	LISA    decimal.Decimal `json:"lisa"`
	Taxable decimal.Decimal `json:"taxable"`
}

// Total returns the sum across all categories.
func (ct CategoryTotals) Total() decimal.Decimal {
	return ct.Pension.Add(ct.ISA).Add(ct.LISA).Add(ct.Taxable)
}

// AccumulationYear is a frozen snapshot of one pre-retirement year. Built
// once from the mutable working balances, never mutated afterwards.
type AccumulationYear struct {
	Age             int                        `json:"age"` // person1's age that year
	Year            int                        `json:"year"`
	AccountBalances map[string]decimal.Decimal `json:"accountBalances"` // account ID -> end-of-year balance
	Totals          CategoryTotals             `json:"totals"`
	Contributions   decimal.Decimal            `json:"contributions"` // this year's contributions incl. employer and LISA bonus
	Returns         decimal.Decimal            `json:"returns"`       // this year's investment growth
}

// AccumulationResult is the full pre-retirement projection.
type AccumulationResult struct {
	Years              []AccumulationYear `json:"years"`
	FinalBalance       decimal.Decimal    `json:"finalBalance"`
	FinalTotals        CategoryTotals     `json:"finalTotals"`
	TotalContributions decimal.Decimal    `json:"totalContributions"`
	TotalReturns       decimal.Decimal    `json:"totalReturns"`
}

// IncomeBreakdown records where one retirement year's money came from.
type IncomeBreakdown struct {
	StatePension    decimal.Decimal `json:"statePension"`
	PensionDrawdown decimal.Decimal `json:"pensionDrawdown"` // all pension withdrawals incl. the tax-free lump sum
	TaxFreeLumpSum  decimal.Decimal `json:"taxFreeLumpSum"`
	ISA             decimal.Decimal `json:"isa"`
	LISA            decimal.Decimal `json:"lisa"`
	Taxable         decimal.Decimal `json:"taxable"`
}

// Total returns gross income across all sources.
func (ib IncomeBreakdown) Total() decimal.Decimal {
	return ib.StatePension.Add(ib.PensionDrawdown).Add(ib.ISA).Add(ib.LISA).Add(ib.Taxable)
}

// TaxBreakdown records one retirement year's tax liability.
type TaxBreakdown struct {
	IncomeTax    decimal.Decimal `json:"incomeTax"`
	CapitalGains decimal.Decimal `json:"capitalGains"`
}

// Total returns the combined tax charge.
func (tb TaxBreakdown) Total() decimal.Decimal {
	return tb.IncomeTax.Add(tb.CapitalGains)
}

// WithdrawalYear is a frozen snapshot of one drawdown year.
type WithdrawalYear struct {
	Age               int             `json:"age"` // person1's age that year
	Year              int             `json:"year"`
	TargetIncome      decimal.Decimal `json:"targetIncome"`
	Income            IncomeBreakdown `json:"income"`
	Tax               TaxBreakdown    `json:"tax"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	Shortfall         decimal.Decimal `json:"shortfall"` // unmet portion of the portfolio draw
	EndingTotals      CategoryTotals  `json:"endingTotals"`
	PortfolioDepleted bool            `json:"portfolioDepleted"`
}

// RetirementResult is the full drawdown projection.
type RetirementResult struct {
	Years                 []WithdrawalYear `json:"years"`
	StartingBalance       decimal.Decimal  `json:"startingBalance"`
	FinalBalance          decimal.Decimal  `json:"finalBalance"`
	TotalWithdrawn        decimal.Decimal  `json:"totalWithdrawn"`
	TotalTaxPaid          decimal.Decimal  `json:"totalTaxPaid"`
	SustainableWithdrawal decimal.Decimal  `json:"sustainableWithdrawal"` // 4% of the starting balance, a static reference figure
	PortfolioDepletionAge *int             `json:"portfolioDepletionAge,omitempty"`
}

// Depleted reports whether the portfolio ran out during the projection.
func (rr *RetirementResult) Depleted() bool {
	return rr.PortfolioDepletionAge != nil
}

// GrossIncome returns total gross income across the drawdown.
func (rr *RetirementResult) GrossIncome() decimal.Decimal {
	total := decimal.Zero
	for _, y := range rr.Years {
		total = total.Add(y.Income.Total())
	}
	return total
}

// EffectiveTaxRate returns lifetime tax over lifetime gross income. Display
// figure; a zero-income projection yields a 0% rate rather than NaN.
func (rr *RetirementResult) EffectiveTaxRate() decimal.Decimal {
	gross := rr.GrossIncome()
	if gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return rr.TotalTaxPaid.Div(gross)
}

// AverageAnnualTax returns the mean tax charge per projected year.
func (rr *RetirementResult) AverageAnnualTax() decimal.Decimal {
	if len(rr.Years) == 0 {
		return decimal.Zero
	}
	return rr.TotalTaxPaid.Div(decimal.NewFromInt(int64(len(rr.Years))))
}

// PlanResult bundles both projection phases for output formatting.
type PlanResult struct {
	Name         string              `json:"name"`
	Accumulation *AccumulationResult `json:"accumulation"`
	Retirement   *RetirementResult   `json:"retirement"`
}
