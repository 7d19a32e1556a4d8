package sequencing

import (
	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
)

// PersonContext carries one person's mutable drawdown state plus the per-year
// inputs the allocator needs. Balances and LumpSumRemaining are mutated in
// place; everything else is read-only for the year.
//
// LumpSumRemaining is the unused portion of the lifetime tax-free lump sum
// allowance (25% of the pension balance at retirement). It only ever shrinks.
type PersonContext struct {
	Balances           *domain.AccountBalances
	LumpSumRemaining   *decimal.Decimal
	StatePensionIncome decimal.Decimal
	BracketCeiling     decimal.Decimal
	CanAccessPension   bool
}

// Allocation is the outcome of one year's withdrawal for one person.
// PensionWithdrawal includes the tax-free lump sum; the taxable portion is
// PensionWithdrawal minus TaxFreeLumpSum.
type Allocation struct {
	PensionWithdrawal decimal.Decimal
	TaxFreeLumpSum    decimal.Decimal
	ISAWithdrawal     decimal.Decimal
	LISAWithdrawal    decimal.Decimal
	TaxableWithdrawal decimal.Decimal
	CapitalGains      decimal.Decimal
	Shortfall         decimal.Decimal
}

// Total returns the amount actually sourced from the portfolio.
func (a Allocation) Total() decimal.Decimal {
	return a.PensionWithdrawal.Add(a.ISAWithdrawal).Add(a.LISAWithdrawal).Add(a.TaxableWithdrawal)
}

// TaxablePensionIncome returns the pension withdrawal net of the lump sum,
// floored at zero.
func (a Allocation) TaxablePensionIncome() decimal.Decimal {
	taxable := a.PensionWithdrawal.Sub(a.TaxFreeLumpSum)
	if taxable.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return taxable
}
