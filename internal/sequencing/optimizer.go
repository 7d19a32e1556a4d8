package sequencing

import "github.com/shopspring/decimal"

// The allocator consumes a funding target against sources in a strict
// priority order, each step capped by min(remaining, source cap, balance):
//
//  1. tax-free pension lump sum (capped by the remaining lifetime allowance)
//  2. pension up to the bracket ceiling (state pension consumes room first;
//     the lump sum does not, since it is not taxable)
//  3. ISA
//  4. LISA
//  5. GIA, realising gains on a proportional-basis estimate
//  6. remaining pension regardless of bracket
//
// Pension steps are skipped entirely before the access age. Balances can
// reach exactly zero but never go negative; an unmet remainder is reported
// as Shortfall, never borrowed.

// Withdraw allocates one year's portfolio draw for a single person.
func Withdraw(p PersonContext, target decimal.Decimal) Allocation {
	var alloc Allocation
	remaining := target

	remaining = takeTaxFreeLumpSum(&p, &alloc, remaining)
	remaining = takeBracketFill(&p, &alloc, remaining)
	remaining = takeISA(&p, &alloc, remaining)
	remaining = takeLISA(&p, &alloc, remaining)
	remaining = takeTaxable(&p, &alloc, remaining)
	remaining = takeOverflowPension(&p, &alloc, remaining)

	alloc.Shortfall = remaining
	return alloc
}

func takeTaxFreeLumpSum(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if !p.CanAccessPension || remaining.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	take := decimal.Min(remaining, decimal.Min(*p.LumpSumRemaining, p.Balances.Pension))
	if take.GreaterThan(decimal.Zero) {
		p.Balances.Pension = p.Balances.Pension.Sub(take)
		*p.LumpSumRemaining = p.LumpSumRemaining.Sub(take)
		alloc.PensionWithdrawal = alloc.PensionWithdrawal.Add(take)
		alloc.TaxFreeLumpSum = alloc.TaxFreeLumpSum.Add(take)
		remaining = remaining.Sub(take)
	}
	return remaining
}

func takeBracketFill(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if !p.CanAccessPension || remaining.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	room := p.BracketCeiling.Sub(p.StatePensionIncome)
	if room.LessThan(decimal.Zero) {
		room = decimal.Zero
	}
	take := decimal.Min(remaining, decimal.Min(room, p.Balances.Pension))
	if take.GreaterThan(decimal.Zero) {
		p.Balances.Pension = p.Balances.Pension.Sub(take)
		alloc.PensionWithdrawal = alloc.PensionWithdrawal.Add(take)
		remaining = remaining.Sub(take)
	}
	return remaining
}

func takeISA(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if remaining.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	take := decimal.Min(remaining, p.Balances.ISA)
	if take.GreaterThan(decimal.Zero) {
		p.Balances.ISA = p.Balances.ISA.Sub(take)
		alloc.ISAWithdrawal = alloc.ISAWithdrawal.Add(take)
		remaining = remaining.Sub(take)
	}
	return remaining
}

func takeLISA(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if remaining.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	take := decimal.Min(remaining, p.Balances.LISA)
	if take.GreaterThan(decimal.Zero) {
		p.Balances.LISA = p.Balances.LISA.Sub(take)
		alloc.LISAWithdrawal = alloc.LISAWithdrawal.Add(take)
		remaining = remaining.Sub(take)
	}
	return remaining
}

func takeTaxable(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if remaining.LessThanOrEqual(decimal.Zero) || p.Balances.Taxable.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	balance := p.Balances.Taxable
	take := decimal.Min(remaining, balance)
	if take.GreaterThan(decimal.Zero) {
		// Proportional-basis estimate: the realised gain is the withdrawn
		// fraction of the unrealised gain, and the basis shrinks by the same
		// fraction as the balance.
		gainRatio := decimal.NewFromInt(1).Sub(p.Balances.TaxableCostBasis.Div(balance))
		if gainRatio.LessThan(decimal.Zero) {
			gainRatio = decimal.Zero
		}
		gain := take.Mul(gainRatio)
		withdrawnFraction := take.Div(balance)
		p.Balances.TaxableCostBasis = p.Balances.TaxableCostBasis.Mul(decimal.NewFromInt(1).Sub(withdrawnFraction))
		p.Balances.Taxable = balance.Sub(take)
		alloc.TaxableWithdrawal = alloc.TaxableWithdrawal.Add(take)
		alloc.CapitalGains = alloc.CapitalGains.Add(gain)
		remaining = remaining.Sub(take)
	}
	return remaining
}

func takeOverflowPension(p *PersonContext, alloc *Allocation, remaining decimal.Decimal) decimal.Decimal {
	if !p.CanAccessPension || remaining.LessThanOrEqual(decimal.Zero) {
		return remaining
	}
	take := decimal.Min(remaining, p.Balances.Pension)
	if take.GreaterThan(decimal.Zero) {
		p.Balances.Pension = p.Balances.Pension.Sub(take)
		alloc.PensionWithdrawal = alloc.PensionWithdrawal.Add(take)
		remaining = remaining.Sub(take)
	}
	return remaining
}
