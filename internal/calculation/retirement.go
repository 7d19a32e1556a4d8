package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
	"github.com/ukplan/drawdown/internal/sequencing"
)

// Tax-free cash is 25% of the pension balance at retirement, a lifetime
// allowance consumed across however many years it takes.
var lumpSumFraction = decimal.NewFromFloat(0.25)

// The sustainable-withdrawal reference figure is always 4% of the starting
// portfolio, independent of the configured safe withdrawal rate.
var sustainableRate = decimal.NewFromFloat(0.04)

// The GIA cost basis is seeded as a flat 50% of the bucket. The accumulation
// phase does not track lots, so this is an estimate carried into drawdown.
var seedBasisFraction = decimal.NewFromFloat(0.5)

// ProjectRetirement simulates drawdown year by year from retirement to end of
// life, allocating withdrawals per the sequencing rules and taxing the result.
// Dispatches on household mode; single and couple share the per-year steps.
func (ce *CalculationEngine) ProjectRetirement(accounts []domain.Account, household *domain.HouseholdProfile, assumptions *domain.Assumptions, accum *domain.AccumulationResult) *domain.RetirementResult {
	if household.IsCouple() {
		return ce.projectCoupleRetirement(accounts, household, assumptions, accum)
	}
	return ce.projectSingleRetirement(accounts, household, assumptions, accum)
}

func (ce *CalculationEngine) projectSingleRetirement(accounts []domain.Account, household *domain.HouseholdProfile, assumptions *domain.Assumptions, accum *domain.AccumulationResult) *domain.RetirementResult {
	p := &household.Person1
	j := JurisdictionFor(p)
	one := decimal.NewFromInt(1)
	startYear := assumptions.ResolvedStartYear()

	bal := seedBalances(accounts, finalAccountBalances(accounts, accum), nil)
	lumpSumRemaining := bal.Pension.Mul(lumpSumFraction)

	result := &domain.RetirementResult{StartingBalance: bal.Total()}
	result.SustainableWithdrawal = result.StartingBalance.Mul(sustainableRate)
	baseTarget := baseDrawTarget(assumptions, result.StartingBalance)

	for age := p.RetirementAge; age <= p.LifeExpectancy; age++ {
		t := age - p.CurrentAge

		// Income and state pension inflate from today; tax bands have their
		// own factor so the two anchors are never conflated.
		inflationFactor := one.Add(assumptions.InflationRate).Pow(decimal.NewFromInt(int64(t)))
		bandFactor := one
		if assumptions.InflateTaxBands {
			bandFactor = inflationFactor
		}

		target := baseTarget.Mul(inflationFactor)
		statePension := decimal.Zero
		if age >= p.StatePensionAge {
			statePension = household.StatePension.Mul(inflationFactor)
		}
		draw := target.Sub(statePension)
		if draw.LessThan(decimal.Zero) {
			draw = decimal.Zero
		}

		alloc := sequencing.Withdraw(sequencing.PersonContext{
			Balances:           bal,
			LumpSumRemaining:   &lumpSumRemaining,
			StatePensionIncome: statePension,
			BracketCeiling:     ce.TaxCalc.BracketCeiling(p.BracketTarget, j, bandFactor),
			CanAccessPension:   age >= p.PensionAccessAge,
		}, draw)

		// Returns are credited to whatever survived the withdrawal, the
		// opposite order from the accumulation phase.
		growBalances(bal, assumptions.RetirementReturn)

		taxableIncome := statePension.Add(alloc.TaxablePensionIncome())
		incomeTax, _ := ce.TaxCalc.CalculateIncomeTax(taxableIncome, j, bandFactor)
		cgt := ce.TaxCalc.CalculateCapitalGainsTax(alloc.CapitalGains, taxableIncome, j, bandFactor)

		year := buildWithdrawalYear(age, startYear+t, target, statePension, alloc.Shortfall, bal,
			[]sequencing.Allocation{alloc}, domain.TaxBreakdown{IncomeTax: incomeTax, CapitalGains: cgt})
		recordYear(result, year, alloc.Total())
	}

	finishResult(result)
	return result
}

func (ce *CalculationEngine) projectCoupleRetirement(accounts []domain.Account, household *domain.HouseholdProfile, assumptions *domain.Assumptions, accum *domain.AccumulationResult) *domain.RetirementResult {
	p1 := &household.Person1
	p2 := household.Person2
	j1 := JurisdictionFor(p1)
	j2 := JurisdictionFor(p2)
	one := decimal.NewFromInt(1)
	startYear := assumptions.ResolvedStartYear()

	finalBalances := finalAccountBalances(accounts, accum)
	owner1, owner2 := domain.OwnerPerson1, domain.OwnerPerson2
	bal1 := seedBalances(accounts, finalBalances, &owner1)
	bal2 := seedBalances(accounts, finalBalances, &owner2)
	lump1 := bal1.Pension.Mul(lumpSumFraction)
	lump2 := bal2.Pension.Mul(lumpSumFraction)

	result := &domain.RetirementResult{StartingBalance: bal1.Total().Add(bal2.Total())}
	result.SustainableWithdrawal = result.StartingBalance.Mul(sustainableRate)
	baseTarget := baseDrawTarget(assumptions, result.StartingBalance)

	// Each person gets half the household state pension.
	halfStatePension := household.StatePension.Div(decimal.NewFromInt(2))

	// Years are indexed from today so the two age tracks stay a constant
	// offset apart; the loop runs from the first retirement to the last
	// life expectancy.
	startT := p1.RetirementAge - p1.CurrentAge
	if t2 := p2.RetirementAge - p2.CurrentAge; t2 < startT {
		startT = t2
	}
	endT := p1.LifeExpectancy - p1.CurrentAge
	if t2 := p2.LifeExpectancy - p2.CurrentAge; t2 > endT {
		endT = t2
	}

	for t := startT; t <= endT; t++ {
		age1 := p1.CurrentAge + t
		age2 := p2.CurrentAge + t

		inflationFactor := one.Add(assumptions.InflationRate).Pow(decimal.NewFromInt(int64(t)))
		bandFactor := one
		if assumptions.InflateTaxBands {
			bandFactor = inflationFactor
		}

		target := baseTarget.Mul(inflationFactor)
		sp1, sp2 := decimal.Zero, decimal.Zero
		if age1 >= p1.StatePensionAge {
			sp1 = halfStatePension.Mul(inflationFactor)
		}
		if age2 >= p2.StatePensionAge {
			sp2 = halfStatePension.Mul(inflationFactor)
		}
		draw := target.Sub(sp1).Sub(sp2)
		if draw.LessThan(decimal.Zero) {
			draw = decimal.Zero
		}

		ctx1 := sequencing.PersonContext{
			Balances:           bal1,
			LumpSumRemaining:   &lump1,
			StatePensionIncome: sp1,
			BracketCeiling:     ce.TaxCalc.BracketCeiling(p1.BracketTarget, j1, bandFactor),
			CanAccessPension:   age1 >= p1.PensionAccessAge,
		}
		ctx2 := sequencing.PersonContext{
			Balances:           bal2,
			LumpSumRemaining:   &lump2,
			StatePensionIncome: sp2,
			BracketCeiling:     ce.TaxCalc.BracketCeiling(p2.BracketTarget, j2, bandFactor),
			CanAccessPension:   age2 >= p2.PensionAccessAge,
		}
		a1, a2, shortfall := sequencing.CoupleWithdraw(ctx1, ctx2, draw)

		growBalances(bal1, assumptions.RetirementReturn)
		growBalances(bal2, assumptions.RetirementReturn)

		// Each person is taxed independently on their own withdrawals and
		// state pension half.
		ti1 := sp1.Add(a1.TaxablePensionIncome())
		ti2 := sp2.Add(a2.TaxablePensionIncome())
		tax1, _ := ce.TaxCalc.CalculateIncomeTax(ti1, j1, bandFactor)
		tax2, _ := ce.TaxCalc.CalculateIncomeTax(ti2, j2, bandFactor)
		cgt1 := ce.TaxCalc.CalculateCapitalGainsTax(a1.CapitalGains, ti1, j1, bandFactor)
		cgt2 := ce.TaxCalc.CalculateCapitalGainsTax(a2.CapitalGains, ti2, j2, bandFactor)

		combined := &domain.AccountBalances{
			Pension: bal1.Pension.Add(bal2.Pension),
			ISA:     bal1.ISA.Add(bal2.ISA),
			LISA:    bal1.LISA.Add(bal2.LISA),
			Taxable: bal1.Taxable.Add(bal2.Taxable),
		}
		year := buildWithdrawalYear(age1, startYear+t, target, sp1.Add(sp2), shortfall, combined,
			[]sequencing.Allocation{a1, a2},
			domain.TaxBreakdown{IncomeTax: tax1.Add(tax2), CapitalGains: cgt1.Add(cgt2)})
		recordYear(result, year, a1.Total().Add(a2.Total()))
	}

	finishResult(result)
	return result
}

// baseDrawTarget returns the desired retirement income in today's money:
// either the configured target or the safe withdrawal rate applied to the
// portfolio at retirement.
func baseDrawTarget(assumptions *domain.Assumptions, startingBalance decimal.Decimal) decimal.Decimal {
	if assumptions.TargetIncome != nil {
		return *assumptions.TargetIncome
	}
	return startingBalance.Mul(assumptions.SafeWithdrawalRate)
}

// finalAccountBalances returns each account's balance at the end of
// accumulation, or its configured balance when accumulation had no years.
func finalAccountBalances(accounts []domain.Account, accum *domain.AccumulationResult) map[string]decimal.Decimal {
	if accum != nil && len(accum.Years) > 0 {
		return accum.Years[len(accum.Years)-1].AccountBalances
	}
	return balancesOf(accounts)
}

// seedBalances buckets account balances by tax treatment for one person (or
// for the whole household when owner is nil) and seeds the GIA cost basis.
func seedBalances(accounts []domain.Account, balances map[string]decimal.Decimal, owner *domain.Owner) *domain.AccountBalances {
	bal := &domain.AccountBalances{}
	for i := range accounts {
		acct := &accounts[i]
		if owner != nil && acct.EffectiveOwner() != *owner {
			continue
		}
		treatment, err := acct.Type.TaxTreatment()
		if err != nil {
			continue
		}
		switch treatment {
		case domain.TreatmentPension:
			bal.Pension = bal.Pension.Add(balances[acct.ID])
		case domain.TreatmentISA:
			bal.ISA = bal.ISA.Add(balances[acct.ID])
		case domain.TreatmentLISA:
			bal.LISA = bal.LISA.Add(balances[acct.ID])
		case domain.TreatmentTaxable:
			bal.Taxable = bal.Taxable.Add(balances[acct.ID])
		}
	}
	bal.TaxableCostBasis = bal.Taxable.Mul(seedBasisFraction)
	return bal
}

// growBalances applies the retirement-phase return to every bucket. The GIA
// cost basis grows with the reinvested return so later withdrawals are not
// taxed on money that was already income when reinvested.
func growBalances(bal *domain.AccountBalances, rate decimal.Decimal) {
	taxableGrowth := bal.Taxable.Mul(rate)
	bal.Pension = bal.Pension.Add(bal.Pension.Mul(rate))
	bal.ISA = bal.ISA.Add(bal.ISA.Mul(rate))
	bal.LISA = bal.LISA.Add(bal.LISA.Mul(rate))
	bal.Taxable = bal.Taxable.Add(taxableGrowth)
	bal.TaxableCostBasis = bal.TaxableCostBasis.Add(taxableGrowth)
}

func buildWithdrawalYear(age, year int, target, statePension, shortfall decimal.Decimal, bal *domain.AccountBalances, allocs []sequencing.Allocation, tax domain.TaxBreakdown) domain.WithdrawalYear {
	income := domain.IncomeBreakdown{StatePension: statePension}
	for _, a := range allocs {
		income.PensionDrawdown = income.PensionDrawdown.Add(a.PensionWithdrawal)
		income.TaxFreeLumpSum = income.TaxFreeLumpSum.Add(a.TaxFreeLumpSum)
		income.ISA = income.ISA.Add(a.ISAWithdrawal)
		income.LISA = income.LISA.Add(a.LISAWithdrawal)
		income.Taxable = income.Taxable.Add(a.TaxableWithdrawal)
	}
	return domain.WithdrawalYear{
		Age:          age,
		Year:         year,
		TargetIncome: target,
		Income:       income,
		Tax:          tax,
		NetIncome:    income.Total().Sub(tax.Total()),
		Shortfall:    shortfall,
		EndingTotals: domain.CategoryTotals{
			Pension: bal.Pension,
			ISA:     bal.ISA,
			LISA:    bal.LISA,
			Taxable: bal.Taxable,
		},
	}
}

// recordYear appends a year to the result, tallying totals and latching the
// depletion age the first time the portfolio hits zero.
func recordYear(result *domain.RetirementResult, year domain.WithdrawalYear, withdrawn decimal.Decimal) {
	year.PortfolioDepleted = year.EndingTotals.Total().LessThanOrEqual(decimal.Zero)
	if year.PortfolioDepleted && result.PortfolioDepletionAge == nil {
		age := year.Age
		result.PortfolioDepletionAge = &age
	}
	result.Years = append(result.Years, year)
	result.TotalWithdrawn = result.TotalWithdrawn.Add(withdrawn)
	result.TotalTaxPaid = result.TotalTaxPaid.Add(year.Tax.Total())
}

func finishResult(result *domain.RetirementResult) {
	if len(result.Years) > 0 {
		result.FinalBalance = result.Years[len(result.Years)-1].EndingTotals.Total()
	} else {
		result.FinalBalance = result.StartingBalance
	}
}
