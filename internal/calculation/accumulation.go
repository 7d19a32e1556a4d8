package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
)

// ProjectAccumulation advances every account year by year from now until the
// last household member retires. Within a year, returns compound on the
// balance as it stood before that year's contribution is added.
//
// Contributions follow the owner: they stop permanently once the owner
// reaches their retirement age, even if the other partner is still working,
// and LISA contributions (with their 25% bonus) stop at the LISA age ceiling.
func ProjectAccumulation(accounts []domain.Account, household *domain.HouseholdProfile, startYear int) *domain.AccumulationResult {
	horizon := household.Person1.RetirementAge - household.Person1.CurrentAge
	if household.IsCouple() {
		if h2 := household.Person2.RetirementAge - household.Person2.CurrentAge; h2 > horizon {
			horizon = h2
		}
	}

	result := &domain.AccumulationResult{}
	if horizon <= 0 {
		result.FinalTotals = sumByTreatment(accounts, balancesOf(accounts))
		result.FinalBalance = result.FinalTotals.Total()
		return result
	}

	balances := balancesOf(accounts)
	one := decimal.NewFromInt(1)

	for t := 1; t <= horizon; t++ {
		yearReturns := decimal.Zero
		yearContributions := decimal.Zero

		for i := range accounts {
			acct := &accounts[i]
			owner := ownerProfile(household, acct)

			growth := balances[acct.ID].Mul(acct.ExpectedReturn)
			balances[acct.ID] = balances[acct.ID].Add(growth)
			yearReturns = yearReturns.Add(growth)

			startOfYearAge := owner.CurrentAge + t - 1
			if startOfYearAge >= owner.RetirementAge {
				continue
			}
			if acct.Type == domain.AccountLISA && startOfYearAge >= domain.LISAContributionAgeCeiling {
				continue
			}

			// Contribution growth compounds from year 0 of the projection.
			growthFactor := one.Add(acct.ContributionGrowth).Pow(decimal.NewFromInt(int64(t - 1)))
			contribution := acct.AnnualContribution.Mul(growthFactor)
			if acct.Type == domain.AccountWorkplacePension {
				contribution = contribution.Add(acct.SalaryForMatch.Mul(acct.EmployerContribution).Mul(growthFactor))
			}
			if acct.Type == domain.AccountLISA {
				contribution = contribution.Add(acct.AnnualContribution.Mul(growthFactor).Mul(decimal.NewFromFloat(0.25)))
			}

			balances[acct.ID] = balances[acct.ID].Add(contribution)
			yearContributions = yearContributions.Add(contribution)
		}

		snapshot := domain.AccumulationYear{
			Age:             household.Person1.CurrentAge + t,
			Year:            startYear + t,
			AccountBalances: copyBalances(balances),
			Totals:          sumByTreatment(accounts, balances),
			Contributions:   yearContributions,
			Returns:         yearReturns,
		}
		result.Years = append(result.Years, snapshot)
		result.TotalContributions = result.TotalContributions.Add(yearContributions)
		result.TotalReturns = result.TotalReturns.Add(yearReturns)
	}

	final := result.Years[len(result.Years)-1]
	result.FinalTotals = final.Totals
	result.FinalBalance = final.Totals.Total()
	return result
}

// ownerProfile resolves an account's owner, defaulting to person1 so accounts
// saved without an owner are never silently dropped from the projection.
func ownerProfile(household *domain.HouseholdProfile, acct *domain.Account) *domain.PersonProfile {
	if household.IsCouple() && acct.EffectiveOwner() == domain.OwnerPerson2 {
		return household.Person2
	}
	return &household.Person1
}

func balancesOf(accounts []domain.Account) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, acct := range accounts {
		balances[acct.ID] = acct.Balance
	}
	return balances
}

func copyBalances(balances map[string]decimal.Decimal) map[string]decimal.Decimal {
	snapshot := make(map[string]decimal.Decimal, len(balances))
	for id, b := range balances {
		snapshot[id] = b
	}
	return snapshot
}

func sumByTreatment(accounts []domain.Account, balances map[string]decimal.Decimal) domain.CategoryTotals {
	var totals domain.CategoryTotals
	for _, acct := range accounts {
		treatment, err := acct.Type.TaxTreatment()
		if err != nil {
			continue // unknown types are rejected at config validation
		}
		switch treatment {
		case domain.TreatmentPension:
			totals.Pension = totals.Pension.Add(balances[acct.ID])
		case domain.TreatmentISA:
			totals.ISA = totals.ISA.Add(balances[acct.ID])
		case domain.TreatmentLISA:
			totals.LISA = totals.LISA.Add(balances[acct.ID])
		case domain.TreatmentTaxable:
			totals.Taxable = totals.Taxable.Add(balances[acct.ID])
		}
	}
	return totals
}
