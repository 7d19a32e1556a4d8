package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukplan/drawdown/internal/domain"
)

// retiredHousehold is a single person already at retirement age with no state
// pension in payment, so tests see the portfolio drawdown in isolation.
func retiredHousehold(retirementAge, lifeExpectancy int) domain.HouseholdProfile {
	h := domain.DefaultHousehold()
	h.Person1.CurrentAge = retirementAge
	h.Person1.RetirementAge = retirementAge
	h.Person1.LifeExpectancy = lifeExpectancy
	h.Person1.StatePensionAge = lifeExpectancy + 1
	return h
}

func flatAssumptions(targetIncome int64) domain.Assumptions {
	target := decimal.NewFromInt(targetIncome)
	return domain.Assumptions{
		InflationRate:      decimal.Zero,
		SafeWithdrawalRate: decimal.NewFromFloat(0.04),
		RetirementReturn:   decimal.Zero,
		TargetIncome:       &target,
		StartYear:          2026,
	}
}

func TestProjectRetirementISADrawdown(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(60, 62)
	assumptions := flatAssumptions(10000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 3)
	assert.True(t, decimal.NewFromInt(100000).Equal(result.StartingBalance))
	assert.True(t, decimal.NewFromInt(70000).Equal(result.FinalBalance), "got %s", result.FinalBalance)
	assert.True(t, decimal.NewFromInt(30000).Equal(result.TotalWithdrawn), "got %s", result.TotalWithdrawn)
	assert.True(t, result.TotalTaxPaid.IsZero(), "ISA withdrawals are tax free, got %s", result.TotalTaxPaid)
	assert.False(t, result.Depleted())

	for _, y := range result.Years {
		assert.True(t, decimal.NewFromInt(10000).Equal(y.Income.ISA))
		assert.True(t, y.Shortfall.IsZero())
	}
}

func TestProjectRetirementSustainableWithdrawal(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(500000),
	}}
	household := retiredHousehold(60, 61)
	assumptions := flatAssumptions(10000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	// Always 4% of the starting balance, whatever the configured rate.
	assert.True(t, decimal.NewFromInt(20000).Equal(result.SustainableWithdrawal), "got %s", result.SustainableWithdrawal)
}

func TestProjectRetirementDepletionLatched(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(15000),
	}}
	household := retiredHousehold(60, 63)
	assumptions := flatAssumptions(10000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 4)
	require.NotNil(t, result.PortfolioDepletionAge)
	assert.Equal(t, 61, *result.PortfolioDepletionAge)
	assert.True(t, result.Depleted())

	// The simulation keeps running after depletion; later years just record
	// the full shortfall.
	assert.True(t, decimal.NewFromInt(5000).Equal(result.Years[1].Shortfall), "got %s", result.Years[1].Shortfall)
	assert.True(t, decimal.NewFromInt(10000).Equal(result.Years[2].Shortfall), "got %s", result.Years[2].Shortfall)
	assert.True(t, decimal.NewFromInt(10000).Equal(result.Years[3].Shortfall), "got %s", result.Years[3].Shortfall)
	assert.True(t, result.FinalBalance.IsZero())
}

func TestProjectRetirementLumpSumThenTaxable(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "sipp",
		Type:    domain.AccountSIPP,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(60, 61)
	household.Person1.BracketTarget = domain.TargetNoLimit
	assumptions := flatAssumptions(20000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 2)

	// Year 1: the whole 20,000 comes from the 25,000 tax-free allowance.
	y1 := result.Years[0]
	assert.True(t, decimal.NewFromInt(20000).Equal(y1.Income.TaxFreeLumpSum), "got %s", y1.Income.TaxFreeLumpSum)
	assert.True(t, y1.Tax.Total().IsZero(), "got %s", y1.Tax.Total())

	// Year 2: 5,000 of allowance remains, the other 15,000 is taxable
	// drawdown. Tax is 20% of the excess over the personal allowance.
	y2 := result.Years[1]
	assert.True(t, decimal.NewFromInt(5000).Equal(y2.Income.TaxFreeLumpSum), "got %s", y2.Income.TaxFreeLumpSum)
	assert.True(t, decimal.NewFromInt(20000).Equal(y2.Income.PensionDrawdown), "got %s", y2.Income.PensionDrawdown)
	assert.True(t, decimal.NewFromInt(486).Equal(y2.Tax.IncomeTax), "got %s", y2.Tax.IncomeTax)
}

func TestProjectRetirementPensionLockedBeforeAccessAge(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "sipp",
		Type:    domain.AccountSIPP,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(55, 58)
	household.Person1.PensionAccessAge = 57
	assumptions := flatAssumptions(10000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 4)
	assert.True(t, decimal.NewFromInt(10000).Equal(result.Years[0].Shortfall), "pension is locked at 55")
	assert.True(t, decimal.NewFromInt(10000).Equal(result.Years[1].Shortfall), "pension is locked at 56")
	assert.True(t, result.Years[2].Shortfall.IsZero(), "pension opens at 57")
}

func TestProjectRetirementStatePensionReducesDraw(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(67, 69)
	household.Person1.StatePensionAge = 68
	household.StatePension = decimal.NewFromInt(12000)
	assumptions := flatAssumptions(20000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 3)
	assert.True(t, decimal.NewFromInt(20000).Equal(result.Years[0].Income.ISA), "no state pension at 67")
	assert.True(t, decimal.NewFromInt(12000).Equal(result.Years[1].Income.StatePension))
	assert.True(t, decimal.NewFromInt(8000).Equal(result.Years[1].Income.ISA), "got %s", result.Years[1].Income.ISA)
}

func TestProjectRetirementInflationGrowsTarget(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(1000000),
	}}
	household := retiredHousehold(60, 62)
	assumptions := flatAssumptions(10000)
	assumptions.InflationRate = decimal.NewFromFloat(0.10)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 3)
	assert.True(t, decimal.NewFromInt(10000).Equal(result.Years[0].TargetIncome), "got %s", result.Years[0].TargetIncome)
	assert.True(t, decimal.NewFromInt(11000).Equal(result.Years[1].TargetIncome), "got %s", result.Years[1].TargetIncome)
	assert.True(t, decimal.NewFromInt(12100).Equal(result.Years[2].TargetIncome), "got %s", result.Years[2].TargetIncome)
}

func TestProjectRetirementReturnsCreditedAfterWithdrawal(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(60, 60)
	assumptions := flatAssumptions(10000)
	assumptions.RetirementReturn = decimal.NewFromFloat(0.10)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	// (100,000 - 10,000) * 1.10, not 100,000 * 1.10 - 10,000.
	require.Len(t, result.Years, 1)
	assert.True(t, decimal.NewFromInt(99000).Equal(result.FinalBalance), "got %s", result.FinalBalance)
}

func TestProjectRetirementSafeWithdrawalRateFallback(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "isa",
		Type:    domain.AccountISA,
		Balance: decimal.NewFromInt(500000),
	}}
	household := retiredHousehold(60, 61)
	assumptions := flatAssumptions(0)
	assumptions.TargetIncome = nil
	assumptions.SafeWithdrawalRate = decimal.NewFromFloat(0.03)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	// Without a target income the draw derives from the configured rate.
	assert.True(t, decimal.NewFromInt(15000).Equal(result.Years[0].TargetIncome), "got %s", result.Years[0].TargetIncome)
}

func TestProjectRetirementGIAGains(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:      "gia",
		Type:    domain.AccountGIA,
		Balance: decimal.NewFromInt(100000),
	}}
	household := retiredHousehold(60, 60)
	assumptions := flatAssumptions(40000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	// The basis is seeded at half the bucket, so 40,000 withdrawn realises
	// 20,000 of gains; 17,000 is taxable after the exemption, all within the
	// basic-rate room at 10%.
	require.Len(t, result.Years, 1)
	y := result.Years[0]
	assert.True(t, decimal.NewFromInt(40000).Equal(y.Income.Taxable), "got %s", y.Income.Taxable)
	assert.True(t, decimal.NewFromInt(1700).Equal(y.Tax.CapitalGains), "got %s", y.Tax.CapitalGains)
	assert.True(t, y.Tax.IncomeTax.IsZero())
}

func TestProjectRetirementUsesAccumulationFinalBalances(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{{
		ID:                 "isa",
		Type:               domain.AccountISA,
		Balance:            decimal.NewFromInt(10000),
		AnnualContribution: decimal.NewFromInt(10000),
	}}
	household := singleHousehold(58, 60)
	household.Person1.LifeExpectancy = 61
	household.Person1.StatePensionAge = 99
	accum := ProjectAccumulation(accounts, &household, 2026)
	assumptions := flatAssumptions(5000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, accum)

	// Drawdown starts from the accumulated 30,000, not the configured 10,000.
	assert.True(t, decimal.NewFromInt(30000).Equal(result.StartingBalance), "got %s", result.StartingBalance)
}

func TestProjectCoupleRetirement(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{
		{ID: "isa-1", Type: domain.AccountISA, Balance: decimal.NewFromInt(30000), Owner: domain.OwnerPerson1},
		{ID: "isa-2", Type: domain.AccountISA, Balance: decimal.NewFromInt(30000), Owner: domain.OwnerPerson2},
	}
	household := domain.DefaultCoupleHousehold()
	for _, p := range []*domain.PersonProfile{&household.Person1, household.Person2} {
		p.CurrentAge = 60
		p.RetirementAge = 60
		p.LifeExpectancy = 62
		p.StatePensionAge = 99
	}
	household.StatePension = decimal.Zero
	assumptions := flatAssumptions(20000)

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	require.Len(t, result.Years, 3)
	assert.True(t, decimal.NewFromInt(60000).Equal(result.StartingBalance))

	// Person1's accounts drain first each step, person2 covers the rest.
	y1 := result.Years[0]
	assert.True(t, decimal.NewFromInt(20000).Equal(y1.Income.ISA), "got %s", y1.Income.ISA)
	y2 := result.Years[1]
	assert.True(t, decimal.NewFromInt(20000).Equal(y2.Income.ISA), "got %s", y2.Income.ISA)

	// 60,000 across a 60,000 portfolio: depleted in the final year.
	y3 := result.Years[2]
	assert.True(t, y3.PortfolioDepleted)
	require.NotNil(t, result.PortfolioDepletionAge)
	assert.Equal(t, 62, *result.PortfolioDepletionAge)
}

func TestProjectCoupleRetirementMatchesTwoSingles(t *testing.T) {
	engine := NewCalculationEngine()

	coupleAccounts := []domain.Account{
		{ID: "isa-1", Type: domain.AccountISA, Balance: decimal.NewFromInt(50000), Owner: domain.OwnerPerson1},
		{ID: "isa-2", Type: domain.AccountISA, Balance: decimal.NewFromInt(50000), Owner: domain.OwnerPerson2},
	}
	couple := domain.DefaultCoupleHousehold()
	for _, p := range []*domain.PersonProfile{&couple.Person1, couple.Person2} {
		p.CurrentAge = 68
		p.RetirementAge = 68
		p.LifeExpectancy = 70
		p.StatePensionAge = 68
	}
	couple.StatePension = decimal.NewFromInt(24000)
	coupleAssumptions := flatAssumptions(40000)

	coupleResult := engine.ProjectRetirement(coupleAccounts, &couple, &coupleAssumptions, nil)

	singleAccounts := []domain.Account{
		{ID: "isa", Type: domain.AccountISA, Balance: decimal.NewFromInt(50000)},
	}
	single := domain.DefaultHousehold()
	single.Person1 = couple.Person1
	single.StatePension = decimal.NewFromInt(12000)
	singleAssumptions := flatAssumptions(20000)

	singleResult := engine.ProjectRetirement(singleAccounts, &single, &singleAssumptions, nil)

	// Identical symmetric people drawing only tax-free sources: the couple
	// run is exactly two independent single runs on half the household.
	two := decimal.NewFromInt(2)
	assert.True(t, coupleResult.TotalWithdrawn.Equal(singleResult.TotalWithdrawn.Mul(two)),
		"couple %s vs 2x single %s", coupleResult.TotalWithdrawn, singleResult.TotalWithdrawn.Mul(two))
	assert.True(t, coupleResult.TotalTaxPaid.Equal(singleResult.TotalTaxPaid.Mul(two)))
	assert.True(t, coupleResult.FinalBalance.Equal(singleResult.FinalBalance.Mul(two)),
		"couple %s vs 2x single %s", coupleResult.FinalBalance, singleResult.FinalBalance.Mul(two))
}

func TestProjectCoupleRetirementIndependentTaxation(t *testing.T) {
	engine := NewCalculationEngine()
	accounts := []domain.Account{
		{ID: "sipp-1", Type: domain.AccountSIPP, Balance: decimal.NewFromInt(400000), Owner: domain.OwnerPerson1},
		{ID: "sipp-2", Type: domain.AccountSIPP, Balance: decimal.NewFromInt(400000), Owner: domain.OwnerPerson2},
	}
	household := domain.DefaultCoupleHousehold()
	for _, p := range []*domain.PersonProfile{&household.Person1, household.Person2} {
		p.CurrentAge = 60
		p.RetirementAge = 60
		p.LifeExpectancy = 60
		p.StatePensionAge = 99
		p.BracketTarget = domain.TargetBasicRate
	}
	household.StatePension = decimal.Zero
	target := decimal.NewFromInt(350000)
	assumptions := flatAssumptions(0)
	assumptions.TargetIncome = &target

	result := engine.ProjectRetirement(accounts, &household, &assumptions, nil)

	// Each person: 100,000 lump sum, then 50,270 of bracket fill. Person1
	// then overflows 49,460 of taxable drawdown, so the household sees two
	// separate allowances and band walks rather than one.
	require.Len(t, result.Years, 1)
	y := result.Years[0]
	assert.True(t, decimal.NewFromInt(350000).Equal(y.Income.Total()), "got %s", y.Income.Total())
	assert.True(t, decimal.NewFromInt(200000).Equal(y.Income.TaxFreeLumpSum), "got %s", y.Income.TaxFreeLumpSum)

	// Person1 taxable 99,730 and person2 taxable 50,270 tax to less than the
	// single-person tax on 150,000.
	single, _ := engine.TaxCalc.CalculateIncomeTax(decimal.NewFromInt(150000), JurisdictionUK, decimal.NewFromInt(1))
	assert.True(t, y.Tax.IncomeTax.LessThan(single), "split %s vs single %s", y.Tax.IncomeTax, single)
}
