package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HouseholdMode distinguishes single-person plans from couples.
type HouseholdMode string

const (
	ModeSingle HouseholdMode = "single"
	ModeCouple HouseholdMode = "couple"
)

// TaxBracketTarget selects the bracket ceiling the drawdown strategy fills
// with taxable pension income each year before switching to tax-free sources.
// TargetNoLimit restores the older behaviour of preferring non-pension
// sources entirely before touching pension beyond the tax-free lump sum.
type TaxBracketTarget string

const (
	TargetPersonalAllowance TaxBracketTarget = "personal_allowance"
	TargetBasicRate         TaxBracketTarget = "basic_rate"
	TargetHigherRate        TaxBracketTarget = "higher_rate"
	TargetNoLimit           TaxBracketTarget = "no_limit"
)

// MinPensionAccessAge is the earliest age a private pension may be drawn.
const MinPensionAccessAge = 55

// LISAContributionAgeCeiling is the age at which LISA contributions (and the
// government bonus) stop.
const LISAContributionAgeCeiling = 50

// PersonProfile holds one person's ages and tax settings.
type PersonProfile struct {
	Name                string           `yaml:"name" json:"name"`
	CurrentAge          int              `yaml:"current_age" json:"currentAge"`
	RetirementAge       int              `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy      int              `yaml:"life_expectancy" json:"lifeExpectancy"`
	PensionAccessAge    int              `yaml:"pension_access_age" json:"pensionAccessAge"`
	StatePensionAge     int              `yaml:"state_pension_age" json:"statePensionAge"`
	ScottishTaxpayer    bool             `yaml:"scottish_taxpayer" json:"scottishTaxpayer"`
	BracketTarget       TaxBracketTarget `yaml:"bracket_target" json:"bracketTarget"`
}

// HouseholdProfile describes who is being planned for. Person2 is present
// only in couple mode.
type HouseholdProfile struct {
	Mode         HouseholdMode   `yaml:"mode" json:"mode"`
	Person1      PersonProfile   `yaml:"person1" json:"person1"`
	Person2      *PersonProfile  `yaml:"person2,omitempty" json:"person2,omitempty"`
	StatePension decimal.Decimal `yaml:"state_pension" json:"statePension"` // household annual amount, today's money
}

// IsCouple reports whether the plan covers two people.
func (h *HouseholdProfile) IsCouple() bool {
	return h.Mode == ModeCouple && h.Person2 != nil
}

// Assumptions holds plan-wide economic settings.
type Assumptions struct {
	InflationRate      decimal.Decimal  `yaml:"inflation_rate" json:"inflationRate"`
	SafeWithdrawalRate decimal.Decimal  `yaml:"safe_withdrawal_rate" json:"safeWithdrawalRate"`
	RetirementReturn   decimal.Decimal  `yaml:"retirement_return" json:"retirementReturn"`
	TargetIncome       *decimal.Decimal `yaml:"target_income,omitempty" json:"targetIncome,omitempty"` // today's money; nil derives from SWR
	InflateTaxBands    bool             `yaml:"inflate_tax_bands" json:"inflateTaxBands"`
	StartYear          int              `yaml:"start_year,omitempty" json:"startYear,omitempty"` // calendar year of age==current age; 0 means current year
}

// ResolvedStartYear returns the calendar year the projection starts in.
func (a *Assumptions) ResolvedStartYear() int {
	if a.StartYear > 0 {
		return a.StartYear
	}
	return time.Now().Year()
}

// DefaultPerson returns a fresh default person profile. Factory rather than a
// package-level value so callers can never share mutable state between runs.
func DefaultPerson(name string) PersonProfile {
	return PersonProfile{
		Name:             name,
		CurrentAge:       35,
		RetirementAge:    60,
		LifeExpectancy:   90,
		PensionAccessAge: 57,
		StatePensionAge:  68,
		BracketTarget:    TargetPersonalAllowance,
	}
}

// DefaultStatePension is the full new state pension for 2025/26, per person.
func DefaultStatePension() decimal.Decimal {
	return decimal.NewFromFloat(11973)
}

// DefaultHousehold returns a fresh single-person household.
func DefaultHousehold() HouseholdProfile {
	return HouseholdProfile{
		Mode:         ModeSingle,
		Person1:      DefaultPerson("Person 1"),
		StatePension: DefaultStatePension(),
	}
}

// DefaultCoupleHousehold returns a fresh two-person household with the
// household state pension doubled.
func DefaultCoupleHousehold() HouseholdProfile {
	p2 := DefaultPerson("Person 2")
	return HouseholdProfile{
		Mode:         ModeCouple,
		Person1:      DefaultPerson("Person 1"),
		Person2:      &p2,
		StatePension: DefaultStatePension().Mul(decimal.NewFromInt(2)),
	}
}

// DefaultAssumptions returns fresh default assumptions.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		InflationRate:      decimal.NewFromFloat(0.03),
		SafeWithdrawalRate: decimal.NewFromFloat(0.04),
		RetirementReturn:   decimal.NewFromFloat(0.05),
		InflateTaxBands:    true,
	}
}

// DefaultAccounts returns the two seed accounts used on first run: a
// workplace pension with a typical employer match and an ISA.
func DefaultAccounts() []Account {
	return []Account{
		{
			ID:                   "workplace-pension",
			Name:                 "Workplace Pension",
			Type:                 AccountWorkplacePension,
			Balance:              decimal.NewFromInt(40000),
			AnnualContribution:   decimal.NewFromInt(4000),
			ContributionGrowth:   decimal.NewFromFloat(0.02),
			ExpectedReturn:       decimal.NewFromFloat(0.07),
			EmployerContribution: decimal.NewFromFloat(0.05),
			SalaryForMatch:       decimal.NewFromInt(50000),
			Owner:                OwnerPerson1,
		},
		{
			ID:                 "stocks-isa",
			Name:               "Stocks & Shares ISA",
			Type:               AccountISA,
			Balance:            decimal.NewFromInt(20000),
			AnnualContribution: decimal.NewFromInt(5000),
			ContributionGrowth: decimal.NewFromFloat(0.02),
			ExpectedReturn:     decimal.NewFromFloat(0.06),
			Owner:              OwnerPerson1,
		},
	}
}
