package domain

import "github.com/shopspring/decimal"

// Scenario is a named what-if: a set of overrides applied on top of the plan
// before projecting. Nil fields leave the base plan untouched.
type Scenario struct {
	Name             string            `yaml:"name" json:"name"`
	RetirementAge1   *int              `yaml:"retirement_age_person1,omitempty" json:"retirementAgePerson1,omitempty"`
	RetirementAge2   *int              `yaml:"retirement_age_person2,omitempty" json:"retirementAgePerson2,omitempty"`
	RetirementReturn *decimal.Decimal  `yaml:"retirement_return,omitempty" json:"retirementReturn,omitempty"`
	InflationRate    *decimal.Decimal  `yaml:"inflation_rate,omitempty" json:"inflationRate,omitempty"`
	TargetIncome     *decimal.Decimal  `yaml:"target_income,omitempty" json:"targetIncome,omitempty"`
	BracketTarget    *TaxBracketTarget `yaml:"bracket_target,omitempty" json:"bracketTarget,omitempty"`
}

// Apply returns deep copies of the household and assumptions with the
// scenario's overrides applied. The originals are never touched, so scenario
// runs can share one base plan.
func (s *Scenario) Apply(household HouseholdProfile, assumptions Assumptions) (HouseholdProfile, Assumptions) {
	if household.Person2 != nil {
		p2 := *household.Person2
		household.Person2 = &p2
	}
	if assumptions.TargetIncome != nil {
		ti := *assumptions.TargetIncome
		assumptions.TargetIncome = &ti
	}

	if s.RetirementAge1 != nil {
		household.Person1.RetirementAge = *s.RetirementAge1
	}
	if s.RetirementAge2 != nil && household.Person2 != nil {
		household.Person2.RetirementAge = *s.RetirementAge2
	}
	if s.BracketTarget != nil {
		household.Person1.BracketTarget = *s.BracketTarget
		if household.Person2 != nil {
			household.Person2.BracketTarget = *s.BracketTarget
		}
	}
	if s.RetirementReturn != nil {
		assumptions.RetirementReturn = *s.RetirementReturn
	}
	if s.InflationRate != nil {
		assumptions.InflationRate = *s.InflationRate
	}
	if s.TargetIncome != nil {
		ti := *s.TargetIncome
		assumptions.TargetIncome = &ti
	}
	return household, assumptions
}
