package config

import (
	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
)

// LegacyProfile is the pre-household single-person input shape. Plans saved
// by older versions still carry it; the adapters below translate it to and
// from the canonical household form so the projection code only ever sees
// households.
type LegacyProfile struct {
	Name             string                  `yaml:"name" json:"name"`
	CurrentAge       int                     `yaml:"current_age" json:"currentAge"`
	RetirementAge    int                     `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy   int                     `yaml:"life_expectancy" json:"lifeExpectancy"`
	PensionAccessAge int                     `yaml:"pension_access_age" json:"pensionAccessAge"`
	StatePensionAge  int                     `yaml:"state_pension_age" json:"statePensionAge"`
	ScottishTaxpayer bool                    `yaml:"scottish_taxpayer" json:"scottishTaxpayer"`
	BracketTarget    domain.TaxBracketTarget `yaml:"bracket_target" json:"bracketTarget"`
	StatePension     decimal.Decimal         `yaml:"state_pension" json:"statePension"`
}

// FromLegacyProfile converts a legacy profile into a single-person household.
func FromLegacyProfile(p LegacyProfile) domain.HouseholdProfile {
	return domain.HouseholdProfile{
		Mode: domain.ModeSingle,
		Person1: domain.PersonProfile{
			Name:             p.Name,
			CurrentAge:       p.CurrentAge,
			RetirementAge:    p.RetirementAge,
			LifeExpectancy:   p.LifeExpectancy,
			PensionAccessAge: p.PensionAccessAge,
			StatePensionAge:  p.StatePensionAge,
			ScottishTaxpayer: p.ScottishTaxpayer,
			BracketTarget:    p.BracketTarget,
		},
		StatePension: p.StatePension,
	}
}

// ToLegacyProfile converts a single-person household back to the legacy
// shape, for writing plans older versions can still read. Couple households
// have no legacy form; callers must check the mode first.
func ToLegacyProfile(h domain.HouseholdProfile) LegacyProfile {
	return LegacyProfile{
		Name:             h.Person1.Name,
		CurrentAge:       h.Person1.CurrentAge,
		RetirementAge:    h.Person1.RetirementAge,
		LifeExpectancy:   h.Person1.LifeExpectancy,
		PensionAccessAge: h.Person1.PensionAccessAge,
		StatePensionAge:  h.Person1.StatePensionAge,
		ScottishTaxpayer: h.Person1.ScottishTaxpayer,
		BracketTarget:    h.Person1.BracketTarget,
		StatePension:     h.StatePension,
	}
}
