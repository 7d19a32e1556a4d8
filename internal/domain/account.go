package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType identifies the wrapper an investment account sits in.
type AccountType string

const (
	AccountWorkplacePension AccountType = "workplace_pension"
	AccountSIPP             AccountType = "sipp"
	AccountISA              AccountType = "isa"
	AccountLISA             AccountType = "lisa"
	AccountGIA              AccountType = "gia"
)

// TaxTreatment groups account types by how withdrawals are taxed.
type TaxTreatment int

const (
	TreatmentPension TaxTreatment = iota
	TreatmentISA
	TreatmentLISA
	TreatmentTaxable
)

func (tt TaxTreatment) String() string {
	switch tt {
	case TreatmentPension:
		return "pension"
	case TreatmentISA:
		return "isa"
	case TreatmentLISA:
		return "lisa"
	case TreatmentTaxable:
		return "taxable"
	default:
		return "unknown"
	}
}

// taxTreatments is the total mapping from account type to tax treatment.
// Fixed at startup; a type missing here is a configuration error caught by
// TaxTreatment, never silently misclassified.
var taxTreatments = map[AccountType]TaxTreatment{
	AccountWorkplacePension: TreatmentPension,
	AccountSIPP:             TreatmentPension,
	AccountISA:              TreatmentISA,
	AccountLISA:             TreatmentLISA,
	AccountGIA:              TreatmentTaxable,
}

// Known reports whether the account type is one the calculators understand.
func (at AccountType) Known() bool {
	_, ok := taxTreatments[at]
	return ok
}

// TaxTreatment returns the tax treatment for the account type.
func (at AccountType) TaxTreatment() (TaxTreatment, error) {
	tt, ok := taxTreatments[at]
	if !ok {
		return 0, fmt.Errorf("unknown account type %q", at)
	}
	return tt, nil
}

// Owner identifies which member of the household holds an account.
type Owner string

const (
	OwnerPerson1 Owner = "person1"
	OwnerPerson2 Owner = "person2"
)

// Account represents a single investment account being projected.
type Account struct {
	ID                   string          `yaml:"id" json:"id"`
	Name                 string          `yaml:"name" json:"name"`
	Type                 AccountType     `yaml:"type" json:"type"`
	Balance              decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualContribution   decimal.Decimal `yaml:"annual_contribution" json:"annualContribution"`
	ContributionGrowth   decimal.Decimal `yaml:"contribution_growth" json:"contributionGrowth"`
	ExpectedReturn       decimal.Decimal `yaml:"expected_return" json:"expectedReturn"`
	EmployerContribution decimal.Decimal `yaml:"employer_contribution,omitempty" json:"employerContribution,omitempty"` // fraction of SalaryForMatch, workplace pensions only
	SalaryForMatch       decimal.Decimal `yaml:"salary_for_match,omitempty" json:"salaryForMatch,omitempty"`
	Owner                Owner           `yaml:"owner,omitempty" json:"owner,omitempty"`
}

// EffectiveOwner returns the account owner, defaulting to person1 when the
// field was never set (common with plans saved before couple mode existed).
func (a *Account) EffectiveOwner() Owner {
	if a.Owner == "" {
		return OwnerPerson1
	}
	return a.Owner
}

// AccountBalances is the mutable working state for one person during a
// drawdown run, aggregated by tax treatment. TaxableCostBasis tracks the
// estimated cost basis of the GIA bucket for proportional gains computation;
// it is an approximation, not a lot-tracked value.
type AccountBalances struct {
	Pension          decimal.Decimal
	ISA              decimal.Decimal
	LISA             decimal.Decimal
	Taxable          decimal.Decimal
	TaxableCostBasis decimal.Decimal
}

// Total returns the sum of all buckets.
func (ab *AccountBalances) Total() decimal.Decimal {
	return ab.Pension.Add(ab.ISA).Add(ab.LISA).Add(ab.Taxable)
}
