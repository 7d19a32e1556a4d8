package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ukplan/drawdown/internal/domain"
)

// PlanConfig is the complete input for a projection run.
type PlanConfig struct {
	Household   domain.HouseholdProfile `yaml:"household" json:"household"`
	Accounts    []domain.Account        `yaml:"accounts" json:"accounts"`
	Assumptions domain.Assumptions      `yaml:"assumptions" json:"assumptions"`
	Scenarios   []domain.Scenario       `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// Defaults returns a fresh first-run plan.
func Defaults() *PlanConfig {
	return &PlanConfig{
		Household:   domain.DefaultHousehold(),
		Accounts:    domain.DefaultAccounts(),
		Assumptions: domain.DefaultAssumptions(),
	}
}

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*PlanConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan PlanConfig
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan validates a loaded plan.
func (ip *InputParser) ValidatePlan(plan *PlanConfig) error {
	if err := ip.validateHousehold(&plan.Household); err != nil {
		return fmt.Errorf("household validation failed: %w", err)
	}
	for i := range plan.Accounts {
		if err := ip.validateAccount(&plan.Accounts[i], &plan.Household); err != nil {
			return fmt.Errorf("account %d (%s) validation failed: %w", i, plan.Accounts[i].Name, err)
		}
	}
	if err := ip.validateAssumptions(&plan.Assumptions); err != nil {
		return fmt.Errorf("assumptions validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateHousehold(h *domain.HouseholdProfile) error {
	switch h.Mode {
	case domain.ModeSingle:
		if h.Person2 != nil {
			return fmt.Errorf("person2 must not be set in single mode")
		}
	case domain.ModeCouple:
		if h.Person2 == nil {
			return fmt.Errorf("person2 is required in couple mode")
		}
	default:
		return fmt.Errorf("mode must be 'single' or 'couple', got %q", h.Mode)
	}

	if err := ip.validatePerson(&h.Person1); err != nil {
		return fmt.Errorf("person1: %w", err)
	}
	if h.Person2 != nil {
		if err := ip.validatePerson(h.Person2); err != nil {
			return fmt.Errorf("person2: %w", err)
		}
	}
	if h.StatePension.LessThan(decimal.Zero) {
		return fmt.Errorf("state pension cannot be negative")
	}
	return nil
}

func (ip *InputParser) validatePerson(p *domain.PersonProfile) error {
	if p.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if p.RetirementAge < p.CurrentAge {
		return fmt.Errorf("retirement age (%d) cannot be before current age (%d)", p.RetirementAge, p.CurrentAge)
	}
	if p.LifeExpectancy < p.RetirementAge {
		return fmt.Errorf("life expectancy (%d) cannot be before retirement age (%d)", p.LifeExpectancy, p.RetirementAge)
	}
	if p.PensionAccessAge < domain.MinPensionAccessAge {
		return fmt.Errorf("pension access age cannot be below %d", domain.MinPensionAccessAge)
	}
	switch p.BracketTarget {
	case domain.TargetPersonalAllowance, domain.TargetBasicRate, domain.TargetHigherRate, domain.TargetNoLimit:
	default:
		return fmt.Errorf("bracket target must be one of personal_allowance, basic_rate, higher_rate, no_limit, got %q", p.BracketTarget)
	}
	return nil
}

func (ip *InputParser) validateAccount(a *domain.Account, h *domain.HouseholdProfile) error {
	if a.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !a.Type.Known() {
		return fmt.Errorf("unknown account type %q", a.Type)
	}
	if a.Balance.LessThan(decimal.Zero) {
		return fmt.Errorf("balance cannot be negative")
	}
	if a.AnnualContribution.LessThan(decimal.Zero) {
		return fmt.Errorf("annual contribution cannot be negative")
	}
	if a.Type != domain.AccountWorkplacePension && (!a.EmployerContribution.IsZero() || !a.SalaryForMatch.IsZero()) {
		return fmt.Errorf("employer match is only valid on workplace pensions")
	}
	switch a.Owner {
	case "", domain.OwnerPerson1:
	case domain.OwnerPerson2:
		if !h.IsCouple() {
			return fmt.Errorf("owner person2 requires couple mode")
		}
	default:
		return fmt.Errorf("owner must be person1 or person2, got %q", a.Owner)
	}
	return nil
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	if a.SafeWithdrawalRate.LessThan(decimal.Zero) {
		return fmt.Errorf("safe withdrawal rate cannot be negative")
	}
	if a.RetirementReturn.LessThan(decimal.NewFromFloat(-1.0)) {
		return fmt.Errorf("retirement return cannot be less than -100%%")
	}
	if a.TargetIncome != nil && a.TargetIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("target income cannot be negative")
	}
	return nil
}
