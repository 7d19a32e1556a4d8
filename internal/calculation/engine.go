package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ukplan/drawdown/internal/domain"
)

// Logger is the minimal logging surface the engine needs. The CLI plugs in a
// real implementation under --debug; the default discards everything.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// CalculationEngine orchestrates the accumulation and drawdown projections.
type CalculationEngine struct {
	TaxCalc *UKTaxCalculator
	Debug   bool

	logger Logger
}

// NewCalculationEngine creates an engine with current tax-year thresholds.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		TaxCalc: NewUKTaxCalculator(),
		logger:  noopLogger{},
	}
}

// SetLogger replaces the engine's logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l != nil {
		ce.logger = l
	}
}

// RunPlan projects a full plan: accumulation to retirement, then drawdown to
// end of life.
func (ce *CalculationEngine) RunPlan(name string, accounts []domain.Account, household *domain.HouseholdProfile, assumptions *domain.Assumptions) (*domain.PlanResult, error) {
	if err := validateAssumptions(assumptions); err != nil {
		return nil, err
	}

	startYear := assumptions.ResolvedStartYear()
	accum := ProjectAccumulation(accounts, household, startYear)
	if ce.Debug {
		ce.logger.Debugf("accumulation: %d years, final balance %s", len(accum.Years), accum.FinalBalance.StringFixed(2))
	}

	retirement := ce.ProjectRetirement(accounts, household, assumptions, accum)
	if ce.Debug {
		ce.logger.Debugf("retirement: %d years, total tax %s", len(retirement.Years), retirement.TotalTaxPaid.StringFixed(2))
	}
	if retirement.Depleted() {
		ce.logger.Infof("portfolio depletes at age %d", *retirement.PortfolioDepletionAge)
	}

	return &domain.PlanResult{
		Name:         name,
		Accumulation: accum,
		Retirement:   retirement,
	}, nil
}

// RunScenarios projects the base plan and each named scenario. Every run is a
// pure function of its own copied inputs, so they execute concurrently.
func (ce *CalculationEngine) RunScenarios(accounts []domain.Account, household *domain.HouseholdProfile, assumptions *domain.Assumptions, scenarios []domain.Scenario) ([]*domain.PlanResult, error) {
	results := make([]*domain.PlanResult, len(scenarios)+1)

	var g errgroup.Group
	g.Go(func() error {
		res, err := ce.RunPlan("Base Plan", accounts, household, assumptions)
		if err != nil {
			return fmt.Errorf("base plan: %w", err)
		}
		results[0] = res
		return nil
	})
	for i := range scenarios {
		sc := scenarios[i]
		idx := i + 1
		g.Go(func() error {
			h, a := sc.Apply(*household, *assumptions)
			res, err := ce.RunPlan(sc.Name, accounts, &h, &a)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateAssumptions(assumptions *domain.Assumptions) error {
	if assumptions.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || assumptions.InflationRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%",
			assumptions.InflationRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if assumptions.RetirementReturn.LessThan(decimal.NewFromFloat(-1.0)) {
		return fmt.Errorf("retirement return cannot be less than -100%%")
	}
	if assumptions.SafeWithdrawalRate.LessThan(decimal.Zero) {
		return fmt.Errorf("safe withdrawal rate cannot be negative")
	}
	return nil
}
