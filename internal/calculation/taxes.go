package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ukplan/drawdown/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Income tax bands: 2025/26 thresholds for England/Wales/NI and Scotland.
//    Thresholds are optionally scaled by an inflation factor supplied per
//    projection year; rates never change.
//
// 2. Personal allowance: £12,570, tapered by £1 for every £2 of income over
//    £100,000, fully lost at £125,140. The taper is applied by shrinking the
//    zero-rate band and shifting every band above it down by the lost
//    allowance, so a jurisdiction with a starter band needs no special casing.
//
// 3. Capital gains: £3,000 annual exempt amount, 10% within remaining
//    basic-rate room, 20% above it. CGT uses the UK-wide basic rate limit
//    even for Scottish taxpayers (Scottish rates apply to income only).

// Jurisdiction selects which income tax band table applies.
type Jurisdiction int

const (
	JurisdictionUK Jurisdiction = iota
	JurisdictionScotland
)

func (j Jurisdiction) String() string {
	if j == JurisdictionScotland {
		return "scotland"
	}
	return "uk"
}

// JurisdictionFor returns the band table for a person.
func JurisdictionFor(p *domain.PersonProfile) Jurisdiction {
	if p.ScottishTaxpayer {
		return JurisdictionScotland
	}
	return JurisdictionUK
}

// TaxBand is one marginal income tax band. Bands are contiguous and cover
// [0, bandCap).
type TaxBand struct {
	Name string
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// BandCharge reports how much income fell into a band and the tax charged on
// it. The zero-rate band appears with a zero Tax.
type BandCharge struct {
	Band   string          `json:"band"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

// bandCap stands in for "no upper limit" on the top band.
var bandCap = decimal.NewFromInt(math.MaxInt64)

// UKTaxCalculator computes income tax and capital gains tax for one tax year's
// thresholds. All methods are pure.
type UKTaxCalculator struct {
	PersonalAllowance decimal.Decimal
	TaperThreshold    decimal.Decimal
	CGTAnnualExempt   decimal.Decimal
	CGTBasicRate      decimal.Decimal
	CGTHigherRate     decimal.Decimal
	BasicRateLimit    decimal.Decimal // UK-wide, used for CGT rate banding

	bands          map[Jurisdiction][]TaxBand
	basicCeilings  map[Jurisdiction]decimal.Decimal
	higherCeilings map[Jurisdiction]decimal.Decimal
	taperZoneRates map[Jurisdiction]decimal.Decimal
}

// NewUKTaxCalculator creates a calculator with 2025/26 thresholds.
func NewUKTaxCalculator() *UKTaxCalculator {
	return &UKTaxCalculator{
		PersonalAllowance: decimal.NewFromInt(12570),
		TaperThreshold:    decimal.NewFromInt(100000),
		CGTAnnualExempt:   decimal.NewFromInt(3000),
		CGTBasicRate:      decimal.NewFromFloat(0.10),
		CGTHigherRate:     decimal.NewFromFloat(0.20),
		BasicRateLimit:    decimal.NewFromInt(50270),
		bands: map[Jurisdiction][]TaxBand{
			JurisdictionUK: {
				{"Personal Allowance", decimal.Zero, decimal.NewFromInt(12570), decimal.Zero},
				{"Basic Rate", decimal.NewFromInt(12570), decimal.NewFromInt(50270), decimal.NewFromFloat(0.20)},
				{"Higher Rate", decimal.NewFromInt(50270), decimal.NewFromInt(125140), decimal.NewFromFloat(0.40)},
				{"Additional Rate", decimal.NewFromInt(125140), bandCap, decimal.NewFromFloat(0.45)},
			},
			JurisdictionScotland: {
				{"Personal Allowance", decimal.Zero, decimal.NewFromInt(12570), decimal.Zero},
				{"Starter Rate", decimal.NewFromInt(12570), decimal.NewFromInt(15397), decimal.NewFromFloat(0.19)},
				{"Basic Rate", decimal.NewFromInt(15397), decimal.NewFromInt(27491), decimal.NewFromFloat(0.20)},
				{"Intermediate Rate", decimal.NewFromInt(27491), decimal.NewFromInt(43662), decimal.NewFromFloat(0.21)},
				{"Higher Rate", decimal.NewFromInt(43662), decimal.NewFromInt(75000), decimal.NewFromFloat(0.42)},
				{"Advanced Rate", decimal.NewFromInt(75000), decimal.NewFromInt(125140), decimal.NewFromFloat(0.45)},
				{"Top Rate", decimal.NewFromInt(125140), bandCap, decimal.NewFromFloat(0.48)},
			},
		},
		basicCeilings: map[Jurisdiction]decimal.Decimal{
			JurisdictionUK:       decimal.NewFromInt(50270),
			JurisdictionScotland: decimal.NewFromInt(43662),
		},
		higherCeilings: map[Jurisdiction]decimal.Decimal{
			JurisdictionUK:       decimal.NewFromInt(125140),
			JurisdictionScotland: decimal.NewFromInt(125140),
		},
		// Inside the taper zone each extra £1 also costs 50p of allowance,
		// so the effective marginal rate is 1.5x the band rate: 1.5x40%
		// (UK higher), 1.5x45% (Scottish advanced).
		taperZoneRates: map[Jurisdiction]decimal.Decimal{
			JurisdictionUK:       decimal.NewFromFloat(0.60),
			JurisdictionScotland: decimal.NewFromFloat(0.675),
		},
	}
}

// EffectivePersonalAllowance returns the allowance after tapering, with both
// the allowance and the taper threshold scaled by inflationFactor.
func (tc *UKTaxCalculator) EffectivePersonalAllowance(grossIncome, inflationFactor decimal.Decimal) decimal.Decimal {
	allowance := tc.PersonalAllowance.Mul(inflationFactor)
	threshold := tc.TaperThreshold.Mul(inflationFactor)
	if grossIncome.GreaterThan(threshold) {
		reduction := grossIncome.Sub(threshold).Div(decimal.NewFromInt(2))
		allowance = allowance.Sub(reduction)
		if allowance.LessThan(decimal.Zero) {
			allowance = decimal.Zero
		}
	}
	return allowance
}

// adjustedBands scales the jurisdiction's bands by inflationFactor and shifts
// every band above the zero-rate band down by the tapered-away allowance.
// Shifting (rather than rebuilding the table) keeps the taper correct for
// Scotland's starter band without jurisdiction-specific logic.
func (tc *UKTaxCalculator) adjustedBands(grossIncome decimal.Decimal, j Jurisdiction, inflationFactor decimal.Decimal) []TaxBand {
	effective := tc.EffectivePersonalAllowance(grossIncome, inflationFactor)
	shift := tc.PersonalAllowance.Mul(inflationFactor).Sub(effective)

	base := tc.bands[j]
	adjusted := make([]TaxBand, len(base))
	for i, b := range base {
		adjusted[i] = TaxBand{
			Name: b.Name,
			Min:  b.Min.Mul(inflationFactor),
			Max:  b.Max.Mul(inflationFactor),
			Rate: b.Rate,
		}
		if i == 0 {
			adjusted[i].Max = effective
			continue
		}
		adjusted[i].Min = adjusted[i].Min.Sub(shift)
		adjusted[i].Max = adjusted[i].Max.Sub(shift)
	}
	return adjusted
}

// CalculateIncomeTax computes income tax on grossIncome, walking the adjusted
// bands in ascending order. The breakdown lists every band that received a
// nonzero amount of income, zero-rate band included.
func (tc *UKTaxCalculator) CalculateIncomeTax(grossIncome decimal.Decimal, j Jurisdiction, inflationFactor decimal.Decimal) (decimal.Decimal, []BandCharge) {
	if grossIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	totalTax := decimal.Zero
	var breakdown []BandCharge
	for _, band := range tc.adjustedBands(grossIncome, j, inflationFactor) {
		if grossIncome.LessThanOrEqual(band.Min) {
			break
		}
		amount := decimal.Min(grossIncome, band.Max).Sub(band.Min)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		tax := amount.Mul(band.Rate)
		totalTax = totalTax.Add(tax)
		breakdown = append(breakdown, BandCharge{Band: band.Name, Amount: amount, Tax: tax})
	}
	return totalTax, breakdown
}

// CalculateCapitalGainsTax computes CGT on realised gains given the year's
// other taxable income. Gains within the basic-rate room left after other
// income are taxed at the basic CGT rate, the rest at the higher rate.
func (tc *UKTaxCalculator) CalculateCapitalGainsTax(gains, otherIncome decimal.Decimal, j Jurisdiction, inflationFactor decimal.Decimal) decimal.Decimal {
	exempt := tc.CGTAnnualExempt.Mul(inflationFactor)
	taxableGains := gains.Sub(exempt)
	if taxableGains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	// The allowance taper sees gains as income, so the allowance is computed
	// against income plus taxable gains.
	allowance := tc.EffectivePersonalAllowance(otherIncome.Add(taxableGains), inflationFactor)
	taxableOther := otherIncome.Sub(allowance)
	if taxableOther.LessThan(decimal.Zero) {
		taxableOther = decimal.Zero
	}

	basicBand := tc.BasicRateLimit.Sub(tc.PersonalAllowance).Mul(inflationFactor)
	basicRoom := basicBand.Sub(taxableOther)
	if basicRoom.LessThan(decimal.Zero) {
		basicRoom = decimal.Zero
	}

	atBasic := decimal.Min(taxableGains, basicRoom)
	atHigher := taxableGains.Sub(atBasic)
	return atBasic.Mul(tc.CGTBasicRate).Add(atHigher.Mul(tc.CGTHigherRate))
}

// MarginalRate returns the rate on the next unit of income. Inside the
// allowance taper zone it returns the combined effective rate of the band
// plus the allowance loss.
func (tc *UKTaxCalculator) MarginalRate(income decimal.Decimal, j Jurisdiction) decimal.Decimal {
	eliminationPoint := tc.TaperThreshold.Add(tc.PersonalAllowance.Mul(decimal.NewFromInt(2)))
	if income.GreaterThan(tc.TaperThreshold) && income.LessThan(eliminationPoint) {
		return tc.taperZoneRates[j]
	}

	bands := tc.bands[j]
	for _, band := range bands {
		if income.GreaterThanOrEqual(band.Min) && income.LessThan(band.Max) {
			return band.Rate
		}
	}
	return bands[len(bands)-1].Rate
}

// BracketCeiling resolves a bracket target to the gross income ceiling the
// drawdown strategy fills pension withdrawals up to. TargetNoLimit resolves
// to zero: no bracket filling, pension is only touched for the lump sum and
// as the last-resort overflow source.
func (tc *UKTaxCalculator) BracketCeiling(target domain.TaxBracketTarget, j Jurisdiction, inflationFactor decimal.Decimal) decimal.Decimal {
	switch target {
	case domain.TargetPersonalAllowance:
		return tc.PersonalAllowance.Mul(inflationFactor)
	case domain.TargetBasicRate:
		return tc.basicCeilings[j].Mul(inflationFactor)
	case domain.TargetHigherRate:
		return tc.higherCeilings[j].Mul(inflationFactor)
	default:
		return decimal.Zero
	}
}
