package sequencing

import "github.com/shopspring/decimal"

// CoupleWithdraw allocates one year's household draw across two people. The
// step structure is identical to Withdraw, but each step runs for person1
// first and then person2 before falling through to the next step, so the
// household drains both tax-free lump sums, then both bracket allowances,
// then both ISAs, and so on.
//
// The person1-first ordering within each step is a simplification: a true
// joint optimum might interleave the two people's bracket capacity depending
// on headroom and marginal rates.
func CoupleWithdraw(p1, p2 PersonContext, target decimal.Decimal) (Allocation, Allocation, decimal.Decimal) {
	var a1, a2 Allocation
	remaining := target

	remaining = takeTaxFreeLumpSum(&p1, &a1, remaining)
	remaining = takeTaxFreeLumpSum(&p2, &a2, remaining)

	remaining = takeBracketFill(&p1, &a1, remaining)
	remaining = takeBracketFill(&p2, &a2, remaining)

	remaining = takeISA(&p1, &a1, remaining)
	remaining = takeISA(&p2, &a2, remaining)

	remaining = takeLISA(&p1, &a1, remaining)
	remaining = takeLISA(&p2, &a2, remaining)

	remaining = takeTaxable(&p1, &a1, remaining)
	remaining = takeTaxable(&p2, &a2, remaining)

	remaining = takeOverflowPension(&p1, &a1, remaining)
	remaining = takeOverflowPension(&p2, &a2, remaining)

	return a1, a2, remaining
}
