// Package engine implements the pari-mutuel pricing math.
//
// Odds are prospective: a quote simulates the pool state after the incoming
// stake has been added to the selected option, so the price a bettor sees
// already reflects their own impact on the pool. Once a bet is placed the
// odds are locked and never recalculated; later pool movement only changes
// the prices quoted to future bettors.
package engine

import "github.com/shopspring/decimal"

// FloorOdds is the minimum multiplier ever quoted. A winning bettor always
// gets at least their stake back plus 1%.
const FloorOdds = 1.01

// Option is a pool slice: one exclusive outcome and the total (non-void)
// amount currently staked on it, in paise.
type Option struct {
	ID             string
	TotalAmountBet int64
}

var (
	floorOdds = decimal.NewFromFloat(FloorOdds)
	hundred   = decimal.NewFromInt(100)
)

// ComputeOdds returns the payout multiplier for placing stake paise on the
// selected option, pari-mutuel with a multiplicative house edge
// (houseEdgePct in 0..20). The result is rounded half-up to 4 decimal
// places and floored at FloorOdds.
func ComputeOdds(options []Option, selectedID string, stake int64, houseEdgePct float64) float64 {
	var totalPool int64
	var selected *Option

	for i := range options {
		totalPool += options[i].TotalAmountBet
		if options[i].ID == selectedID {
			selected = &options[i]
		}
	}
	totalPool += stake

	if selected == nil {
		return FloorOdds
	}

	amountOnSelection := selected.TotalAmountBet + stake
	if amountOnSelection == 0 {
		return FloorOdds
	}

	rawOdds := decimal.NewFromInt(totalPool).Div(decimal.NewFromInt(amountOnSelection))
	houseMultiplier := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(houseEdgePct).Div(hundred))
	finalOdds := rawOdds.Mul(houseMultiplier).Round(4)

	if finalOdds.LessThan(floorOdds) {
		return FloorOdds
	}

	f, _ := finalOdds.Float64()
	return f
}

// Payout returns the amount in paise credited for a winning bet:
// stake * odds, rounded half-up to the nearest paisa.
func Payout(amount int64, odds float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(odds)).
		Round(0).
		IntPart()
}
