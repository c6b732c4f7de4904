package curve

import "github.com/shopspring/decimal"

var bpsDenominator = decimal.NewFromInt(10000)

// MinOutput calculates the minimum acceptable output with slippage tolerance.
// SlippageBps is basis points (e.g., 200 = 2%)
// minOutput = expected * (10000 - slippageBps) / 10000
func (p Params) MinOutput(expected decimal.Decimal) decimal.Decimal {
	keep := decimal.NewFromInt(int64(10000 - p.SlippageBps))
	return expected.Mul(keep).Div(bpsDenominator)
}
