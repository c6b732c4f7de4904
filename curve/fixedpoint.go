package curve

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// On-chain fixed-point bases. Token amounts travel as 18-fractional-digit
// integers, the quote currency (a USDC-like asset) as 6.
const (
	TokenDecimals int32 = 18
	QuoteDecimals int32 = 6
)

// ToBaseUnits converts a human-readable amount into the chain's fixed-point
// integer representation, truncating anything below the base precision.
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// FromBaseUnits converts a fixed-point integer back to a decimal amount.
func FromBaseUnits(units *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(units, 0).Shift(-decimals)
}
