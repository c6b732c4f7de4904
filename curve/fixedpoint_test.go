package curve_test

import (
	"math/big"
	"testing"

	"github.com/moonfun/moonfun-portal/curve"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func TestToBaseUnits(t *testing.T) {
	units := curve.ToBaseUnits(decimal.RequireFromString("1.5"), curve.QuoteDecimals)
	assert.Equal(t, "1500000", units.String())

	// Anything below the base precision is truncated, not rounded.
	units = curve.ToBaseUnits(decimal.RequireFromString("0.0000019"), curve.QuoteDecimals)
	assert.Equal(t, "1", units.String())

	units = curve.ToBaseUnits(decimal.NewFromInt(980), curve.TokenDecimals)
	want := new(big.Int).Mul(big.NewInt(980), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	assert.Equal(t, 0, units.Cmp(want))
}

func TestFromBaseUnitsRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("42.123456")
	back := curve.FromBaseUnits(curve.ToBaseUnits(amount, curve.QuoteDecimals), curve.QuoteDecimals)
	assert.True(t, back.Equal(amount))
}
