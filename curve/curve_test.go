package curve_test

import (
	"math/big"
	"testing"

	"github.com/moonfun/moonfun-portal/curve"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func TestPriceMonotonicAboveAllocation(t *testing.T) {
	params := curve.DefaultParams()

	prev := decimal.Zero
	supply := params.CreatorAllocation
	step := decimal.NewFromInt(1_000_000)
	for i := 0; i < 50; i++ {
		price := params.Price(supply)
		if price.LessThan(prev) {
			t.Fatalf("price decreased at supply %s: %s < %s", supply, price, prev)
		}
		prev = price
		supply = supply.Add(step)
	}
}

func TestPriceFlooredInsideAllocation(t *testing.T) {
	params := curve.DefaultParams()

	for _, supply := range []int64{0, 1, 50_000_000, 99_999_999} {
		price := params.Price(decimal.NewFromInt(supply))
		assert.True(t, price.Equal(params.InitialPrice))
	}
}

func TestBuyQuoteSpotPrice(t *testing.T) {
	params := curve.DefaultParams()
	totalSold := decimal.NewFromInt(100_000_000)

	q := params.BuyQuote(totalSold, "1")

	// Spot price at the allocation boundary is still the initial price,
	// so 1 unit of quote currency buys exactly 1000 tokens.
	assert.Equal(t, "1000.00", q.EstimatedOutput.StringFixed(2))
	assert.True(t, q.MinimumOutput.Equal(decimal.NewFromInt(980)))

	want := new(big.Int).Mul(big.NewInt(980), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	assert.Equal(t, 0, q.MinimumBaseUnits.Cmp(want))
}

func TestSellQuoteTwoPointAverage(t *testing.T) {
	// Increment chosen so the interval endpoints land on round prices:
	// price(200M) = 0.101, price(150M) = 0.051, average 0.076.
	params := curve.Params{
		InitialPrice:      decimal.RequireFromString("0.001"),
		PriceIncrement:    decimal.RequireFromString("0.000000001"),
		CreatorAllocation: decimal.NewFromInt(100_000_000),
		SlippageBps:       200,
	}
	totalSold := decimal.NewFromInt(200_000_000)

	q := params.SellQuote(totalSold, "50000000")

	// The sell path must use the trapezoid over [S-T, S], not the spot
	// price at S (which would give 5050000).
	assert.Equal(t, "3800000.000000", q.EstimatedOutput.StringFixed(6))
	assert.True(t, q.MinimumOutput.Equal(decimal.NewFromInt(3_724_000)))

	want := new(big.Int).Mul(big.NewInt(3_724_000), big.NewInt(1_000_000))
	assert.Equal(t, 0, q.MinimumBaseUnits.Cmp(want))
}

func TestQuoteDegradesToZeroOnBadInput(t *testing.T) {
	params := curve.DefaultParams()
	totalSold := decimal.NewFromInt(150_000_000)

	for _, input := range []string{"", "   ", "abc", "1.2.3", "0", "-5", "NaN"} {
		buy := params.BuyQuote(totalSold, input)
		assert.True(t, buy.IsZero())
		assert.True(t, buy.MinimumOutput.IsZero())

		sell := params.SellQuote(totalSold, input)
		assert.True(t, sell.IsZero())
		assert.True(t, sell.MinimumOutput.IsZero())
	}
}

func TestBuyQuoteZeroPriceGuard(t *testing.T) {
	// A parameter set this broken fails Validate, but the quote path still
	// must not divide by zero.
	params := curve.Params{SlippageBps: 200}

	q := params.BuyQuote(decimal.NewFromInt(1000), "5")
	assert.True(t, q.IsZero())
}

func TestMinOutputSlippage(t *testing.T) {
	params := curve.DefaultParams()

	expected := decimal.NewFromInt(12345)
	min := params.MinOutput(expected)
	assert.True(t, min.Equal(decimal.RequireFromString("12098.1")))

	// Both directions share the slippage rule: min = estimate * 0.98.
	buy := params.BuyQuote(decimal.NewFromInt(100_000_000), "2")
	assert.True(t, buy.MinimumOutput.Equal(buy.EstimatedOutput.Mul(decimal.RequireFromString("0.98"))))

	sell := params.SellQuote(decimal.NewFromInt(100_000_000), "1000")
	assert.True(t, sell.MinimumOutput.Equal(sell.EstimatedOutput.Mul(decimal.RequireFromString("0.98"))))
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, curve.DefaultParams().Validate())

	bad := curve.DefaultParams()
	bad.InitialPrice = decimal.Zero
	assert.Error(t, bad.Validate())

	bad = curve.DefaultParams()
	bad.SlippageBps = 10000
	assert.Error(t, bad.Validate())
}
