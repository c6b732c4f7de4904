// Package curve implements the linear bonding curve used to price launchpad
// tokens, mirrored from the factory contract so the UI can preview trades
// without a network round trip. The chain remains authoritative; everything
// here is an estimate plus the slippage-bounded minimum that guards the
// on-chain call.
package curve

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "curve").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l
}

// Params holds the bonding curve constants. Deployed factories have disagreed
// on the exact literals across revisions, so they are configuration, not code.
type Params struct {
	// InitialPrice is the price of the very first token, in quote currency.
	InitialPrice decimal.Decimal
	// PriceIncrement is the per-token price slope past the creator allocation.
	PriceIncrement decimal.Decimal
	// CreatorAllocation is the supply carve-out that does not count toward
	// the price ramp. Price stays at InitialPrice until it is exhausted.
	CreatorAllocation decimal.Decimal
	// SlippageBps is the slippage tolerance in basis points (200 = 2%).
	SlippageBps uint32
}

// DefaultParams returns the reference factory deployment constants.
func DefaultParams() Params {
	return Params{
		InitialPrice:      decimal.RequireFromString("0.001"),
		PriceIncrement:    decimal.RequireFromString("0.000001"),
		CreatorAllocation: decimal.NewFromInt(100_000_000),
		SlippageBps:       200,
	}
}

// Validate checks that the parameter set can actually price trades.
func (p Params) Validate() error {
	if p.InitialPrice.IsNegative() || p.InitialPrice.IsZero() {
		return fmt.Errorf("initial_price must be positive, got %s", p.InitialPrice)
	}
	if p.PriceIncrement.IsNegative() {
		return fmt.Errorf("price_increment must not be negative, got %s", p.PriceIncrement)
	}
	if p.CreatorAllocation.IsNegative() {
		return fmt.Errorf("creator_allocation must not be negative, got %s", p.CreatorAllocation)
	}
	if p.SlippageBps >= 10000 {
		return fmt.Errorf("slippage_bps must be below 10000, got %d", p.SlippageBps)
	}
	return nil
}

// Price returns the spot price at the given cumulative supply sold.
// Tokens inside the creator allocation do not move the price, so the
// curve is floored at InitialPrice.
func (p Params) Price(supply decimal.Decimal) decimal.Decimal {
	ramp := supply.Sub(p.CreatorAllocation)
	if ramp.IsNegative() {
		return p.InitialPrice
	}
	return p.InitialPrice.Add(ramp.Mul(p.PriceIncrement))
}
