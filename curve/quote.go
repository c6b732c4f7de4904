package curve

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction is the side of a trade being previewed.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// ParseDirection maps user input onto a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, true
	case Sell:
		return Sell, true
	}
	return "", false
}

// Display precision per unit. Token amounts render with 2 fractional digits,
// quote-currency amounts with 6. These are display contracts the frontend
// golden tests depend on, distinct from the on-chain base precision.
const (
	tokenDisplayPlaces = 2
	quoteDisplayPlaces = 6
)

// Quote is the preview of a single trade. EstimatedOutput is the counter
// amount the curve predicts, MinimumOutput the slippage-bounded floor the
// submission layer passes on-chain as a revert guard. MinimumBaseUnits is
// MinimumOutput in the fixed-point base the chain expects.
type Quote struct {
	Direction        Direction
	EstimatedOutput  decimal.Decimal
	MinimumOutput    decimal.Decimal
	MinimumBaseUnits *big.Int
}

// IsZero reports whether the quote degraded to the zero estimate.
func (q Quote) IsZero() bool {
	return q.EstimatedOutput.IsZero()
}

func zeroQuote(d Direction) Quote {
	return Quote{Direction: d, MinimumBaseUnits: new(big.Int)}
}

// BuyQuote estimates how many tokens a quote-currency amount buys at the
// current totalSold. The whole trade is priced at the spot price; this is a
// deliberate single-point approximation and must not be "upgraded" to the
// integral, because it mirrors what the contract's buy path charges.
// Malformed or non-positive input degrades to a zero quote, never an error.
func (p Params) BuyQuote(totalSold decimal.Decimal, input string) Quote {
	amount, ok := parseAmount(input)
	if !ok {
		return zeroQuote(Buy)
	}

	price := p.Price(totalSold)
	if price.IsZero() {
		// Unreachable with a positive InitialPrice, but a misconfigured
		// parameter set must not turn into a division by zero.
		log.Debug().Str("total_sold", totalSold.String()).Msg("spot price is zero, returning zero quote")
		return zeroQuote(Buy)
	}

	tokens := amount.Div(price).Round(tokenDisplayPlaces)
	minOut := p.MinOutput(tokens).Round(TokenDecimals)
	return Quote{
		Direction:        Buy,
		EstimatedOutput:  tokens,
		MinimumOutput:    minOut,
		MinimumBaseUnits: ToBaseUnits(minOut, TokenDecimals),
	}
}

// SellQuote estimates the quote-currency proceeds of selling a token amount.
// Unlike the buy path it averages the spot price at the start and end of the
// interval (a trapezoid over the curve), matching the contract's sell path.
// The buy/sell asymmetry is intentional.
func (p Params) SellQuote(totalSold decimal.Decimal, input string) Quote {
	tokens, ok := parseAmount(input)
	if !ok {
		return zeroQuote(Sell)
	}

	startPrice := p.Price(totalSold)
	endPrice := p.Price(totalSold.Sub(tokens))
	avgPrice := startPrice.Add(endPrice).Div(decimal.NewFromInt(2))

	proceeds := tokens.Mul(avgPrice).Round(quoteDisplayPlaces)
	minOut := p.MinOutput(proceeds).Round(QuoteDecimals)
	return Quote{
		Direction:        Sell,
		EstimatedOutput:  proceeds,
		MinimumOutput:    minOut,
		MinimumBaseUnits: ToBaseUnits(minOut, QuoteDecimals),
	}
}

// QuoteFor dispatches on direction.
func (p Params) QuoteFor(d Direction, totalSold decimal.Decimal, input string) Quote {
	if d == Sell {
		return p.SellQuote(totalSold, input)
	}
	return p.BuyQuote(totalSold, input)
}

// parseAmount turns an untrusted user string into a positive decimal.
// Empty, malformed, zero and negative inputs all yield ok=false.
func parseAmount(input string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		log.Debug().Str("input", trimmed).Msg("unparsable trade amount")
		return decimal.Decimal{}, false
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
