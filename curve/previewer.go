package curve

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Previewer drives live trade previews the way the trade form does: amount
// edits are debounced, while direction flips and fresh on-chain totalSold
// values recompute immediately. Each recomputation is delivered to the
// observer callback; stale intermediate inputs never produce a callback.
type Previewer struct {
	params   Params
	debounce *Debouncer
	onQuote  func(Quote)

	mu        sync.Mutex
	direction Direction
	input     string
	totalSold decimal.Decimal
}

// NewPreviewer creates a previewer that reports quotes to onQuote.
func NewPreviewer(params Params, debounce time.Duration, onQuote func(Quote)) *Previewer {
	return &Previewer{
		params:    params,
		debounce:  NewDebouncer(debounce),
		onQuote:   onQuote,
		direction: Buy,
	}
}

// SetInput records a new user-entered amount and schedules a debounced
// recomputation. Rapid successive edits collapse into one recomputation
// using the last value.
func (p *Previewer) SetInput(input string) {
	p.mu.Lock()
	p.input = input
	p.mu.Unlock()
	p.debounce.Trigger(p.recompute)
}

// SetDirection switches the trade side and recomputes immediately.
func (p *Previewer) SetDirection(d Direction) {
	p.mu.Lock()
	p.direction = d
	p.mu.Unlock()
	p.recompute()
}

// SetTotalSold feeds a fresh authoritative supply value (e.g. after a block
// update) and recomputes immediately.
func (p *Previewer) SetTotalSold(totalSold decimal.Decimal) {
	p.mu.Lock()
	p.totalSold = totalSold
	p.mu.Unlock()
	p.recompute()
}

// Close cancels any pending debounced recomputation.
func (p *Previewer) Close() {
	p.debounce.Stop()
}

func (p *Previewer) recompute() {
	p.mu.Lock()
	direction := p.direction
	input := p.input
	totalSold := p.totalSold
	p.mu.Unlock()

	quote := p.params.QuoteFor(direction, totalSold, input)
	if p.onQuote != nil {
		p.onQuote(quote)
	}
}
