package curve_test

import (
	"sync"
	"testing"
	"time"

	"github.com/moonfun/moonfun-portal/curve"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := curve.NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var fired []string

	for _, v := range []string{"1", "12", "123", "1234"} {
		v := v
		d.Trigger(func() {
			mu.Lock()
			fired = append(fired, v)
			mu.Unlock()
		})
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, len(fired))
	assert.Equal(t, "1234", fired[0])
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := curve.NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	count := 0
	d.Trigger(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, count)

	// Triggers after Stop are rejected outright.
	d.Trigger(func() { t.Error("trigger after stop should not fire") })
	time.Sleep(100 * time.Millisecond)
}

func TestPreviewerDebouncedInput(t *testing.T) {
	var mu sync.Mutex
	var quotes []curve.Quote

	p := curve.NewPreviewer(curve.DefaultParams(), 30*time.Millisecond, func(q curve.Quote) {
		mu.Lock()
		quotes = append(quotes, q)
		mu.Unlock()
	})
	defer p.Close()

	p.SetTotalSold(decimal.NewFromInt(100_000_000))

	mu.Lock()
	immediate := len(quotes)
	mu.Unlock()
	assert.Equal(t, 1, immediate)

	// Rapid keystrokes: only the final value should ever be quoted.
	for _, input := range []string{"1", "10", "100"} {
		p.SetInput(input)
	}
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, len(quotes))
	last := quotes[len(quotes)-1]
	// 100 quote units at spot price 0.001 buys 100000 tokens.
	assert.True(t, last.EstimatedOutput.Equal(decimal.NewFromInt(100_000)))
}

func TestPreviewerDirectionRecomputesImmediately(t *testing.T) {
	var mu sync.Mutex
	var last curve.Quote
	count := 0

	p := curve.NewPreviewer(curve.DefaultParams(), time.Hour, func(q curve.Quote) {
		mu.Lock()
		last = q
		count++
		mu.Unlock()
	})
	defer p.Close()

	p.SetDirection(curve.Sell)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
	assert.Equal(t, curve.Sell, last.Direction)
}
