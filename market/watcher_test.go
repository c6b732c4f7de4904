package market_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moonfun/moonfun-portal/market"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
)

// fakeReader serves scripted state and can be slowed down to simulate a
// poll taking longer than the interval.
type fakeReader struct {
	mu        sync.Mutex
	totalSold decimal.Decimal
	trades    []market.Trade
	delay     time.Duration
	calls     atomic.Int32
}

func (f *fakeReader) TotalSold(ctx context.Context, token string) (decimal.Decimal, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return decimal.Decimal{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalSold, nil
}

func (f *fakeReader) RecentTrades(ctx context.Context, token string, limit int) ([]market.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trades, nil
}

func TestWatcherPollUpdatesState(t *testing.T) {
	reader := &fakeReader{
		totalSold: decimal.NewFromInt(150_000_000),
		trades:    []market.Trade{{TxHash: "0xaa", Side: "buy"}},
	}
	w := market.NewWatcher(reader, "0xtoken", time.Hour, nil)

	assert.True(t, w.Poll(context.Background()))

	state := w.State()
	assert.True(t, state.TotalSold.Equal(decimal.NewFromInt(150_000_000)))
	assert.Equal(t, 1, len(state.Trades))
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestWatcherSkipsOverlappingPolls(t *testing.T) {
	reader := &fakeReader{delay: 200 * time.Millisecond}
	w := market.NewWatcher(reader, "0xtoken", time.Hour, nil)

	done := make(chan bool)
	go func() {
		done <- w.Poll(context.Background())
	}()

	// Give the first poll time to get in flight, then pile on.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, w.Poll(context.Background()))
	assert.False(t, w.Poll(context.Background()))

	assert.True(t, <-done)
	assert.Equal(t, int32(1), reader.calls.Load())
}

func TestWatcherStartStopLifecycle(t *testing.T) {
	reader := &fakeReader{totalSold: decimal.NewFromInt(42)}

	var updates atomic.Int32
	w := market.NewWatcher(reader, "0xtoken", 30*time.Millisecond, func(market.State) {
		updates.Add(1)
	})

	w.Start()
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	// Immediate poll on start plus at least one ticked poll.
	got := updates.Load()
	assert.True(t, got >= 2)

	// No further polls after Stop.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, got, updates.Load())

	// Stop is idempotent.
	w.Stop()
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := market.NewWatcher(&fakeReader{}, "0xtoken", time.Hour, nil)
	w.Stop()
}
