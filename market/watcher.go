package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPollInterval matches the chart and transaction table refresh.
const DefaultPollInterval = 5 * time.Second

// State is the last good snapshot of the watched token's market.
type State struct {
	TotalSold decimal.Decimal
	Trades    []Trade
	UpdatedAt time.Time
}

// Watcher polls a Reader on a fixed interval and keeps the last good State.
// Polls never overlap: each one runs to completion before the next tick is
// honored, and ticks that land mid-poll are dropped, not queued. A failed
// poll keeps the previous state.
type Watcher struct {
	reader      Reader
	token       string
	interval    time.Duration
	tradeLimit  int
	onUpdate    func(State)
	inFlight    atomic.Bool
	pollTimeout time.Duration

	mu    sync.RWMutex
	state State

	started   atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewWatcher creates a watcher for one token. onUpdate may be nil; when set
// it is called after every successful poll with the fresh state.
func NewWatcher(reader Reader, token string, interval time.Duration, onUpdate func(State)) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		reader:      reader,
		token:       token,
		interval:    interval,
		tradeLimit:  50,
		onUpdate:    onUpdate,
		pollTimeout: interval,
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}
}

// Start launches the polling goroutine. It polls once immediately so the
// first quote does not have to wait a full interval.
func (w *Watcher) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(w.stoppedCh)

		w.Poll(context.Background())

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopCh:
				return
			case <-ticker.C:
				w.Poll(context.Background())
			}
		}
	}()
}

// Poll performs one refresh. It returns false without doing anything when a
// previous poll is still in flight, so callers triggering manual refreshes
// cannot stack polls either.
func (w *Watcher) Poll(ctx context.Context) bool {
	if !w.inFlight.CompareAndSwap(false, true) {
		log.Debug().Str("token", w.token).Msg("poll still in flight, skipping")
		return false
	}
	defer w.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, w.pollTimeout)
	defer cancel()

	totalSold, err := w.reader.TotalSold(ctx, w.token)
	if err != nil {
		log.Warn().Err(err).Str("token", w.token).Msg("totalSold poll failed, keeping previous state")
		return true
	}

	trades, err := w.reader.RecentTrades(ctx, w.token, w.tradeLimit)
	if err != nil {
		// The trade feed is cosmetic next to totalSold; keep the old list.
		log.Warn().Err(err).Str("token", w.token).Msg("trade feed poll failed")
		w.mu.RLock()
		trades = w.state.Trades
		w.mu.RUnlock()
	}

	fresh := State{TotalSold: totalSold, Trades: trades, UpdatedAt: time.Now()}
	w.mu.Lock()
	w.state = fresh
	w.mu.Unlock()

	if w.onUpdate != nil {
		w.onUpdate(fresh)
	}
	return true
}

// State returns the last good snapshot.
func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Stop tears the polling goroutine down and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started.Load() {
			<-w.stoppedCh
		}
	})
}
