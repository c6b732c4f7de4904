package market_test

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moonfun/moonfun-portal/market"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/zeebo/assert"
)

func totalSoldResult(tokens int64) string {
	wei := new(big.Int).Mul(big.NewInt(tokens), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	return fmt.Sprintf("0x%064x", wei)
}

func TestRPCReaderTotalSold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		parsed := gjson.ParseBytes(body)
		assert.Equal(t, "eth_call", parsed.Get("method").String())
		assert.Equal(t, "0xtoken", parsed.Get("params.0.to").String())

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, totalSoldResult(150_000_000))
	}))
	defer srv.Close()

	reader := market.NewRPCReader(srv.URL, nil, "")
	got, err := reader.TotalSold(context.Background(), "0xtoken")
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(150_000_000)))
}

func TestRPCReaderFailsOverToBackup(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer primary.Close()

	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, totalSoldResult(7))
	}))
	defer backup.Close()

	reader := market.NewRPCReader(primary.URL, []string{backup.URL}, "")
	got, err := reader.TotalSold(context.Background(), "0xtoken")
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
}

func TestRPCReaderSurfacesRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`)
	}))
	defer srv.Close()

	reader := market.NewRPCReader(srv.URL, nil, "")
	_, err := reader.TotalSold(context.Background(), "0xtoken")
	assert.Error(t, err)
}

func TestRPCReaderRecentTrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens/0xtoken/trades", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"txHash":"0xaa","side":"buy","tokenAmount":"1000","quoteAmount":"1","block":12,"timestamp":1700000000},
			{"txHash":"0xbb","side":"sell","tokenAmount":"50","quoteAmount":"0.05","block":11,"timestamp":1699999990}
		]`)
	}))
	defer srv.Close()

	reader := market.NewRPCReader("http://unused.invalid", nil, srv.URL)
	trades, err := reader.RecentTrades(context.Background(), "0xtoken", 25)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(trades))
	assert.Equal(t, "0xaa", trades[0].TxHash)
	assert.Equal(t, "sell", trades[1].Side)
	assert.True(t, trades[1].QuoteAmount.Equal(decimal.RequireFromString("0.05")))
}
