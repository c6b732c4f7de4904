// Package market supplies the authoritative on-chain state the quote engine
// consumes: the token's cumulative totalSold, plus the recent trade feed the
// chart and transaction table poll. The chain is the source of truth; this
// package only reads it.
package market

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "market").Logger()
}

// SetLogger allows setting a custom logger
func SetLogger(l zerolog.Logger) {
	log = l
}

// Trade is one settled buy or sell against the curve.
type Trade struct {
	TxHash      string          `json:"txHash"`
	Side        string          `json:"side"`
	TokenAmount decimal.Decimal `json:"tokenAmount"`
	QuoteAmount decimal.Decimal `json:"quoteAmount"`
	Block       uint64          `json:"block"`
	Timestamp   int64           `json:"timestamp"`
}

// Reader reads authoritative market state for one token.
type Reader interface {
	// TotalSold returns the cumulative token amount the curve has issued,
	// in whole-token units.
	TotalSold(ctx context.Context, token string) (decimal.Decimal, error)
	// RecentTrades returns the newest trades, most recent first.
	RecentTrades(ctx context.Context, token string, limit int) ([]Trade, error)
}

// totalSoldSelector is the 4-byte selector of the token contract's
// totalSold() view.
const totalSoldSelector = "0x9ca423b3"

// tokenDecimals is the token's on-chain fixed-point base.
const tokenDecimals = 18

// RPCReader reads totalSold via JSON-RPC eth_call against an EVM endpoint,
// with failover across backup endpoints, and the trade feed from the
// launchpad indexer's REST API.
type RPCReader struct {
	rpcURL     string
	backupURLs []string
	indexerURL string
	client     *http.Client
}

// NewRPCReader creates a reader. backupURLs may be empty; indexerURL may be
// empty if the deployment has no indexer, in which case RecentTrades errors.
func NewRPCReader(rpcURL string, backupURLs []string, indexerURL string) *RPCReader {
	return &RPCReader{
		rpcURL:     rpcURL,
		backupURLs: backupURLs,
		indexerURL: indexerURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// TotalSold calls totalSold() on the token contract and converts the
// 18-decimal fixed-point result to whole tokens.
func (r *RPCReader) TotalSold(ctx context.Context, token string) (decimal.Decimal, error) {
	payload := fmt.Sprintf(
		`{"jsonrpc":"2.0","id":1,"method":"eth_call","params":[{"to":%q,"data":%q},"latest"]}`,
		token, totalSoldSelector,
	)

	body, err := r.postWithFailover(ctx, []byte(payload))
	if err != nil {
		return decimal.Decimal{}, err
	}

	parsed := gjson.ParseBytes(body)
	if rpcErr := parsed.Get("error.message").String(); rpcErr != "" {
		return decimal.Decimal{}, fmt.Errorf("eth_call failed: %s", rpcErr)
	}

	result := parsed.Get("result").String()
	if len(result) < 2 || result[:2] != "0x" {
		return decimal.Decimal{}, fmt.Errorf("eth_call returned malformed result: %q", result)
	}

	raw, ok := new(big.Int).SetString(result[2:], 16)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("eth_call result is not hex: %q", result)
	}

	return decimal.NewFromBigInt(raw, 0).Shift(-tokenDecimals), nil
}

// postWithFailover sends the JSON-RPC request to the primary endpoint and
// walks the backups in order when it fails. A single attempt per endpoint;
// the poller retries on its own schedule anyway.
func (r *RPCReader) postWithFailover(ctx context.Context, payload []byte) ([]byte, error) {
	endpoints := append([]string{r.rpcURL}, r.backupURLs...)

	var lastErr error
	for _, endpoint := range endpoints {
		body, err := r.post(ctx, endpoint, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("rpc endpoint failed, trying next")

		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all rpc endpoints failed: %w", lastErr)
}

func (r *RPCReader) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// RecentTrades fetches the indexer's trade feed for the token.
func (r *RPCReader) RecentTrades(ctx context.Context, token string, limit int) ([]Trade, error) {
	if r.indexerURL == "" {
		return nil, fmt.Errorf("no indexer endpoint configured")
	}

	endpoint := fmt.Sprintf("%s/tokens/%s/trades?limit=%d", r.indexerURL, url.PathEscape(token), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer HTTP %d: %s", resp.StatusCode, string(body))
	}

	var trades []Trade
	for _, item := range gjson.ParseBytes(body).Array() {
		tokenAmount, err := decimal.NewFromString(item.Get("tokenAmount").String())
		if err != nil {
			continue
		}
		quoteAmount, err := decimal.NewFromString(item.Get("quoteAmount").String())
		if err != nil {
			continue
		}
		trades = append(trades, Trade{
			TxHash:      item.Get("txHash").String(),
			Side:        item.Get("side").String(),
			TokenAmount: tokenAmount,
			QuoteAmount: quoteAmount,
			Block:       item.Get("block").Uint(),
			Timestamp:   item.Get("timestamp").Int(),
		})
	}
	return trades, nil
}
