package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FluxFeed/internal/domain/repository"
	xhttp "FluxFeed/pkg/http"
)

// pairMap maps asset tickers to spot trading pairs. Unknown tickers default
// to {TICKER}USDT.
var pairMap = map[string]string{
	"BTC": "BTCUSDT", "ETH": "ETHUSDT", "BNB": "BNBUSDT", "SOL": "SOLUSDT",
	"XRP": "XRPUSDT", "ADA": "ADAUSDT", "DOGE": "DOGEUSDT", "AVAX": "AVAXUSDT",
	"TRX": "TRXUSDT", "DOT": "DOTUSDT", "LINK": "LINKUSDT", "MATIC": "MATICUSDT",
	"LTC": "LTCUSDT", "BCH": "BCHUSDT", "TON": "TONUSDT", "ARB": "ARBUSDT",
	"OP": "OPUSDT", "ATOM": "ATOMUSDT", "APT": "APTUSDT",
}

// PairFor maps a ticker to its exchange trading pair.
func PairFor(ticker string) string {
	if p, ok := pairMap[ticker]; ok {
		return p
	}
	return ticker + "USDT"
}

// IntervalFor maps a chart timeframe to the exchange's native interval code.
func IntervalFor(tf repository.Timeframe) string {
	switch tf {
	case repository.TF15m, repository.TF1h, repository.TF4h, repository.TF1d:
		return string(tf)
	default:
		return "1h"
	}
}

// Client fetches kline closes from the exchange REST API.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

var _ repository.CandleProvider = (*Client)(nil)

// Closes returns up to limit closing prices for pair/interval, oldest first.
// Kline field index 4 is the close; the exchange serializes it as a string.
func (c *Client) Closes(ctx context.Context, pair, interval string, limit int) ([]float64, error) {
	var klines [][]json.RawMessage
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/v3/klines",
		QueryParams: map[string][]string{
			"symbol":   {pair},
			"interval": {interval},
			"limit":    {strconv.Itoa(limit)},
		},
	}, &klines)
	if err != nil {
		return nil, fmt.Errorf("binance klines: %v: %w", err, repository.ErrProviderUnavailable)
	}

	closes := make([]float64, 0, len(klines))
	for _, k := range klines {
		if len(k) < 5 {
			continue
		}
		v, ok := rawToFloat(k[4])
		if !ok {
			continue
		}
		closes = append(closes, v)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("binance klines %s: %w", pair, repository.ErrProviderEmpty)
	}
	return closes, nil
}

func rawToFloat(raw json.RawMessage) (float64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	return 0, false
}
