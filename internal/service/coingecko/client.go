package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FluxFeed/internal/domain/repository"
	xhttp "FluxFeed/pkg/http"
)

// idMap maps asset tickers to coin IDs. Unknown tickers fall back to the
// lowercased ticker, which matches the IDs of most smaller listings.
var idMap = map[string]string{
	"BTC": "bitcoin", "ETH": "ethereum", "BNB": "binancecoin", "SOL": "solana",
	"XRP": "ripple", "ADA": "cardano", "DOGE": "dogecoin", "AVAX": "avalanche-2",
	"TRX": "tron", "DOT": "polkadot", "LINK": "chainlink", "MATIC": "matic-network",
	"LTC": "litecoin", "BCH": "bitcoin-cash", "TON": "the-open-network",
	"ARB": "arbitrum", "OP": "optimism", "ATOM": "cosmos", "APT": "aptos",
}

// AssetID maps a ticker to its coin ID.
func AssetID(ticker string) string {
	if id, ok := idMap[ticker]; ok {
		return id
	}
	return strings.ToLower(ticker)
}

// DaysFor picks a market-chart lookback wide enough to cover a feature window
// at the given timeframe without pulling more hourly points than needed.
func DaysFor(tf repository.Timeframe) int {
	switch tf {
	case repository.TF4h:
		return 2
	case repository.TF1d:
		return 7
	default:
		return 1
	}
}

// Client fetches hourly close series from the coingecko market-chart API.
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

var _ repository.PriceSeries = (*Client)(nil)

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

// HourlyCloses returns the hourly USD price series for assetID over the last
// days days, oldest first.
func (c *Client) HourlyCloses(ctx context.Context, assetID string, days int) ([]float64, error) {
	var chart marketChart
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/coins/" + assetID + "/market_chart",
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"days":        {strconv.Itoa(days)},
			"interval":    {"hourly"},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart: %v: %w", err, repository.ErrProviderUnavailable)
	}

	closes := make([]float64, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		if len(p) < 2 {
			continue
		}
		closes = append(closes, p[1])
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("coingecko %s: %w", assetID, repository.ErrProviderEmpty)
	}
	return closes, nil
}
