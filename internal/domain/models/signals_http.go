package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Ticker string `query:"ticker" json:"ticker" default:"BTC"`
	TF     string `query:"tf" json:"tf" default:"1h" validate:"oneof=15m 1h 4h 1d"`
	Since  int    `query:"since" json:"since" default:"1440" validate:"gte=1,lte=43200"`
	Window string `query:"window" json:"window" validate:"omitempty,oneof=24h 7d 30d"`
}

// AnalyzeHeadline is a caller-supplied headline (e.g. a client-side cache)
// used instead of a fresh provider fetch.
type AnalyzeHeadline struct {
	Title       string  `json:"title" validate:"required"`
	Source      string  `json:"source"`
	Sentiment   string  `json:"sentiment" validate:"omitempty,oneof=bullish bearish"`
	Score       float64 `json:"score" validate:"gte=-1,lte=1"`
	PublishedAt string  `json:"publishedAt"`
}

type AnalyzeRequest struct {
	Ticker       string            `json:"ticker" default:"BTC"`
	TF           string            `json:"tf" default:"1h" validate:"oneof=15m 1h 4h 1d"`
	SinceMinutes int               `json:"sinceMinutes" default:"60" validate:"gte=1,lte=43200"`
	News         []AnalyzeHeadline `json:"news" validate:"omitempty,dive"`
}

type NewsRequest struct {
	Tickers   string `query:"tickers" json:"tickers"`
	Ticker    string `query:"ticker" json:"ticker"`
	Since     int    `query:"since" json:"since" default:"1440" validate:"gte=1,lte=43200"`
	Items     int    `query:"items" json:"items" default:"50" validate:"gte=1,lte=100"`
	Page      int    `query:"page" json:"page" default:"1" validate:"gte=1"`
	Sentiment string `query:"sentiment" json:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
}

type GeneralNewsRequest struct {
	Items int `query:"items" json:"items" default:"12" validate:"gte=1,lte=100"`
	Page  int `query:"page" json:"page" default:"1" validate:"gte=1"`
}

type TrendingNewsRequest struct {
	Page int `query:"page" json:"page" default:"1" validate:"gte=1"`
}

type SundownNewsRequest struct {
	Page int `query:"page" json:"page" default:"1" validate:"gte=1"`
}

type GeneralStatRequest struct {
	DateRange string `query:"dateRange" json:"dateRange" default:"last30days" validate:"oneof=last24hours last7days last30days"`
}

// LiveSignalRequest drives the WebSocket push stream; IntervalSec is the
// client-chosen recompute cadence.
type LiveSignalRequest struct {
	Ticker      string `query:"ticker" json:"ticker" default:"BTC"`
	TF          string `query:"tf" json:"tf" default:"1h" validate:"oneof=15m 1h 4h 1d"`
	Since       int    `query:"since" json:"since" default:"1440" validate:"gte=1,lte=43200"`
	Window      string `query:"window" json:"window" validate:"omitempty,oneof=24h 7d 30d"`
	IntervalSec int    `query:"interval" json:"interval" default:"30" validate:"gte=5,lte=300"`
}
