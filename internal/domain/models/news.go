package models

import "time"

// Polarity is the direction a headline leans.
type Polarity string

const (
	Bullish Polarity = "bullish"
	Bearish Polarity = "bearish"
)

// HeadlineRecord is a single news article scoped to one or more tickers.
// Immutable once produced; a missing Sentiment is filled by the classifier
// before aggregation. ProviderSentiment carries the upstream polarity word
// ("positive" | "negative" | "neutral" | "") and never leaves the process.
type HeadlineRecord struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Source            string    `json:"source"`
	URL               string    `json:"url"`
	PublishedAt       time.Time `json:"publishedAt"`
	Tickers           []string  `json:"tickers"`
	Sentiment         Polarity  `json:"sentiment,omitempty"`
	Score             float64   `json:"score"`
	ImageURL          string    `json:"image_url,omitempty"`
	Text              string    `json:"text,omitempty"`
	ProviderSentiment string    `json:"-"`
}

// Classified reports whether a polarity has been assigned.
func (h *HeadlineRecord) Classified() bool { return h.Sentiment != "" }

// Label is one classifier verdict for a headline title.
type Label struct {
	Sentiment Polarity `json:"sentiment"`
	Score     float64  `json:"score"`
}

// ScoredHeadline is the minimal aggregator input: a per-headline score in
// [-1,1] plus its publication time.
type ScoredHeadline struct {
	Title       string
	PublishedAt time.Time
	Score       float64
}

// StatSummary is the pre-aggregated sentiment summary for a ticker and date
// window. Ephemeral, produced per request, never persisted. OK is false when
// the provider was unreachable or credentials are absent.
type StatSummary struct {
	OK      bool     `json:"ok"`
	Score   float64  `json:"score"` // -1.5..+1.5
	Count   int      `json:"count"`
	Bullish int      `json:"bullish"`
	Bearish int      `json:"bearish"`
	Drivers []string `json:"drivers"`
}

// Empty reports whether the summary carries no usable signal even though the
// call itself succeeded.
func (s StatSummary) Empty() bool { return s.Count == 0 && s.Score == 0 }

// AggregateResult is the time-decayed reduction of a set of scored headlines.
type AggregateResult struct {
	Score   float64 `json:"score"` // -1.5..+1.5 after rescale
	Count   int     `json:"count"`
	Bullish int     `json:"bullish"`
	Bearish int     `json:"bearish"`
}

// NewsAggregate is the plain (undecayed) mean used by the plan generator.
type NewsAggregate struct {
	Avg     float64 `json:"avg"`
	Bullish int     `json:"bullish"`
	Bearish int     `json:"bearish"`
}
