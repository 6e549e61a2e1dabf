package repository

import (
	"context"

	"FluxFeed/internal/domain/models"
)

// HeadlineQuery narrows a headline fetch.
type HeadlineQuery struct {
	Items        int
	Page         int
	Sentiment    string // "positive" | "negative" | "neutral" | ""
	SinceMinutes int    // client-side publication cutoff; 0 disables
}

// NewsProvider is the upstream news/stat source. Every method returns a
// wrapped sentinel from errors.go on failure; callers absorb those into
// degraded output rather than surfacing them.
type NewsProvider interface {
	// Stat fetches the pre-aggregated sentiment summary for a ticker.
	Stat(ctx context.Context, ticker string, window Window) (models.StatSummary, error)
	// Headlines fetches ticker-scoped articles.
	Headlines(ctx context.Context, tickers []string, q HeadlineQuery) ([]models.HeadlineRecord, error)
	// CategoryHeadlines fetches the cross-ticker category feed.
	CategoryHeadlines(ctx context.Context, q HeadlineQuery) ([]models.HeadlineRecord, error)
	// TrendingHeadlines fetches the trending-headline digest.
	TrendingHeadlines(ctx context.Context, page int) ([]models.HeadlineRecord, error)
	// SundownDigest fetches the end-of-day digest items.
	SundownDigest(ctx context.Context, page int) ([]models.HeadlineRecord, error)
	// ArticleByID hydrates one article by its provider id. Returns nil when
	// the article cannot be found.
	ArticleByID(ctx context.Context, newsID string) (*models.HeadlineRecord, error)
}

// Classifier labels headline titles with a sentiment polarity and score.
// The returned slice is index-aligned with titles; order preservation is a
// hard contract.
type Classifier interface {
	Classify(ctx context.Context, titles []string) ([]models.Label, error)
}

// CandleProvider serves closing prices from an exchange candle series,
// oldest to newest.
type CandleProvider interface {
	Closes(ctx context.Context, pair string, interval string, limit int) ([]float64, error)
}

// PriceSeries serves a coarse hourly price series from a general-purpose
// market-data provider, used when the exchange is unreachable.
type PriceSeries interface {
	HourlyCloses(ctx context.Context, assetID string, days int) ([]float64, error)
}
