package usecase

import (
	"context"
	"time"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	"FluxFeed/internal/service/metrics"
	"FluxFeed/internal/services/sentiment"
	"FluxFeed/pkg/logger"
)

// fallbackHeadlineItems is the page size for the headline fallback fetch.
const fallbackHeadlineItems = 100

// SentimentResolver produces a best-effort StatSummary for a ticker. It
// prefers the provider's pre-aggregated stat endpoint; when that call fails
// or comes back empty it scores raw headlines and reduces them with the
// time-decayed aggregator. Never returns an error: total provider failure
// degrades toward a zero-signal summary.
type SentimentResolver struct {
	news domrepo.NewsProvider
	log  *logger.Logger
	now  func() time.Time
}

func NewSentimentResolver(news domrepo.NewsProvider, log *logger.Logger) *SentimentResolver {
	return &SentimentResolver{news: news, log: log, now: time.Now}
}

// Resolution pairs a resolved summary with the method that produced it.
type Resolution struct {
	Stat   models.StatSummary
	Method string
}

func (r *SentimentResolver) Resolve(ctx context.Context, ticker string, window domrepo.Window, sinceMinutes int) Resolution {
	stat, err := r.news.Stat(ctx, ticker, window)
	if err == nil && stat.OK && !stat.Empty() {
		metrics.ProviderCalls.WithLabelValues("stat", "ok").Inc()
		return Resolution{Stat: stat, Method: models.MethodStat}
	}
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("stat", "failed").Inc()
		if r.log != nil {
			r.log.Warn("stat provider failed, using headline fallback",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
	} else {
		metrics.ProviderCalls.WithLabelValues("stat", "empty").Inc()
	}
	metrics.SentimentFallbacks.Inc()
	return r.fallback(ctx, ticker, sinceMinutes)
}

func (r *SentimentResolver) fallback(ctx context.Context, ticker string, sinceMinutes int) Resolution {
	heads, err := r.news.Headlines(ctx, []string{ticker}, domrepo.HeadlineQuery{
		Items:        fallbackHeadlineItems,
		Page:         1,
		SinceMinutes: sinceMinutes,
	})
	if err != nil {
		if r.log != nil {
			r.log.Warn("headline fallback failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
		heads = nil
	}

	scored := make([]models.ScoredHeadline, 0, len(heads))
	for _, h := range heads {
		scored = append(scored, models.ScoredHeadline{
			Title:       h.Title,
			PublishedAt: h.PublishedAt,
			Score:       sentiment.FallbackScore(h.Title, h.ProviderSentiment),
		})
	}
	agg := sentiment.AggregateDecayed(scored, r.now())

	// Drivers come only from the stat endpoint; the fallback has none.
	return Resolution{
		Stat: models.StatSummary{
			OK:      true,
			Score:   agg.Score,
			Count:   agg.Count,
			Bullish: agg.Bullish,
			Bearish: agg.Bearish,
			Drivers: []string{},
		},
		Method: models.MethodFallback,
	}
}
