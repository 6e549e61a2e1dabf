package usecase

import (
	"context"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	"FluxFeed/internal/service/binance"
	"FluxFeed/internal/service/coingecko"
	"FluxFeed/internal/service/metrics"
	"FluxFeed/internal/services/features"
	"FluxFeed/pkg/logger"
)

// PriceFeatureExtractor computes chart features for a ticker/timeframe from
// the primary exchange, falling back to the hourly series of a secondary
// market-data provider. It never returns an error: when both providers fail
// the result is zeroed with Source set to "unavailable" and downstream
// confidence takes the penalty.
type PriceFeatureExtractor struct {
	candles     domrepo.CandleProvider
	series      domrepo.PriceSeries
	candleLimit int
	log         *logger.Logger
}

func NewPriceFeatureExtractor(candles domrepo.CandleProvider, series domrepo.PriceSeries, candleLimit int, log *logger.Logger) *PriceFeatureExtractor {
	if candleLimit <= 0 {
		candleLimit = 200
	}
	return &PriceFeatureExtractor{candles: candles, series: series, candleLimit: candleLimit, log: log}
}

func (e *PriceFeatureExtractor) Extract(ctx context.Context, ticker string, tf domrepo.Timeframe) models.PriceFeatures {
	pair := binance.PairFor(ticker)
	interval := binance.IntervalFor(tf)
	out := models.PriceFeatures{
		Pair:     pair,
		Interval: interval,
		Source:   models.SourceUnavailable,
	}

	if closes, err := e.candles.Closes(ctx, pair, interval, e.candleLimit); err == nil {
		if f, err := features.Compute(closes); err == nil {
			metrics.ProviderCalls.WithLabelValues("binance", "ok").Inc()
			fill(&out, f, "binance")
			return out
		}
		metrics.ProviderCalls.WithLabelValues("binance", "empty").Inc()
	} else {
		metrics.ProviderCalls.WithLabelValues("binance", "failed").Inc()
		if e.log != nil {
			e.log.Warn("exchange candles failed, trying secondary provider",
				logger.String("pair", pair),
				logger.Error(err))
		}
	}

	closes, err := e.series.HourlyCloses(ctx, coingecko.AssetID(ticker), coingecko.DaysFor(tf))
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("coingecko", "failed").Inc()
		if e.log != nil {
			e.log.Warn("secondary price provider failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
		return out
	}
	f, err := features.Compute(closes)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("coingecko", "empty").Inc()
		return out
	}
	metrics.ProviderCalls.WithLabelValues("coingecko", "ok").Inc()
	// The secondary provider quotes against USD, not the exchange's USDT
	// pair, so the label follows the data source.
	out.Pair = ticker + "USD"
	fill(&out, f, "coingecko")
	return out
}

func fill(out *models.PriceFeatures, f features.CloseFeatures, source string) {
	out.Last = f.Last
	out.ChangePct = f.ChangePct
	out.Momentum = f.Momentum
	out.Vol = f.Vol
	out.Source = source
}
