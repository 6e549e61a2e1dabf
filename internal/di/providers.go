package di

import (
	"fmt"
	"time"

	"FluxFeed/internal/domain/repository"
	"FluxFeed/internal/handler/api"
	"FluxFeed/internal/service/binance"
	icache "FluxFeed/internal/service/cache"
	"FluxFeed/internal/service/coingecko"
	"FluxFeed/internal/service/cryptonews"
	"FluxFeed/internal/service/logsink"
	"FluxFeed/internal/service/openai"
	"FluxFeed/internal/usecase"
	pkgcache "FluxFeed/pkg/cache"
	"FluxFeed/pkg/config"
	xhttp "FluxFeed/pkg/http"
	applogger "FluxFeed/pkg/logger"
	"FluxFeed/pkg/server"
)

// ProvideLogger creates the application logger from config. With Redis
// configured, aggregated error batches are published to a pub/sub channel;
// a sink connection failure only disables the sink.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Cache.Redis.Enabled {
		sink, err := logsink.NewRedisPublisher(
			cfg.Cache.Redis.Host,
			cfg.Cache.Redis.Port,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
		)
		if err == nil {
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          "fluxfeed:logs",
				Publisher:      sink,
			})
		}
	}
	return l, nil
}

// ProvideResponseCache creates the response cache: a memory-over-Redis
// layered cache when Redis is configured, otherwise in-process memory only.
// A Redis connection failure falls back to memory rather than failing
// startup.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
			pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix("fluxfeed"),
		)
		if err == nil {
			return icache.NewServiceBytes(pkgcache.NewLayeredCache(rc))
		}
	}
	return icache.NewServiceBytes(pkgcache.NewMemoryCache())
}

// ProvideNewsProvider creates the news/stat provider client.
func ProvideNewsProvider(cfg *config.Config) repository.NewsProvider {
	return cryptonews.New(cfg.CryptoNews.APIKey, cfg.CryptoNews.BaseURL, cfg.CryptoNews.Timeout)
}

// ProvideClassifier creates the headline sentiment classifier. Without an API
// key the client degrades to its keyword heuristic internally.
func ProvideClassifier(cfg *config.Config) repository.Classifier {
	return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
}

// ProvideCandleProvider creates the primary exchange candle client.
func ProvideCandleProvider(cfg *config.Config) repository.CandleProvider {
	return binance.New(cfg.Binance.BaseURL, cfg.Binance.Timeout)
}

// ProvidePriceSeries creates the secondary market-data client.
func ProvidePriceSeries(cfg *config.Config) repository.PriceSeries {
	return coingecko.New(cfg.Coingecko.BaseURL, cfg.Coingecko.Timeout)
}

// ProvideSentimentResolver creates the stat-with-fallback resolver.
func ProvideSentimentResolver(news repository.NewsProvider, l *applogger.Logger) *usecase.SentimentResolver {
	return usecase.NewSentimentResolver(news, l)
}

// ProvidePriceFeatureExtractor creates the chart feature extractor.
func ProvidePriceFeatureExtractor(candles repository.CandleProvider, series repository.PriceSeries, cfg *config.Config, l *applogger.Logger) *usecase.PriceFeatureExtractor {
	return usecase.NewPriceFeatureExtractor(candles, series, cfg.Binance.CandleLimit, l)
}

// ProvideSignalEngine creates the signal synthesizer.
func ProvideSignalEngine(resolver *usecase.SentimentResolver, extractor *usecase.PriceFeatureExtractor, news repository.NewsProvider, classifier repository.Classifier, l *applogger.Logger) *usecase.SignalEngine {
	return usecase.NewSignalEngine(resolver, extractor, news, classifier, l)
}

// ProvideNewsFeed creates the labeled headline feed.
func ProvideNewsFeed(news repository.NewsProvider, classifier repository.Classifier, l *applogger.Logger) *usecase.NewsFeed {
	return usecase.NewNewsFeed(news, classifier, l)
}

// ProvideHTTPHandler creates the engine HTTP handler with its response cache.
func ProvideHTTPHandler(l *applogger.Logger, engine *usecase.SignalEngine, feed *usecase.NewsFeed, cache icache.BytesCache, cfg *config.Config) xhttp.Handler {
	h := api.NewEngineHandler(l, engine, feed)
	h.SetCache(cache)
	h.SetCacheTTLs(cfg.Cache.SignalTTL, cfg.Cache.NewsTTL)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, handler)
}
