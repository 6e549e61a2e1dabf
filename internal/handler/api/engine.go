package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	models "FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	icache "FluxFeed/internal/service/cache"
	"FluxFeed/internal/service/metrics"
	"FluxFeed/internal/service/ratelimit"
	"FluxFeed/internal/usecase"
	pkgcache "FluxFeed/pkg/cache"
	xhttp "FluxFeed/pkg/http"
	xlogger "FluxFeed/pkg/logger"
	"FluxFeed/pkg/util"

	"github.com/labstack/echo/v4"
)

// EngineHandler exposes the signal engine and news surfaces over HTTP.
type EngineHandler struct {
	logger    *xlogger.Logger
	engine    *usecase.SignalEngine
	feed      *usecase.NewsFeed
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
	signalTTL time.Duration
	newsTTL   time.Duration
}

func NewEngineHandler(logger *xlogger.Logger, engine *usecase.SignalEngine, feed *usecase.NewsFeed) *EngineHandler {
	metrics.Register()
	return &EngineHandler{
		logger:    logger,
		engine:    engine,
		feed:      feed,
		rl:        ratelimit.New(),
		signalTTL: 30 * time.Second,
		newsTTL:   60 * time.Second,
	}
}

func (h *EngineHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTLs overrides the per-surface response cache lifetimes.
func (h *EngineHandler) SetCacheTTLs(signal, news time.Duration) {
	if signal > 0 {
		h.signalTTL = signal
	}
	if news > 0 {
		h.newsTTL = news
	}
}

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/signal/live", h.Live)
	g.POST("/analyze", h.Analyze)
	g.GET("/news", h.News)
	g.GET("/news/general", h.GeneralNews)
	g.GET("/news/trending", h.TrendingNews)
	g.GET("/news/sundown", h.SundownNews)
	g.GET("/stat/general", h.GeneralStat)
	g.GET("/health", h.Health)
}

func (h *EngineHandler) Signal(c echo.Context) error {
	start := time.Now()
	endpoint := "signal"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := strings.ToUpper(req.Ticker)

	if !h.rl.Allow(c.RealIP()+":signal", 5, 2) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	// Without a window alias the lookback drives the derived stat window, so
	// it has to be part of the key.
	cacheKey := pkgcache.GenerateKeyWithParams("signal", ticker, req.TF, req.Window, req.Since)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	sig, err := h.engine.Signal(c.Request().Context(), usecase.SignalParams{
		Ticker:       ticker,
		TF:           domrepo.Timeframe(req.TF),
		SinceMinutes: req.Since,
		Window:       req.Window,
	})
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("signal usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("signal unavailable").WithError(err))
	}
	return h.respond(c, endpoint, cacheKey, h.signalTTL, sig)
}

func (h *EngineHandler) Analyze(c echo.Context) error {
	start := time.Now()
	endpoint := "analyze"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := strings.ToUpper(req.Ticker)

	if !h.rl.Allow(c.RealIP()+":analyze", 3, 1) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	plan, err := h.engine.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Ticker:       ticker,
		TF:           domrepo.Timeframe(req.TF),
		SinceMinutes: req.SinceMinutes,
		News:         suppliedHeadlines(ticker, req.News),
	})
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("analyze usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("analysis unavailable").WithError(err))
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *EngineHandler) News(c echo.Context) error {
	start := time.Now()
	endpoint := "news"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tickers := splitTickers(req.Tickers, req.Ticker)

	cacheKey := pkgcache.GenerateKeyWithParams("news", strings.Join(tickers, ","), req.Items, req.Page, req.Sentiment, req.Since)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	items, err := h.feed.Feed(c.Request().Context(), usecase.FeedParams{
		Tickers:      tickers,
		SinceMinutes: req.Since,
		Items:        req.Items,
		Page:         req.Page,
		Sentiment:    req.Sentiment,
	})
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("news feed error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("news feed unavailable").WithError(err))
	}
	return h.respond(c, endpoint, cacheKey, h.newsTTL, itemsEnvelope{Items: emptyIfNil(items)})
}

func (h *EngineHandler) GeneralNews(c echo.Context) error {
	start := time.Now()
	endpoint := "news_general"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.GeneralNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := pkgcache.GenerateKeyWithParams("news:general", req.Items, req.Page)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	items := h.feed.Balanced(c.Request().Context(), req.Items, req.Page)
	return h.respond(c, endpoint, cacheKey, h.newsTTL, itemsEnvelope{Items: emptyIfNil(items)})
}

func (h *EngineHandler) TrendingNews(c echo.Context) error {
	start := time.Now()
	endpoint := "news_trending"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TrendingNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := pkgcache.GenerateKeyWithParams("news:trending", req.Page)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	items, err := h.feed.Trending(c.Request().Context(), req.Page)
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("trending feed error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("trending feed unavailable").WithError(err))
	}
	return h.respond(c, endpoint, cacheKey, h.newsTTL, itemsEnvelope{Items: emptyIfNil(items)})
}

func (h *EngineHandler) SundownNews(c echo.Context) error {
	start := time.Now()
	endpoint := "news_sundown"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SundownNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := pkgcache.GenerateKeyWithParams("news:sundown", req.Page)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	items, err := h.feed.Sundown(c.Request().Context(), req.Page)
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error("sundown feed error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("sundown feed unavailable").WithError(err))
	}
	return h.respond(c, endpoint, cacheKey, h.newsTTL, itemsEnvelope{Items: emptyIfNil(items)})
}

func (h *EngineHandler) GeneralStat(c echo.Context) error {
	start := time.Now()
	endpoint := "stat_general"
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.GeneralStatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cacheKey := pkgcache.GenerateKey("stat:general", req.DateRange)
	if b, ok := h.cached(cacheKey, endpoint); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	stat := h.engine.MarketStat(c.Request().Context(), domrepo.Window(req.DateRange))
	return h.respond(c, endpoint, cacheKey, h.signalTTL, stat)
}

func (h *EngineHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "time": time.Now().UTC()})
}

type itemsEnvelope struct {
	Items []models.HeadlineRecord `json:"items"`
}

// cached returns a previously marshaled response body for key, if any.
func (h *EngineHandler) cached(key, endpoint string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn(endpoint+" cache_get_error", xlogger.Error(err))
		}
		return nil, false
	}
	if ok && h.logger != nil {
		h.logger.Debug(endpoint+" cache_hit", xlogger.String("key", key))
	}
	return b, ok
}

// respond marshals v once so the same bytes are served and cached.
func (h *EngineHandler) respond(c echo.Context, endpoint, key string, ttl time.Duration, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		if h.logger != nil {
			h.logger.Error(endpoint+" marshal_error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.InternalError("encode error").WithError(err))
	}
	if h.cache != nil {
		if err := h.cache.SetBytes(key, b, ttl); err != nil && h.logger != nil {
			h.logger.Warn(endpoint+" cache_set_error", xlogger.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, b)
}

func suppliedHeadlines(ticker string, in []models.AnalyzeHeadline) []models.HeadlineRecord {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.HeadlineRecord, 0, len(in))
	for i, n := range in {
		out = append(out, models.HeadlineRecord{
			ID:          itoa(i),
			Title:       n.Title,
			Source:      n.Source,
			PublishedAt: util.ParseTimeDefault(n.PublishedAt, time.Now()),
			Tickers:     []string{ticker},
			Sentiment:   models.Polarity(n.Sentiment),
			Score:       n.Score,
		})
	}
	return out
}

func splitTickers(tickers, ticker string) []string {
	raw := tickers
	if raw == "" {
		raw = ticker
	}
	if raw == "" {
		raw = "BTC"
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func emptyIfNil(items []models.HeadlineRecord) []models.HeadlineRecord {
	if items == nil {
		return []models.HeadlineRecord{}
	}
	return items
}

func itoa(v int) string { return strconv.Itoa(v) }
