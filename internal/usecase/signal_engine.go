package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	"FluxFeed/internal/services/sentiment"
	"FluxFeed/pkg/logger"
)

// Signal decision thresholds and confidence weights.
const (
	signalBuyThreshold  = 0.10
	scoreWeight         = 80.0
	coverageWeight      = 20.0
	coverageSaturation  = 50.0
	lowCoverageCount    = 10
	noPriceMultiplier   = 0.9
	engineTimeout       = 10 * time.Second
	driverTruncateRunes = 60
)

// SignalEngine joins sentiment resolution and price features into a bounded
// directional decision. All resilience lives in the resolver and extractor;
// this layer never retries and never raises for upstream failures.
type SignalEngine struct {
	resolver   *SentimentResolver
	extractor  *PriceFeatureExtractor
	news       domrepo.NewsProvider
	classifier domrepo.Classifier
	timeout    time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func NewSignalEngine(resolver *SentimentResolver, extractor *PriceFeatureExtractor, news domrepo.NewsProvider, classifier domrepo.Classifier, log *logger.Logger) *SignalEngine {
	return &SignalEngine{
		resolver:   resolver,
		extractor:  extractor,
		news:       news,
		classifier: classifier,
		timeout:    engineTimeout,
		now:        time.Now,
		log:        log,
	}
}

type SignalParams struct {
	Ticker       string
	TF           domrepo.Timeframe
	SinceMinutes int
	Window       string // optional UI alias: "24h" | "7d" | "30d"
}

// Signal resolves sentiment and price features concurrently and synthesizes
// the decision. Confidence is 80 points of score magnitude saturating at
// |score|=1.5 plus 20 points of coverage saturating at 50 items, shaved by
// 10% when no price provider contributed.
func (e *SignalEngine) Signal(ctx context.Context, p SignalParams) (*models.Signal, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	tf := domrepo.NormalizeTimeframe(string(p.TF))
	window := domrepo.WindowFor(p.Window, p.SinceMinutes)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		wg    sync.WaitGroup
		res   Resolution
		price models.PriceFeatures
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		res = e.resolver.Resolve(ctx, p.Ticker, window, p.SinceMinutes)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		price = e.extractor.Extract(ctx, p.Ticker, tf)
	}()
	wg.Wait()

	score := res.Stat.Score
	status := models.StatusNeutral
	if score > signalBuyThreshold {
		status = models.StatusBuy
	} else if score < -signalBuyThreshold {
		status = models.StatusSell
	}

	base := math.Min(1, math.Abs(score)/1.5) * scoreWeight
	coverage := math.Min(1, float64(res.Stat.Count)/coverageSaturation) * coverageWeight
	confidence := int(math.Round(base + coverage))
	if !price.Available() {
		confidence = int(math.Round(float64(confidence) * noPriceMultiplier))
	}

	health := models.HealthHealthy
	if res.Stat.Count < lowCoverageCount {
		health = models.HealthLowCoverage
	}

	drivers := res.Stat.Drivers
	if drivers == nil {
		drivers = []string{}
	}

	if e.log != nil {
		e.log.Debug("signal computed",
			logger.String("ticker", p.Ticker),
			logger.Float64("score", score),
			logger.Int("confidence", confidence))
	}

	return &models.Signal{
		Status:      status,
		Confidence:  confidence,
		Health:      health,
		NewsScore:   score,
		Count:       res.Stat.Count,
		Skew:        models.Skew{Bullish: res.Stat.Bullish, Bearish: res.Stat.Bearish},
		Drivers:     drivers,
		Method:      res.Method,
		Window:      string(window),
		Ticker:      p.Ticker,
		TF:          string(tf),
		LastUpdated: e.now().UTC(),
	}, nil
}

type AnalyzeParams struct {
	Ticker       string
	TF           domrepo.Timeframe
	SinceMinutes int
	News         []models.HeadlineRecord // optional caller-supplied headlines
}

// Analyze builds the extended trade plan: stat summary, labeled headlines and
// price features are gathered concurrently, then entry/stop/take levels and
// rationale strings are derived. Stop distance is clamp(|vol|/100, 0.5%, 2%)
// of entry with a 2:1 reward-to-risk target.
func (e *SignalEngine) Analyze(ctx context.Context, p AnalyzeParams) (*models.TradePlan, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	tf := domrepo.NormalizeTimeframe(string(p.TF))
	window := domrepo.WindowFor("", p.SinceMinutes)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		stat    models.StatSummary
		labeled []models.HeadlineRecord
		price   models.PriceFeatures
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s, err := e.news.Stat(ctx, p.Ticker, window)
		if err == nil {
			stat = s
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		labeled = e.labeledHeadlines(ctx, p)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		price = e.extractor.Extract(ctx, p.Ticker, tf)
	}()
	wg.Wait()

	agg := sentiment.AggregatePlain(labeled)

	usingStat := stat.OK && !stat.Empty()
	totalScore := agg.Avg
	if usingStat {
		totalScore = stat.Score
	}
	overallSentiment := "bullish"
	if totalScore < 0 {
		overallSentiment = "bearish"
	}

	plan := synthesizePlan(totalScore, price)
	plan.AggregateScore = totalScore
	plan.AggregateSentiment = overallSentiment
	plan.NewsReasons = newsReasons(usingStat, totalScore, overallSentiment, stat, agg, labeled)
	plan.SentimentSummary = sentimentSummary(usingStat, totalScore, overallSentiment, stat, agg)
	plan.Features = models.PlanFeatures{Price: price, News: agg}
	if usingStat {
		plan.Features.AggregateStat = &models.StatFeature{
			Score:     totalScore,
			Sentiment: overallSentiment,
			Items:     stat.Count,
		}
	}
	return plan, nil
}

// labeledHeadlines returns the plan's news list with every record carrying a
// polarity: caller-supplied items are preferred, otherwise the provider feed
// is fetched, and missing polarities are filled by one batched classifier
// call. Classifier order preservation keeps labels index-aligned.
func (e *SignalEngine) labeledHeadlines(ctx context.Context, p AnalyzeParams) []models.HeadlineRecord {
	news := p.News
	if len(news) == 0 {
		fetched, err := e.news.Headlines(ctx, []string{p.Ticker}, domrepo.HeadlineQuery{
			Items:        fallbackHeadlineItems,
			Page:         1,
			SinceMinutes: p.SinceMinutes,
		})
		if err != nil {
			if e.log != nil {
				e.log.Warn("plan headline fetch failed",
					logger.String("ticker", p.Ticker),
					logger.Error(err))
			}
			return nil
		}
		news = fetched
	}
	return labelMissing(ctx, e.classifier, e.log, news)
}

// synthesizePlan derives status, confidence and price levels. With price data
// the score needs momentum corroboration; without it the score threshold
// widens to 0.15 and the confidence band shifts lower.
func synthesizePlan(totalScore float64, price models.PriceFeatures) *models.TradePlan {
	volFrac := math.Min(0.02, math.Max(0.005, math.Abs(price.Vol)/100))
	entry := price.Last
	plan := &models.TradePlan{
		Status:     models.StatusNeutral,
		Confidence: 50,
		EntryPrice: entry,
		StopLoss:   entry,
		TakeProfit: entry,
	}

	available := price.Available()
	if available {
		switch {
		case totalScore > 0.1 && price.Momentum > 0:
			plan.Status = models.StatusBuy
			plan.Confidence = minInt(88, 55+int(math.Round((math.Abs(totalScore)*30+price.Momentum)/2)))
		case totalScore < -0.1 && price.Momentum < 0:
			plan.Status = models.StatusSell
			plan.Confidence = minInt(88, 55+int(math.Round((math.Abs(totalScore)*30+math.Abs(price.Momentum))/2)))
		default:
			plan.Confidence = 45
		}
	} else {
		switch {
		case totalScore > 0.15:
			plan.Status = models.StatusBuy
			plan.Confidence = minInt(80, 50+int(math.Round(math.Abs(totalScore)*35)))
		case totalScore < -0.15:
			plan.Status = models.StatusSell
			plan.Confidence = minInt(80, 50+int(math.Round(math.Abs(totalScore)*35)))
		default:
			plan.Confidence = 35
		}
	}

	stopBP := int(math.Round(volFrac * 100))
	switch plan.Status {
	case models.StatusBuy:
		plan.StopLoss = entry * (1 - volFrac)
		plan.TakeProfit = entry * (1 + 2*volFrac)
		if available {
			plan.ChartReasons = []string{
				fmt.Sprintf("Price above SMA20 by %.2f%%", price.Momentum),
				fmt.Sprintf("Volatility ~ %.2f%% suggests %dbp stop, 2R target", price.Vol, stopBP),
			}
		} else {
			plan.ChartReasons = []string{
				"News-based signal: strong bullish sentiment",
				fmt.Sprintf("Sentiment score %.2f > 0", totalScore),
			}
		}
	case models.StatusSell:
		plan.StopLoss = entry * (1 + volFrac)
		plan.TakeProfit = entry * (1 - 2*volFrac)
		if available {
			plan.ChartReasons = []string{
				fmt.Sprintf("Price below SMA20 by %.2f%%", math.Abs(price.Momentum)),
				fmt.Sprintf("Volatility ~ %.2f%% suggests %dbp stop, 2R target", price.Vol, stopBP),
			}
		} else {
			plan.ChartReasons = []string{
				"News-based signal: strong bearish sentiment",
				fmt.Sprintf("Sentiment score %.2f < 0", totalScore),
			}
		}
	default:
		if available {
			plan.ChartReasons = []string{
				fmt.Sprintf("Mixed momentum (%.2f%%) and change (%.2f%%)", price.Momentum, price.ChangePct),
			}
		} else {
			plan.ChartReasons = []string{
				"Neutral sentiment: balanced news signals",
				fmt.Sprintf("Score %.2f near 0", totalScore),
			}
		}
	}
	return plan
}

func newsReasons(usingStat bool, totalScore float64, overallSentiment string, stat models.StatSummary, agg models.NewsAggregate, labeled []models.HeadlineRecord) []string {
	if usingStat {
		top := "No recent headlines"
		if len(labeled) > 0 {
			top = fmt.Sprintf("Top headline: \"%s...\"", truncate(labeled[0].Title, driverTruncateRunes))
		}
		return []string{
			fmt.Sprintf("Aggregate sentiment score: %.2f (%s) from %d items", totalScore, overallSentiment, stat.Count),
			fmt.Sprintf("Recent headlines: %d bullish vs %d bearish", agg.Bullish, agg.Bearish),
			top,
		}
	}
	top := "No headlines"
	if len(labeled) > 0 {
		top = fmt.Sprintf("Top: \"%s...\"", truncate(labeled[0].Title, driverTruncateRunes))
	}
	return []string{
		fmt.Sprintf("%d bullish vs %d bearish headlines", agg.Bullish, agg.Bearish),
		fmt.Sprintf("Average news score %.2f", agg.Avg),
		top,
	}
}

func sentimentSummary(usingStat bool, totalScore float64, overallSentiment string, stat models.StatSummary, agg models.NewsAggregate) string {
	if usingStat {
		return fmt.Sprintf("Overall sentiment: %s (score: %.2f from %d items). Recent: %d bullish vs %d bearish",
			overallSentiment, totalScore, stat.Count, agg.Bullish, agg.Bearish)
	}
	return fmt.Sprintf("News skew: bullish %d vs bearish %d, avg %.2f", agg.Bullish, agg.Bearish, agg.Avg)
}

// GeneralStat is the market-wide sentiment snapshot served on the landing
// surface, proxied through the flagship asset's stat summary.
type GeneralStat struct {
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
	Items     int     `json:"items"`
}

func (e *SignalEngine) MarketStat(ctx context.Context, window domrepo.Window) GeneralStat {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	stat, err := e.news.Stat(ctx, "BTC", window)
	if err != nil || !stat.OK {
		return GeneralStat{Sentiment: "neutral"}
	}
	sent := "bullish"
	if stat.Score < 0 {
		sent = "bearish"
	}
	return GeneralStat{Score: stat.Score, Sentiment: sent, Items: stat.Count}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
