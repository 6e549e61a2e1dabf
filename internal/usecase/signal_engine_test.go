package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
)

func newTestEngine(news *fakeNews, candles *fakeCandles, series *fakeSeries) *SignalEngine {
	resolver := newTestResolver(news)
	extractor := NewPriceFeatureExtractor(candles, series, 200, nil)
	e := NewSignalEngine(resolver, extractor, news, &fakeClassifier{}, nil)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestSignalRequiresTicker(t *testing.T) {
	e := newTestEngine(&fakeNews{}, &fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream})
	if _, err := e.Signal(context.Background(), SignalParams{}); err == nil {
		t.Fatal("expected error for missing ticker")
	}
}

func TestSignalBuy(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{
		OK: true, Score: 0.6, Count: 50, Bullish: 35, Bearish: 15,
	}}
	e := newTestEngine(news, &fakeCandles{closes: []float64{100, 102, 104}}, &fakeSeries{err: errUpstream})

	sig, err := e.Signal(context.Background(), SignalParams{Ticker: "BTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Status != models.StatusBuy {
		t.Errorf("Status = %q, want BUY", sig.Status)
	}
	// 80 * (0.6/1.5) + 20 * (50/50) = 52, no price penalty.
	if sig.Confidence != 52 {
		t.Errorf("Confidence = %d, want 52", sig.Confidence)
	}
	if sig.Health != models.HealthHealthy {
		t.Errorf("Health = %q", sig.Health)
	}
	if sig.Method != models.MethodStat {
		t.Errorf("Method = %q", sig.Method)
	}
	if sig.Window != "last24hours" || sig.TF != "1h" {
		t.Errorf("window/tf = %q/%q", sig.Window, sig.TF)
	}
	if !sig.LastUpdated.Equal(fixedNow) {
		t.Errorf("LastUpdated = %v", sig.LastUpdated)
	}
	if sig.Drivers == nil {
		t.Error("Drivers must never be nil")
	}
}

func TestSignalSellAndNoPricePenalty(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{
		OK: true, Score: -0.6, Count: 50, Bullish: 10, Bearish: 40,
	}}
	e := newTestEngine(news, &fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream})

	sig, err := e.Signal(context.Background(), SignalParams{Ticker: "BTC", TF: domrepo.TF4h})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Status != models.StatusSell {
		t.Errorf("Status = %q, want SELL", sig.Status)
	}
	// 52 shaved by 10% for missing price data.
	if sig.Confidence != 47 {
		t.Errorf("Confidence = %d, want 47", sig.Confidence)
	}
	if sig.TF != "4h" {
		t.Errorf("TF = %q", sig.TF)
	}
}

func TestSignalConfidenceGrowsWithCoverage(t *testing.T) {
	// At a fixed score the coverage term only saturates, so more items can
	// never lower confidence, and the total stays within [0, 100].
	prev := -1
	for _, count := range []int{0, 10, 50, 200} {
		news := &fakeNews{stat: models.StatSummary{
			OK: true, Score: 1.2, Count: count, Bullish: count,
		}}
		e := newTestEngine(news, &fakeCandles{closes: []float64{100, 102, 104}}, &fakeSeries{err: errUpstream})

		sig, err := e.Signal(context.Background(), SignalParams{Ticker: "BTC"})
		if err != nil {
			t.Fatalf("count %d: unexpected error: %v", count, err)
		}
		if sig.Confidence < 0 || sig.Confidence > 100 {
			t.Fatalf("count %d: confidence %d out of range", count, sig.Confidence)
		}
		if sig.Confidence < prev {
			t.Errorf("count %d: confidence dropped %d -> %d", count, prev, sig.Confidence)
		}
		prev = sig.Confidence
	}
	// 80 * (1.2/1.5) + 20 * min(1, 200/50) saturates both terms.
	if prev != 84 {
		t.Errorf("saturated confidence = %d, want 84", prev)
	}
}

func TestSignalNeutralLowCoverage(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{OK: true, Score: 0.05, Count: 5, Bullish: 3, Bearish: 2}}
	e := newTestEngine(news, &fakeCandles{closes: []float64{100, 102, 104}}, &fakeSeries{err: errUpstream})

	sig, err := e.Signal(context.Background(), SignalParams{Ticker: "BTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Status != models.StatusNeutral {
		t.Errorf("Status = %q, want NEUTRAL", sig.Status)
	}
	if sig.Health != models.HealthLowCoverage {
		t.Errorf("Health = %q, want LowCoverage", sig.Health)
	}
}

func TestAnalyzeBuyWithPrice(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{OK: true, Score: 0.6, Count: 12, Bullish: 9, Bearish: 3}}
	e := newTestEngine(news, &fakeCandles{closes: []float64{100, 102, 104}}, &fakeSeries{err: errUpstream})

	plan, err := e.Analyze(context.Background(), AnalyzeParams{
		Ticker: "BTC",
		News: []models.HeadlineRecord{
			{Title: "Bitcoin rallies", Sentiment: models.Bullish, Score: 0.4},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != models.StatusBuy {
		t.Fatalf("Status = %q, want BUY", plan.Status)
	}
	// 55 + round((0.6*30 + 1.96) / 2) = 65
	if plan.Confidence != 65 {
		t.Errorf("Confidence = %d, want 65", plan.Confidence)
	}
	if plan.EntryPrice != 104 {
		t.Errorf("EntryPrice = %v", plan.EntryPrice)
	}
	// volFrac floors at 0.5% for this quiet series
	if math.Abs(plan.StopLoss-104*0.995) > 1e-9 {
		t.Errorf("StopLoss = %v", plan.StopLoss)
	}
	if math.Abs(plan.TakeProfit-104*1.01) > 1e-9 {
		t.Errorf("TakeProfit = %v", plan.TakeProfit)
	}
	if plan.ChartReasons[0] != "Price above SMA20 by 1.96%" {
		t.Errorf("ChartReasons[0] = %q", plan.ChartReasons[0])
	}
	if plan.AggregateScore != 0.6 || plan.AggregateSentiment != "bullish" {
		t.Errorf("aggregate = %v/%q", plan.AggregateScore, plan.AggregateSentiment)
	}
	if plan.NewsReasons[0] != "Aggregate sentiment score: 0.60 (bullish) from 12 items" {
		t.Errorf("NewsReasons[0] = %q", plan.NewsReasons[0])
	}
	if plan.NewsReasons[2] != "Top headline: \"Bitcoin rallies...\"" {
		t.Errorf("NewsReasons[2] = %q", plan.NewsReasons[2])
	}
	if plan.SentimentSummary != "Overall sentiment: bullish (score: 0.60 from 12 items). Recent: 1 bullish vs 0 bearish" {
		t.Errorf("SentimentSummary = %q", plan.SentimentSummary)
	}
	if plan.Features.AggregateStat == nil || plan.Features.AggregateStat.Items != 12 {
		t.Errorf("AggregateStat = %+v", plan.Features.AggregateStat)
	}
}

func TestAnalyzeBuyWithoutPrice(t *testing.T) {
	news := &fakeNews{statErr: errUpstream}
	e := newTestEngine(news, &fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream})

	plan, err := e.Analyze(context.Background(), AnalyzeParams{
		Ticker: "SOL",
		News: []models.HeadlineRecord{
			{Title: "Solana rally continues", Sentiment: models.Bullish, Score: 0.4},
			{Title: "Network upgrade lands", Sentiment: models.Bullish, Score: 0.4},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != models.StatusBuy {
		t.Fatalf("Status = %q, want BUY", plan.Status)
	}
	// 50 + round(0.4*35) = 64, wider threshold band without price data.
	if plan.Confidence != 64 {
		t.Errorf("Confidence = %d, want 64", plan.Confidence)
	}
	if plan.EntryPrice != 0 || plan.StopLoss != 0 || plan.TakeProfit != 0 {
		t.Errorf("levels = %v/%v/%v, want zeros", plan.EntryPrice, plan.StopLoss, plan.TakeProfit)
	}
	if plan.ChartReasons[0] != "News-based signal: strong bullish sentiment" {
		t.Errorf("ChartReasons[0] = %q", plan.ChartReasons[0])
	}
	if plan.SentimentSummary != "News skew: bullish 2 vs bearish 0, avg 0.40" {
		t.Errorf("SentimentSummary = %q", plan.SentimentSummary)
	}
	if plan.Features.AggregateStat != nil {
		t.Error("AggregateStat should be nil without a stat summary")
	}
}

func TestAnalyzeNeutral(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{OK: true, Score: 0.05, Count: 20}}
	e := newTestEngine(news, &fakeCandles{closes: []float64{100, 102, 104}}, &fakeSeries{err: errUpstream})

	plan, err := e.Analyze(context.Background(), AnalyzeParams{
		Ticker: "BTC",
		News:   []models.HeadlineRecord{{Title: "Quiet day", Sentiment: models.Bullish, Score: 0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != models.StatusNeutral || plan.Confidence != 45 {
		t.Errorf("status/confidence = %q/%d, want NEUTRAL/45", plan.Status, plan.Confidence)
	}
}

func TestMarketStat(t *testing.T) {
	news := &fakeNews{stat: models.StatSummary{OK: true, Score: -0.3, Count: 25}}
	e := newTestEngine(news, &fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream})

	gs := e.MarketStat(context.Background(), domrepo.WindowLast24Hours)
	if gs.Sentiment != "bearish" || gs.Items != 25 {
		t.Errorf("got %+v", gs)
	}

	e = newTestEngine(&fakeNews{statErr: errUpstream}, &fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream})
	gs = e.MarketStat(context.Background(), domrepo.WindowLast24Hours)
	if gs.Sentiment != "neutral" || gs.Score != 0 {
		t.Errorf("degraded stat = %+v", gs)
	}
}
