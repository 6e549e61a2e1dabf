package sentiment

import (
	"math"
	"testing"
	"time"

	"FluxFeed/internal/domain/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAggregateDecayedEmpty(t *testing.T) {
	got := AggregateDecayed(nil, time.Now())
	if got.Score != 0 || got.Count != 0 || got.Bullish != 0 || got.Bearish != 0 {
		t.Fatalf("empty input should yield zero aggregate, got %+v", got)
	}
}

func TestAggregateDecayedSingleFreshItem(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got := AggregateDecayed([]models.ScoredHeadline{
		{Title: "a", PublishedAt: now, Score: 0.5},
	}, now)
	if !almostEqual(got.Score, 0.75) {
		t.Fatalf("score = %v, want 0.75", got.Score)
	}
	if got.Count != 1 || got.Bullish != 1 || got.Bearish != 0 {
		t.Fatalf("counts = %+v", got)
	}
}

func TestAggregateDecayedWeighting(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []models.ScoredHeadline{
		{Title: "fresh", PublishedAt: now, Score: 1},
		{Title: "stale", PublishedAt: now.Add(-DecayTau), Score: -1},
	}
	got := AggregateDecayed(items, now)

	w := math.Exp(-1)
	want := (1 - w) / (1 + w) * 1.5
	if !almostEqual(got.Score, want) {
		t.Fatalf("score = %v, want %v", got.Score, want)
	}
	if got.Bullish != 1 || got.Bearish != 1 || got.Count != 2 {
		t.Fatalf("counts = %+v", got)
	}
}

func TestAggregateDecayedDeterministicForFixedNow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []models.ScoredHeadline{
		{Title: "a", PublishedAt: now.Add(-90 * time.Minute), Score: 0.4},
		{Title: "b", PublishedAt: now.Add(-3 * time.Hour), Score: -0.2},
	}
	first := AggregateDecayed(items, now)
	second := AggregateDecayed(items, now)
	if first != second {
		t.Fatalf("same inputs and clock produced %+v then %+v", first, second)
	}
}

func TestAggregateDecayedFutureDatedItem(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// A future publishedAt must weigh like a fresh item, never above 1.
	got := AggregateDecayed([]models.ScoredHeadline{
		{Title: "future", PublishedAt: now.Add(2 * time.Hour), Score: 1},
	}, now)
	if !almostEqual(got.Score, 1.5) {
		t.Fatalf("score = %v, want 1.5", got.Score)
	}
}

func TestAggregateDecayedClampsInputScores(t *testing.T) {
	now := time.Now()
	got := AggregateDecayed([]models.ScoredHeadline{
		{Title: "wild", PublishedAt: now, Score: 7},
	}, now)
	if got.Score > 1.5 {
		t.Fatalf("score %v exceeds bound", got.Score)
	}
}

func TestAggregateDecayedZeroScoreCountsNeither(t *testing.T) {
	now := time.Now()
	got := AggregateDecayed([]models.ScoredHeadline{
		{Title: "flat", PublishedAt: now, Score: 0},
	}, now)
	if got.Bullish != 0 || got.Bearish != 0 {
		t.Fatalf("zero-score item counted toward a side: %+v", got)
	}
	if got.Count != 1 {
		t.Fatalf("count = %d, want 1", got.Count)
	}
}

func TestAggregatePlain(t *testing.T) {
	items := []models.HeadlineRecord{
		{Title: "a", Sentiment: models.Bullish, Score: 0.6},
		{Title: "b", Sentiment: models.Bearish, Score: -0.4},
		{Title: "c", Score: 0.1}, // unlabeled counts bullish
	}
	got := AggregatePlain(items)
	if !almostEqual(got.Avg, 0.1) {
		t.Fatalf("avg = %v, want 0.1", got.Avg)
	}
	if got.Bullish != 2 || got.Bearish != 1 {
		t.Fatalf("skew = %+v", got)
	}
}

func TestAggregatePlainEmpty(t *testing.T) {
	if got := AggregatePlain(nil); got != (models.NewsAggregate{}) {
		t.Fatalf("empty input should yield zero aggregate, got %+v", got)
	}
}
