package sentiment

import (
	"math"
	"time"

	"FluxFeed/internal/domain/models"
)

// DecayTau is the time constant controlling how fast older headlines lose
// influence in the aggregate.
const DecayTau = 6 * time.Hour

// statScale rescales the [-1,1] weighted average onto the stat provider's
// native [-1.5,1.5] range.
const statScale = 1.5

// AggregateDecayed reduces scored headlines into one aggregate with
// exponential time decay. Pure function of (items, now): callers inject the
// clock so tests can pin it. Elapsed time is clamped to >= 0 so future-dated
// or clock-skewed items cannot carry a weight above 1.
func AggregateDecayed(items []models.ScoredHeadline, now time.Time) models.AggregateResult {
	var wsum, wtot float64
	var bull, bear int
	for _, it := range items {
		s := clamp(it.Score, -1, 1)
		elapsed := now.Sub(it.PublishedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		w := math.Exp(-float64(elapsed) / float64(DecayTau))
		wsum += w * s
		wtot += w
		if s > 0 {
			bull++
		} else if s < 0 {
			bear++
		}
	}
	avg := 0.0
	if wtot > 0 {
		avg = wsum / wtot
	}
	return models.AggregateResult{
		Score:   clamp(avg*statScale, -statScale, statScale),
		Count:   len(items),
		Bullish: bull,
		Bearish: bear,
	}
}

// AggregatePlain is the undecayed mean over labeled headlines, used by the
// plan generator's "why" section. Unlabeled items count as bullish, matching
// the feed's default polarity.
func AggregatePlain(items []models.HeadlineRecord) models.NewsAggregate {
	if len(items) == 0 {
		return models.NewsAggregate{}
	}
	var sum float64
	var bull, bear int
	for _, it := range items {
		sum += it.Score
		if it.Sentiment == models.Bearish {
			bear++
		} else {
			bull++
		}
	}
	return models.NewsAggregate{
		Avg:     sum / float64(len(items)),
		Bullish: bull,
		Bearish: bear,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
