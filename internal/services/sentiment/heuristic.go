package sentiment

import (
	"context"
	"strings"

	"FluxFeed/internal/domain/models"
)

// Keyword lists for the classifier fallback. Matching is case-insensitive
// substring containment against the headline title.
var (
	classifierPositive = []string{"surge", "rally", "inflow", "buy", "support", "breakout"}
	classifierNegative = []string{"hack", "dump", "sell", "ban", "lawsuit", "crash"}
)

// Heuristic is the deterministic keyword polarity scorer. It stands in for
// the external classifier when no credentials are configured or a call
// fails, and is usable standalone.
type Heuristic struct {
	// NegativeWeight is the magnitude subtracted on a negative keyword hit.
	NegativeWeight float64
}

// NewHeuristic returns a Heuristic with the default negative weight.
func NewHeuristic() Heuristic { return Heuristic{NegativeWeight: 0.4} }

// Score scores a single title: +0.4 on a positive keyword hit minus
// NegativeWeight on a negative hit.
func (h Heuristic) Score(title string) float64 {
	low := strings.ToLower(title)
	s := 0.0
	if containsAny(low, classifierPositive) {
		s += 0.4
	}
	if containsAny(low, classifierNegative) {
		s -= h.NegativeWeight
	}
	return s
}

// Classify implements repository.Classifier. It never fails.
func (h Heuristic) Classify(_ context.Context, titles []string) ([]models.Label, error) {
	out := make([]models.Label, 0, len(titles))
	for _, t := range titles {
		s := h.Score(t)
		sentiment := models.Bullish
		if s < 0 {
			sentiment = models.Bearish
		}
		out = append(out, models.Label{Sentiment: sentiment, Score: s})
	}
	return out, nil
}

func containsAny(low string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}
