package sentiment

import "strings"

// Keyword lists for the stat fallback path. Broader than the classifier
// lists: this scorer runs over raw provider headlines with no model behind
// it, so it leans on more vocabulary.
var (
	fallbackPositive = []string{"surge", "rally", "inflow", "buy", "support", "breakout", "approval", "record", "growth"}
	fallbackNegative = []string{"hack", "dump", "sell", "ban", "lawsuit", "crash", "exploit", "delist", "outflow", "fine"}
)

const (
	providerPolarityWeight = 0.35
	fallbackPositiveWeight = 0.3
	fallbackNegativeWeight = 0.4
)

// FallbackScore scores one raw headline for the stat fallback aggregate.
// A provider-native polarity word wins when present ("neutral" pins the
// score to 0); otherwise the keyword lists decide.
func FallbackScore(title, providerSentiment string) float64 {
	switch strings.ToLower(providerSentiment) {
	case "positive":
		return providerPolarityWeight
	case "negative":
		return -providerPolarityWeight
	case "neutral":
		return 0
	}
	low := strings.ToLower(title)
	s := 0.0
	if containsAny(low, fallbackPositive) {
		s += fallbackPositiveWeight
	}
	if containsAny(low, fallbackNegative) {
		s -= fallbackNegativeWeight
	}
	return s
}
