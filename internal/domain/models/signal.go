package models

import "time"

// Signal status values.
const (
	StatusBuy     = "BUY"
	StatusSell    = "SELL"
	StatusNeutral = "NEUTRAL"
)

// Data health values.
const (
	HealthHealthy     = "Healthy"
	HealthLowCoverage = "LowCoverage"
)

// Sentiment resolution methods.
const (
	MethodStat     = "stat"
	MethodFallback = "fallback"
)

// PriceFeatures holds numeric features extracted from a candle series.
// Source is the contributing provider, or "unavailable" when both the
// primary and the secondary provider failed; all numeric fields are then 0.
type PriceFeatures struct {
	Pair      string  `json:"pair"`
	Interval  string  `json:"interval"`
	Last      float64 `json:"last"`
	ChangePct float64 `json:"changePct"`
	Momentum  float64 `json:"momentum"`
	Vol       float64 `json:"vol"`
	Source    string  `json:"source"`
}

// SourceUnavailable marks PriceFeatures with no contributing provider.
const SourceUnavailable = "unavailable"

// Available reports whether any provider contributed price data.
func (p PriceFeatures) Available() bool { return p.Source != SourceUnavailable }

// Skew is the bullish/bearish headline split behind a signal.
type Skew struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
}

// Signal is the synthesized directional decision for one request.
// Recomputed fresh per request; never mutated after construction.
type Signal struct {
	Status      string    `json:"status"`
	Confidence  int       `json:"confidence"` // 0..100
	Health      string    `json:"health"`
	NewsScore   float64   `json:"newsScore"` // -1.5..+1.5
	Count       int       `json:"count"`
	Skew        Skew      `json:"skew"`
	Drivers     []string  `json:"drivers"`
	Method      string    `json:"method"`
	Window      string    `json:"window"`
	Ticker      string    `json:"ticker"`
	TF          string    `json:"tf"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StatFeature summarizes the stat provider contribution inside a plan.
type StatFeature struct {
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
	Items     int     `json:"items"`
}

// PlanFeatures bundles the raw inputs behind a trade plan for the caller.
type PlanFeatures struct {
	Price         PriceFeatures `json:"price"`
	News          NewsAggregate `json:"news"`
	AggregateStat *StatFeature  `json:"aggregateStat"`
}

// TradePlan extends a signal with entry/stop/take-profit levels and
// human-readable rationale.
type TradePlan struct {
	Status             string       `json:"status"`
	Confidence         int          `json:"confidence"`
	EntryPrice         float64      `json:"entryPrice"`
	StopLoss           float64      `json:"stopLoss"`
	TakeProfit         float64      `json:"takeProfit"`
	ChartReasons       []string     `json:"chartReasons"`
	NewsReasons        []string     `json:"newsReasons"`
	SentimentSummary   string       `json:"sentimentSummary"`
	AggregateScore     float64      `json:"aggregateScore"`
	AggregateSentiment string       `json:"aggregateSentiment"`
	Features           PlanFeatures `json:"features"`
}
