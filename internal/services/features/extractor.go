package features

import (
	"fmt"
	"math"
)

// smaLength is the trailing window for the moving-average momentum feature.
const smaLength = 20

// CloseFeatures holds the numeric features of one closing-price series.
type CloseFeatures struct {
	Last      float64
	ChangePct float64
	Momentum  float64
	Vol       float64
}

// Compute derives features from an ordered series of closes (oldest to
// newest). Returns an error on an empty series so callers can trigger their
// provider fallback.
//
//	changePct = (last-first)/first * 100 (0 when first is 0)
//	momentum  = (last-sma)/sma * 100 over the trailing 20 closes
//	vol       = population stddev of per-step returns * 100
func Compute(closes []float64) (CloseFeatures, error) {
	if len(closes) == 0 {
		return CloseFeatures{}, fmt.Errorf("empty close series")
	}

	last := closes[len(closes)-1]
	first := closes[0]
	changePct := 0.0
	if first != 0 {
		changePct = (last - first) / first * 100
	}

	start := len(closes) - smaLength
	if start < 0 {
		start = 0
	}
	window := closes[start:]
	sum := 0.0
	for _, c := range window {
		sum += c
	}
	sma := sum / float64(len(window))
	momentum := 0.0
	if sma != 0 {
		momentum = (last - sma) / sma * 100
	}

	return CloseFeatures{
		Last:      last,
		ChangePct: changePct,
		Momentum:  momentum,
		Vol:       returnStddev(closes) * 100,
	}, nil
}

// returnStddev computes the population standard deviation of per-step
// returns r[i] = (c[i]-c[i-1])/c[i-1]. Returns 0 with fewer than 2 closes.
func returnStddev(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (closes[i]-prev)/prev)
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	variance := 0.0
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets))
	return math.Sqrt(variance)
}
