package usecase

import (
	"context"
	"testing"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
)

func TestExtractPrimaryProvider(t *testing.T) {
	candles := &fakeCandles{closes: []float64{100, 102, 104}}
	series := &fakeSeries{err: errUpstream}
	e := NewPriceFeatureExtractor(candles, series, 200, nil)

	f := e.Extract(context.Background(), "BTC", domrepo.TF1h)
	if f.Source != "binance" {
		t.Fatalf("Source = %q, want binance", f.Source)
	}
	if f.Pair != "BTCUSDT" || f.Interval != "1h" {
		t.Errorf("pair/interval = %q/%q", f.Pair, f.Interval)
	}
	if f.Last != 104 {
		t.Errorf("Last = %v, want 104", f.Last)
	}
	if candles.limit != 200 {
		t.Errorf("limit = %d, want 200", candles.limit)
	}
	if series.assetID != "" {
		t.Error("secondary provider should not have been called")
	}
}

func TestExtractFallsBackToSecondary(t *testing.T) {
	candles := &fakeCandles{err: errUpstream}
	series := &fakeSeries{closes: []float64{50, 55}}
	e := NewPriceFeatureExtractor(candles, series, 0, nil)

	f := e.Extract(context.Background(), "SOL", domrepo.TF4h)
	if f.Source != "coingecko" {
		t.Fatalf("Source = %q, want coingecko", f.Source)
	}
	if f.Pair != "SOLUSD" {
		t.Errorf("Pair = %q, want SOLUSD", f.Pair)
	}
	if f.Last != 55 {
		t.Errorf("Last = %v, want 55", f.Last)
	}
	if series.assetID != "solana" || series.days != 2 {
		t.Errorf("secondary query = %q/%d", series.assetID, series.days)
	}
	// zero configured limit falls back to the default
	if candles.limit != 200 {
		t.Errorf("limit = %d, want 200", candles.limit)
	}
}

func TestExtractEmptyPrimaryFallsBack(t *testing.T) {
	candles := &fakeCandles{closes: nil} // succeeds but empty
	series := &fakeSeries{closes: []float64{10, 11, 12}}
	e := NewPriceFeatureExtractor(candles, series, 200, nil)

	f := e.Extract(context.Background(), "ETH", domrepo.TF1h)
	if f.Source != "coingecko" {
		t.Fatalf("Source = %q, want coingecko", f.Source)
	}
	if f.Pair != "ETHUSD" {
		t.Errorf("Pair = %q, want ETHUSD", f.Pair)
	}
}

func TestExtractUnavailable(t *testing.T) {
	e := NewPriceFeatureExtractor(&fakeCandles{err: errUpstream}, &fakeSeries{err: errUpstream}, 200, nil)

	f := e.Extract(context.Background(), "BTC", domrepo.TF1d)
	if f.Available() {
		t.Fatal("expected unavailable features")
	}
	if f.Source != models.SourceUnavailable {
		t.Errorf("Source = %q", f.Source)
	}
	if f.Last != 0 || f.Momentum != 0 || f.Vol != 0 || f.ChangePct != 0 {
		t.Errorf("numeric fields not zeroed: %+v", f)
	}
	if f.Pair != "BTCUSDT" || f.Interval != "1d" {
		t.Errorf("pair/interval = %q/%q", f.Pair, f.Interval)
	}
}
