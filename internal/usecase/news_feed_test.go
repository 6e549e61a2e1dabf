package usecase

import (
	"context"
	"testing"

	"FluxFeed/internal/domain/models"
)

func TestFeedLabelsMissing(t *testing.T) {
	news := &fakeNews{headlines: []models.HeadlineRecord{
		{Title: "Labeled already", Sentiment: models.Bearish, Score: -0.4},
		{Title: "Needs a label"},
	}}
	cls := &fakeClassifier{labels: []models.Label{{Sentiment: models.Bullish, Score: 0.4}}}
	f := NewNewsFeed(news, cls, nil)

	out, err := f.Feed(context.Background(), FeedParams{Tickers: []string{"BTC"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cls.titles) != 1 || cls.titles[0] != "Needs a label" {
		t.Fatalf("classifier saw %v", cls.titles)
	}
	if out[0].Sentiment != models.Bearish || out[0].Score != -0.4 {
		t.Errorf("out[0] = %+v, pre-labeled record must be untouched", out[0])
	}
	if out[1].Sentiment != models.Bullish || out[1].Score != 0.4 {
		t.Errorf("out[1] = %+v", out[1])
	}
}

func TestFeedClassifierFailureDefaultsBullish(t *testing.T) {
	news := &fakeNews{headlines: []models.HeadlineRecord{{Title: "Unlabeled"}}}
	f := NewNewsFeed(news, &fakeClassifier{err: errUpstream}, nil)

	out, err := f.Feed(context.Background(), FeedParams{Tickers: []string{"BTC"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Sentiment != models.Bullish || out[0].Score != 0 {
		t.Errorf("out[0] = %+v, want bullish at score 0", out[0])
	}
}

func TestFeedPropagatesProviderError(t *testing.T) {
	f := NewNewsFeed(&fakeNews{headlinesErr: errUpstream}, &fakeClassifier{}, nil)
	if _, err := f.Feed(context.Background(), FeedParams{Tickers: []string{"BTC"}}); err == nil {
		t.Fatal("expected provider error")
	}
}

func TestBalancedInterleavesAndForcesPolarity(t *testing.T) {
	news := &fakeNews{category: map[string][]models.HeadlineRecord{
		"positive": {
			{Title: "Good one", Source: "CoinDesk", URL: "https://a"},
			{Title: "Good two", Source: "CoinDesk", URL: "https://b"},
			{Title: "No link drop me", Source: "CoinDesk", URL: ""},
		},
		"negative": {
			{Title: "Bad one", Source: "Reuters", URL: "https://c"},
			{Title: "Unknown source drop me", Source: "Unknown", URL: "https://d"},
		},
	}}
	f := NewNewsFeed(news, &fakeClassifier{err: errUpstream}, nil)

	out := f.Balanced(context.Background(), 6, 1)
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	// one-for-one interleave: pos, neg, pos
	if out[0].Title != "Good one" || out[1].Title != "Bad one" || out[2].Title != "Good two" {
		t.Errorf("order = %q, %q, %q", out[0].Title, out[1].Title, out[2].Title)
	}
	// batch polarity is authoritative; classifier failure falls back to the
	// batch default score
	if out[0].Sentiment != models.Bullish || out[0].Score != 0.3 {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Sentiment != models.Bearish || out[1].Score != -0.3 {
		t.Errorf("out[1] = %+v", out[1])
	}
}

func TestBalancedDegradesToEmptyOnPartialFailure(t *testing.T) {
	news := &fakeNews{
		category: map[string][]models.HeadlineRecord{
			"positive": {{Title: "Good", Source: "CoinDesk", URL: "https://a"}},
		},
		categoryErr: map[string]error{"negative": errUpstream},
	}
	f := NewNewsFeed(news, &fakeClassifier{}, nil)

	out := f.Balanced(context.Background(), 6, 1)
	if out == nil {
		t.Fatal("degraded feed must be an empty slice, not nil")
	}
	if len(out) != 0 {
		t.Fatalf("got %d records, want a one-sided batch suppressed", len(out))
	}
}

func TestTrendingDedupesAndHydrates(t *testing.T) {
	news := &fakeNews{
		trending: []models.HeadlineRecord{
			{ID: "1", Title: "Trend one", Source: "CryptoNews"},
			{ID: "1", Title: "Trend one dup"},
			{ID: "2"}, // title comes from hydration
			{ID: "3"}, // hydration misses, dropped for the empty title
			{ID: ""},  // no id, dropped
		},
		articles: map[string]*models.HeadlineRecord{
			"1": {ID: "1", Source: "CoinDesk", URL: "https://full/1"},
			"2": {ID: "2", Title: "Hydrated two", URL: "https://full/2"},
		},
	}
	f := NewNewsFeed(news, &fakeClassifier{}, nil)

	out, err := f.Trending(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0].Title != "Trend one" || out[0].Source != "CoinDesk" || out[0].URL != "https://full/1" {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].Title != "Hydrated two" {
		t.Errorf("out[1] = %+v", out[1])
	}
	for _, r := range out {
		if !r.Classified() {
			t.Errorf("record %q left unlabeled", r.Title)
		}
	}
}

func TestSundownLabelsAll(t *testing.T) {
	news := &fakeNews{sundown: []models.HeadlineRecord{
		{Title: "Digest item", Sentiment: models.Bearish, Score: -0.9},
	}}
	cls := &fakeClassifier{labels: []models.Label{{Sentiment: models.Bullish, Score: 0.4}}}
	f := NewNewsFeed(news, cls, nil)

	out, err := f.Sundown(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// digest surfaces relabel everything, provider polarity is discarded
	if out[0].Sentiment != models.Bullish || out[0].Score != 0.4 {
		t.Errorf("out[0] = %+v", out[0])
	}
}
