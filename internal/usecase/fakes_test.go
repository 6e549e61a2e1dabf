package usecase

import (
	"context"
	"errors"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
)

var errUpstream = errors.New("upstream unavailable")

// fakeNews is a canned NewsProvider for usecase tests.
type fakeNews struct {
	stat    models.StatSummary
	statErr error

	headlines    []models.HeadlineRecord
	headlinesErr error
	lastQuery    domrepo.HeadlineQuery

	category    map[string][]models.HeadlineRecord
	categoryErr map[string]error

	trending    []models.HeadlineRecord
	trendingErr error
	sundown     []models.HeadlineRecord
	sundownErr  error
	articles    map[string]*models.HeadlineRecord
}

func (f *fakeNews) Stat(_ context.Context, _ string, _ domrepo.Window) (models.StatSummary, error) {
	return f.stat, f.statErr
}

func (f *fakeNews) Headlines(_ context.Context, _ []string, q domrepo.HeadlineQuery) ([]models.HeadlineRecord, error) {
	f.lastQuery = q
	return f.headlines, f.headlinesErr
}

func (f *fakeNews) CategoryHeadlines(_ context.Context, q domrepo.HeadlineQuery) ([]models.HeadlineRecord, error) {
	if err, ok := f.categoryErr[q.Sentiment]; ok && err != nil {
		return nil, err
	}
	return f.category[q.Sentiment], nil
}

func (f *fakeNews) TrendingHeadlines(_ context.Context, _ int) ([]models.HeadlineRecord, error) {
	return f.trending, f.trendingErr
}

func (f *fakeNews) SundownDigest(_ context.Context, _ int) ([]models.HeadlineRecord, error) {
	return f.sundown, f.sundownErr
}

func (f *fakeNews) ArticleByID(_ context.Context, newsID string) (*models.HeadlineRecord, error) {
	if f.articles == nil {
		return nil, nil
	}
	return f.articles[newsID], nil
}

// fakeClassifier returns one fixed label per title, or an error.
type fakeClassifier struct {
	labels []models.Label
	err    error
	titles []string
}

func (f *fakeClassifier) Classify(_ context.Context, titles []string) ([]models.Label, error) {
	f.titles = titles
	if f.err != nil {
		return nil, f.err
	}
	if f.labels != nil {
		return f.labels, nil
	}
	out := make([]models.Label, len(titles))
	for i := range out {
		out[i] = models.Label{Sentiment: models.Bullish, Score: 0.2}
	}
	return out, nil
}

type fakeCandles struct {
	closes   []float64
	err      error
	pair     string
	interval string
	limit    int
}

func (f *fakeCandles) Closes(_ context.Context, pair, interval string, limit int) ([]float64, error) {
	f.pair, f.interval, f.limit = pair, interval, limit
	return f.closes, f.err
}

type fakeSeries struct {
	closes  []float64
	err     error
	assetID string
	days    int
}

func (f *fakeSeries) HourlyCloses(_ context.Context, assetID string, days int) ([]float64, error) {
	f.assetID, f.days = assetID, days
	return f.closes, f.err
}
