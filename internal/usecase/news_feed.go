package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"FluxFeed/internal/domain/models"
	domrepo "FluxFeed/internal/domain/repository"
	"FluxFeed/pkg/logger"
)

const (
	feedTimeout      = 15 * time.Second
	maxFeedItems     = 100
	trendingHydrated = 20
)

// NewsFeed serves the labeled headline surfaces: the ticker feed, the
// balanced landing feed, trending headlines and the sundown digest. Every
// record leaving this layer carries a polarity.
type NewsFeed struct {
	news       domrepo.NewsProvider
	classifier domrepo.Classifier
	timeout    time.Duration
	log        *logger.Logger
}

func NewNewsFeed(news domrepo.NewsProvider, classifier domrepo.Classifier, log *logger.Logger) *NewsFeed {
	return &NewsFeed{news: news, classifier: classifier, timeout: feedTimeout, log: log}
}

type FeedParams struct {
	Tickers      []string
	SinceMinutes int
	Items        int
	Page         int
	Sentiment    string // "positive" | "negative" | "neutral" | ""
}

// Feed returns ticker-scoped headlines with missing polarities filled by the
// classifier.
func (f *NewsFeed) Feed(ctx context.Context, p FeedParams) ([]models.HeadlineRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	items := p.Items
	if items <= 0 {
		items = 50
	}
	if items > maxFeedItems {
		items = maxFeedItems
	}
	page := p.Page
	if page < 1 {
		page = 1
	}

	raw, err := f.news.Headlines(ctx, p.Tickers, domrepo.HeadlineQuery{
		Items:        items,
		Page:         page,
		Sentiment:    p.Sentiment,
		SinceMinutes: p.SinceMinutes,
	})
	if err != nil {
		return nil, err
	}
	return labelMissing(ctx, f.classifier, f.log, raw), nil
}

// Balanced returns the landing feed: a positive and a negative category batch
// fetched concurrently and interleaved one-for-one. The batch polarity is
// authoritative, so records keep the batch's sentiment and only take their
// score from the classifier. Either batch failing degrades the whole feed to
// empty rather than delivering a one-sided mix.
func (f *NewsFeed) Balanced(ctx context.Context, items, page int) []models.HeadlineRecord {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if items <= 0 {
		items = 12
	}
	if items > maxFeedItems {
		items = maxFeedItems
	}
	perSentiment := (items + 1) / 2
	if page < 1 {
		page = 1
	}

	var (
		wg                 sync.WaitGroup
		positive, negative []models.HeadlineRecord
		posErr, negErr     error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		positive, posErr = f.news.CategoryHeadlines(ctx, domrepo.HeadlineQuery{
			Items: perSentiment, Page: page, Sentiment: "positive",
		})
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		negative, negErr = f.news.CategoryHeadlines(ctx, domrepo.HeadlineQuery{
			Items: perSentiment, Page: page, Sentiment: "negative",
		})
	}()
	wg.Wait()

	if posErr != nil || negErr != nil {
		if f.log != nil {
			if posErr != nil {
				f.log.Warn("balanced feed positive batch failed", logger.Error(posErr))
			}
			if negErr != nil {
				f.log.Warn("balanced feed negative batch failed", logger.Error(negErr))
			}
		}
		return []models.HeadlineRecord{}
	}

	positive = filterLinked(positive)
	negative = filterLinked(negative)

	f.forcePolarity(ctx, positive, models.Bullish, 0.3)
	f.forcePolarity(ctx, negative, models.Bearish, -0.3)

	mixed := make([]models.HeadlineRecord, 0, len(positive)+len(negative))
	for i := 0; i < len(positive) || i < len(negative); i++ {
		if i < len(positive) {
			mixed = append(mixed, positive[i])
		}
		if i < len(negative) {
			mixed = append(mixed, negative[i])
		}
	}
	return mixed
}

// Trending returns the trending-headline digest: deduplicated by article id,
// hydrated with full article details and labeled by the classifier.
func (f *NewsFeed) Trending(ctx context.Context, page int) ([]models.HeadlineRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	raw, err := f.news.TrendingHeadlines(ctx, page)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	unique := make([]models.HeadlineRecord, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		unique = append(unique, r)
	}
	if len(unique) > trendingHydrated {
		unique = unique[:trendingHydrated]
	}

	var wg sync.WaitGroup
	for i := range unique {
		wg.Add(1)
		go func(rec *models.HeadlineRecord) {
			defer wg.Done()
			full, err := f.news.ArticleByID(ctx, rec.ID)
			if err != nil || full == nil {
				return
			}
			mergeArticle(rec, full)
		}(&unique[i])
	}
	wg.Wait()

	withTitles := unique[:0]
	for _, r := range unique {
		if r.Title != "" {
			withTitles = append(withTitles, r)
		}
	}
	return f.labelAll(ctx, withTitles), nil
}

// Sundown returns the end-of-day digest, labeled by the classifier.
func (f *NewsFeed) Sundown(ctx context.Context, page int) ([]models.HeadlineRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	raw, err := f.news.SundownDigest(ctx, page)
	if err != nil {
		return nil, err
	}
	return f.labelAll(ctx, raw), nil
}

// forcePolarity stamps every record with the batch sentiment, taking only the
// score magnitude from the classifier and falling back to fallbackScore when
// the classifier batch comes up short.
func (f *NewsFeed) forcePolarity(ctx context.Context, items []models.HeadlineRecord, polarity models.Polarity, fallbackScore float64) {
	titles := make([]string, len(items))
	for i := range items {
		titles[i] = items[i].Title
	}
	labels, err := f.classifier.Classify(ctx, titles)
	for i := range items {
		items[i].Sentiment = polarity
		if err == nil && i < len(labels) {
			items[i].Score = labels[i].Score
		} else {
			items[i].Score = fallbackScore
		}
	}
}

func (f *NewsFeed) labelAll(ctx context.Context, items []models.HeadlineRecord) []models.HeadlineRecord {
	for i := range items {
		items[i].Sentiment = ""
	}
	return labelMissing(ctx, f.classifier, f.log, items)
}

// labelMissing fills in polarity for records the provider left unlabeled with
// one batched classifier call. Labels are index-aligned with the batch; any
// shortfall defaults to bullish at score 0.
func labelMissing(ctx context.Context, c domrepo.Classifier, log *logger.Logger, items []models.HeadlineRecord) []models.HeadlineRecord {
	var (
		idx    []int
		titles []string
	)
	for i := range items {
		if !items[i].Classified() {
			idx = append(idx, i)
			titles = append(titles, items[i].Title)
		}
	}
	if len(titles) == 0 {
		return items
	}

	labels, err := c.Classify(ctx, titles)
	if err != nil && log != nil {
		log.Warn("headline classification failed", logger.Error(err))
	}
	for k, i := range idx {
		if err == nil && k < len(labels) {
			items[i].Sentiment = labels[k].Sentiment
			items[i].Score = labels[k].Score
		} else {
			items[i].Sentiment = models.Bullish
			items[i].Score = 0
		}
	}
	return items
}

// filterLinked drops records without a resolvable link or a named source;
// the landing feed only shows articles a reader can click through to.
func filterLinked(items []models.HeadlineRecord) []models.HeadlineRecord {
	out := items[:0]
	for _, r := range items {
		if !strings.HasPrefix(r.URL, "http") {
			continue
		}
		if r.Source == "" || r.Source == "Unknown" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func mergeArticle(rec *models.HeadlineRecord, full *models.HeadlineRecord) {
	if rec.Title == "" {
		rec.Title = full.Title
	}
	if rec.Source == "" || rec.Source == "CryptoNews" {
		if full.Source != "" {
			rec.Source = full.Source
		}
	}
	if full.URL != "" {
		rec.URL = full.URL
	}
	if rec.PublishedAt.IsZero() && !full.PublishedAt.IsZero() {
		rec.PublishedAt = full.PublishedAt
	}
	if len(full.Tickers) > 0 {
		rec.Tickers = full.Tickers
	}
	if full.ImageURL != "" {
		rec.ImageURL = full.ImageURL
	}
	if full.Text != "" {
		rec.Text = full.Text
	}
}
