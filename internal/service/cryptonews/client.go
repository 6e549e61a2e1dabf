package cryptonews

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FluxFeed/internal/domain/models"
	"FluxFeed/internal/domain/repository"
	xhttp "FluxFeed/pkg/http"

	"github.com/google/uuid"
)

// Client implements repository.NewsProvider against the CryptoNews API.
// All methods degrade to a wrapped repository sentinel on failure; the
// caller decides whether that means fallback or empty output.
type Client struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

// New creates a CryptoNews client. An empty apiKey is allowed; every call
// then reports ErrProviderUnavailable and the engine runs on fallbacks.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

var _ repository.NewsProvider = (*Client)(nil)

type statPayload struct {
	Score   float64  `json:"score"`
	Total   int      `json:"total"`
	Items   int      `json:"items"`
	Count   int      `json:"count"`
	Bullish int      `json:"bullish"`
	Bearish int      `json:"bearish"`
	Drivers []string `json:"drivers"`
}

// Stat fetches the pre-aggregated sentiment summary for a ticker.
func (c *Client) Stat(ctx context.Context, ticker string, window repository.Window) (models.StatSummary, error) {
	if c.apiKey == "" {
		return models.StatSummary{}, fmt.Errorf("cryptonews stat: missing api key: %w", repository.ErrProviderUnavailable)
	}

	var raw []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stat",
		QueryParams: map[string][]string{
			"tickers": {ticker},
			"date":    {string(window)},
			"page":    {"1"},
			"token":   {c.apiKey},
		},
	}, &raw)
	if err != nil {
		return models.StatSummary{}, fmt.Errorf("cryptonews stat: %v: %w", err, repository.ErrProviderUnavailable)
	}

	var p statPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.StatSummary{}, fmt.Errorf("cryptonews stat decode: %v: %w", err, repository.ErrMalformedPayload)
	}

	count := p.Total
	if count == 0 {
		count = p.Items
	}
	if count == 0 {
		count = p.Count
	}
	drivers := p.Drivers
	if len(drivers) > 5 {
		drivers = drivers[:5]
	}
	return models.StatSummary{
		OK:      true,
		Score:   p.Score,
		Count:   count,
		Bullish: p.Bullish,
		Bearish: p.Bearish,
		Drivers: drivers,
	}, nil
}

// Headlines fetches ticker-scoped articles with an optional sentiment filter
// and client-side publication cutoff.
func (c *Client) Headlines(ctx context.Context, tickers []string, q repository.HeadlineQuery) ([]models.HeadlineRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptonews headlines: missing api key: %w", repository.ErrProviderUnavailable)
	}

	params := map[string][]string{
		"items": {fmt.Sprint(defaultInt(q.Items, 50))},
		"page":  {fmt.Sprint(defaultInt(q.Page, 1))},
		"token": {c.apiKey},
	}
	if len(tickers) == 1 {
		params["tickers-only"] = []string{tickers[0]}
	} else {
		params["tickers-include"] = []string{strings.Join(tickers, ",")}
	}
	if q.Sentiment != "" {
		params["sentiment"] = []string{q.Sentiment}
	}

	articles, err := c.fetchFeed(ctx, c.baseURL, params)
	if err != nil {
		return nil, fmt.Errorf("cryptonews headlines: %w", err)
	}

	out := make([]models.HeadlineRecord, 0, len(articles))
	for _, a := range articles {
		out = append(out, mapArticle(a, tickers))
	}
	return filterSince(out, q.SinceMinutes), nil
}

// CategoryHeadlines fetches the cross-ticker "alltickers" category feed.
func (c *Client) CategoryHeadlines(ctx context.Context, q repository.HeadlineQuery) ([]models.HeadlineRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptonews category: missing api key: %w", repository.ErrProviderUnavailable)
	}

	params := map[string][]string{
		"section": {"alltickers"},
		"items":   {fmt.Sprint(defaultInt(q.Items, 50))},
		"page":    {fmt.Sprint(defaultInt(q.Page, 1))},
		"token":   {c.apiKey},
	}
	if q.Sentiment != "" {
		params["sentiment"] = []string{q.Sentiment}
	}

	articles, err := c.fetchFeed(ctx, c.baseURL+"/category", params)
	if err != nil {
		return nil, fmt.Errorf("cryptonews category: %w", err)
	}

	out := make([]models.HeadlineRecord, 0, len(articles))
	for _, a := range articles {
		out = append(out, mapArticle(a, nil))
	}
	return filterSince(out, q.SinceMinutes), nil
}

// TrendingHeadlines fetches the trending digest. Records carry the provider
// news id so the caller can de-duplicate and hydrate details.
func (c *Client) TrendingHeadlines(ctx context.Context, page int) ([]models.HeadlineRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptonews trending: missing api key: %w", repository.ErrProviderUnavailable)
	}

	params := map[string][]string{
		"page":  {fmt.Sprint(defaultInt(page, 1))},
		"token": {c.apiKey},
	}
	articles, err := c.fetchFeed(ctx, c.baseURL+"/trending-headlines", params)
	if err != nil {
		return nil, fmt.Errorf("cryptonews trending: %w", err)
	}

	out := make([]models.HeadlineRecord, 0, len(articles))
	for _, a := range articles {
		r := mapArticle(a, nil)
		if id := firstNonEmpty(a.NewsID.value, a.ID.value); id != "" {
			r.ID = id
		}
		out = append(out, r)
	}
	return out, nil
}

// ArticleByID hydrates one article by its provider news id.
func (c *Client) ArticleByID(ctx context.Context, newsID string) (*models.HeadlineRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptonews article: missing api key: %w", repository.ErrProviderUnavailable)
	}

	params := map[string][]string{
		"section": {"alltickers"},
		"news_id": {newsID},
		"items":   {"1"},
		"page":    {"1"},
		"token":   {c.apiKey},
	}
	articles, err := c.fetchFeed(ctx, c.baseURL+"/category", params)
	if err != nil {
		return nil, fmt.Errorf("cryptonews article: %w", err)
	}
	if len(articles) == 0 {
		return nil, nil
	}
	r := mapArticle(articles[0], nil)
	return &r, nil
}

// SundownDigest fetches and flattens the end-of-day digest. Digest entries
// are either articles themselves or carry nested news/items arrays.
func (c *Client) SundownDigest(ctx context.Context, page int) ([]models.HeadlineRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cryptonews sundown: missing api key: %w", repository.ErrProviderUnavailable)
	}

	params := map[string][]string{
		"page":  {fmt.Sprint(defaultInt(page, 1))},
		"token": {c.apiKey},
	}
	entries, err := c.fetchFeed(ctx, c.baseURL+"/sundown-digest", params)
	if err != nil {
		return nil, fmt.Errorf("cryptonews sundown: %w", err)
	}

	var flat []article
	for _, e := range entries {
		switch {
		case e.Title != "" || e.Headline != "":
			flat = append(flat, e)
		case len(e.News) > 0:
			flat = append(flat, e.News...)
		case len(e.Items) > 0:
			flat = append(flat, e.Items...)
		}
	}

	out := make([]models.HeadlineRecord, 0, len(flat))
	for _, a := range flat {
		title := firstNonEmpty(a.Headline, a.Title)
		if title == "" {
			continue
		}
		out = append(out, models.HeadlineRecord{
			ID:          firstNonEmpty(a.ID.value, a.NewsID.value, "sundown-"+uuid.NewString()),
			Title:       title,
			Source:      firstNonEmpty(a.SourceName, a.Source, "CryptoNews"),
			PublishedAt: parseDate(firstNonEmpty(a.Date, a.PublishedAt)),
			Tickers:     []string{},
			Text:        firstNonEmpty(a.Text, a.Description, a.Summary),
		})
	}
	return out, nil
}

func (c *Client) fetchFeed(ctx context.Context, url string, params map[string][]string) ([]article, error) {
	var raw []byte
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		QueryParams: params,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, repository.ErrProviderUnavailable)
	}

	var p feedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode: %v: %w", err, repository.ErrMalformedPayload)
	}
	if len(p.Data) > 0 {
		return p.Data, nil
	}
	return p.News, nil
}

func filterSince(items []models.HeadlineRecord, sinceMinutes int) []models.HeadlineRecord {
	if sinceMinutes <= 0 {
		return items
	}
	cutoff := time.Now().Add(-time.Duration(sinceMinutes) * time.Minute)
	out := items[:0]
	for _, it := range items {
		if !it.PublishedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
