package cryptonews

import (
	"encoding/json"
	"strings"
	"time"

	"FluxFeed/internal/domain/models"
	"FluxFeed/pkg/util"

	"github.com/google/uuid"
)

type feedPayload struct {
	Data []article `json:"data"`
	News []article `json:"news"`
}

// article is the union of the upstream article shapes (ticker feed, category
// feed, trending digest, sundown digest).
type article struct {
	ID          flexString `json:"id"`
	NewsID      flexString `json:"news_id"`
	NewsURL     string     `json:"news_url"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Headline    string     `json:"headline"`
	SourceName  string     `json:"source_name"`
	Source      string     `json:"source"`
	Date        string     `json:"date"`
	PublishedAt string     `json:"published_at"`
	Tickers     []string   `json:"tickers"`
	Ticker      string     `json:"ticker"`
	Sentiment   string     `json:"sentiment"`
	ImageURL    string     `json:"image_url"`
	Thumbnail   string     `json:"thumbnail"`
	Text        string     `json:"text"`
	Description string     `json:"description"`
	Summary     string     `json:"summary"`
	News        []article  `json:"news,omitempty"`
	Items       []article  `json:"items,omitempty"`
}

// flexString tolerates upstream ids arriving as either string or number.
type flexString struct{ value string }

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		f.value = n.String()
		return nil
	}
	// unexpected shape: leave empty rather than failing the whole feed
	return nil
}

// mapArticle converts one upstream article into a HeadlineRecord, mapping
// provider polarity onto sentiment/score: positive -> bullish +0.3,
// negative -> bearish -0.3, neutral -> unlabeled score 0.
func mapArticle(a article, fallbackTickers []string) models.HeadlineRecord {
	r := models.HeadlineRecord{
		ID:          firstNonEmpty(a.NewsURL, a.ID.value, a.URL, uuid.NewString()),
		Title:       firstNonEmpty(a.Title, a.Headline),
		Source:      firstNonEmpty(a.SourceName, a.Source, "Unknown"),
		URL:         firstNonEmpty(a.NewsURL, a.URL),
		PublishedAt: parseDate(firstNonEmpty(a.Date, a.PublishedAt)),
		ImageURL:    firstNonEmpty(a.ImageURL, a.Thumbnail),
		Text:        firstNonEmpty(a.Text, a.Description, a.Summary),
	}

	switch {
	case len(a.Tickers) > 0:
		r.Tickers = a.Tickers
	case a.Ticker != "":
		r.Tickers = []string{a.Ticker}
	default:
		r.Tickers = fallbackTickers
	}

	r.ProviderSentiment = strings.ToLower(a.Sentiment)
	switch r.ProviderSentiment {
	case "positive":
		r.Sentiment = models.Bullish
		r.Score = 0.3
	case "negative":
		r.Sentiment = models.Bearish
		r.Score = -0.3
	case "neutral":
		r.Score = 0
	}

	return r
}

// Upstream date formats seen in the wild, tried after RFC3339/unix.
var dateLayouts = []string{
	"Monday, Jan 2, 2006 3:04 PM MST",
	"Monday, Jan 2, 2006 3:04 PM",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
}

func parseDate(s string) time.Time {
	if t, ok := util.ParseTime(s); ok {
		return t
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
