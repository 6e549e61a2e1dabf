package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"FluxFeed/internal/domain/models"
	"FluxFeed/internal/domain/repository"
	"FluxFeed/internal/services/sentiment"
	xhttp "FluxFeed/pkg/http"
)

const systemPrompt = "Label each headline bullish or bearish. Respond with JSON array of objects {sentiment, score:-1..1} in the same order as input."

// Classifier labels headline batches through the chat-completions API.
// Without credentials, or when a call or its payload fails, it delegates to
// the deterministic keyword heuristic so classification never errors out.
type Classifier struct {
	apiKey  string
	model   string
	baseURL string
	client  *xhttp.Client
}

func New(apiKey, model, baseURL string, timeout time.Duration) *Classifier {
	return &Classifier{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

var _ repository.Classifier = (*Classifier)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type labelPayload struct {
	Sentiment string   `json:"sentiment"`
	Score     *float64 `json:"score"`
}

// Classify labels titles in order. The output slice is always index-aligned
// with the input; this holds on every fallback path as well.
func (c *Classifier) Classify(ctx context.Context, titles []string) ([]models.Label, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	if c.apiKey == "" {
		return sentiment.Heuristic{NegativeWeight: 0.4}.Classify(ctx, titles)
	}

	labels, err := c.classifyRemote(ctx, titles)
	if err != nil {
		// degraded keyword pass; slightly harsher on negatives than the
		// no-credentials path
		return sentiment.Heuristic{NegativeWeight: 0.5}.Classify(ctx, titles)
	}
	return labels, nil
}

func (c *Classifier) classifyRemote(ctx context.Context, titles []string) ([]models.Label, error) {
	input, err := json.Marshal(titles)
	if err != nil {
		return nil, fmt.Errorf("marshal titles: %w", err)
	}

	var resp chatResponse
	err = c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + c.apiKey,
		},
		Body: chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: string(input)},
			},
			Temperature: 0,
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %v: %w", err, repository.ErrClassifierUnavailable)
	}

	content := "[]"
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		content = resp.Choices[0].Message.Content
	}
	var parsed []labelPayload
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse labels: %v: %w", err, repository.ErrMalformedPayload)
	}

	out := make([]models.Label, len(titles))
	for i := range titles {
		var p labelPayload
		if i < len(parsed) {
			p = parsed[i]
		}
		s := models.Bullish
		if strings.ToLower(p.Sentiment) == "bearish" {
			s = models.Bearish
		}
		score := 0.1
		if s == models.Bearish {
			score = -0.1
		}
		if p.Score != nil {
			score = clamp(*p.Score, -1, 1)
		}
		out[i] = models.Label{Sentiment: s, Score: score}
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
