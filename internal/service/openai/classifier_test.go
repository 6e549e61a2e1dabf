package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"FluxFeed/internal/domain/models"
)

func TestClassifyEmptyInput(t *testing.T) {
	c := New("key", "model", "http://unused", time.Second)
	labels, err := c.Classify(context.Background(), nil)
	if err != nil || labels != nil {
		t.Fatalf("got %v, %v", labels, err)
	}
}

func TestClassifyWithoutKeyUsesHeuristic(t *testing.T) {
	c := New("", "model", "http://unused", time.Second)
	labels, err := c.Classify(context.Background(), []string{
		"Breakout confirmed",
		"Regulator ban incoming",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels[0].Sentiment != models.Bullish || labels[0].Score != 0.4 {
		t.Errorf("labels[0] = %+v", labels[0])
	}
	if labels[1].Sentiment != models.Bearish || labels[1].Score != -0.4 {
		t.Errorf("labels[1] = %+v", labels[1])
	}
}

func TestClassifyRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		content := `[{"sentiment":"bullish","score":0.7},{"sentiment":"bearish"},{"sentiment":"bullish","score":3}]`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New("key", "model", srv.URL, time.Second)
	labels, err := c.Classify(context.Background(), []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 4 {
		t.Fatalf("got %d labels for 4 titles", len(labels))
	}
	if labels[0] != (models.Label{Sentiment: models.Bullish, Score: 0.7}) {
		t.Errorf("labels[0] = %+v", labels[0])
	}
	// missing score defaults by polarity
	if labels[1] != (models.Label{Sentiment: models.Bearish, Score: -0.1}) {
		t.Errorf("labels[1] = %+v", labels[1])
	}
	// out-of-range score is clamped
	if labels[2].Score != 1 {
		t.Errorf("labels[2] = %+v", labels[2])
	}
	// payload shorter than the batch pads with the bullish default
	if labels[3] != (models.Label{Sentiment: models.Bullish, Score: 0.1}) {
		t.Errorf("labels[3] = %+v", labels[3])
	}
}

func TestClassifyRemoteFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("key", "model", srv.URL, time.Second)
	labels, err := c.Classify(context.Background(), []string{"Regulator ban incoming"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// degraded pass weighs negatives at 0.5
	if labels[0].Sentiment != models.Bearish || labels[0].Score != -0.5 {
		t.Errorf("labels[0] = %+v", labels[0])
	}
}
