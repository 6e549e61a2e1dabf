package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type fakeBytesCache struct {
	m map[string][]byte
}

func newFakeBytesCache() *fakeBytesCache {
	return &fakeBytesCache{m: make(map[string][]byte)}
}

func (f *fakeBytesCache) GetBytes(key string) ([]byte, bool, error) {
	b, ok := f.m[key]
	return b, ok, nil
}

func (f *fakeBytesCache) SetBytes(key string, value []byte, _ time.Duration) error {
	f.m[key] = value
	return nil
}

func newTestServer(cache *fakeBytesCache) *echo.Echo {
	e := echo.New()
	h := NewEngineHandler(nil, nil, nil)
	if cache != nil {
		h.SetCache(cache)
	}
	h.RegisterRoutes(e)
	return e
}

func TestHealth(t *testing.T) {
	e := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestSignalRejectsBadTimeframe(t *testing.T) {
	e := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/signal?ticker=BTC&tf=2w", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Validation failures ride the envelope: HTTP 200 with status 400 inside.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":400`) {
		t.Errorf("envelope status missing: %s", body)
	}
	if !strings.Contains(body, "ERR_ONEOF") {
		t.Errorf("expected oneof violation, got %s", body)
	}
}

func TestSignalServesCachedBody(t *testing.T) {
	cache := newFakeBytesCache()
	cache.m["signal:BTC:1h::1440"] = []byte(`{"cached":true}`)
	e := newTestServer(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/signal?ticker=BTC", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"cached":true}` {
		t.Errorf("body = %q", got)
	}
}

func TestSignalCacheKeyedByLookback(t *testing.T) {
	// Different lookbacks derive different stat windows, so a since=60
	// response must never satisfy a since=20000 request. The lookback-free
	// key is seeded with the stale body to catch a regression to it.
	cache := newFakeBytesCache()
	cache.m["signal:BTC:1h:"] = []byte(`{"window":"last24hours"}`)
	cache.m["signal:BTC:1h::60"] = []byte(`{"window":"last24hours"}`)
	cache.m["signal:BTC:1h::20000"] = []byte(`{"window":"last30days"}`)
	e := newTestServer(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/signal?ticker=BTC&since=20000", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"window":"last30days"}` {
		t.Errorf("body = %q, want the since=20000 entry", got)
	}
}

func TestNewsCacheKeyedByLookback(t *testing.T) {
	cache := newFakeBytesCache()
	cache.m["news:BTC:50:1::60"] = []byte(`{"items":["stale"]}`)
	cache.m["news:BTC:50:1::20000"] = []byte(`{"items":[]}`)
	e := newTestServer(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/news?ticker=BTC&since=20000", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"items":[]}` {
		t.Errorf("body = %q, want the since=20000 entry", got)
	}
}

func TestSplitTickers(t *testing.T) {
	cases := []struct {
		tickers, ticker string
		want            []string
	}{
		{"btc, eth", "", []string{"BTC", "ETH"}},
		{"", "sol", []string{"SOL"}},
		{"", "", []string{"BTC"}},
		{"btc,,eth", "", []string{"BTC", "ETH"}},
	}
	for _, c := range cases {
		got := splitTickers(c.tickers, c.ticker)
		if len(got) != len(c.want) {
			t.Errorf("splitTickers(%q,%q) = %v", c.tickers, c.ticker, got)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("splitTickers(%q,%q) = %v", c.tickers, c.ticker, got)
				break
			}
		}
	}
}
