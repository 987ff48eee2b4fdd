package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/agripulse/internal/dashboard"
	"github.com/bobmcallan/agripulse/internal/market"
	"github.com/bobmcallan/agripulse/internal/models"
)

type fakeDashboard struct {
	refreshErr error
	refreshes  int
	clicks     []models.ClickEvent
}

func (f *fakeDashboard) Satellites() []models.FeedRecord { return models.DefaultSatellites() }

func (f *fakeDashboard) Satellite(feed models.FeedType) (models.FeedRecord, error) {
	for _, s := range models.DefaultSatellites() {
		if s.Type == feed {
			return s, nil
		}
	}
	return models.FeedRecord{}, fmt.Errorf("%w: %q", models.ErrUnknownFeed, feed)
}

func (f *fakeDashboard) Regions() []models.Region { return models.DefaultRegions() }

func (f *fakeDashboard) Pulses() []dashboard.PulseView {
	return []dashboard.PulseView{{
		Pulse:    models.Pulse{ID: "p1", From: models.FeedWeather, To: "Kayanza", Kind: models.PulseUpdate, Lifetime: 850 * time.Millisecond},
		Progress: 0.5,
	}}
}

func (f *fakeDashboard) Stream() []models.StatusUpdate {
	return []models.StatusUpdate{{Feed: models.FeedNews, Title: "News Feed", Status: models.StatusWatch, Message: "Headlines mixed"}}
}

func (f *fakeDashboard) Market() market.Snapshot {
	return market.NewSimulator(func() time.Time { return time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC) }).Snapshot()
}

func (f *fakeDashboard) Trends() market.TrendReport {
	return market.NewSimulator(nil).Trends()
}

func (f *fakeDashboard) Prediction(context.Context) market.Prediction {
	return market.Prediction{
		Prediction:      "Prices are steady around the current level.",
		Confidence:      market.ConfidenceLow,
		Recommendation:  market.RecommendHold,
		PredictedChange: 0.4,
	}
}

func (f *fakeDashboard) ForceRefresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeDashboard) Click(_ context.Context, ev models.ClickEvent) (models.ClickEvent, error) {
	if ev.Name == "Atlantis" {
		return models.ClickEvent{}, dashboard.ErrUnknownTarget
	}
	if ev.Name == "broken" {
		return models.ClickEvent{}, errors.New("boom")
	}
	f.clicks = append(f.clicks, ev)
	return ev, nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestAPIHandler_GetEndpoints(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	tests := []struct {
		name    string
		path    string
		handler http.HandlerFunc
		key     string
	}{
		{"feeds", "/api/feeds", h.HandleFeeds, "feeds"},
		{"regions", "/api/regions", h.HandleRegions, "regions"},
		{"pulses", "/api/pulses", h.HandlePulses, "pulses"},
		{"stream", "/api/stream", h.HandleStream, "updates"},
		{"market", "/api/market", h.HandleMarket, "base_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}
			body := decodeBody(t, w)
			if _, ok := body[tt.key]; !ok {
				t.Errorf("expected %q in response, got %s", tt.key, w.Body.String())
			}
		})
	}
}

func TestAPIHandler_GetEndpointsRejectPOST(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	for _, fn := range []http.HandlerFunc{h.HandleFeeds, h.HandleFeed, h.HandleRegions, h.HandlePulses, h.HandleStream, h.HandleMarket} {
		req := httptest.NewRequest("POST", "/api/x", nil)
		w := httptest.NewRecorder()
		fn(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", w.Code)
		}
	}
}

func TestAPIHandler_Feeds_ListsSixSatellites(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	req := httptest.NewRequest("GET", "/api/feeds", nil)
	w := httptest.NewRecorder()
	h.HandleFeeds(w, req)

	var body struct {
		Feeds []models.FeedRecord `json:"feeds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Feeds) != 6 {
		t.Fatalf("expected 6 feeds, got %d", len(body.Feeds))
	}
	if body.Feeds[0].Type != models.FeedPrices {
		t.Errorf("expected prices first, got %s", body.Feeds[0].Type)
	}
}

func TestAPIHandler_Feed(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	tests := []struct {
		path     string
		wantCode int
		wantName string
	}{
		{"/api/feeds/weather", http.StatusOK, "Weather Data"},
		{"/api/feeds/currency/", http.StatusOK, "Exchange Rates"},
		{"/api/feeds/volcano", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			h.HandleFeed(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantName == "" {
				return
			}
			var rec models.FeedRecord
			if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
				t.Fatal(err)
			}
			if rec.Name != tt.wantName {
				t.Errorf("expected %s, got %s", tt.wantName, rec.Name)
			}
		})
	}
}

func TestAPIHandler_Feed_EmptyNameListsAll(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	req := httptest.NewRequest("GET", "/api/feeds/", nil)
	w := httptest.NewRecorder()
	h.HandleFeed(w, req)

	if _, ok := decodeBody(t, w)["feeds"]; !ok {
		t.Errorf("expected feed list, got %s", w.Body.String())
	}
}

func TestAPIHandler_Refresh(t *testing.T) {
	fake := &fakeDashboard{}
	h := NewAPIHandler(nil, fake)

	req := httptest.NewRequest("POST", "/api/refresh", nil)
	w := httptest.NewRecorder()
	h.HandleRefresh(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if fake.refreshes != 1 {
		t.Errorf("expected one forced refresh, got %d", fake.refreshes)
	}
	body := decodeBody(t, w)
	if string(body["status"]) != `"ok"` {
		t.Errorf("expected status ok, got %s", body["status"])
	}
	if _, ok := body["error"]; ok {
		t.Error("expected no error field on success")
	}
}

func TestAPIHandler_Refresh_PartialFailure(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{refreshErr: errors.New("news: upstream down")})

	req := httptest.NewRequest("POST", "/api/refresh", nil)
	w := httptest.NewRecorder()
	h.HandleRefresh(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if string(body["status"]) != `"partial"` {
		t.Errorf("expected status partial, got %s", body["status"])
	}
	if !strings.Contains(string(body["error"]), "upstream down") {
		t.Errorf("expected error detail, got %s", body["error"])
	}
	if _, ok := body["feeds"]; !ok {
		t.Error("expected feeds alongside the error")
	}
}

func TestAPIHandler_Refresh_RejectsGET(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	req := httptest.NewRequest("GET", "/api/refresh", nil)
	w := httptest.NewRecorder()
	h.HandleRefresh(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestAPIHandler_Click(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"region", `{"kind":"region","name":"Kayanza"}`, http.StatusOK, "region_clicked:Kayanza"},
		{"satellite", `{"kind":"satellite","name":"weather"}`, http.StatusOK, "satellite_clicked:weather"},
		{"unknown target", `{"kind":"region","name":"Atlantis"}`, http.StatusNotFound, ""},
		{"missing name", `{"kind":"region"}`, http.StatusBadRequest, ""},
		{"invalid json", `{"kind":`, http.StatusBadRequest, ""},
		{"internal error", `{"kind":"region","name":"broken"}`, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAPIHandler(nil, &fakeDashboard{})

			req := httptest.NewRequest("POST", "/api/click", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.HandleClick(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantMsg == "" {
				return
			}
			body := decodeBody(t, w)
			if string(body["message"]) != `"`+tt.wantMsg+`"` {
				t.Errorf("expected message %s, got %s", tt.wantMsg, body["message"])
			}
		})
	}
}

func TestAPIHandler_Click_RejectsGET(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	req := httptest.NewRequest("GET", "/api/click", nil)
	w := httptest.NewRecorder()
	h.HandleClick(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestHandleTrends_EmptyHistory(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})
	w := httptest.NewRecorder()
	h.HandleTrends(w, httptest.NewRequest(http.MethodGet, "/api/analytics/trends", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report market.TrendReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Prices == nil || len(report.Prices) != 0 {
		t.Errorf("expected an empty price list, got %v", report.Prices)
	}
	if report.Statistics.Average != market.BasePrice || report.Statistics.Trend != market.TrendStable {
		t.Errorf("expected base-price stable fallback, got %+v", report.Statistics)
	}
	if !strings.Contains(w.Body.String(), `"prices":[]`) {
		t.Errorf("expected prices encoded as an empty array, got %s", w.Body.String())
	}
}

func TestHandlePrediction(t *testing.T) {
	h := NewAPIHandler(nil, &fakeDashboard{})

	w := httptest.NewRecorder()
	h.HandlePrediction(w, httptest.NewRequest(http.MethodGet, "/api/analytics/prediction", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if string(body["recommendation"]) != `"hold"` || string(body["predicted_change"]) != "0.4" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	h.HandlePrediction(w, httptest.NewRequest(http.MethodPost, "/api/analytics/prediction", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", w.Code)
	}
}
