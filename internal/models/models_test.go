package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"opportunity", "watch", "threat"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", s, err)
		}
	}
	if _, err := ParseStatus("panic"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestParseFeedType(t *testing.T) {
	ft, err := ParseFeedType("currency")
	if err != nil || ft != FeedCurrency {
		t.Fatalf("expected currency, got %q (%v)", ft, err)
	}
	if _, err := ParseFeedType("sports"); !errors.Is(err, ErrUnknownFeed) {
		t.Errorf("expected ErrUnknownFeed, got %v", err)
	}
}

func TestWeatherData_AverageTemperature(t *testing.T) {
	d := &WeatherData{Readings: []WeatherReading{{Temperature: 20}, {Temperature: 24}, {Temperature: 28}}}
	if got := d.AverageTemperature(); got != 24 {
		t.Errorf("expected 24, got %v", got)
	}
	if !math.IsNaN((&WeatherData{}).AverageTemperature()) {
		t.Error("expected NaN for empty readings")
	}
}

func TestNewsData_SentimentCounts(t *testing.T) {
	d := &NewsData{Articles: []NewsArticle{
		{Sentiment: StatusThreat},
		{Sentiment: StatusOpportunity},
		{Sentiment: StatusOpportunity},
		{Sentiment: StatusWatch},
	}}
	threats, opps := d.SentimentCounts()
	if threats != 1 || opps != 2 {
		t.Errorf("expected 1 threat / 2 opportunities, got %d / %d", threats, opps)
	}
}

func TestFeedCodec_PreservesVariant(t *testing.T) {
	codec := FeedCodec{}
	ts := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	b, err := codec.Encode(&PriceData{Current: 1.42, Change24h: -0.03, Volume: 12000, Timestamp: ts, Source: SourceLive})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, err := codec.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	price, ok := v.(*PriceData)
	if !ok {
		t.Fatalf("expected *PriceData, got %T", v)
	}
	if price.Current != 1.42 || !price.Timestamp.Equal(ts) || price.Source != SourceLive {
		t.Errorf("unexpected decoded value: %+v", price)
	}
}

func TestFeedCodec_RejectsUnknownTag(t *testing.T) {
	_, err := FeedCodec{}.Decode([]byte(`{"feed":"sports","data":{}}`))
	if !errors.Is(err, ErrUnknownFeed) {
		t.Errorf("expected ErrUnknownFeed, got %v", err)
	}
}

func TestPulse_Progress(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Pulse{StartsAt: start, Lifetime: 2 * time.Second}

	if got := p.Progress(start.Add(-time.Second)); got != 0 {
		t.Errorf("expected 0 before start, got %v", got)
	}
	if got := p.Progress(start.Add(time.Second)); got != 0.5 {
		t.Errorf("expected 0.5 halfway, got %v", got)
	}
	if !p.Done(start.Add(2 * time.Second)) {
		t.Error("expected pulse to be done at its lifetime")
	}
}

func TestClickEvent_Message(t *testing.T) {
	tests := []struct {
		event ClickEvent
		want  string
	}{
		{ClickEvent{Kind: ClickRegion, Name: "Kayanza"}, "region_clicked:Kayanza"},
		{ClickEvent{Kind: ClickSatellite, Name: "weather"}, "satellite_clicked:weather"},
	}
	for _, tt := range tests {
		if got := tt.event.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}

func TestDefaultSatellites(t *testing.T) {
	sats := DefaultSatellites()
	if len(sats) != 6 {
		t.Fatalf("expected 6 satellites, got %d", len(sats))
	}

	want := map[FeedType]struct {
		name   string
		status Status
	}{
		FeedPrices:   {"Coffee Prices", StatusThreat},
		FeedWeather:  {"Weather Data", StatusWatch},
		FeedDisease:  {"Disease Reports", StatusOpportunity},
		FeedMarket:   {"Market Data", StatusWatch},
		FeedNews:     {"News Feed", StatusThreat},
		FeedCurrency: {"Exchange Rates", StatusOpportunity},
	}
	for i, s := range sats {
		w := want[s.Type]
		if s.Name != w.name || s.Status != w.status {
			t.Errorf("%s: got %q/%s, want %q/%s", s.Type, s.Name, s.Status, w.name, w.status)
		}
		if wantAngle := float64(i) * math.Pi / 3; math.Abs(s.Angle-wantAngle) > 1e-12 {
			t.Errorf("%s: angle %v, want %v", s.Type, s.Angle, wantAngle)
		}
	}
	if SatelliteName("unknown") != "unknown" {
		t.Error("expected unknown feed name to pass through")
	}
}
