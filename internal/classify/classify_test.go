package classify

import (
	"strings"
	"testing"

	"github.com/bobmcallan/agripulse/internal/models"
)

func TestWeather(t *testing.T) {
	tests := []struct {
		name   string
		avg    float64
		severe bool
		want   models.Status
	}{
		{"hot", 32, false, models.StatusThreat},
		{"cold", 14, false, models.StatusThreat},
		{"warm", 26, false, models.StatusWatch},
		{"cool", 17, false, models.StatusWatch},
		{"ideal", 20, false, models.StatusOpportunity},
		{"ideal but stormy", 20, true, models.StatusThreat},
		{"upper boundary is watch", 30, false, models.StatusWatch},
		{"lower boundary is watch", 15, false, models.StatusWatch},
		{"25 is opportunity", 25, false, models.StatusOpportunity},
		{"18 is opportunity", 18, false, models.StatusOpportunity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Weather(tt.avg, tt.severe); got != tt.want {
				t.Errorf("Weather(%v, %v) = %s, want %s", tt.avg, tt.severe, got, tt.want)
			}
		})
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		change float64
		want   models.Status
	}{
		{-0.06, models.StatusThreat},
		{0.03, models.StatusWatch},
		{-0.03, models.StatusWatch},
		{0.01, models.StatusOpportunity},
		{-0.05, models.StatusWatch},
		{0.02, models.StatusOpportunity},
	}

	for _, tt := range tests {
		if got := Price(tt.change); got != tt.want {
			t.Errorf("Price(%v) = %s, want %s", tt.change, got, tt.want)
		}
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		change float64
		want   models.Status
	}{
		{-25, models.StatusThreat},
		{15, models.StatusWatch},
		{-15, models.StatusWatch},
		{5, models.StatusOpportunity},
		{-20, models.StatusWatch},
		{10, models.StatusOpportunity},
	}

	for _, tt := range tests {
		if got := Currency(tt.change); got != tt.want {
			t.Errorf("Currency(%v) = %s, want %s", tt.change, got, tt.want)
		}
	}
}

func TestNews(t *testing.T) {
	if got := News(3, 1); got != models.StatusThreat {
		t.Errorf("expected threat, got %s", got)
	}
	if got := News(1, 3); got != models.StatusOpportunity {
		t.Errorf("expected opportunity, got %s", got)
	}
	if got := News(2, 2); got != models.StatusWatch {
		t.Errorf("expected watch on tie, got %s", got)
	}
}

func TestMarketEvent(t *testing.T) {
	if MarketEvent(150) != models.StatusOpportunity || MarketEvent(-80) != models.StatusThreat || MarketEvent(0) != models.StatusWatch {
		t.Error("unexpected market event classification")
	}
}

func TestSevereWeather(t *testing.T) {
	readings := []models.WeatherReading{{Condition: "sunny"}, {Condition: "Light Rain"}}
	if !SevereWeather(readings) {
		t.Error("expected rain to be severe")
	}
	if SevereWeather([]models.WeatherReading{{Condition: "partly cloudy"}}) {
		t.Error("expected partly cloudy to be mild")
	}
}

func TestClassify_Messages(t *testing.T) {
	tests := []struct {
		name       string
		data       models.FeedData
		wantStatus models.Status
		wantMsg    string
	}{
		{
			name: "weather",
			data: &models.WeatherData{Readings: []models.WeatherReading{
				{Region: "Kayanza", Temperature: 22, Condition: "partly cloudy"},
				{Region: "Ngozi", Temperature: 24, Condition: "sunny"},
			}},
			wantStatus: models.StatusOpportunity,
			wantMsg:    "Real weather: Kayanza 23.0°C, partly cloudy",
		},
		{
			name:       "price",
			data:       &models.PriceData{Current: 1.234, Change24h: 0.012},
			wantStatus: models.StatusOpportunity,
			wantMsg:    "Real coffee price: $1.234/lb (+1.20%)",
		},
		{
			name:       "price drop",
			data:       &models.PriceData{Current: 1.5, Change24h: -0.06},
			wantStatus: models.StatusThreat,
			wantMsg:    "Real coffee price: $1.500/lb (-6.00%)",
		},
		{
			name:       "currency",
			data:       &models.CurrencyData{USDToBIF: 2050.4, Change24h: 3.2},
			wantStatus: models.StatusOpportunity,
			wantMsg:    "USD/BIF: 2050 (+3.2)",
		},
		{
			name: "news",
			data: &models.NewsData{Articles: []models.NewsArticle{
				{Title: "Coffee prices surge on supply concerns", Sentiment: models.StatusOpportunity},
				{Title: "Disease outbreak threatens crops", Sentiment: models.StatusThreat},
				{Title: "New export agreements signed", Sentiment: models.StatusOpportunity},
			}},
			wantStatus: models.StatusOpportunity,
			wantMsg:    "Latest: Coffee prices surge on supply concerns...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, ok := Classify(tt.data)
			if !ok {
				t.Fatal("expected data to be classified")
			}
			if status != tt.wantStatus {
				t.Errorf("status = %s, want %s", status, tt.wantStatus)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestClassify_TruncatesHeadline(t *testing.T) {
	title := strings.Repeat("a", 80)
	_, msg, _ := Classify(&models.NewsData{Articles: []models.NewsArticle{{Title: title}}})
	if msg != "Latest: "+strings.Repeat("a", 60)+"..." {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestClassify_EmptyData(t *testing.T) {
	if _, _, ok := Classify(&models.WeatherData{}); ok {
		t.Error("expected empty weather to be skipped")
	}
	if _, _, ok := Classify(&models.NewsData{}); ok {
		t.Error("expected empty news to be skipped")
	}
	if _, _, ok := Classify(nil); ok {
		t.Error("expected nil to be skipped")
	}
}
