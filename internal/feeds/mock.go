package feeds

import (
	"strings"
	"time"

	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/models"
)

// MockWeather returns synthetic readings for Kayanza, Ngozi and Muyinga.
func MockWeather(r common.Random) *models.WeatherData {
	return &models.WeatherData{
		Source: models.SourceMock,
		Readings: []models.WeatherReading{
			{Region: "Kayanza", Temperature: 22 + r.Float64()*8, Condition: "partly cloudy", Humidity: 65 + r.Float64()*20},
			{Region: "Ngozi", Temperature: 20 + r.Float64()*8, Condition: "sunny", Humidity: 60 + r.Float64()*20},
			{Region: "Muyinga", Temperature: 24 + r.Float64()*8, Condition: "cloudy", Humidity: 70 + r.Float64()*20},
		},
	}
}

// MockPrice returns a synthetic coffee futures quote.
func MockPrice(r common.Random, now time.Time) *models.PriceData {
	return &models.PriceData{
		Current:   1.20 + r.Float64()*0.5,
		Change24h: (r.Float64() - 0.5) * 0.1,
		Volume:    10000 + r.Float64()*5000,
		Timestamp: now,
		Source:    models.SourceMock,
	}
}

// MockCurrency returns a synthetic USD/BIF rate.
func MockCurrency(r common.Random, now time.Time) *models.CurrencyData {
	return &models.CurrencyData{
		USDToBIF:  2000 + r.Float64()*100,
		Change24h: (r.Float64() - 0.5) * 50,
		Timestamp: now,
		Source:    models.SourceMock,
	}
}

var mockHeadlines = []struct {
	title     string
	sentiment models.Status
}{
	{"Coffee prices surge on supply concerns", models.StatusOpportunity},
	{"Weather patterns favor coffee harvest", models.StatusOpportunity},
	{"Disease outbreak threatens crops", models.StatusThreat},
	{"New export agreements signed", models.StatusOpportunity},
	{"Market volatility continues", models.StatusWatch},
}

// MockNews returns the fixed synthetic headline set.
func MockNews(now time.Time) *models.NewsData {
	articles := make([]models.NewsArticle, 0, len(mockHeadlines))
	for _, h := range mockHeadlines {
		articles = append(articles, models.NewsArticle{
			Title:       h.title,
			Description: "Latest developments in " + strings.ToLower(h.title),
			Source:      "AgriNews",
			PublishedAt: now,
			Sentiment:   h.sentiment,
		})
	}
	return &models.NewsData{Articles: articles, Source: models.SourceMock}
}
