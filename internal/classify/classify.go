// Package classify maps fetched feed data onto opportunity/watch/threat.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/bobmcallan/agripulse/internal/models"
)

// Weather thresholds in °C.
const (
	weatherThreatHigh = 30.0
	weatherThreatLow  = 15.0
	weatherWatchHigh  = 25.0
	weatherWatchLow   = 18.0
)

// Price thresholds in USD/lb change over 24h.
const (
	priceThreatDrop = -0.05
	priceWatchMove  = 0.02
)

// Currency thresholds in BIF change over 24h.
const (
	currencyThreatDrop = -20.0
	currencyWatchMove  = 10.0
)

// headlineLimit caps the headline quoted in a news message.
const headlineLimit = 60

// Weather classifies the average temperature across regions. Storm or rain in
// any region's condition is a threat regardless of temperature.
func Weather(avgTemp float64, severe bool) models.Status {
	switch {
	case severe || avgTemp > weatherThreatHigh || avgTemp < weatherThreatLow:
		return models.StatusThreat
	case avgTemp > weatherWatchHigh || avgTemp < weatherWatchLow:
		return models.StatusWatch
	default:
		return models.StatusOpportunity
	}
}

// Price classifies a 24h coffee price change.
func Price(change24h float64) models.Status {
	switch {
	case change24h < priceThreatDrop:
		return models.StatusThreat
	case math.Abs(change24h) > priceWatchMove:
		return models.StatusWatch
	default:
		return models.StatusOpportunity
	}
}

// Currency classifies a 24h USD/BIF change.
func Currency(change24h float64) models.Status {
	switch {
	case change24h < currencyThreatDrop:
		return models.StatusThreat
	case math.Abs(change24h) > currencyWatchMove:
		return models.StatusWatch
	default:
		return models.StatusOpportunity
	}
}

// News classifies a headline set by counting article sentiments.
func News(threats, opportunities int) models.Status {
	switch {
	case threats > opportunities:
		return models.StatusThreat
	case opportunities > threats:
		return models.StatusOpportunity
	default:
		return models.StatusWatch
	}
}

// MarketEvent classifies a simulated market event by its price impact in BIF.
func MarketEvent(impact int) models.Status {
	switch {
	case impact > 0:
		return models.StatusOpportunity
	case impact < 0:
		return models.StatusThreat
	default:
		return models.StatusWatch
	}
}

// SevereWeather reports whether any condition mentions a storm or rain.
func SevereWeather(readings []models.WeatherReading) bool {
	for _, r := range readings {
		c := strings.ToLower(r.Condition)
		if strings.Contains(c, "storm") || strings.Contains(c, "rain") {
			return true
		}
	}
	return false
}

// Classify dispatches on the FeedData variant and returns the status with a
// human-readable message. ok is false when there is nothing to classify.
func Classify(data models.FeedData) (status models.Status, message string, ok bool) {
	switch d := data.(type) {
	case *models.WeatherData:
		if d == nil || len(d.Readings) == 0 {
			return "", "", false
		}
		avg := d.AverageTemperature()
		first := d.Readings[0]
		return Weather(avg, SevereWeather(d.Readings)),
			fmt.Sprintf("Real weather: %s %.1f°C, %s", first.Region, avg, first.Condition), true

	case *models.PriceData:
		if d == nil {
			return "", "", false
		}
		return Price(d.Change24h),
			fmt.Sprintf("Real coffee price: $%.3f/lb (%s%.2f%%)", d.Current, signPrefix(d.Change24h), d.Change24h*100), true

	case *models.CurrencyData:
		if d == nil {
			return "", "", false
		}
		return Currency(d.Change24h),
			fmt.Sprintf("USD/BIF: %.0f (%s%.1f)", d.USDToBIF, signPrefix(d.Change24h), d.Change24h), true

	case *models.NewsData:
		if d == nil || len(d.Articles) == 0 {
			return "", "", false
		}
		threats, opps := d.SentimentCounts()
		return News(threats, opps), fmt.Sprintf("Latest: %s...", truncate(d.Articles[0].Title, headlineLimit)), true
	}
	return "", "", false
}

func signPrefix(v float64) string {
	if v > 0 {
		return "+"
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
