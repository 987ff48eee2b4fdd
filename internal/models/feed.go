package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownStatus is returned when a status string is not one of the three known values.
var ErrUnknownStatus = errors.New("unknown status")

// ErrUnknownFeed is returned when a feed type string is not recognised.
var ErrUnknownFeed = errors.New("unknown feed type")

// FeedType identifies one of the six orbiting data feeds.
type FeedType string

const (
	FeedPrices   FeedType = "prices"
	FeedWeather  FeedType = "weather"
	FeedDisease  FeedType = "disease"
	FeedMarket   FeedType = "market"
	FeedNews     FeedType = "news"
	FeedCurrency FeedType = "currency"
)

// FeedTypes lists every feed in orbit order.
var FeedTypes = []FeedType{FeedPrices, FeedWeather, FeedDisease, FeedMarket, FeedNews, FeedCurrency}

// ParseFeedType validates a feed type string.
func ParseFeedType(s string) (FeedType, error) {
	for _, ft := range FeedTypes {
		if string(ft) == s {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeed, s)
}

// Status is the classification of a feed or region.
type Status string

const (
	StatusOpportunity Status = "opportunity"
	StatusWatch       Status = "watch"
	StatusThreat      Status = "threat"
)

// Statuses lists every status value.
var Statuses = []Status{StatusOpportunity, StatusWatch, StatusThreat}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Level maps a status onto a gauge value: opportunity 0, watch 1, threat 2.
func (s Status) Level() int {
	switch s {
	case StatusOpportunity:
		return 0
	case StatusWatch:
		return 1
	case StatusThreat:
		return 2
	}
	return -1
}

// Source records whether a record came from the upstream API or was synthesized.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// FeedData is the closed set of payloads a fetcher can produce.
type FeedData interface {
	Feed() FeedType
	Origin() Source
}

// WeatherReading is one region's current conditions.
type WeatherReading struct {
	Region      string  `json:"region"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed,omitempty"`
	Pressure    float64 `json:"pressure,omitempty"`
}

// WeatherData holds a reading for each monitored region.
type WeatherData struct {
	Readings []WeatherReading `json:"readings"`
	Source   Source           `json:"source"`
}

func (d *WeatherData) Feed() FeedType { return FeedWeather }
func (d *WeatherData) Origin() Source { return d.Source }

// AverageTemperature returns the mean temperature across readings.
func (d *WeatherData) AverageTemperature() float64 {
	if len(d.Readings) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, r := range d.Readings {
		sum += r.Temperature
	}
	return sum / float64(len(d.Readings))
}

// PriceData is the latest coffee futures quote in USD per pound.
type PriceData struct {
	Current   float64   `json:"current"`
	Change24h float64   `json:"change_24h"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
}

func (d *PriceData) Feed() FeedType { return FeedPrices }
func (d *PriceData) Origin() Source { return d.Source }

// CurrencyData is the USD to Burundian franc rate.
type CurrencyData struct {
	USDToBIF  float64   `json:"usd_to_bif"`
	Change24h float64   `json:"change_24h"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
}

func (d *CurrencyData) Feed() FeedType { return FeedCurrency }
func (d *CurrencyData) Origin() Source { return d.Source }

// NewsArticle is a headline with its sentiment classification.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   Status    `json:"sentiment"`
}

// NewsData is the current headline set.
type NewsData struct {
	Articles []NewsArticle `json:"articles"`
	Source   Source        `json:"source"`
}

func (d *NewsData) Feed() FeedType { return FeedNews }
func (d *NewsData) Origin() Source { return d.Source }

// SentimentCounts returns the number of threat and opportunity articles.
func (d *NewsData) SentimentCounts() (threats, opportunities int) {
	for _, a := range d.Articles {
		switch a.Sentiment {
		case StatusThreat:
			threats++
		case StatusOpportunity:
			opportunities++
		}
	}
	return threats, opportunities
}

// FeedRecord is the current state of one orbiting feed.
type FeedRecord struct {
	Name      string    `json:"name"`
	Type      FeedType  `json:"type"`
	Status    Status    `json:"status"`
	Angle     float64   `json:"angle"`
	LastValue FeedData  `json:"last_value,omitempty"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
