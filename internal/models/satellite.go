package models

import "math"

var satelliteNames = map[FeedType]string{
	FeedPrices:   "Coffee Prices",
	FeedWeather:  "Weather Data",
	FeedDisease:  "Disease Reports",
	FeedMarket:   "Market Data",
	FeedNews:     "News Feed",
	FeedCurrency: "Exchange Rates",
}

// SatelliteName returns the display name of a feed.
func SatelliteName(feed FeedType) string {
	if n, ok := satelliteNames[feed]; ok {
		return n
	}
	return string(feed)
}

// DefaultSatellites returns one record per feed, evenly spaced around the
// map in FeedTypes order, with their startup statuses.
func DefaultSatellites() []FeedRecord {
	initial := map[FeedType]Status{
		FeedPrices:   StatusThreat,
		FeedWeather:  StatusWatch,
		FeedDisease:  StatusOpportunity,
		FeedMarket:   StatusWatch,
		FeedNews:     StatusThreat,
		FeedCurrency: StatusOpportunity,
	}

	out := make([]FeedRecord, len(FeedTypes))
	for i, ft := range FeedTypes {
		out[i] = FeedRecord{
			Name:   SatelliteName(ft),
			Type:   ft,
			Status: initial[ft],
			Angle:  float64(i) * math.Pi / 3,
		}
	}
	return out
}
