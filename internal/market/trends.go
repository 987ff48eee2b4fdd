package market

import "time"

// PricePoint is one quote in the price history.
type PricePoint struct {
	Price float64   `json:"price"`
	At    time.Time `json:"timestamp"`
}

// Statistics summarizes the price history.
type Statistics struct {
	Average    float64 `json:"average"`
	Max        float64 `json:"max"`
	Min        float64 `json:"min"`
	Volatility float64 `json:"volatility"`
	DataPoints int     `json:"data_points"`
	Trend      string  `json:"trend"`
}

// TrendReport is the price history with its statistics, oldest first.
type TrendReport struct {
	Prices     []PricePoint `json:"prices"`
	Statistics Statistics   `json:"statistics"`
}

// Trends reports on the quote history. With no history yet the average is
// the base price and the trend is stable.
func (s *Simulator) Trends() TrendReport {
	s.mu.Lock()
	prices := make([]PricePoint, len(s.history))
	copy(prices, s.history)
	base := s.base
	s.mu.Unlock()

	if len(prices) == 0 {
		return TrendReport{
			Prices:     prices,
			Statistics: Statistics{Average: base, Trend: TrendStable},
		}
	}

	stats := Statistics{
		Max:        prices[0].Price,
		Min:        prices[0].Price,
		DataPoints: len(prices),
		Trend:      TrendStable,
	}
	var sum float64
	for _, p := range prices {
		sum += p.Price
		stats.Max = max(stats.Max, p.Price)
		stats.Min = min(stats.Min, p.Price)
	}
	stats.Average = sum / float64(len(prices))
	stats.Volatility = stats.Max - stats.Min
	if prices[len(prices)-1].Price > prices[0].Price {
		stats.Trend = TrendRising
	}
	return TrendReport{Prices: prices, Statistics: stats}
}
