package market

// RegionSpread is the range of a region's farm-gate offset from the market
// quote, in BIF/kg.
type RegionSpread struct {
	Region string
	Min    int
	Max    int
}

// RegionSpreads lists the offset range for each map region.
var RegionSpreads = []RegionSpread{
	{Region: "Kayanza", Min: -20, Max: 20},
	{Region: "Ngozi", Min: -30, Max: 10},
	{Region: "Muyinga", Min: -20, Max: 20},
	{Region: "Kirundo", Min: -10, Max: 30},
	{Region: "Gitega", Min: -20, Max: 20},
}

// RegionPrice returns the current price for region in BIF/kg. Unknown
// regions get the market quote.
func (s *Simulator) RegionPrice(region string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.regionPrices[region]; ok {
		return p
	}
	return s.quote.PriceBIFPerKg
}

// spreadLocked redraws every region's offset around price.
func (s *Simulator) spreadLocked(price float64) {
	prices := make(map[string]float64, len(RegionSpreads))
	for _, rs := range RegionSpreads {
		offset := rs.Min + s.spread.Intn(rs.Max-rs.Min+1)
		prices[rs.Region] = price + float64(offset)
	}
	s.regionPrices = prices
}
