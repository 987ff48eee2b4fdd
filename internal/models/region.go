package models

// Region is a coffee-growing province on the central map.
type Region struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Farmers   int     `json:"farmers"`
	Elevation int     `json:"elevation"`
	Status    Status  `json:"status"`
	// PriceBIF is the farm-gate coffee price in BIF/kg, filled from the
	// market when regions are read.
	PriceBIF float64 `json:"price_bif"`
}

// DefaultRegions returns the five monitored provinces.
func DefaultRegions() []Region {
	return []Region{
		{Name: "Kayanza", Lat: -2.9217, Lon: 29.6297, Farmers: 120000, Elevation: 1800, Status: StatusWatch},
		{Name: "Ngozi", Lat: -2.9083, Lon: 29.8306, Farmers: 95000, Elevation: 1850, Status: StatusThreat},
		{Name: "Muyinga", Lat: -2.8444, Lon: 30.3417, Farmers: 75000, Elevation: 1600, Status: StatusOpportunity},
		{Name: "Kirundo", Lat: -2.5833, Lon: 30.0833, Farmers: 80000, Elevation: 1500, Status: StatusOpportunity},
		{Name: "Gitega", Lat: -3.4264, Lon: 29.9306, Farmers: 110000, Elevation: 1700, Status: StatusWatch},
	}
}
