package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/bobmcallan/agripulse/internal/models"
)

// Location is a point whose weather is polled.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// WeatherLocations are the regions polled for current conditions.
var WeatherLocations = []Location{
	{Name: "Kayanza", Lat: -2.9, Lon: 29.6},
	{Name: "Ngozi", Lat: -2.9, Lon: 29.8},
	{Name: "Muyinga", Lat: -2.8, Lon: 30.3},
}

// owmResponse is the subset of the OpenWeatherMap current weather payload we
// read. Main and its temperature are required.
type owmResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity float64  `json:"humidity"`
		Pressure float64  `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// WeatherFetcher polls current conditions for each location concurrently.
type WeatherFetcher struct {
	base
	baseURL   string
	apiKey    string
	locations []Location
}

// NewWeatherFetcher creates a fetcher against an OpenWeatherMap-compatible endpoint.
func NewWeatherFetcher(baseURL, apiKey string, opts ...Option) *WeatherFetcher {
	return &WeatherFetcher{
		base:      newBase(models.FeedWeather, opts),
		baseURL:   baseURL,
		apiKey:    apiKey,
		locations: WeatherLocations,
	}
}

// Fetch returns readings for every location, or synthetic readings if any
// location fails.
func (f *WeatherFetcher) Fetch(ctx context.Context) (models.FeedData, error) {
	return f.run(ctx, f.fetchLive, func() models.FeedData { return MockWeather(f.rng) })
}

func (f *WeatherFetcher) fetchLive(ctx context.Context) (models.FeedData, error) {
	if f.apiKey == "" {
		return nil, errNoAPIKey
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		readings = make([]models.WeatherReading, len(f.locations))
	)

	for i, loc := range f.locations {
		wg.Add(1)
		go func(i int, loc Location) {
			defer wg.Done()
			r, err := f.fetchLocation(ctx, loc)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", loc.Name, err))
				mu.Unlock()
				return
			}
			readings[i] = r
		}(i, loc)
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &models.WeatherData{Readings: readings, Source: models.SourceLive}, nil
}

func (f *WeatherFetcher) fetchLocation(ctx context.Context, loc Location) (models.WeatherReading, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	q.Set("appid", f.apiKey)
	q.Set("units", "metric")

	var resp owmResponse
	if err := f.getJSON(ctx, f.baseURL+"?"+q.Encode(), &resp); err != nil {
		return models.WeatherReading{}, err
	}
	if resp.Main == nil || resp.Main.Temp == nil {
		return models.WeatherReading{}, errors.New("response has no temperature")
	}
	if len(resp.Weather) == 0 {
		return models.WeatherReading{}, errors.New("response has no weather conditions")
	}

	return models.WeatherReading{
		Region:      loc.Name,
		Temperature: *resp.Main.Temp,
		Condition:   resp.Weather[0].Description,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Pressure:    resp.Main.Pressure,
	}, nil
}
