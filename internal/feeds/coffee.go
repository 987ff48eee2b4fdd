package feeds

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/bobmcallan/agripulse/internal/models"
)

// DefaultCoffeeSymbol is the ICE coffee "C" futures ticker.
const DefaultCoffeeSymbol = "KC.XCEC"

type eodResponse struct {
	Data []struct {
		Open   *float64 `json:"open"`
		Close  *float64 `json:"close"`
		Volume float64  `json:"volume"`
		Date   string   `json:"date"`
	} `json:"data"`
}

// CoffeeFetcher reads the latest end-of-day coffee futures bar.
type CoffeeFetcher struct {
	base
	baseURL string
	apiKey  string
	symbol  string
}

// NewCoffeeFetcher creates a fetcher against a marketstack-compatible EOD endpoint.
func NewCoffeeFetcher(baseURL, apiKey, symbol string, opts ...Option) *CoffeeFetcher {
	if symbol == "" {
		symbol = DefaultCoffeeSymbol
	}
	return &CoffeeFetcher{
		base:    newBase(models.FeedPrices, opts),
		baseURL: baseURL,
		apiKey:  apiKey,
		symbol:  symbol,
	}
}

// Fetch returns the latest quote. The 24h change is close minus open.
func (f *CoffeeFetcher) Fetch(ctx context.Context) (models.FeedData, error) {
	return f.run(ctx, f.fetchLive, func() models.FeedData { return MockPrice(f.rng, f.now()) })
}

func (f *CoffeeFetcher) fetchLive(ctx context.Context) (models.FeedData, error) {
	if f.apiKey == "" {
		return nil, errNoAPIKey
	}

	q := url.Values{}
	q.Set("access_key", f.apiKey)
	q.Set("symbols", f.symbol)

	var resp eodResponse
	if err := f.getJSON(ctx, f.baseURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("response has no price bars")
	}

	bar := resp.Data[0]
	if bar.Open == nil || bar.Close == nil {
		return nil, errors.New("price bar has no open or close")
	}
	return &models.PriceData{
		Current:   *bar.Close,
		Change24h: *bar.Close - *bar.Open,
		Volume:    bar.Volume,
		Timestamp: parseTimestamp(bar.Date, f.now()),
		Source:    models.SourceLive,
	}, nil
}

// parseTimestamp accepts RFC 3339 and the numeric-offset variant marketstack
// emits, falling back to def.
func parseTimestamp(s string, def time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return def
}
