package feeds

import (
	"context"
	"errors"
	"sync"

	"github.com/bobmcallan/agripulse/internal/models"
)

// defaultBIFRate is used when the rates table exists but omits BIF.
const defaultBIFRate = 2000.0

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// CurrencyFetcher reads the USD to BIF exchange rate. The change is measured
// against the previous live observation.
type CurrencyFetcher struct {
	base
	baseURL string

	mu       sync.Mutex
	lastRate float64
}

// NewCurrencyFetcher creates a fetcher against an exchangerate-api compatible endpoint.
func NewCurrencyFetcher(baseURL string, opts ...Option) *CurrencyFetcher {
	return &CurrencyFetcher{
		base:    newBase(models.FeedCurrency, opts),
		baseURL: baseURL,
	}
}

// Fetch returns the current rate.
func (f *CurrencyFetcher) Fetch(ctx context.Context) (models.FeedData, error) {
	return f.run(ctx, f.fetchLive, func() models.FeedData { return MockCurrency(f.rng, f.now()) })
}

func (f *CurrencyFetcher) fetchLive(ctx context.Context) (models.FeedData, error) {
	var resp ratesResponse
	if err := f.getJSON(ctx, f.baseURL, &resp); err != nil {
		return nil, err
	}

	if resp.Rates == nil {
		return nil, errors.New("response has no rates")
	}

	rate, ok := resp.Rates["BIF"]
	if !ok || rate == 0 {
		rate = defaultBIFRate
	}

	f.mu.Lock()
	var change float64
	if f.lastRate != 0 {
		change = rate - f.lastRate
	}
	f.lastRate = rate
	f.mu.Unlock()

	return &models.CurrencyData{
		USDToBIF:  rate,
		Change24h: change,
		Timestamp: f.now(),
		Source:    models.SourceLive,
	}, nil
}
