// Package feeds fetches weather, coffee price, currency and news data from
// upstream APIs. Every fetcher falls back to synthetic data when its
// upstream call fails, so Fetch never returns an error for upstream faults.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/models"
)

const tracerName = "github.com/bobmcallan/agripulse/internal/feeds"

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// errNoAPIKey marks a fetcher that has no credentials configured.
var errNoAPIKey = errors.New("api key not configured")

// Fetcher produces the current value of one feed.
type Fetcher interface {
	Feed() models.FeedType
	Fetch(ctx context.Context) (models.FeedData, error)
}

// Recorder observes whether a fetch used live or synthetic data.
type Recorder interface {
	FetchResult(feed models.FeedType, source models.Source)
}

// Option configures a fetcher.
type Option func(*base)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(b *base) {
		if c != nil {
			b.client = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *common.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(b *base) { b.recorder = r }
}

// WithRandom sets the randomness source for synthetic data.
func WithRandom(r common.Random) Option {
	return func(b *base) {
		if r != nil {
			b.rng = r
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// base holds what every fetcher shares.
type base struct {
	feed     models.FeedType
	client   *http.Client
	logger   *common.Logger
	recorder Recorder
	rng      common.Random
	now      func() time.Time
	tracer   trace.Tracer
}

func newBase(feed models.FeedType, opts []Option) base {
	b := base{
		feed:   feed,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: common.NewSilentLogger(),
		rng:    common.NewRandom(0),
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Feed returns the feed type this fetcher serves.
func (b *base) Feed() models.FeedType {
	return b.feed
}

// run executes live inside a span and substitutes mock on failure.
func (b *base) run(ctx context.Context, live func(context.Context) (models.FeedData, error), mock func() models.FeedData) (models.FeedData, error) {
	ctx, span := b.tracer.Start(ctx, "feeds.fetch", trace.WithAttributes(attribute.String("feed", string(b.feed))))
	defer span.End()

	data, err := live(ctx)
	if err != nil {
		if errors.Is(err, errNoAPIKey) {
			b.logger.Debug().Str("feed", string(b.feed)).Msg("no api key configured, using mock data")
		} else {
			b.logger.Warn().Str("feed", string(b.feed)).Err(err).Msg("upstream fetch failed, using mock data")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		data = mock()
	}

	span.SetAttributes(attribute.String("source", string(data.Origin())))
	if b.recorder != nil {
		b.recorder.FetchResult(b.feed, data.Origin())
	}
	return data, nil
}

// getJSON issues a GET and decodes a JSON body into out.
func (b *base) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
