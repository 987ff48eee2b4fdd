package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bobmcallan/agripulse/internal/classify"
	"github.com/bobmcallan/agripulse/internal/models"
)

// refreshOrder is the order feeds are refreshed in, with their cache keys.
var refreshOrder = []struct {
	feed models.FeedType
	key  string
}{
	{models.FeedWeather, "weather"},
	{models.FeedPrices, "coffee"},
	{models.FeedCurrency, "currency"},
	{models.FeedNews, "news"},
}

// CacheKey returns the cache key a feed is stored under, or "" if the feed
// is not fetched.
func CacheKey(feed models.FeedType) string {
	for _, r := range refreshOrder {
		if r.feed == feed {
			return r.key
		}
	}
	return ""
}

// RefreshRealData runs one real-data cycle: each fetched feed is read through
// the cache, classified and applied. A feed that fails is logged and skipped;
// the returned error joins every failure.
func (d *Dashboard) RefreshRealData(ctx context.Context) error {
	return d.refresh(ctx, false)
}

// ForceRefresh is RefreshRealData ignoring the cache window.
func (d *Dashboard) ForceRefresh(ctx context.Context) error {
	return d.refresh(ctx, true)
}

func (d *Dashboard) refresh(ctx context.Context, force bool) error {
	ctx, span := d.tracer.Start(ctx, "dashboard.refresh")
	defer span.End()
	span.SetAttributes(attribute.Bool("force", force))

	var errs []error
	applied := 0
	for _, r := range refreshOrder {
		f, ok := d.fetchers[r.feed]
		if !ok {
			continue
		}

		var (
			data models.FeedData
			err  error
		)
		if force {
			data, err = d.cache.Refresh(ctx, r.key, f.Fetch)
		} else {
			data, err = d.cache.Get(ctx, r.key, d.cfg.CacheTTL, f.Fetch)
		}
		if err != nil {
			d.logger.Warn().Str("feed", string(r.feed)).Str("key", r.key).Err(err).Msg("real data update failed")
			errs = append(errs, fmt.Errorf("%s: %w", r.key, err))
			continue
		}

		status, message, ok := classify.Classify(data)
		if !ok {
			d.logger.Debug().Str("feed", string(r.feed)).Msg("feed returned nothing to classify")
			continue
		}

		d.mu.Lock()
		changes := d.applyStatusLocked(r.feed, status, message, data)
		sinks := d.sinksLocked()
		d.mu.Unlock()
		d.notify(sinks, changes)
		applied++

		d.logger.Debug().
			Str("feed", string(r.feed)).
			Str("status", string(status)).
			Str("source", string(data.Origin())).
			Msg(message)
	}

	span.SetAttributes(attribute.Int("applied", applied))
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
