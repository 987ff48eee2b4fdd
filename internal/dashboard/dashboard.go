// Package dashboard holds the live state of the AgriPulse dashboard: the six
// feed satellites, the map regions, in-flight pulses and the activity stream.
// It drives the periodic real-data refresh and the correlation simulation.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/agripulse/internal/cache"
	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/feeds"
	"github.com/bobmcallan/agripulse/internal/market"
	"github.com/bobmcallan/agripulse/internal/models"
)

const tracerName = "github.com/bobmcallan/agripulse/internal/dashboard"

// ErrUnknownTarget is returned when a click names no known region or satellite.
var ErrUnknownTarget = errors.New("unknown click target")

// maxPulses bounds the pulse ring.
const maxPulses = 128

// Defaults applied to zero Config fields.
const (
	DefaultSimulationInterval = 2500 * time.Millisecond
	DefaultRefreshInterval    = 5 * time.Minute
	DefaultBurstInterval      = 8 * time.Second
	DefaultPulseLifetime      = 850 * time.Millisecond
	DefaultStreamSize         = 6
	// PredictionTTL is how long a price prediction is reused.
	PredictionTTL = 5 * time.Minute
)

// predictionKey is the prediction cache key.
const predictionKey = "prediction"

// Config holds the dashboard timings.
type Config struct {
	SimulationInterval time.Duration
	RefreshInterval    time.Duration
	BurstInterval      time.Duration
	PulseLifetime      time.Duration
	StreamSize         int
	// CacheTTL is passed to every cache lookup. Zero uses the cache default.
	CacheTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.SimulationInterval <= 0 {
		c.SimulationInterval = DefaultSimulationInterval
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.BurstInterval <= 0 {
		c.BurstInterval = DefaultBurstInterval
	}
	if c.PulseLifetime <= 0 {
		c.PulseLifetime = DefaultPulseLifetime
	}
	if c.StreamSize <= 0 {
		c.StreamSize = DefaultStreamSize
	}
	return c
}

// StatusSink receives every satellite status change. It is the presentation
// layer's hook; calls happen outside the dashboard lock.
type StatusSink interface {
	UpdateStatus(feed models.FeedType, status models.Status, message string)
}

// Metrics observes dashboard activity.
type Metrics interface {
	SetFeedStatus(feed models.FeedType, status models.Status)
	PulseCreated(kind models.PulseKind)
}

// PulseView is a pulse with its progress at snapshot time.
type PulseView struct {
	models.Pulse
	Progress float64 `json:"progress"`
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLogger attaches a logger.
func WithLogger(l *common.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRandom sets the randomness source for the simulation.
func WithRandom(r common.Random) Option {
	return func(d *Dashboard) {
		if r != nil {
			d.rng = r
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		if now != nil {
			d.now = now
		}
	}
}

// WithBridge sets the host bridge.
func WithBridge(b Bridge) Option {
	return func(d *Dashboard) {
		if b != nil {
			d.bridge = b
		}
	}
}

// WithMetrics attaches a metrics observer.
func WithMetrics(m Metrics) Option {
	return func(d *Dashboard) { d.metrics = m }
}

// WithSink registers a status sink.
func WithSink(s StatusSink) Option {
	return func(d *Dashboard) {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
}

// WithMarket replaces the market simulator.
func WithMarket(m *market.Simulator) Option {
	return func(d *Dashboard) {
		if m != nil {
			d.market = m
		}
	}
}

// WithPredictor replaces the rule-based price predictor.
func WithPredictor(p market.Predictor) Option {
	return func(d *Dashboard) {
		if p != nil {
			d.predictor = p
		}
	}
}

// WithPredictionCache replaces the in-memory prediction cache.
func WithPredictionCache(c *cache.Cache[market.Prediction]) Option {
	return func(d *Dashboard) {
		if c != nil {
			d.predictions = c
		}
	}
}

// Dashboard is the application context. It is safe for concurrent use.
type Dashboard struct {
	cfg      Config
	cache    *cache.Cache[models.FeedData]
	fetchers map[models.FeedType]feeds.Fetcher
	market   *market.Simulator
	bridge   Bridge
	sinks    []StatusSink
	metrics  Metrics
	rng      common.Random
	now      func() time.Time
	logger   *common.Logger
	tracer   trace.Tracer

	predictor   market.Predictor
	predictions *cache.Cache[market.Prediction]

	mu         sync.RWMutex
	satellites []models.FeedRecord
	regions    []models.Region
	pulses     []models.Pulse
	stream     []models.StatusUpdate
}

// New creates a dashboard with the default satellites and regions.
func New(cfg Config, c *cache.Cache[models.FeedData], fetchers []feeds.Fetcher, opts ...Option) *Dashboard {
	d := &Dashboard{
		cfg:        cfg.withDefaults(),
		cache:      c,
		fetchers:   make(map[models.FeedType]feeds.Fetcher, len(fetchers)),
		bridge:     NoopBridge{},
		rng:        common.NewRandom(0),
		now:        time.Now,
		logger:     common.NewSilentLogger(),
		tracer:     otel.Tracer(tracerName),
		satellites: models.DefaultSatellites(),
		regions:    models.DefaultRegions(),
	}
	for _, f := range fetchers {
		d.fetchers[f.Feed()] = f
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.market == nil {
		d.market = market.NewSimulator(d.now)
	}
	if d.predictor == nil {
		d.predictor = market.RulePredictor{Now: d.now}
	}
	if d.predictions == nil {
		d.predictions = cache.New(cache.NewMemoryStore[market.Prediction](1),
			cache.WithTTL[market.Prediction](PredictionTTL),
			cache.WithServeStale[market.Prediction](true),
			cache.WithClock[market.Prediction](d.now),
			cache.WithLogger[market.Prediction](d.logger),
		)
	}
	if d.metrics != nil {
		for _, s := range d.satellites {
			d.metrics.SetFeedStatus(s.Type, s.Status)
		}
	}
	return d
}

// Config returns the effective configuration.
func (d *Dashboard) Config() Config {
	return d.cfg
}

// AddSink registers a status sink after construction.
func (d *Dashboard) AddSink(s StatusSink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// UpdateStatus sets a satellite's status. It emits an update pulse to a
// random region, appends to the activity stream and notifies sinks. An empty
// message is replaced by a canned one for the feed.
func (d *Dashboard) UpdateStatus(feed models.FeedType, status models.Status, message string) error {
	if _, err := models.ParseFeedType(string(feed)); err != nil {
		return err
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}

	d.mu.Lock()
	n := d.applyStatusLocked(feed, status, message, nil)
	sinks := d.sinksLocked()
	d.mu.Unlock()

	d.notify(sinks, n)
	return nil
}

// Satellites returns a copy of every feed record in orbit order.
func (d *Dashboard) Satellites() []models.FeedRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.FeedRecord, len(d.satellites))
	copy(out, d.satellites)
	return out
}

// Satellite returns one feed record.
func (d *Dashboard) Satellite(feed models.FeedType) (models.FeedRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.satelliteIndexLocked(feed)
	if i < 0 {
		return models.FeedRecord{}, fmt.Errorf("%w: %q", models.ErrUnknownFeed, feed)
	}
	return d.satellites[i], nil
}

// Regions returns a copy of the map regions with their current prices.
func (d *Dashboard) Regions() []models.Region {
	d.mu.RLock()
	out := make([]models.Region, len(d.regions))
	copy(out, d.regions)
	d.mu.RUnlock()

	for i := range out {
		out[i].PriceBIF = d.market.RegionPrice(out[i].Name)
	}
	return out
}

// Pulses returns pulses that have not yet finished, including scheduled ones.
func (d *Dashboard) Pulses() []PulseView {
	now := d.now()
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]PulseView, 0, len(d.pulses))
	for _, p := range d.pulses {
		if p.Done(now) {
			continue
		}
		out = append(out, PulseView{Pulse: p, Progress: p.Progress(now)})
	}
	return out
}

// Stream returns the activity stream, oldest first.
func (d *Dashboard) Stream() []models.StatusUpdate {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.StatusUpdate, len(d.stream))
	copy(out, d.stream)
	return out
}

// Market returns the market simulator state.
func (d *Dashboard) Market() market.Snapshot {
	return d.market.Snapshot()
}

// Trends returns the market price history and its statistics.
func (d *Dashboard) Trends() market.TrendReport {
	return d.market.Trends()
}

// Prediction returns the price outlook, reused for PredictionTTL. When no
// prediction can be made and none is cached, a fallback is returned.
func (d *Dashboard) Prediction(ctx context.Context) market.Prediction {
	p, err := d.predictions.Get(ctx, predictionKey, 0, func(ctx context.Context) (market.Prediction, error) {
		return d.predictor.Predict(ctx, d.market.Snapshot(), d.market.Trends())
	})
	if err != nil {
		d.logger.Debug().Err(err).Msg("price prediction unavailable, serving fallback")
		reason := "Analysis temporarily unavailable"
		if errors.Is(err, market.ErrNoHistory) {
			reason = "Generating fresh analysis..."
		}
		return market.FallbackPrediction(reason, d.now())
	}
	return p
}

// statusChange is a pending sink notification.
type statusChange struct {
	feed    models.FeedType
	status  models.Status
	message string
}

// applyStatusLocked writes a status, emits an update pulse and a stream entry.
func (d *Dashboard) applyStatusLocked(feed models.FeedType, status models.Status, message string, value models.FeedData) []statusChange {
	i := d.satelliteIndexLocked(feed)
	if i < 0 {
		return nil
	}
	if message == "" {
		message = pickMessage(d.rng, string(feed))
	}

	now := d.now()
	s := &d.satellites[i]
	s.Status = status
	s.Message = message
	s.UpdatedAt = now
	if value != nil {
		s.LastValue = value
	}
	if d.metrics != nil {
		d.metrics.SetFeedStatus(feed, status)
	}

	d.addPulseLocked(feed, d.randomRegionLocked(), models.PulseUpdate, 0)
	d.appendStreamLocked(models.StatusUpdate{
		Feed:    feed,
		Title:   s.Name,
		Status:  status,
		Message: message,
		At:      now,
	})

	return []statusChange{{feed: feed, status: status, message: message}}
}

// setStatusLocked changes a status without a pulse or stream entry.
func (d *Dashboard) setStatusLocked(i int, status models.Status) statusChange {
	s := &d.satellites[i]
	s.Status = status
	s.UpdatedAt = d.now()
	if d.metrics != nil {
		d.metrics.SetFeedStatus(s.Type, status)
	}
	return statusChange{feed: s.Type, status: status, message: s.Message}
}

func (d *Dashboard) addPulseLocked(from models.FeedType, to string, kind models.PulseKind, delay time.Duration) {
	now := d.now()
	live := d.pulses[:0]
	for _, p := range d.pulses {
		if !p.Done(now) {
			live = append(live, p)
		}
	}
	d.pulses = live
	if len(d.pulses) >= maxPulses {
		d.pulses = d.pulses[len(d.pulses)-maxPulses+1:]
	}

	d.pulses = append(d.pulses, models.Pulse{
		ID:       uuid.NewString(),
		From:     from,
		To:       to,
		Kind:     kind,
		StartsAt: now.Add(delay),
		Lifetime: d.cfg.PulseLifetime,
	})
	if d.metrics != nil {
		d.metrics.PulseCreated(kind)
	}
}

func (d *Dashboard) appendStreamLocked(u models.StatusUpdate) {
	d.stream = append(d.stream, u)
	if over := len(d.stream) - d.cfg.StreamSize; over > 0 {
		d.stream = append(d.stream[:0:0], d.stream[over:]...)
	}
}

func (d *Dashboard) satelliteIndexLocked(feed models.FeedType) int {
	for i, s := range d.satellites {
		if s.Type == feed {
			return i
		}
	}
	return -1
}

func (d *Dashboard) regionIndexLocked(name string) int {
	for i, r := range d.regions {
		if strings.EqualFold(r.Name, name) {
			return i
		}
	}
	return -1
}

func (d *Dashboard) randomRegionLocked() string {
	return d.regions[d.rng.Intn(len(d.regions))].Name
}

func (d *Dashboard) sinksLocked() []StatusSink {
	if len(d.sinks) == 0 {
		return nil
	}
	out := make([]StatusSink, len(d.sinks))
	copy(out, d.sinks)
	return out
}

func (d *Dashboard) notify(sinks []StatusSink, changes []statusChange) {
	for _, c := range changes {
		for _, s := range sinks {
			s.UpdateStatus(c.feed, c.status, c.message)
		}
	}
}
