package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bobmcallan/agripulse/internal/cache"
	"github.com/bobmcallan/agripulse/internal/common"
	"github.com/bobmcallan/agripulse/internal/config"
	"github.com/bobmcallan/agripulse/internal/dashboard"
	"github.com/bobmcallan/agripulse/internal/feeds"
	"github.com/bobmcallan/agripulse/internal/handlers"
	"github.com/bobmcallan/agripulse/internal/market"
	"github.com/bobmcallan/agripulse/internal/mcp"
	"github.com/bobmcallan/agripulse/internal/models"
	"github.com/bobmcallan/agripulse/internal/observability"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 5 * time.Second

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Metrics   *observability.Collector
	Dashboard *dashboard.Dashboard

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	APIHandler     *handlers.APIHandler
	MCPHandler     *mcp.Handler

	bridge          *dashboard.WebhookBridge
	redis           *redis.Client
	shutdownTracing func(context.Context) error

	cancel context.CancelFunc
	done   chan struct{}
}

// New initializes the application with all dependencies. It does not start
// the dashboard cycles; call Start for that.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initObservability(); err != nil {
		return nil, err
	}

	store := a.initStore()

	feedCache := cache.New[models.FeedData](store,
		cache.WithTTL[models.FeedData](cfg.CacheTTL()),
		cache.WithServeStale[models.FeedData](cfg.Cache.ServeStale),
		cache.WithLogger[models.FeedData](logger),
		cache.WithRecorder[models.FeedData](a.Metrics),
	)

	rnd := common.NewRandom(cfg.Feeds.MockSeed)

	opts := []dashboard.Option{
		dashboard.WithLogger(logger),
		dashboard.WithRandom(rnd),
		dashboard.WithMetrics(a.Metrics),
		dashboard.WithSink(statusLogSink{logger: logger}),
		dashboard.WithMarket(market.NewSimulator(time.Now, market.WithSpreadRandom(rnd))),
	}
	if cfg.Bridge.WebhookURL != "" {
		a.bridge = dashboard.NewWebhookBridge(cfg.Bridge.WebhookURL, cfg.BridgeTimeout(), logger)
		opts = append(opts, dashboard.WithBridge(a.bridge))
		logger.Info().Str("url", cfg.Bridge.WebhookURL).Msg("host bridge enabled")
	}

	a.Dashboard = dashboard.New(dashboard.Config{
		SimulationInterval: cfg.SimulationInterval(),
		RefreshInterval:    cfg.RefreshInterval(),
		BurstInterval:      cfg.BurstInterval(),
		PulseLifetime:      cfg.PulseLifetime(),
		StreamSize:         cfg.Scheduler.StreamSize,
		CacheTTL:           cfg.CacheTTL(),
	}, feedCache, a.initFetchers(rnd), opts...)

	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initObservability sets up the Prometheus collector and tracing.
func (a *App) initObservability() error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := observability.NewCollector(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	a.Metrics = collector

	tc := a.Config.Tracing
	shutdown, err := observability.InitTracing(context.Background(), observability.TracingConfig{
		Enabled:     tc.Enabled,
		ServiceName: tc.ServiceName,
		Exporter:    tc.Exporter,
		Endpoint:    tc.Endpoint,
		SampleRatio: tc.SampleRatio,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.shutdownTracing = shutdown

	return nil
}

// initStore returns the configured cache backend. An unreachable Redis
// falls back to the in-memory store so the dashboard still starts.
func (a *App) initStore() cache.Store[models.FeedData] {
	cc := a.Config.Cache
	if cc.Backend != "redis" {
		return cache.NewMemoryStore[models.FeedData](cc.MaxEntries)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cc.Redis.Addr,
		Password: cc.Redis.Password,
		DB:       cc.Redis.DB,
	})
	store := cache.NewRedisStore[models.FeedData](client, models.FeedCodec{}, cc.Redis.Prefix, a.Config.RedisRetention())

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		a.Logger.Warn().
			Str("addr", cc.Redis.Addr).
			Err(err).
			Msg("redis unreachable, using in-memory feed cache")
		client.Close()
		return cache.NewMemoryStore[models.FeedData](cc.MaxEntries)
	}

	a.redis = client
	a.Logger.Info().Str("addr", cc.Redis.Addr).Str("prefix", cc.Redis.Prefix).Msg("redis feed cache connected")
	return store
}

// initFetchers builds the four real-data fetchers sharing one traced client.
func (a *App) initFetchers(rnd common.Random) []feeds.Fetcher {
	fc := a.Config.Feeds
	httpClient := &http.Client{
		Timeout:   a.Config.FeedTimeout(),
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	opts := []feeds.Option{
		feeds.WithHTTPClient(httpClient),
		feeds.WithLogger(a.Logger),
		feeds.WithRecorder(a.Metrics),
		feeds.WithRandom(rnd),
	}

	return []feeds.Fetcher{
		feeds.NewWeatherFetcher(fc.Weather.BaseURL, fc.Weather.APIKey, opts...),
		feeds.NewCoffeeFetcher(fc.Coffee.BaseURL, fc.Coffee.APIKey, fc.Coffee.Symbol, opts...),
		feeds.NewCurrencyFetcher(fc.Currency.BaseURL, opts...),
		feeds.NewNewsFetcher(feeds.NewsConfig{
			Provider: fc.News.Provider,
			BaseURL:  fc.News.BaseURL,
			APIKey:   fc.News.APIKey,
			Query:    fc.News.Query,
			PageSize: fc.News.PageSize,
			RSSURLs:  fc.News.RSSURLs,
		}, opts...),
	}
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.Dashboard)
	a.MCPHandler = mcp.NewHandler(a.Dashboard, a.Logger)
}

// Start runs the dashboard cycles in the background until Close.
func (a *App) Start() {
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		a.Dashboard.Run(ctx)
	}()
}

// Close stops the dashboard cycles and releases resources.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
		<-a.done
	}
	if a.bridge != nil {
		a.bridge.Wait()
	}
	if a.shutdownTracing != nil {
		observability.ShutdownWithTimeout(context.Background(), a.shutdownTracing, a.Logger)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}
	return nil
}

// statusLogSink logs every satellite status change at debug level.
type statusLogSink struct {
	logger *common.Logger
}

func (s statusLogSink) UpdateStatus(feed models.FeedType, status models.Status, message string) {
	s.logger.Debug().
		Str("feed", string(feed)).
		Str("status", string(status)).
		Str("message", message).
		Msg("satellite status changed")
}
