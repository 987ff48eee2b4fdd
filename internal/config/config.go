package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Feeds     FeedsConfig     `toml:"feeds"`
	Cache     CacheConfig     `toml:"cache"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Bridge    BridgeConfig    `toml:"bridge"`
	Tracing   TracingConfig   `toml:"tracing"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// FeedsConfig contains upstream data source settings.
type FeedsConfig struct {
	Timeout  string         `toml:"timeout"`
	MockSeed int64          `toml:"mock_seed"`
	Weather  WeatherConfig  `toml:"weather"`
	Coffee   CoffeeConfig   `toml:"coffee"`
	Currency CurrencyConfig `toml:"currency"`
	News     NewsConfig     `toml:"news"`
}

// WeatherConfig points at an OpenWeatherMap-compatible endpoint.
type WeatherConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// CoffeeConfig points at a marketstack-compatible EOD endpoint.
type CoffeeConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Symbol  string `toml:"symbol"`
}

// CurrencyConfig points at an exchangerate-api compatible endpoint.
type CurrencyConfig struct {
	BaseURL string `toml:"base_url"`
}

// NewsConfig selects the headline provider.
type NewsConfig struct {
	Provider string   `toml:"provider"` // newsapi | rss
	BaseURL  string   `toml:"base_url"`
	APIKey   string   `toml:"api_key"`
	Query    string   `toml:"query"`
	PageSize int      `toml:"page_size"`
	RSSURLs  []string `toml:"rss_urls"`
}

// CacheConfig contains feed cache settings.
type CacheConfig struct {
	TTL        string      `toml:"ttl"`
	ServeStale bool        `toml:"serve_stale"`
	Backend    string      `toml:"backend"` // memory | redis
	MaxEntries int         `toml:"max_entries"`
	Redis      RedisConfig `toml:"redis"`
}

// RedisConfig contains Redis cache backend settings.
type RedisConfig struct {
	Addr      string `toml:"addr"`
	DB        int    `toml:"db"`
	Password  string `toml:"password"`
	Prefix    string `toml:"prefix"`
	Retention string `toml:"retention"`
}

// SchedulerConfig contains the dashboard cycle timings.
type SchedulerConfig struct {
	SimulationInterval string `toml:"simulation_interval"`
	RefreshInterval    string `toml:"refresh_interval"`
	BurstInterval      string `toml:"burst_interval"`
	PulseLifetime      string `toml:"pulse_lifetime"`
	StreamSize         int    `toml:"stream_size"`
}

// BridgeConfig contains host bridge settings. An empty webhook URL disables it.
type BridgeConfig struct {
	WebhookURL string `toml:"webhook_url"`
	Timeout    string `toml:"timeout"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	ServiceName string  `toml:"service_name"`
	Exporter    string  `toml:"exporter"` // stdout | otlp
	Endpoint    string  `toml:"endpoint"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies AGRIPULSE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("AGRIPULSE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("AGRIPULSE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if key := os.Getenv("AGRIPULSE_WEATHER_API_KEY"); key != "" {
		config.Feeds.Weather.APIKey = key
	}
	if key := os.Getenv("AGRIPULSE_COFFEE_API_KEY"); key != "" {
		config.Feeds.Coffee.APIKey = key
	}
	if key := os.Getenv("AGRIPULSE_NEWS_API_KEY"); key != "" {
		config.Feeds.News.APIKey = key
	}
	if provider := os.Getenv("AGRIPULSE_NEWS_PROVIDER"); provider != "" {
		config.Feeds.News.Provider = provider
	}
	if urls := os.Getenv("AGRIPULSE_NEWS_RSS_URLS"); urls != "" {
		config.Feeds.News.RSSURLs = splitList(urls)
	}
	if seed := os.Getenv("AGRIPULSE_MOCK_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Feeds.MockSeed = s
		}
	}

	if ttl := os.Getenv("AGRIPULSE_CACHE_TTL"); ttl != "" {
		config.Cache.TTL = ttl
	}
	if backend := os.Getenv("AGRIPULSE_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if addr := os.Getenv("AGRIPULSE_REDIS_ADDR"); addr != "" {
		config.Cache.Redis.Addr = addr
	}
	if pw := os.Getenv("AGRIPULSE_REDIS_PASSWORD"); pw != "" {
		config.Cache.Redis.Password = pw
	}

	if url := os.Getenv("AGRIPULSE_BRIDGE_WEBHOOK_URL"); url != "" {
		config.Bridge.WebhookURL = url
	}

	if enabled := os.Getenv("AGRIPULSE_TRACING_ENABLED"); enabled != "" {
		config.Tracing.Enabled = strings.EqualFold(enabled, "true")
	}
	if exporter := os.Getenv("AGRIPULSE_TRACING_EXPORTER"); exporter != "" {
		config.Tracing.Exporter = strings.ToLower(exporter)
	}
	if endpoint := os.Getenv("AGRIPULSE_OTLP_ENDPOINT"); endpoint != "" {
		config.Tracing.Endpoint = endpoint
	}

	if level := os.Getenv("AGRIPULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// minCacheEntries is the smallest bounded memory cache that holds every
// fetched feed (weather, coffee, currency, news).
const minCacheEntries = 4

// Validate returns a list of configuration problems. An empty list means the
// configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	durations := []struct {
		name  string
		value string
	}{
		{"feeds.timeout", c.Feeds.Timeout},
		{"cache.ttl", c.Cache.TTL},
		{"cache.redis.retention", c.Cache.Redis.Retention},
		{"scheduler.simulation_interval", c.Scheduler.SimulationInterval},
		{"scheduler.refresh_interval", c.Scheduler.RefreshInterval},
		{"scheduler.burst_interval", c.Scheduler.BurstInterval},
		{"scheduler.pulse_lifetime", c.Scheduler.PulseLifetime},
		{"bridge.timeout", c.Bridge.Timeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v <= 0 {
			issues = append(issues, fmt.Sprintf("%s must be a positive duration such as \"5m\" (got %q)", d.name, d.value))
		}
	}

	switch c.Cache.Backend {
	case "memory", "":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			issues = append(issues, "cache.redis.addr is required when cache.backend = \"redis\"")
		}
		if ret, ttl := c.RedisRetention(), c.CacheTTL(); ret < ttl {
			issues = append(issues, fmt.Sprintf("cache.redis.retention (%s) must not be shorter than cache.ttl (%s)", ret, ttl))
		}
	default:
		issues = append(issues, fmt.Sprintf("cache.backend must be \"memory\" or \"redis\" (got %q)", c.Cache.Backend))
	}

	if n := c.Cache.MaxEntries; n < 0 || (n > 0 && n < minCacheEntries) {
		issues = append(issues, fmt.Sprintf("cache.max_entries must be 0 (unbounded) or at least %d (got %d)", minCacheEntries, n))
	}

	switch c.Feeds.News.Provider {
	case "newsapi", "":
	case "rss":
		if len(c.Feeds.News.RSSURLs) == 0 {
			issues = append(issues, "feeds.news.rss_urls is required when feeds.news.provider = \"rss\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("feeds.news.provider must be \"newsapi\" or \"rss\" (got %q)", c.Feeds.News.Provider))
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "stdout", "otlp", "":
		default:
			issues = append(issues, fmt.Sprintf("tracing.exporter must be \"stdout\" or \"otlp\" (got %q)", c.Tracing.Exporter))
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			issues = append(issues, fmt.Sprintf("tracing.sample_ratio must be between 0 and 1 (got %v)", c.Tracing.SampleRatio))
		}
	}

	if c.Scheduler.StreamSize < 0 {
		issues = append(issues, "scheduler.stream_size must not be negative")
	}

	return issues
}

// parseDuration parses s, returning fallback when s is empty or invalid.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// FeedTimeout returns the upstream HTTP timeout.
func (c *Config) FeedTimeout() time.Duration {
	return parseDuration(c.Feeds.Timeout, 10*time.Second)
}

// CacheTTL returns the feed cache reuse window.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 5*time.Minute)
}

// RedisRetention returns how long Redis keeps entries after they are written.
func (c *Config) RedisRetention() time.Duration {
	return parseDuration(c.Cache.Redis.Retention, 24*time.Hour)
}

// SimulationInterval returns the status simulation period.
func (c *Config) SimulationInterval() time.Duration {
	return parseDuration(c.Scheduler.SimulationInterval, 2500*time.Millisecond)
}

// RefreshInterval returns the real-data refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return parseDuration(c.Scheduler.RefreshInterval, 5*time.Minute)
}

// BurstInterval returns the intelligence burst period.
func (c *Config) BurstInterval() time.Duration {
	return parseDuration(c.Scheduler.BurstInterval, 8*time.Second)
}

// PulseLifetime returns how long a pulse travels.
func (c *Config) PulseLifetime() time.Duration {
	return parseDuration(c.Scheduler.PulseLifetime, 850*time.Millisecond)
}

// BridgeTimeout returns the host webhook timeout.
func (c *Config) BridgeTimeout() time.Duration {
	return parseDuration(c.Bridge.Timeout, 5*time.Second)
}

// SearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory, then
// the user's XDG config directory. Paths are deduplicated via filepath.Abs.
func SearchPaths() []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		binDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(binDir, "agripulse.toml"),
			filepath.Join(binDir, "config", "agripulse.toml"),
		)
	}
	paths = append(paths,
		"agripulse.toml",
		filepath.Join("config", "agripulse.toml"),
		filepath.Join(xdg.ConfigHome, "agripulse", "agripulse.toml"),
	)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// Discover returns the first existing file from SearchPaths, or "".
func Discover() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
