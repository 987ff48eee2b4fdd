package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4250,
			Host: "localhost",
		},
		Feeds: FeedsConfig{
			Timeout: "10s",
			Weather: WeatherConfig{
				BaseURL: "https://api.openweathermap.org/data/2.5/weather",
			},
			Coffee: CoffeeConfig{
				BaseURL: "http://api.marketstack.com/v1/eod/latest",
				Symbol:  "KC.XCEC",
			},
			Currency: CurrencyConfig{
				BaseURL: "https://api.exchangerate-api.com/v4/latest/USD",
			},
			News: NewsConfig{
				Provider: "newsapi",
				BaseURL:  "https://newsapi.org/v2/everything",
				Query:    "coffee OR Burundi OR agriculture",
				PageSize: 5,
				RSSURLs:  []string{},
			},
		},
		Cache: CacheConfig{
			TTL:        "5m",
			ServeStale: true,
			Backend:    "memory",
			MaxEntries: 64,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				Prefix:    "agripulse:",
				Retention: "24h",
			},
		},
		Scheduler: SchedulerConfig{
			SimulationInterval: "2.5s",
			RefreshInterval:    "5m",
			BurstInterval:      "8s",
			PulseLifetime:      "850ms",
			StreamSize:         6,
		},
		Bridge: BridgeConfig{
			Timeout: "5s",
		},
		Tracing: TracingConfig{
			ServiceName: "agripulse",
			Exporter:    "stdout",
			Endpoint:    "localhost:4317",
			SampleRatio: 1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
