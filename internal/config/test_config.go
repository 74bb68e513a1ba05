package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Feed = FeedConfig{
		HTTPTimeout:   5 * time.Second,
		UserAgent:     "skim-test/1.0",
		FetchInterval: time.Millisecond,
	}
	cfg.Reader.IntroDelay = 10 * time.Millisecond
	cfg.Reader.PageNumberPause = 10 * time.Millisecond
	cfg.Reader.EndClose = 10 * time.Millisecond
	cfg.Reader.RetryTimeout = 50 * time.Millisecond
	cfg.Reader.PacingDelay = time.Millisecond
	cfg.Log = LogConfig{Level: "off"}
	return cfg
}
