package config

import "time"

// File is the structure of menucache.yaml.
type File struct {
	API       APISection       `yaml:"api"`
	Cache     CacheSection     `yaml:"cache"`
	Feed      FeedSection      `yaml:"feed"`
	Telemetry TelemetrySection `yaml:"telemetry"`
}

// APISection configures the menu API.
type APISection struct {
	BaseURL string        `yaml:"base_url"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheSection configures the cache tiers.
type CacheSection struct {
	Dir       string        `yaml:"dir"`
	Freshness time.Duration `yaml:"freshness"`
}

// FeedSection configures the realtime change feed.
type FeedSection struct {
	Address      string        `yaml:"address"`
	Table        string        `yaml:"table"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// TelemetrySection configures tracing.
type TelemetrySection struct {
	Trace bool `yaml:"trace"`
}
