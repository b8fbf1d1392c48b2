package domain

import (
	"net/url"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Config holds the resolved settings of a menucache session.
type Config struct {
	// APIBaseURL is the scheme and host of the menu API.
	APIBaseURL string
	// APIPath is the path of the menu endpoint.
	APIPath string
	// Timeout bounds one network fetch.
	Timeout time.Duration
	// CacheDir holds the persistent store.
	CacheDir string
	// Freshness is the freshness window applied to cached snapshots.
	Freshness time.Duration
	// FeedAddress is the gRPC address of the realtime change feed. Empty disables it.
	FeedAddress string
	// FeedTable names the resource the change feed is keyed to.
	FeedTable string
	// PollInterval is how often the full menu is refetched while the feed is down.
	PollInterval time.Duration
	// Trace enables span logging at debug level.
	Trace bool
}

const (
	// DefaultAPIBaseURL is used when no API address is configured.
	DefaultAPIBaseURL = "http://localhost:8000"
	// DefaultAPIPath is the path of the menu endpoint.
	DefaultAPIPath = "/api/menu"
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 8 * time.Second
	// DefaultPollInterval is the polling period of the degraded update source.
	DefaultPollInterval = 30 * time.Second
	// DefaultFeedTable is the resource the change feed subscribes to.
	DefaultFeedTable = "menu"
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:   DefaultAPIBaseURL,
		APIPath:      DefaultAPIPath,
		Timeout:      DefaultTimeout,
		CacheDir:     DefaultCachePath(),
		Freshness:    AvailabilityWindow,
		FeedTable:    DefaultFeedTable,
		PollInterval: DefaultPollInterval,
	}
}

// MenuURL joins the base URL and the endpoint path.
func (c Config) MenuURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/" + strings.TrimLeft(c.APIPath, "/")
}

// FeedEnabled reports whether a realtime feed address is configured.
func (c Config) FeedEnabled() bool {
	return c.FeedAddress != ""
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalidConfig("api.base_url", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return invalidConfig("api.timeout", c.Timeout.String())
	}
	if c.CacheDir == "" {
		return invalidConfig("cache.dir", c.CacheDir)
	}
	if c.Freshness <= 0 {
		return invalidConfig("cache.freshness", c.Freshness.String())
	}
	if c.PollInterval <= 0 {
		return invalidConfig("feed.poll_interval", c.PollInterval.String())
	}
	return nil
}

func invalidConfig(field, value string) error {
	err := zerr.Wrap(ErrInvalidConfig, "rejected "+field)
	err = zerr.With(err, "field", field)
	return zerr.With(err, "value", value)
}
