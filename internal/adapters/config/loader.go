// Package config loads menucache.yaml.
package config

import (
	"cmp"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvConfigPath = "MENUCACHE_CONFIG"
	EnvAPIURL     = "MENUCACHE_API_URL"
	EnvCacheDir   = "MENUCACHE_CACHE_DIR"
	EnvFeedAddr   = "MENUCACHE_FEED_ADDR"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv reads environment overrides. Nil means os.Getenv.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load resolves the configuration for cwd.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	base := cwd

	path, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Config{}, err
	}

	if path != "" {
		var file File
		if err := readAndUnmarshalYAML(path, &file); err != nil {
			return domain.Config{}, zerr.With(err, "path", path)
		}
		merge(&cfg, file)
		base = filepath.Dir(path)
		l.Logger.Debug("loaded configuration from " + path)
	}

	if v := l.getenv(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := l.getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
		base = cwd
	}
	if v := l.getenv(EnvFeedAddr); v != "" {
		cfg.FeedAddress = v
	}

	if !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(base, cfg.CacheDir)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

// findConfiguration returns the explicit config path, or the nearest
// menucache.yaml walking up from cwd, or "" when there is none.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	if explicit := l.getenv(EnvConfigPath); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", explicit)
		}
		return explicit, nil
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func merge(cfg *domain.Config, f File) {
	cfg.APIBaseURL = cmp.Or(f.API.BaseURL, cfg.APIBaseURL)
	cfg.APIPath = cmp.Or(f.API.Path, cfg.APIPath)
	cfg.Timeout = cmp.Or(f.API.Timeout, cfg.Timeout)
	cfg.CacheDir = cmp.Or(f.Cache.Dir, cfg.CacheDir)
	cfg.Freshness = cmp.Or(f.Cache.Freshness, cfg.Freshness)
	cfg.FeedAddress = cmp.Or(f.Feed.Address, cfg.FeedAddress)
	cfg.FeedTable = cmp.Or(f.Feed.Table, cfg.FeedTable)
	cfg.PollInterval = cmp.Or(f.Feed.PollInterval, cfg.PollInterval)
	cfg.Trace = f.Telemetry.Trace
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or set explicitly by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return errors.Join(domain.ErrConfigParseFailed, err)
	}
	return nil
}
