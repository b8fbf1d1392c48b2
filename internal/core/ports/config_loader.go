package ports

import "go.trai.ch/menucache/internal/core/domain"

// ConfigLoader resolves the session configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration file by walking up from cwd and applies
	// environment overrides. A missing file yields the defaults.
	Load(cwd string) (domain.Config, error)
}
