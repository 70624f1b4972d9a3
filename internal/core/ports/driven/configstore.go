package driven

import "github.com/custodia-labs/rootly-sync/internal/core/domain"

// SettingsLoader loads runtime configuration.
type SettingsLoader interface {
	// Load reads and validates settings. Problems are *domain.ConfigError.
	Load() (domain.Settings, error)

	// Path returns the file the settings are read from.
	Path() string
}

// SecretsProvider supplies the API tokens.
type SecretsProvider interface {
	// Secrets returns both tokens. A missing token is a *domain.ConfigError.
	Secrets() (domain.Secrets, error)
}
