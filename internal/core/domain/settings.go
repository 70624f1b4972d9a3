package domain

import (
	"net/url"
	"regexp"
	"time"
)

// Default settings values.
const (
	DefaultAPIBase           = "https://api.rootly.com/v1"
	DefaultWebBase           = "https://rootly.com/account"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultMaxRetries        = 4
	DefaultBatchSize         = 50
	DefaultPageLimit         = 50
	DefaultMaxPages          = 10
	DefaultSyncInterval      = 60 * time.Minute
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"

	// MaxBatchSize is the largest batch the destination accepts.
	MaxBatchSize = 100

	// MaxPageLimit is the largest page size the source accepts.
	MaxPageLimit = 100
)

var datasourceNamePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Settings is the validated runtime configuration.
type Settings struct {
	Source      SourceSettings
	Destination DestinationSettings
	DataTypes   map[DataType]DataTypeSettings
	Processing  ProcessingSettings
	Logging     LoggingSettings
	State       StateSettings
}

// SourceSettings configures the Rootly API client.
type SourceSettings struct {
	// APIBase is the REST root, e.g. https://api.rootly.com/v1.
	APIBase string
	// WebBase prefixes default view URLs.
	WebBase           string
	Timeout           time.Duration
	RequestsPerSecond float64
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// DestinationSettings configures the Glean indexing client.
type DestinationSettings struct {
	APIHost           string
	DatasourceName    string
	DisplayName       string
	BatchSize         int
	RequestsPerSecond float64
	Timeout           time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// DataTypeSettings configures one data type.
type DataTypeSettings struct {
	Enabled   bool
	PageLimit int
	// MaxItems caps the records fetched per run. Zero means unlimited.
	MaxItems int

	// Incident-only nested fetch switches.
	NestedFetch        bool
	IncludeEvents      bool
	IncludeActionItems bool
}

// ProcessingSettings holds run-wide limits.
type ProcessingSettings struct {
	// MaxPages caps pages per data type. Zero means unlimited.
	MaxPages     int
	SyncInterval time.Duration
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string
	Format string
}

// StateSettings configures the watermark store.
type StateSettings struct {
	// Dir holds the state database. Empty keeps state in memory.
	Dir string
}

// DefaultSettings returns settings with every data type disabled.
func DefaultSettings() Settings {
	s := Settings{
		Source: SourceSettings{
			APIBase:           DefaultAPIBase,
			WebBase:           DefaultWebBase,
			Timeout:           DefaultTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			MaxRetries:        DefaultMaxRetries,
		},
		Destination: DestinationSettings{
			BatchSize:         DefaultBatchSize,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Timeout:           DefaultTimeout,
			MaxRetries:        DefaultMaxRetries,
		},
		DataTypes: make(map[DataType]DataTypeSettings),
		Processing: ProcessingSettings{
			MaxPages:     DefaultMaxPages,
			SyncInterval: DefaultSyncInterval,
		},
		Logging: LoggingSettings{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
	for _, dt := range AllDataTypes() {
		s.DataTypes[dt] = DataTypeSettings{PageLimit: DefaultPageLimit}
	}
	return s
}

// DataType returns the settings for a data type.
// Unknown types are reported as disabled.
func (s Settings) DataType(dt DataType) DataTypeSettings {
	return s.DataTypes[dt]
}

// IsEnabled reports whether a data type is enabled.
func (s Settings) IsEnabled(dt DataType) bool {
	return s.DataTypes[dt].Enabled
}

// EnabledTypes returns the enabled data types in run order.
func (s Settings) EnabledTypes() []DataType {
	var enabled []DataType
	for _, dt := range AllDataTypes() {
		if s.IsEnabled(dt) {
			enabled = append(enabled, dt)
		}
	}
	return enabled
}

// Validate checks the settings and returns a *ConfigError on the first problem.
func (s Settings) Validate() error {
	if err := validateBaseURL("source.api_base", s.Source.APIBase); err != nil {
		return err
	}
	if err := validateBaseURL("source.web_base", s.Source.WebBase); err != nil {
		return err
	}
	if s.Source.Timeout <= 0 {
		return NewConfigError("source.timeout_seconds", "must be positive")
	}
	if s.Source.RequestsPerSecond <= 0 {
		return NewConfigError("source.requests_per_second", "must be positive")
	}
	if s.Source.MaxRetries < 0 {
		return NewConfigError("source.max_retries", "must not be negative")
	}

	if s.Destination.APIHost == "" {
		return NewConfigError("destination.api_host", "is required")
	}
	if !datasourceNamePattern.MatchString(s.Destination.DatasourceName) {
		return NewConfigError("destination.datasource_name",
			"must be lowercase alphanumeric, got %q", s.Destination.DatasourceName)
	}
	if s.Destination.BatchSize < 1 || s.Destination.BatchSize > MaxBatchSize {
		return NewConfigError("destination.batch_size", "must be between 1 and %d", MaxBatchSize)
	}
	if s.Destination.RequestsPerSecond <= 0 {
		return NewConfigError("destination.requests_per_second", "must be positive")
	}
	if s.Destination.Timeout <= 0 {
		return NewConfigError("destination.timeout_seconds", "must be positive")
	}
	if s.Destination.MaxRetries < 0 {
		return NewConfigError("destination.max_retries", "must not be negative")
	}

	for dt := range s.DataTypes {
		if !dt.IsValid() {
			return NewConfigError("data_types."+string(dt), "unknown data type")
		}
	}
	for _, dt := range AllDataTypes() {
		cfg := s.DataTypes[dt]
		if !cfg.Enabled {
			continue
		}
		if cfg.PageLimit < 1 || cfg.PageLimit > MaxPageLimit {
			return NewConfigError("data_types."+string(dt)+".page_limit",
				"must be between 1 and %d", MaxPageLimit)
		}
		if cfg.MaxItems < 0 {
			return NewConfigError("data_types."+string(dt)+".max_items", "must not be negative")
		}
	}

	if s.Processing.MaxPages < 0 {
		return NewConfigError("processing.max_pages", "must not be negative")
	}
	if s.Processing.SyncInterval <= 0 {
		return NewConfigError("processing.sync_interval_minutes", "must be positive")
	}

	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return NewConfigError("logging.level", "must be one of debug, info, warn, error")
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return NewConfigError("logging.format", "must be console or json")
	}

	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return NewConfigError(key, "must be an absolute http(s) URL")
	}
	return nil
}
