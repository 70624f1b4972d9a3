package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsLoader = (*SettingsStore)(nil)

// DefaultSettingsFile is the settings path used when none is given.
const DefaultSettingsFile = "config.toml"

// SettingsStore reads settings from a TOML or YAML file.
// Keys absent from the file keep their defaults.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store for the file at path.
func NewSettingsStore(path string) *SettingsStore {
	if path == "" {
		path = DefaultSettingsFile
	}
	return &SettingsStore{path: path}
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads, decodes and validates the settings file.
func (s *SettingsStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Settings{}, &domain.ConfigError{Reason: fmt.Sprintf("settings file %s not found", s.path)}
		}
		return domain.Settings{}, &domain.ConfigError{Reason: fmt.Sprintf("read %s: %v", s.path, err)}
	}

	var raw fileSettings
	if err := decode(s.path, data, &raw); err != nil {
		return domain.Settings{}, err
	}

	settings, err := raw.apply(domain.DefaultSettings())
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// decode picks the format from the file extension. Unknown keys are rejected.
func decode(path string, data []byte, out *fileSettings) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(out)
	case ".yaml", ".yml", ".json":
		// YAML is a superset of JSON, so one decoder serves both.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(out)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return &domain.ConfigError{Reason: fmt.Sprintf("unsupported settings format %q", ext)}
	}
	if err != nil {
		return &domain.ConfigError{Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return nil
}

// fileSettings mirrors the settings file. Pointers distinguish an absent key
// from an explicit zero.
type fileSettings struct {
	Source      sourceSection              `toml:"source" yaml:"source"`
	Destination destinationSection         `toml:"destination" yaml:"destination"`
	DataTypes   map[string]dataTypeSection `toml:"data_types" yaml:"data_types"`
	Processing  processingSection          `toml:"processing" yaml:"processing"`
	Logging     loggingSection             `toml:"logging" yaml:"logging"`
	State       stateSection               `toml:"state" yaml:"state"`
}

type sourceSection struct {
	APIBase           *string  `toml:"api_base" yaml:"api_base"`
	WebBase           *string  `toml:"web_base" yaml:"web_base"`
	TimeoutSeconds    *int     `toml:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerSecond *float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	MaxRetries        *int     `toml:"max_retries" yaml:"max_retries"`
}

type destinationSection struct {
	APIHost           string   `toml:"api_host" yaml:"api_host"`
	DatasourceName    string   `toml:"datasource_name" yaml:"datasource_name"`
	DisplayName       string   `toml:"display_name" yaml:"display_name"`
	BatchSize         *int     `toml:"batch_size" yaml:"batch_size"`
	RequestsPerSecond *float64 `toml:"requests_per_second" yaml:"requests_per_second"`
	TimeoutSeconds    *int     `toml:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries        *int     `toml:"max_retries" yaml:"max_retries"`
}

type dataTypeSection struct {
	Enabled            bool  `toml:"enabled" yaml:"enabled"`
	PageLimit          *int  `toml:"page_limit" yaml:"page_limit"`
	MaxItems           *int  `toml:"max_items" yaml:"max_items"`
	EnableNestedFetch  *bool `toml:"enable_nested_fetch" yaml:"enable_nested_fetch"`
	IncludeEvents      *bool `toml:"include_events" yaml:"include_events"`
	IncludeActionItems *bool `toml:"include_action_items" yaml:"include_action_items"`
}

type processingSection struct {
	MaxPages            *int `toml:"max_pages" yaml:"max_pages"`
	SyncIntervalMinutes *int `toml:"sync_interval_minutes" yaml:"sync_interval_minutes"`
}

type loggingSection struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type stateSection struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// apply overlays the file values on defaults.
func (f fileSettings) apply(s domain.Settings) (domain.Settings, error) {
	setString(&s.Source.APIBase, f.Source.APIBase)
	setString(&s.Source.WebBase, f.Source.WebBase)
	if f.Source.TimeoutSeconds != nil {
		s.Source.Timeout = time.Duration(*f.Source.TimeoutSeconds) * time.Second
	}
	setValue(&s.Source.RequestsPerSecond, f.Source.RequestsPerSecond)
	setValue(&s.Source.MaxRetries, f.Source.MaxRetries)

	s.Destination.APIHost = strings.TrimSpace(f.Destination.APIHost)
	s.Destination.DatasourceName = strings.TrimSpace(f.Destination.DatasourceName)
	s.Destination.DisplayName = strings.TrimSpace(f.Destination.DisplayName)
	setValue(&s.Destination.BatchSize, f.Destination.BatchSize)
	setValue(&s.Destination.RequestsPerSecond, f.Destination.RequestsPerSecond)
	if f.Destination.TimeoutSeconds != nil {
		s.Destination.Timeout = time.Duration(*f.Destination.TimeoutSeconds) * time.Second
	}
	setValue(&s.Destination.MaxRetries, f.Destination.MaxRetries)

	for key, section := range f.DataTypes {
		dt, err := domain.ParseDataType(key)
		if err != nil {
			return s, domain.NewConfigError("data_types."+key, "unknown data type")
		}
		cfg := s.DataTypes[dt]
		cfg.Enabled = section.Enabled
		setValue(&cfg.PageLimit, section.PageLimit)
		setValue(&cfg.MaxItems, section.MaxItems)
		if dt == domain.DataTypeIncidents {
			cfg.NestedFetch = valueOr(section.EnableNestedFetch, true)
			cfg.IncludeEvents = valueOr(section.IncludeEvents, true)
			cfg.IncludeActionItems = valueOr(section.IncludeActionItems, true)
		}
		s.DataTypes[dt] = cfg
	}

	setValue(&s.Processing.MaxPages, f.Processing.MaxPages)
	if f.Processing.SyncIntervalMinutes != nil {
		s.Processing.SyncInterval = time.Duration(*f.Processing.SyncIntervalMinutes) * time.Minute
	}

	if f.Logging.Level != "" {
		s.Logging.Level = strings.ToLower(f.Logging.Level)
	}
	if f.Logging.Format != "" {
		s.Logging.Format = strings.ToLower(f.Logging.Format)
	}
	s.State.Dir = strings.TrimSpace(f.State.Dir)

	return s, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
