package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

const fullTOML = `
[source]
api_base = "https://api.rootly.com/v1"
web_base = "https://rootly.com/account"
timeout_seconds = 20
requests_per_second = 2.5
max_retries = 3

[destination]
api_host = "acme-be.glean.com"
datasource_name = "rootly"
display_name = "Rootly"
batch_size = 25
timeout_seconds = 45
max_retries = 1

[data_types.incidents]
enabled = true
page_limit = 20
max_items = 200
include_events = false

[data_types.alerts]
enabled = true

[data_types.schedules]
enabled = false

[processing]
max_pages = 0
sync_interval_minutes = 15

[logging]
level = "DEBUG"
format = "json"

[state]
dir = ".state"
`

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSettingsStore_LoadTOML(t *testing.T) {
	store := NewSettingsStore(writeSettings(t, "config.toml", fullTOML))

	s, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, s.Source.Timeout)
	assert.InDelta(t, 2.5, s.Source.RequestsPerSecond, 0.001)
	assert.Equal(t, 3, s.Source.MaxRetries)

	assert.Equal(t, "acme-be.glean.com", s.Destination.APIHost)
	assert.Equal(t, "rootly", s.Destination.DatasourceName)
	assert.Equal(t, "Rootly", s.Destination.DisplayName)
	assert.Equal(t, 25, s.Destination.BatchSize)
	assert.InDelta(t, domain.DefaultRequestsPerSecond, s.Destination.RequestsPerSecond, 0.001)
	assert.Equal(t, 45*time.Second, s.Destination.Timeout)
	assert.Equal(t, 1, s.Destination.MaxRetries)

	inc := s.DataType(domain.DataTypeIncidents)
	assert.True(t, inc.Enabled)
	assert.Equal(t, 20, inc.PageLimit)
	assert.Equal(t, 200, inc.MaxItems)
	assert.True(t, inc.NestedFetch)
	assert.False(t, inc.IncludeEvents)
	assert.True(t, inc.IncludeActionItems)

	assert.Equal(t, domain.DefaultPageLimit, s.DataType(domain.DataTypeAlerts).PageLimit)
	assert.Equal(t, []domain.DataType{domain.DataTypeIncidents, domain.DataTypeAlerts}, s.EnabledTypes())

	assert.Equal(t, 0, s.Processing.MaxPages, "explicit zero disables the page cap")
	assert.Equal(t, 15*time.Minute, s.Processing.SyncInterval)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, ".state", s.State.Dir)
}

func TestSettingsStore_Defaults(t *testing.T) {
	path := writeSettings(t, "config.toml", `
[destination]
api_host = "acme-be.glean.com"
datasource_name = "rootly"
`)

	s, err := NewSettingsStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAPIBase, s.Source.APIBase)
	assert.Equal(t, domain.DefaultBatchSize, s.Destination.BatchSize)
	assert.Equal(t, domain.DefaultMaxPages, s.Processing.MaxPages)
	assert.Equal(t, domain.DefaultSyncInterval, s.Processing.SyncInterval)
	assert.Empty(t, s.EnabledTypes())
	assert.Empty(t, s.State.Dir)
}

func TestSettingsStore_LoadYAML(t *testing.T) {
	path := writeSettings(t, "config.yaml", `
destination:
  api_host: acme-be.glean.com
  datasource_name: rootly
data_types:
  retrospectives:
    enabled: true
    page_limit: 10
logging:
  level: warn
`)

	s, err := NewSettingsStore(path).Load()
	require.NoError(t, err)
	assert.True(t, s.IsEnabled(domain.DataTypeRetrospectives))
	assert.Equal(t, 10, s.DataType(domain.DataTypeRetrospectives).PageLimit)
	assert.Equal(t, "warn", s.Logging.Level)
}

func TestSettingsStore_LoadJSON(t *testing.T) {
	path := writeSettings(t, "config.json", `{
  "destination": {"api_host": "acme-be.glean.com", "datasource_name": "rootly"},
  "data_types": {"alerts": {"enabled": true, "max_items": 5}}
}`)

	s, err := NewSettingsStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 5, s.DataType(domain.DataTypeAlerts).MaxItems)
}

func TestSettingsStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "unknown key",
			file:    "config.toml",
			content: "[destination]\napi_host = \"h\"\ndatasource_name = \"rootly\"\nbogus = 1\n",
			want:    "parse",
		},
		{
			name:    "unknown data type",
			file:    "config.toml",
			content: "[destination]\napi_host = \"h\"\ndatasource_name = \"rootly\"\n[data_types.widgets]\nenabled = true\n",
			want:    "data_types.widgets",
		},
		{
			name:    "invalid datasource name",
			file:    "config.toml",
			content: "[destination]\napi_host = \"h\"\ndatasource_name = \"Rootly-Prod\"\n",
			want:    "destination.datasource_name",
		},
		{
			name:    "batch size above maximum",
			file:    "config.yaml",
			content: "destination:\n  api_host: h\n  datasource_name: rootly\n  batch_size: 500\n",
			want:    "destination.batch_size",
		},
		{
			name:    "malformed yaml",
			file:    "config.yml",
			content: "destination: [",
			want:    "parse",
		},
		{
			name:    "unsupported extension",
			file:    "config.ini",
			content: "x=1",
			want:    "unsupported settings format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSettingsStore(writeSettings(t, tt.file, tt.content)).Load()
			require.Error(t, err)
			assert.True(t, domain.IsConfigError(err), "got %T", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettingsStore_MissingFile(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "absent.toml"))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestNewSettingsStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultSettingsFile, NewSettingsStore("").Path())
}
