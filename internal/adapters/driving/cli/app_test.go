package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

const appConfig = `
[destination]
api_host = "acme-be.glean.com"
datasource_name = "rootly"

[data_types.incidents]
enabled = true
`

func writeAppFiles(t *testing.T, config string) appOptions {
	t.Helper()
	dir := t.TempDir()
	opts := appOptions{
		configPath:  filepath.Join(dir, "config.toml"),
		secretsPath: filepath.Join(dir, "secrets.env"),
	}
	require.NoError(t, os.WriteFile(opts.configPath, []byte(config), 0600))
	require.NoError(t, os.WriteFile(opts.secretsPath,
		[]byte("ROOTLY_API_TOKEN=rootly-test\nGLEAN_API_TOKEN=glean-test\n"), 0600))
	t.Setenv("ROOTLY_API_TOKEN", "")
	t.Setenv("GLEAN_API_TOKEN", "")
	t.Cleanup(func() { _ = logger.Configure(domain.DefaultLogLevel, domain.DefaultLogFormat) })
	return opts
}

func TestBuildApp_InMemoryState(t *testing.T) {
	opts := writeAppFiles(t, appConfig)

	app, err := buildApp(opts)

	require.NoError(t, err)
	defer app.Close()
	assert.True(t, app.Settings.IsEnabled(domain.DataTypeIncidents))
	assert.Equal(t, opts.configPath, app.Loader.Path())
	assert.IsType(t, &memory.SyncStateStore{}, app.States)
	assert.IsType(t, &memory.SchedulerStore{}, app.History)
	assert.NotNil(t, app.Coordinator)
	assert.Equal(t, domain.MaxBatchSize, app.Indexer.MaxBatchSize())

	rebuilt, err := app.Rebuild(app.Settings)
	require.NoError(t, err)
	assert.NotNil(t, rebuilt)
}

func TestBuildApp_SQLiteState(t *testing.T) {
	stateDir := t.TempDir()
	opts := writeAppFiles(t, appConfig+"\n[state]\ndir = \""+filepath.ToSlash(stateDir)+"\"\n")

	app, err := buildApp(opts)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(stateDir, "state.db"))
	assert.NoError(t, app.Close())
}

func TestBuildApp_MissingToken(t *testing.T) {
	opts := writeAppFiles(t, appConfig)
	require.NoError(t, os.WriteFile(opts.secretsPath, []byte("GLEAN_API_TOKEN=glean-test\n"), 0600))

	_, err := buildApp(opts)

	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.NotContains(t, err.Error(), "glean-test")
}

func TestBuildApp_InvalidSettings(t *testing.T) {
	opts := writeAppFiles(t, "[destination]\napi_host = \"acme-be.glean.com\"\ndatasource_name = \"Not Valid\"\n")

	_, err := buildApp(opts)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "destination.datasource_name", cfgErr.Key)
}

func TestApp_CloseWithoutStore(t *testing.T) {
	assert.NoError(t, (&App{}).Close())
}
