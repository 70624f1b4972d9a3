package cli

import (
	"errors"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/index/glean"
	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rootly-sync/internal/connectors/rootly"
	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
	"github.com/custodia-labs/rootly-sync/internal/core/services"
	"github.com/custodia-labs/rootly-sync/internal/logger"
	rootlynorm "github.com/custodia-labs/rootly-sync/internal/normalisers/rootly"
)

// appOptions locates the settings and secrets files.
type appOptions struct {
	configPath  string
	secretsPath string
}

// App holds the wired components a command needs.
type App struct {
	Settings    domain.Settings
	Loader      driven.SettingsLoader
	Coordinator driving.SyncCoordinator
	Indexer     driven.Indexer
	States      driven.SyncStateStore
	History     driven.SchedulerStore

	// Rebuild wires a coordinator for reloaded settings, reusing the
	// tokens and stores of this App.
	Rebuild func(domain.Settings) (driving.SyncCoordinator, error)

	closer func() error
}

// Close releases the state store.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// newApp is replaced in tests.
var newApp = buildApp

// buildApp loads settings and secrets and wires the pipeline.
// Every configuration problem surfaces here, before any network call.
func buildApp(opts appOptions) (*App, error) {
	loader := file.NewSettingsStore(opts.configPath)
	settings, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(settings.Logging.Level, settings.Logging.Format); err != nil {
		return nil, domain.NewConfigError("logging", "%v", err)
	}

	secrets, err := file.NewSecretsLoader(opts.secretsPath).Secrets()
	if err != nil {
		return nil, err
	}

	app := &App{Settings: settings, Loader: loader}
	if err := app.openStores(settings.State); err != nil {
		return nil, err
	}

	coordinator, indexer, err := assemble(settings, secrets, app.States)
	if err != nil {
		return nil, errors.Join(err, app.Close())
	}
	app.Coordinator = coordinator
	app.Indexer = indexer
	app.Rebuild = func(s domain.Settings) (driving.SyncCoordinator, error) {
		c, _, err := assemble(s, secrets, app.States)
		return c, err
	}
	return app, nil
}

// openStores opens the sqlite state store, or in-memory stores when no
// state directory is configured.
func (a *App) openStores(state domain.StateSettings) error {
	if state.Dir == "" {
		logger.Debug("state.dir not set, watermarks are kept in memory")
		a.States = memory.NewSyncStateStore()
		a.History = memory.NewSchedulerStore()
		return nil
	}

	store, err := sqlite.NewStore(state.Dir)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return domain.NewConfigError("state.dir", "%v", err)
		}
		return err
	}
	logger.Debug("state store: %s", store.Path())
	a.States = store.SyncStateStore()
	a.History = store.SchedulerStore()
	a.closer = store.Close
	return nil
}

// assemble builds the source clients, mappers, destination client and
// coordinator for one set of settings.
func assemble(
	settings domain.Settings,
	secrets domain.Secrets,
	states driven.SyncStateStore,
) (*services.Coordinator, *glean.Client, error) {
	source, err := rootly.NewClient(secrets.RootlyToken, settings.Source)
	if err != nil {
		return nil, nil, err
	}
	indexer, err := glean.NewClient(secrets.GleanToken, settings.Destination, settings.Source)
	if err != nil {
		return nil, nil, err
	}
	mappers := services.NewMapperRegistry(rootlynorm.NewMappers(settings.Source.WebBase)...)

	coordinator := services.NewCoordinator(
		settings,
		rootly.NewFetchers(source, settings),
		mappers,
		indexer,
		states,
	)
	return coordinator, indexer, nil
}
