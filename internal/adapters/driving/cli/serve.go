package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rootly-sync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driving"
	"github.com/custodia-labs/rootly-sync/internal/core/services"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		resume bool
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sync now and then every sync interval",
		Long: `Run a sync immediately and then every processing.sync_interval_minutes
until interrupted. Each run is recorded in the run history. The settings file
is watched and reloaded when it changes; invalid edits are logged and ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(root.appOptions())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Warn("close state store: %v", err)
				}
			}()

			ctx := cmd.Context()
			reloading := newReloadingCoordinator(app.Settings, app.Coordinator, app.Rebuild)
			if watch {
				watcher := file.NewWatcher(app.Loader, reloading.Update)
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Warn("settings watcher stopped: %v", err)
					}
				}()
			}

			interval := app.Settings.Processing.SyncInterval
			scheduler := services.NewScheduler(interval, app.History, reloading, driving.RunOptions{Resume: resume})
			out := cmd.OutOrStdout()
			styled := isTerminal(out)
			scheduler.OnReport = func(report *domain.RunReport) {
				renderSummary(out, report, styled)
			}

			err = scheduler.Start(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("shutting down")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", true, "start each data type from its stored watermark")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the settings file when it changes")
	return cmd
}

// reloadingCoordinator swaps the coordinator when settings change.
// A run in progress finishes with the coordinator it started with.
type reloadingCoordinator struct {
	mu       sync.RWMutex
	current  driving.SyncCoordinator
	settings domain.Settings
	rebuild  func(domain.Settings) (driving.SyncCoordinator, error)
}

var _ driving.SyncCoordinator = (*reloadingCoordinator)(nil)

func newReloadingCoordinator(
	settings domain.Settings,
	current driving.SyncCoordinator,
	rebuild func(domain.Settings) (driving.SyncCoordinator, error),
) *reloadingCoordinator {
	return &reloadingCoordinator{current: current, settings: settings, rebuild: rebuild}
}

// Run delegates to the current coordinator.
func (r *reloadingCoordinator) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	r.mu.RLock()
	c := r.current
	r.mu.RUnlock()
	return c.Run(ctx, opts)
}

// Update wires a coordinator for settings. On failure the previous one stays.
func (r *reloadingCoordinator) Update(settings domain.Settings) {
	c, err := r.rebuild(settings)
	if err != nil {
		logger.Warn("settings reload rejected, keeping previous settings: %v", err)
		return
	}

	if err := logger.Configure(settings.Logging.Level, settings.Logging.Format); err != nil {
		logger.Warn("logging settings not applied: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if settings.Processing.SyncInterval != r.settings.Processing.SyncInterval {
		logger.Warn("sync interval changed to %s; restart serve to apply it", settings.Processing.SyncInterval)
	}
	r.current = c
	r.settings = settings
}
