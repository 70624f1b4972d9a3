package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor emits on save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads settings whenever the settings file changes.
// Invalid settings are logged and the previous settings stay in effect.
type Watcher struct {
	loader   driven.SettingsLoader
	onChange func(domain.Settings)
	debounce time.Duration
}

// NewWatcher creates a watcher that calls onChange with every valid reload.
func NewWatcher(loader driven.SettingsLoader, onChange func(domain.Settings)) *Watcher {
	return &Watcher{
		loader:   loader,
		onChange: onChange,
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	path, err := filepath.Abs(w.loader.Path())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.loader.Path(), err)
	}
	// Watch the directory: editors often replace the file with a rename.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Debug("watching %s for changes", path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("settings watcher: %v", err)
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	settings, err := w.loader.Load()
	if err != nil {
		logger.Warn("settings reload rejected, keeping previous settings: %v", err)
		return
	}
	logger.Info("settings reloaded from %s", w.loader.Path())
	w.onChange(settings)
}
