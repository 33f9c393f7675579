// Package reload watches the config file on disk and publishes an
// events.ConfigReloaded event each time it changes successfully parses
// (spec.md §4.7).
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/tilewm/internal/events"
)

// Parser validates and applies a config file's contents. Returning an error
// leaves the previously loaded config in effect; Watcher only publishes
// ConfigReloaded once Parser succeeds.
type Parser func(path string) error

// Watcher wraps an fsnotify.Watcher scoped to a single config file's parent
// directory (fsnotify watches directories, not bare files, so a rename-based
// editor save is still seen as a Create event on the target name).
type Watcher struct {
	path   string
	parse  Parser
	bus    *events.Bus
	logger *slog.Logger
}

// New returns a Watcher for path. Logger defaults to slog.Default() if nil.
func New(path string, parse Parser, bus *events.Bus, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, parse: parse, bus: bus, logger: logger}
}

// Run blocks watching the config directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	w.logger.Info("config watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("config watcher panic recovered", "error", r)
		}
	}()

	if err := w.parse(w.path); err != nil {
		w.logger.Error("config reload failed", "path", w.path, "error", err)
		return
	}

	w.bus.Publish(events.ConfigReloaded{Path: w.path})
}

// TriggerReload re-parses the watched config file immediately, regardless
// of whether fsnotify has seen a change, and publishes ConfigReloaded on
// success. Used by internal/ipc's RELOAD command so a client can force a
// reload without touching the file's mtime.
func (w *Watcher) TriggerReload() error {
	if err := w.parse(w.path); err != nil {
		return fmt.Errorf("config reload failed: %w", err)
	}
	w.bus.Publish(events.ConfigReloaded{Path: w.path})
	return nil
}
