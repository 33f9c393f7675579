// Package orchestrator owns the window manager's mutable state and the
// single goroutine that consumes every producer's events, generalizing the
// teacher's internal/ipc.Server (a struct fronting mutex-guarded shared
// state, cfgMu sync.RWMutex) and cmd/termtile/main.go's runDaemon wiring
// function into one event-driven dispatch loop (spec.md §4.4, SPEC_FULL.md
// §6.11).
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/events"
	"github.com/1broseidon/tilewm/internal/layout"
	"github.com/1broseidon/tilewm/internal/store"
	"github.com/1broseidon/tilewm/internal/workspace"
)

// WindowApplier is the slice of internal/x11.Connection the orchestrator
// needs: reconciling a computed layout onto real X windows and raising
// one to input focus. Kept as an interface (rather than a direct
// *x11.Connection field) so the event loop can be exercised headless in
// tests.
type WindowApplier interface {
	ApplyGeometry(placement map[layout.NodeID]layout.Rect, windowFor func(layout.NodeID) (layout.WindowID, bool))
	FocusLayoutWindow(win layout.WindowID) error
}

// PopupSurface is the slice of internal/popup.Manager the orchestrator
// drives in response to script-issued popup.* commands.
type PopupSurface interface {
	Show(d display.Display, text string, duration time.Duration) string
	Close()
}

// Options carries the daemon-level settings internal/config's state file
// owns (SPEC_FULL.md §4.2); kept as a plain struct here rather than
// importing internal/config directly so AppState stays constructible from
// a bare literal in tests.
type Options struct {
	OuterGap int
	InnerGap int
}

// AppState is the orchestrator's single piece of shared mutable state,
// guarded by one mutex exactly as spec.md §3/§5 require — no per-subsystem
// locks, since spec.md calls for one lock covering the whole in-memory
// model.
type AppState struct {
	mu sync.Mutex

	displays   *display.Set
	workspaces map[display.ID]*workspace.Set
	pinned     map[display.ID][]*workspace.PinnedSet

	bus     *events.Bus
	applier WindowApplier
	popups  PopupSurface
	stores  map[display.ID]*store.Store
	logger  *slog.Logger
	opts    Options

	// workMode is the global on/off for managing windows (spec.md §3,
	// glossary "Work mode"). While false, handleKeyAction drops any
	// KeyAction that isn't always-active or the toggle itself, and
	// handleWindowEvent stops feeding OS window events into the tiling
	// tree, the same way spec.md §4.3's listener would be uninstalled.
	workMode bool

	startTime time.Time
}

// New returns an AppState with no displays yet attached; AddDisplay
// populates it (a DisplaysChanged event is only logged).
func New(bus *events.Bus, applier WindowApplier, popups PopupSurface, opts Options, logger *slog.Logger) *AppState {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppState{
		displays:   display.NewSet(),
		workspaces: map[display.ID]*workspace.Set{},
		pinned:     map[display.ID][]*workspace.PinnedSet{},
		bus:        bus,
		applier:    applier,
		popups:     popups,
		stores:     map[display.ID]*store.Store{},
		logger:     logger,
		opts:       opts,
		workMode:   true,
		startTime:  time.Now(),
	}
}

// ToggleWorkMode flips work mode and returns the new state, for
// toggle_work_mode's script/keybinding command (spec.md §6).
func (a *AppState) ToggleWorkMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.workMode = !a.workMode
	return a.workMode
}

// WorkMode reports whether window management is currently active.
func (a *AppState) WorkMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.workMode
}

// DisplayStatus summarizes one display's tiling state for IPC status
// reporting.
type DisplayStatus struct {
	ID              display.ID
	Name            string
	ActiveWorkspace int
	WindowCount     int
}

// Status is the orchestrator's snapshot form of the shared mutable state:
// one entry per display, each carrying its own active workspace and
// window count rather than a single daemon-wide active layout.
type Status struct {
	Displays      []DisplayStatus
	UptimeSeconds int64
}

// Status reports a point-in-time snapshot of every known display's active
// workspace and window count, for internal/ipc's status command.
func (a *AppState) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	displays := a.displays.All()
	out := make([]DisplayStatus, 0, len(displays))
	for _, d := range displays {
		set, ok := a.workspaces[d.ID]
		if !ok {
			continue
		}
		grid := set.Active()
		windowCount := 0
		if grid != nil {
			windowCount = len(grid.Tree.Windows())
		}
		out = append(out, DisplayStatus{
			ID:              d.ID,
			Name:            d.Name,
			ActiveWorkspace: set.ActiveIndex(),
			WindowCount:     windowCount,
		})
	}
	return Status{
		Displays:      out,
		UptimeSeconds: int64(time.Since(a.startTime).Seconds()),
	}
}

// AddDisplay attaches a newly discovered display, giving it a fresh
// workspace set and pinned-window slots, and loading any previously
// persisted layout for it via s (nil skips persistence, e.g. in tests).
func (a *AppState) AddDisplay(d *display.Display, s *store.Store) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.displays.Put(d)
	set := workspace.NewSet()
	a.workspaces[d.ID] = set

	pinnedSlots := make([]*workspace.PinnedSet, workspace.Count+1)
	for i := range pinnedSlots {
		pinnedSlots[i] = workspace.NewPinnedSet()
	}
	a.pinned[d.ID] = pinnedSlots

	if s != nil {
		a.stores[d.ID] = s
		data, err := s.Load()
		if err != nil {
			return fmt.Errorf("orchestrator: loading persisted state for display %d: %w", d.ID, err)
		}
		if err := data.ApplyTo(set, pinnedSlots); err != nil {
			return fmt.Errorf("orchestrator: restoring persisted state for display %d: %w", d.ID, err)
		}
	}
	return nil
}

// RemoveDisplay drops a display that's gone away, persisting its final
// state first if a Store is registered for it.
func (a *AppState) RemoveDisplay(id display.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.persistLocked(id); err != nil {
		a.logger.Error("persisting display state before removal", "display", id, "error", err)
	}
	a.displays.Remove(id)
	delete(a.workspaces, id)
	delete(a.pinned, id)
	delete(a.stores, id)
	return nil
}

func (a *AppState) persistLocked(id display.ID) error {
	s, ok := a.stores[id]
	if !ok {
		return nil
	}
	set := a.workspaces[id]
	if set == nil {
		return nil
	}
	for i, grid := range set.All() {
		if err := s.SaveGrid(i, grid.Tree); err != nil {
			return err
		}
	}
	for slot, p := range a.pinned[id] {
		if err := s.SavePinned(slot, p); err != nil {
			return err
		}
	}
	return nil
}

// Run consumes events until ctx is cancelled, the bus closes, or a
// Shutdown event arrives — the one consumer goroutine spec.md §4.4
// requires.
func (a *AppState) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-a.bus.Events():
			if !ok {
				return nil
			}
			if !a.dispatch(e) {
				return nil
			}
		}
	}
}

// dispatch handles one event, returning false when the loop should exit.
func (a *AppState) dispatch(e events.Event) bool {
	switch ev := e.(type) {
	case events.WindowEvent:
		a.handleWindowEvent(ev)
	case events.KeyAction:
		a.handleKeyAction(ev)
	case events.WorkspaceSwitchRequested:
		if _, err := a.SwitchWorkspace(ev.Display, ev.Index); err != nil {
			a.logger.Error("workspace switch failed", "error", err)
		}
	case events.DisplaysChanged:
		a.logger.Info("displays changed, awaiting re-enumeration")
	case events.ConfigReloaded:
		a.logger.Info("config reloaded", "path", ev.Path)
	case events.ScriptCommand:
		a.handleScriptCommand(ev)
	case events.BarClick:
		a.logger.Debug("bar click", "display", ev.Display, "component", ev.Component, "button", ev.Button)
	case events.PopupDismissed:
		a.logger.Debug("popup dismissed", "id", ev.ID)
	case events.PopupShowRequested:
		a.logger.Debug("popup show requested", "id", ev.ID)
	case events.Shutdown:
		a.shutdown()
		return false
	default:
		a.logger.Warn("unhandled event type", "type", fmt.Sprintf("%T", e))
	}
	return true
}

func (a *AppState) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id := range a.workspaces {
		if err := a.persistLocked(id); err != nil {
			a.logger.Error("persisting state on shutdown", "display", id, "error", err)
		}
	}
}

func (a *AppState) handleWindowEvent(ev events.WindowEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.workMode {
		return
	}
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return
	}
	switch ev.Kind {
	case events.WindowCreated:
		grid.Tree.Push(&layout.ManagedWindow{ID: ev.Window, Title: ev.Title})
	case events.WindowDestroyed:
		grid.Tree.RemoveByWindow(ev.Window)
	case events.WindowTitleChanged:
		if id, ok := grid.Tree.FindByWindow(ev.Window); ok {
			if w, ok := grid.Tree.Window(id); ok {
				w.Title = ev.Title
			}
		}
	case events.WindowFocusChanged:
		if id, ok := grid.Tree.FindByWindow(ev.Window); ok {
			grid.Tree.SetFocus(id)
		}
	}
	a.reconcileLocked(a.displays.Active())
}

// handleKeyAction resolves a keybinding's opaque action name into a window
// or workspace mutation, the same ExecuteCommand dispatch a synchronous
// IPC request uses, routed here as an asynchronous event instead. While
// work mode is off, only ev.AlwaysActive bindings and the toggle itself
// get through (spec.md §4.2).
func (a *AppState) handleKeyAction(ev events.KeyAction) {
	if !a.WorkMode() && !ev.AlwaysActive && ev.Action != "workMode.toggle" {
		return
	}
	if _, err := a.ExecuteCommand(ev.Action, ev.Args); err != nil {
		a.logger.Error("key action failed", "action", ev.Action, "error", err)
	}
}

func (a *AppState) handleScriptCommand(ev events.ScriptCommand) {
	result, err := a.ExecuteCommand(ev.Name, ev.Args)
	if ev.Reply != nil {
		ev.Reply <- events.ScriptResult{Value: result, Err: err}
	}
}

func (a *AppState) activeGridLocked(id display.ID) *workspace.TileGrid {
	set, ok := a.workspaces[id]
	if !ok {
		return nil
	}
	return set.Active()
}

func (a *AppState) reconcileLocked(id display.ID) {
	d, ok := a.displays.Get(id)
	if !ok || a.applier == nil {
		return
	}
	grid := a.activeGridLocked(id)
	if grid == nil {
		return
	}
	placement := grid.Tree.Geometry(d.WorkArea(), a.opts.OuterGap, a.opts.InnerGap)
	a.applier.ApplyGeometry(placement, func(nodeID layout.NodeID) (layout.WindowID, bool) {
		w, ok := grid.Tree.Window(nodeID)
		if !ok {
			return 0, false
		}
		return w.ID, true
	})
}

// SwitchWorkspace makes index active on display d and reconciles the new
// grid onto screen; the previously active grid's windows are neither
// hidden nor moved. It returns the previously active grid.
func (a *AppState) SwitchWorkspace(d display.ID, index int) (*workspace.TileGrid, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	set, ok := a.workspaces[d]
	if !ok {
		return nil, fmt.Errorf("orchestrator: unknown display %d", d)
	}
	prev, err := set.SwitchTo(index)
	if err != nil {
		return nil, err
	}
	a.reconcileLocked(d)
	return prev, nil
}
