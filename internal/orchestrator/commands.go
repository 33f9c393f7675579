package orchestrator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/1broseidon/tilewm/internal/layout"
)

// ExecuteCommand runs one named window-manager command, the single table
// both a fired keybinding (events.KeyAction) and a script-issued command
// (events.ScriptCommand) route through, so every command producer shares
// one dispatch path rather than each wiring its own switch. Args are
// always strings: the keybinding manager and
// nogscript's Dispatcher (internal/script/wm.go) both stringify their
// arguments before reaching here, so this table never depends on either
// producer's native representation.
func (a *AppState) ExecuteCommand(name string, args []string) (interface{}, error) {
	switch name {
	case "workspace.switchTo":
		idx, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		id := a.displays.Active()
		a.mu.Unlock()
		if _, err := a.SwitchWorkspace(id, idx); err != nil {
			return nil, err
		}
		return nil, nil
	case "workspace.pin":
		return nil, a.setPinned(args, true)
	case "workspace.unpin":
		return nil, a.setPinned(args, false)
	case "workspace.isPinned":
		return a.isPinned(args)
	case "window.focus":
		return nil, a.focusDirection(args)
	case "window.close":
		return nil, a.closeFocused()
	case "window.swap":
		return nil, a.withDirection(args, func(t *layout.Tree, dir layout.Direction) { t.Swap(dir) })
	case "window.moveIn":
		return nil, a.withDirection(args, func(t *layout.Tree, dir layout.Direction) { t.MoveIn(dir) })
	case "window.moveOut":
		return nil, a.withDirection(args, func(t *layout.Tree, dir layout.Direction) { t.MoveOut(dir) })
	case "window.fullscreen":
		return nil, a.toggleFullscreen()
	case "window.getTitle":
		return a.focusedTitle()
	case "window.moveToWorkspace":
		return nil, a.moveToWorkspace(args)
	case "workspace.resize":
		return nil, a.resizeNeighbor(args)
	case "workspace.resetRow":
		return nil, a.resetAxis(func(t *layout.Tree) { t.ResetRow() })
	case "workspace.resetCol":
		return nil, a.resetAxis(func(t *layout.Tree) { t.ResetColumn() })
	case "workspace.setSplitDirection":
		return nil, a.setSplitDirection(args)
	case "workMode.toggle":
		return a.ToggleWorkMode(), nil
	case "popup.show":
		return nil, a.showPopup(args)
	case "popup.close":
		a.popups.Close()
		return nil, nil
	default:
		return nil, fmt.Errorf("orchestrator: unknown command %q", name)
	}
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("orchestrator: expected at least %d argument(s)", i+1)
	}
	return strconv.Atoi(args[i])
}

func parseDirection(s string) (layout.Direction, error) {
	switch s {
	case "up", "Up":
		return layout.Up, nil
	case "down", "Down":
		return layout.Down, nil
	case "left", "Left":
		return layout.Left, nil
	case "right", "Right":
		return layout.Right, nil
	default:
		return 0, fmt.Errorf("orchestrator: unknown direction %q", s)
	}
}

func (a *AppState) withDirection(args []string, fn func(*layout.Tree, layout.Direction)) error {
	if len(args) < 1 {
		return fmt.Errorf("orchestrator: expected a direction argument")
	}
	dir, err := parseDirection(args[0])
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	fn(grid.Tree, dir)
	a.reconcileLocked(a.displays.Active())
	return nil
}

func (a *AppState) focusDirection(args []string) error {
	return a.withDirection(args, func(t *layout.Tree, dir layout.Direction) { t.Focus(dir) })
}

// resizeNeighbor implements workspace.resize(direction, amount): trade size
// units with the focused Tile's direct sibling in direction.
func (a *AppState) resizeNeighbor(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("orchestrator: workspace.resize(direction, amount) expects both arguments")
	}
	dir, err := parseDirection(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("orchestrator: workspace.resize amount: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	grid.Tree.TradeSizeWithNeighbor(dir, uint32(amount))
	a.reconcileLocked(a.displays.Active())
	return nil
}

// resetAxis implements workspace.resetRow/workspace.resetCol: redistribute
// sizes equally among the children of the nearest matching ancestor of the
// focused Tile.
func (a *AppState) resetAxis(fn func(*layout.Tree)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	fn(grid.Tree)
	a.reconcileLocked(a.displays.Active())
	return nil
}

// setSplitDirection implements workspace.setSplitDirection(direction):
// the next Push uses direction, and the axis direction.Axis() implies, so
// a script can steer an upcoming split before issuing it (spec.md §8
// scenario 2's `axh, dird` pair folds into one call here, since every
// Direction already determines its own axis).
func (a *AppState) setSplitDirection(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("orchestrator: workspace.setSplitDirection(direction) expects a direction")
	}
	dir, err := parseDirection(args[0])
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	grid.Tree.SetNextAxis(dir.Axis())
	grid.Tree.SetNextDirection(dir)
	return nil
}

// focusedTitle implements window.getTitle: the focused Tile's tracked
// title, kept current by handleWindowEvent's WindowTitleChanged case.
func (a *AppState) focusedTitle() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return "", fmt.Errorf("orchestrator: no active display")
	}
	w, ok := grid.Tree.Window(grid.Tree.Focused())
	if !ok {
		return "", fmt.Errorf("orchestrator: no focused window")
	}
	return w.Title, nil
}

// moveToWorkspace implements window.moveToWorkspace(index): detaches the
// focused window from the active grid and pushes it onto the target
// grid's tree. The target grid is reconciled lazily, the next time it
// becomes active (SwitchWorkspace always reconciles), so a move onto a
// workspace nobody is looking at doesn't need its own geometry pass.
func (a *AppState) moveToWorkspace(args []string) error {
	idx, err := intArg(args, 0)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.displays.Active()
	set, ok := a.workspaces[id]
	if !ok {
		return fmt.Errorf("orchestrator: no active display")
	}
	grid := set.Active()
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	w, ok := grid.Tree.Window(grid.Tree.Focused())
	if !ok {
		return fmt.Errorf("orchestrator: no focused window")
	}
	target, err := set.Grid(idx)
	if err != nil {
		return err
	}
	grid.Tree.RemoveByWindow(w.ID)
	target.Tree.Push(&layout.ManagedWindow{ID: w.ID, Title: w.Title})
	a.reconcileLocked(id)
	return nil
}

func (a *AppState) closeFocused() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	if w, ok := grid.Tree.Window(grid.Tree.Focused()); ok {
		grid.Tree.RemoveByWindow(w.ID)
	}
	a.reconcileLocked(a.displays.Active())
	return nil
}

func (a *AppState) toggleFullscreen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	grid := a.activeGridLocked(a.displays.Active())
	if grid == nil {
		return fmt.Errorf("orchestrator: no active display")
	}
	grid.Tree.ToggleFullscreen()
	a.reconcileLocked(a.displays.Active())
	return nil
}

func (a *AppState) setPinned(args []string, pin bool) error {
	id, err := windowIDArg(args, 0)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	slots, ok := a.pinned[a.displays.Active()]
	if !ok || len(slots) == 0 {
		return fmt.Errorf("orchestrator: no active display")
	}
	global := slots[0]
	if pin {
		global.Pin(id)
	} else {
		global.Unpin(id)
	}
	return nil
}

func (a *AppState) isPinned(args []string) (bool, error) {
	id, err := windowIDArg(args, 0)
	if err != nil {
		return false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	slots, ok := a.pinned[a.displays.Active()]
	if !ok || len(slots) == 0 {
		return false, fmt.Errorf("orchestrator: no active display")
	}
	return slots[0].IsPinned(id), nil
}

func windowIDArg(args []string, i int) (layout.WindowID, error) {
	n, err := intArg(args, i)
	if err != nil {
		return 0, err
	}
	return layout.WindowID(n), nil
}

func (a *AppState) showPopup(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("orchestrator: popup.show(text, [durationMillis]) expects at least text")
	}
	duration := time.Duration(0)
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("orchestrator: popup.show duration: %w", err)
		}
		duration = time.Duration(n) * time.Millisecond
	}
	a.mu.Lock()
	d, ok := a.displays.Get(a.displays.Active())
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("orchestrator: no active display")
	}
	a.popups.Show(*d, args[0], duration)
	return nil
}
