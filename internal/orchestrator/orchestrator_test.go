package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/events"
	"github.com/1broseidon/tilewm/internal/layout"
)

type fakeApplier struct {
	applyCount int
	lastPlacement map[layout.NodeID]layout.Rect
}

func (f *fakeApplier) ApplyGeometry(placement map[layout.NodeID]layout.Rect, windowFor func(layout.NodeID) (layout.WindowID, bool)) {
	f.applyCount++
	f.lastPlacement = placement
}

func (f *fakeApplier) FocusLayoutWindow(win layout.WindowID) error { return nil }

type fakePopups struct {
	shown  []string
	closed int
}

func (f *fakePopups) Show(d display.Display, text string, duration time.Duration) string {
	f.shown = append(f.shown, text)
	return "popup-1"
}

func (f *fakePopups) Close() { f.closed++ }

func newTestState() (*AppState, *fakeApplier, *fakePopups) {
	bus := events.NewBus()
	applier := &fakeApplier{}
	popups := &fakePopups{}
	state := New(bus, applier, popups, Options{OuterGap: 4, InnerGap: 2}, nil)
	d := &display.Display{ID: 1, Bounds: layout.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	if err := state.AddDisplay(d, nil); err != nil {
		panic(err)
	}
	return state, applier, popups
}

func TestWindowCreatedAddsToActiveGridAndReconciles(t *testing.T) {
	state, applier, _ := newTestState()

	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 42})

	grid := state.activeGridLocked(state.displays.Active())
	if grid.IsEmpty() {
		t.Fatal("expected the new window to land in the active grid")
	}
	if applier.applyCount == 0 {
		t.Fatal("expected ApplyGeometry to be called on window creation")
	}
}

func TestSwitchWorkspaceChangesActiveIndex(t *testing.T) {
	state, _, _ := newTestState()

	if _, err := state.SwitchWorkspace(1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set := state.workspaces[1]
	if set.ActiveIndex() != 3 {
		t.Fatalf("got active index %d, want 3", set.ActiveIndex())
	}
}

func TestExecuteCommandWindowCloseRemovesFocusedWindow(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 7})

	if _, err := state.ExecuteCommand("window.close", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid := state.activeGridLocked(state.displays.Active())
	if !grid.IsEmpty() {
		t.Fatal("expected the focused window to have been removed")
	}
}

func TestExecuteCommandPinAndIsPinned(t *testing.T) {
	state, _, _ := newTestState()

	if _, err := state.ExecuteCommand("workspace.pin", []string{"5"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pinned, err := state.isPinned([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pinned {
		t.Fatal("expected window 5 to be pinned")
	}
}

func TestExecuteCommandPopupShowCallsSurface(t *testing.T) {
	state, _, popups := newTestState()

	if _, err := state.ExecuteCommand("popup.show", []string{"hello", "100"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(popups.shown) != 1 || popups.shown[0] != "hello" {
		t.Fatalf("got %+v", popups.shown)
	}
}

func TestExecuteCommandUnknownNameErrors(t *testing.T) {
	state, _, _ := newTestState()
	if _, err := state.ExecuteCommand("nonsense.command", nil); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestExecuteCommandResizeTradesSizeWithNeighbor(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 1})
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 2})

	if _, err := state.ExecuteCommand("workspace.setSplitDirection", []string{"right"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := state.ExecuteCommand("workspace.resize", []string{"left", "5"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	grid := state.activeGridLocked(state.displays.Active())
	children := grid.Children(grid.Root())
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if left, right := grid.Size(children[0]), grid.Size(children[1]); left != 55 || right != 65 {
		t.Fatalf("got sizes %d/%d, want 55/65 (window 2 takes 5 from window 1)", left, right)
	}
}

func TestExecuteCommandResetRowAndResetCol(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 1})
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 2})

	if _, err := state.ExecuteCommand("workspace.resetRow", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := state.ExecuteCommand("workspace.resetCol", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecuteCommandSetSplitDirectionRejectsUnknownDirection(t *testing.T) {
	state, _, _ := newTestState()
	if _, err := state.ExecuteCommand("workspace.setSplitDirection", []string{"sideways"}); err == nil {
		t.Fatal("expected an error for an unknown direction")
	}
}

func TestExecuteCommandGetTitleReturnsFocusedWindowTitle(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 9, Title: "xterm"})
	state.dispatch(events.WindowEvent{Kind: events.WindowTitleChanged, Window: 9, Title: "xterm - edited"})

	got, err := state.ExecuteCommand("window.getTitle", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xterm - edited" {
		t.Fatalf("got %q, want %q", got, "xterm - edited")
	}
}

func TestExecuteCommandMoveToWorkspaceRelocatesFocusedWindow(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 3})

	if _, err := state.ExecuteCommand("window.moveToWorkspace", []string{"2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := state.activeGridLocked(state.displays.Active())
	if !active.IsEmpty() {
		t.Fatal("expected the source workspace to be empty after the move")
	}

	id := state.displays.Active()
	set := state.workspaces[id]
	target, err := set.Grid(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.IsEmpty() {
		t.Fatal("expected the target workspace to hold the moved window")
	}
}

func TestToggleWorkModeFlipsState(t *testing.T) {
	state, _, _ := newTestState()
	if !state.WorkMode() {
		t.Fatal("expected work mode to default to true")
	}
	if got := state.ToggleWorkMode(); got {
		t.Fatal("expected ToggleWorkMode to return false after flipping from true")
	}
	if state.WorkMode() {
		t.Fatal("expected WorkMode to report false after toggling off")
	}
}

func TestHandleKeyActionDroppedWhileWorkModeOff(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 11})
	state.ToggleWorkMode()

	state.handleKeyAction(events.KeyAction{Action: "window.close"})

	grid := state.activeGridLocked(state.displays.Active())
	if grid.IsEmpty() {
		t.Fatal("expected window.close to be dropped while work mode is off")
	}
}

func TestHandleKeyActionAlwaysActiveBypassesWorkModeOff(t *testing.T) {
	state, _, _ := newTestState()
	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 12})
	state.ToggleWorkMode()

	state.handleKeyAction(events.KeyAction{Action: "window.close", AlwaysActive: true})

	grid := state.activeGridLocked(state.displays.Active())
	if !grid.IsEmpty() {
		t.Fatal("expected an always-active action to still fire while work mode is off")
	}
}

func TestHandleKeyActionToggleItselfBypassesWorkModeOff(t *testing.T) {
	state, _, _ := newTestState()
	state.ToggleWorkMode()

	state.handleKeyAction(events.KeyAction{Action: "workMode.toggle"})

	if !state.WorkMode() {
		t.Fatal("expected workMode.toggle to still fire while work mode is off, turning it back on")
	}
}

func TestHandleWindowEventDroppedWhileWorkModeOff(t *testing.T) {
	state, _, _ := newTestState()
	state.ToggleWorkMode()

	state.dispatch(events.WindowEvent{Kind: events.WindowCreated, Window: 13})

	grid := state.activeGridLocked(state.displays.Active())
	if !grid.IsEmpty() {
		t.Fatal("expected window creation to be ignored while work mode is off")
	}
}

func TestScriptCommandRepliesOnChannel(t *testing.T) {
	state, _, _ := newTestState()
	bus := events.NewBus()
	state.bus = bus

	reply := make(chan events.ScriptResult, 1)
	go func() {
		state.handleScriptCommand(events.ScriptCommand{Name: "workspace.switchTo", Args: []string{"2"}, Reply: reply})
	}()

	select {
	case r := <-reply:
		if r.Err != nil {
			t.Fatalf("unexpected error: %v", r.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestShutdownEventStopsRunLoop(t *testing.T) {
	state, _, _ := newTestState()
	done := make(chan error, 1)
	go func() { done <- state.Run(context.Background()) }()

	state.bus.Publish(events.Shutdown{})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to exit")
	}
}
