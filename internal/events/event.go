// Package events defines the single Event type the orchestrator consumes
// from every producer goroutine (spec.md §4.4): the OS-window listener, the
// keybinding manager, the hot-reload watcher, the bar, and the popup
// surface all emit values through the one channel.
package events

import (
	"time"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/layout"
)

// Event is implemented by every event variant. The unexported marker method
// keeps the set closed to this package, the idiomatic Go substitute for a
// sum type.
type Event interface {
	isEvent()
}

// WindowKind distinguishes what happened to a window.
type WindowKind int

const (
	WindowCreated WindowKind = iota
	WindowDestroyed
	WindowFocusChanged
	WindowTitleChanged
)

// WindowEvent reports a change observed on the X server (spec.md §4.3).
type WindowEvent struct {
	Kind   WindowKind
	Window layout.WindowID
	Title  string // only meaningful for WindowTitleChanged
}

func (WindowEvent) isEvent() {}

// KeyAction is a keybinding firing (spec.md §4.2). Action is the opaque
// command name bound to the key; the keybinding manager resolves the raw
// keysym/modifiers to this before publishing, so the orchestrator never
// sees X11 key codes. AlwaysActive mirrors the Keybinding.always_active
// flag spec.md §3 carries: when true, the orchestrator still delivers
// this action while work mode is off.
type KeyAction struct {
	Action       string
	Args         []string
	AlwaysActive bool
}

func (KeyAction) isEvent() {}

// WorkspaceSwitchRequested asks the orchestrator to change the active
// workspace on a display.
type WorkspaceSwitchRequested struct {
	Display display.ID
	Index   int
}

func (WorkspaceSwitchRequested) isEvent() {}

// DisplaysChanged reports that RandR reported a monitor plug/unplug or
// geometry change; the orchestrator should re-enumerate displays.
type DisplaysChanged struct{}

func (DisplaysChanged) isEvent() {}

// ConfigReloaded reports that the hot-reload watcher successfully re-parsed
// the config file, after a write or create event on it or a forced
// TriggerReload (spec.md §4.7).
type ConfigReloaded struct {
	Path string
}

func (ConfigReloaded) isEvent() {}

// ScriptCommand is a command dispatched from the interpreter (e.g. a
// config.* or workspace.* builtin call) that needs orchestrator-owned
// state to execute.
type ScriptCommand struct {
	Name string
	Args []string
	// Reply, if non-nil, receives the command's result or error. Left nil
	// for fire-and-forget commands.
	Reply chan<- ScriptResult
}

func (ScriptCommand) isEvent() {}

// ScriptResult is the reply to a ScriptCommand that asked for one.
type ScriptResult struct {
	Value interface{}
	Err   error
}

// BarClick reports a click on a rendered bar component.
type BarClick struct {
	Display   display.ID
	Component string
	Button    int
}

func (BarClick) isEvent() {}

// PopupDismissed reports that a popup's display duration elapsed or the
// user dismissed it early.
type PopupDismissed struct {
	ID string
}

func (PopupDismissed) isEvent() {}

// PopupShowRequested asks the orchestrator to display a new popup.
type PopupShowRequested struct {
	ID       string
	Text     string
	Duration time.Duration
}

func (PopupShowRequested) isEvent() {}

// Shutdown asks the orchestrator's Run loop to exit.
type Shutdown struct{}

func (Shutdown) isEvent() {}
