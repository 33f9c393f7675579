// Package popup manages the single modal notification surface tilewm shows
// on top of the tiled layout: a centered, auto-dismissing text box, ported
// from original_source/twm/src/popup.rs's Popup/create/close/is_visible
// (the tiling-WM-specific popup, preferred over the near-duplicate
// original_source/src/popup.rs since it's the one actually wired into the
// window manager rather than the generic GUI crate).
//
// The original exposes a richer model — a popup can carry a list of
// clickable actions, each with its own callback closure
// (original_source/twm/src/popup.rs's PopupAction{text, cb}). tilewm's event
// bus carries plain data, not closures (events.Event implementations hold no
// function values anywhere else in the package), so that feature is dropped
// in favor of the simpler shape already fixed by events.PopupShowRequested:
// one text string plus an auto-dismiss duration. A caller that wants a
// button still gets one — it just binds a keybinding action to dismiss or
// replace the popup, rather than a per-popup callback. This simplification
// is recorded in DESIGN.md.
package popup

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/events"
	"github.com/1broseidon/tilewm/internal/layout"
)

// DefaultPadding is the margin, in pixels, left between the popup box's edge
// and its text, matching popup.rs's Popup::new default padding.
const DefaultPadding = 20

// Popup is the currently-visible notification's resolved state.
type Popup struct {
	ID       string
	Text     string
	Duration time.Duration
	Geometry layout.Rect
}

// Manager enforces the original's "at most one popup visible at a time"
// invariant (popup.rs's `static POPUP: Mutex<Option<Popup>>`), publishing
// show/dismiss events onto the bus rather than rendering directly — some
// later-wired surface (the bar's overlay window) owns actually drawing
// the box.
type Manager struct {
	mu      sync.Mutex
	bus     *events.Bus
	padding int
	current *Popup
	timer   *time.Timer
}

// NewManager returns a Manager with the original's default padding.
func NewManager(bus *events.Bus) *Manager {
	return &Manager{bus: bus, padding: DefaultPadding}
}

// SetPadding overrides the margin used by future Show calls.
func (m *Manager) SetPadding(px int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.padding = px
}

// Show displays text centered on d's work area for duration, replacing any
// popup already visible — popup.rs's create() closes an existing popup
// before opening the new one. duration <= 0 means the popup stays up until
// explicitly dismissed. Returns the new popup's id.
func (m *Manager) Show(d display.Display, text string, duration time.Duration) string {
	id := uuid.New().String()
	geom := centeredGeometry(d.WorkArea(), text, m.paddingLocked())

	m.mu.Lock()
	m.stopTimerLocked()
	m.current = &Popup{ID: id, Text: text, Duration: duration, Geometry: geom}
	if duration > 0 {
		m.timer = time.AfterFunc(duration, func() { m.Dismiss(id) })
	}
	m.mu.Unlock()

	m.bus.Publish(events.PopupShowRequested{ID: id, Text: text, Duration: duration})
	return id
}

// Error is popup.rs's Popup::error convenience: it appends the dismiss-key
// hint text used by new_error before showing, and never auto-dismisses,
// matching the original treating errors as sticky until acknowledged.
func (m *Manager) Error(d display.Display, dismissKeyHint string, message string) string {
	text := message
	if dismissKeyHint != "" {
		text = message + " (press " + dismissKeyHint + " to close)"
	}
	return m.Show(d, text, 0)
}

// Dismiss closes the popup identified by id. A mismatched or already-closed
// id is a no-op, since a late timer fire racing a manual dismiss must not
// clobber a newer popup that has since replaced it.
func (m *Manager) Dismiss(id string) {
	m.mu.Lock()
	if m.current == nil || m.current.ID != id {
		m.mu.Unlock()
		return
	}
	m.current = nil
	m.stopTimerLocked()
	m.mu.Unlock()

	m.bus.Publish(events.PopupDismissed{ID: id})
}

// Close dismisses whatever popup is currently visible, if any, matching
// popup.rs's module-level close() which acts on the singleton without the
// caller needing to know its id.
func (m *Manager) Close() {
	m.mu.Lock()
	cur := m.current
	m.mu.Unlock()
	if cur != nil {
		m.Dismiss(cur.ID)
	}
}

// IsVisible reports whether a popup is currently showing, matching
// popup.rs's is_visible().
func (m *Manager) IsVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns the visible popup and true, or the zero value and false.
func (m *Manager) Current() (Popup, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Popup{}, false
	}
	return *m.current, true
}

func (m *Manager) paddingLocked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.padding
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// measureText approximates the box's content size from its text, one line
// at a time, treating a line as roughly 8px wide per rune and 18px tall —
// popup.rs delegates this to its GUI toolkit's text layout, which tilewm
// has no equivalent of; the approximation is only used to center the box,
// never to clip or wrap it, so exactness isn't load-bearing.
func measureText(text string) (width, height int) {
	lineWidth := 0
	lines := 1
	for _, r := range text {
		if r == '\n' {
			lines++
			lineWidth = 0
			continue
		}
		lineWidth++
		if lineWidth > width {
			width = lineWidth
		}
	}
	return width * 8, lines * 18
}

// centeredGeometry ports popup.rs's create(): the box is centered on the
// work area, shrunk further from the edges by padding on every side.
//
//	x = work.x + work.width/2 - (boxWidth/2) - padding
//	y = work.y + work.height/2 - (boxHeight/2) - padding
func centeredGeometry(work layout.Rect, text string, padding int) layout.Rect {
	textW, textH := measureText(text)
	boxW := textW + 2*padding
	boxH := textH + 2*padding
	x := work.X + work.Width/2 - boxW/2 - padding
	y := work.Y + work.Height/2 - boxH/2 - padding
	return layout.Rect{X: x, Y: y, Width: boxW, Height: boxH}
}
