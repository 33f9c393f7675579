// Package display models the physical monitors tilewm arranges windows
// across: their geometry, and the work area left over once docks/panels
// and tilewm's own bar have reserved their strip.
package display

import "github.com/1broseidon/tilewm/internal/layout"

// ID identifies a physical display, the RandR CRTC index.
type ID int

// Struts is how much of a display's edges are reserved by docks/panels.
type Struts struct {
	Left, Right, Top, Bottom int
}

// Display is one physical monitor's geometry and the chrome tilewm reserves
// on it (its own bar, plus whatever dock struts X11 reports).
type Display struct {
	ID      ID
	Name    string
	Bounds  layout.Rect // full monitor geometry, in root-window coordinates
	Struts  Struts      // space reserved by docks/panels (from EWMH)
	BarSize int         // additional space reserved at the top for tilewm's own bar, 0 if hidden
}

// WorkArea is Bounds shrunk by Struts and the bar, the rectangle tiles are
// actually laid out in.
func (d Display) WorkArea() layout.Rect {
	r := layout.Rect{
		X:      d.Bounds.X + d.Struts.Left,
		Y:      d.Bounds.Y + d.Struts.Top + d.BarSize,
		Width:  d.Bounds.Width - d.Struts.Left - d.Struts.Right,
		Height: d.Bounds.Height - d.Struts.Top - d.BarSize - d.Struts.Bottom,
	}
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// Set is the collection of displays currently attached, keyed by ID, plus
// which one is "active" (has input focus or the pointer).
type Set struct {
	displays map[ID]*Display
	active   ID
}

// NewSet returns an empty display set.
func NewSet() *Set {
	return &Set{displays: make(map[ID]*Display), active: NoDisplay}
}

// Put inserts or replaces a display.
func (s *Set) Put(d *Display) {
	s.displays[d.ID] = d
	if len(s.displays) == 1 {
		s.active = d.ID
	}
}

// Remove drops a display, moving active focus to an arbitrary survivor if
// the removed display was active.
func (s *Set) Remove(id ID) {
	delete(s.displays, id)
	if s.active == id {
		s.active = NoDisplay
		for other := range s.displays {
			s.active = other
			break
		}
	}
}

// Get returns a display by id.
func (s *Set) Get(id ID) (*Display, bool) {
	d, ok := s.displays[id]
	return d, ok
}

// All returns every display, in no particular order.
func (s *Set) All() []*Display {
	out := make([]*Display, 0, len(s.displays))
	for _, d := range s.displays {
		out = append(out, d)
	}
	return out
}

// Active returns the currently active display's id, or NoDisplay if none.
func (s *Set) Active() ID { return s.active }

// SetActive moves the active display pointer, provided id is a known display.
func (s *Set) SetActive(id ID) bool {
	if _, ok := s.displays[id]; !ok {
		return false
	}
	s.active = id
	return true
}

// NoDisplay is the sentinel ID meaning "no display". It is not ID's zero
// value: display 0 is a valid ID.
const NoDisplay ID = -1
