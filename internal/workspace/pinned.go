package workspace

import "github.com/1broseidon/tilewm/internal/layout"

// PinnedSet is a floating, always-on-top set of windows that follows the
// user across workspace switches, independent of any TileGrid. Recovered
// from original_source/twm/src/pinned.rs (spec.md §6 mentions a
// "pinned-window set" in the persistence format but never defines pinning
// itself).
type PinnedSet struct {
	ids     []layout.WindowID
	visible bool
}

// NewPinnedSet returns an empty, visible pinned set.
func NewPinnedSet() *PinnedSet {
	return &PinnedSet{visible: true}
}

// Pin adds a window to the set. A no-op if already pinned.
func (p *PinnedSet) Pin(id layout.WindowID) {
	for _, existing := range p.ids {
		if existing == id {
			return
		}
	}
	p.ids = append(p.ids, id)
}

// Unpin removes a window from the set. A no-op if not pinned.
func (p *PinnedSet) Unpin(id layout.WindowID) {
	for i, existing := range p.ids {
		if existing == id {
			p.ids = append(p.ids[:i], p.ids[i+1:]...)
			return
		}
	}
}

// IsPinned reports whether id is currently pinned.
func (p *PinnedSet) IsPinned(id layout.WindowID) bool {
	for _, existing := range p.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// SetVisible toggles whether pinned windows are shown or hidden as a group.
func (p *PinnedSet) SetVisible(visible bool) { p.visible = visible }

// Visible reports the set's current visibility.
func (p *PinnedSet) Visible() bool { return p.visible }

// IDs returns the pinned window ids, in pin order.
func (p *PinnedSet) IDs() []layout.WindowID {
	out := make([]layout.WindowID, len(p.ids))
	copy(out, p.ids)
	return out
}
