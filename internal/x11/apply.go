package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tilewm/internal/layout"
)

// ApplyGeometry moves and resizes every window in placement to its computed
// rectangle as given; a window's own EWMH frame extents are not subtracted.
// Errors from individual windows are swallowed the same way the
// teacher's MoveResizeWindow swallows unmaximize failures: one
// uncooperative client should never abort placing the rest of the tree.
func (c *Connection) ApplyGeometry(placement map[layout.NodeID]layout.Rect, windowFor func(layout.NodeID) (layout.WindowID, bool)) {
	for node, rect := range placement {
		win, ok := windowFor(node)
		if !ok {
			continue
		}
		c.MoveResizeWindow(xproto.Window(win), rect.X, rect.Y, rect.Width, rect.Height)
	}
}

// FocusLayoutWindow wraps FocusWindow in the layout package's ID type so
// callers outside this package never need to import xproto directly.
func (c *Connection) FocusLayoutWindow(win layout.WindowID) error {
	return c.FocusWindow(uint32(win))
}
