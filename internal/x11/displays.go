package x11

import (
	"github.com/1broseidon/tilewm/internal/display"
	"github.com/1broseidon/tilewm/internal/layout"
)

// EnumerateDisplays queries RandR for the active monitors and returns them
// as a ready-to-use display.Set, with struts left zero. GetMonitors returns
// each CRTC's full geometry (applyDockStruts runs only in
// GetActiveMonitor), so EWMH dock reservations are not subtracted here and
// WorkArea reserves only barSize for this module's own bar.
func (c *Connection) EnumerateDisplays(barSize int) (*display.Set, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}

	set := display.NewSet()
	for _, mon := range monitors {
		set.Put(&display.Display{
			ID:   display.ID(mon.ID),
			Name: mon.Name,
			Bounds: layout.Rect{
				X: mon.X, Y: mon.Y,
				Width: mon.Width, Height: mon.Height,
			},
			BarSize: barSize,
		})
	}
	return set, nil
}
