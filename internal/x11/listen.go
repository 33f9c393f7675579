package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tilewm/internal/events"
	"github.com/1broseidon/tilewm/internal/layout"
)

// ListenEvents registers the root-window and active-window callbacks that
// translate raw X structure/property notifications into events.WindowEvent
// values on bus. Connect/listen calls follow the same
// xevent.<Kind>NotifyFun(...).Connect(xu, window) shape used for per-client
// structure and property tracking in the pack's cortile desktop tracker.
func (c *Connection) ListenEvents(bus *events.Bus) error {
	if err := xwindow.New(c.XUtil, c.Root).Listen(
		xproto.EventMaskSubstructureNotify,
		xproto.EventMaskPropertyChange,
	); err != nil {
		return err
	}

	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		if !c.IsNormalWindow(ev.Window) {
			return
		}
		bus.Publish(events.WindowEvent{
			Kind:   events.WindowCreated,
			Window: layout.WindowID(ev.Window),
		})
		c.listenToClient(bus, ev.Window)
	}).Connect(c.XUtil, c.Root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		bus.Publish(events.WindowEvent{
			Kind:   events.WindowDestroyed,
			Window: layout.WindowID(ev.Window),
		})
	}).Connect(c.XUtil, c.Root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		aname, aerr := atomName(xu, ev.Atom)
		if aerr != nil {
			return
		}
		if aname == "_NET_ACTIVE_WINDOW" {
			active, err := ewmh.ActiveWindowGet(xu)
			if err != nil || active == 0 {
				return
			}
			bus.Publish(events.WindowEvent{
				Kind:   events.WindowFocusChanged,
				Window: layout.WindowID(active),
			})
		}
	}).Connect(c.XUtil, c.Root)

	return nil
}

// listenToClient subscribes to a single client window's property changes so
// title updates reach the bus; each tracked client gets its own callback,
// mirroring the per-client attachHandlers pattern of tracking WMs in the
// pack.
func (c *Connection) listenToClient(bus *events.Bus, win xproto.Window) {
	if err := xwindow.New(c.XUtil, win).Listen(xproto.EventMaskPropertyChange); err != nil {
		return
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		aname, err := atomName(xu, ev.Atom)
		if err != nil {
			return
		}
		if aname != "_NET_WM_NAME" && aname != "WM_NAME" {
			return
		}
		title, err := ewmh.WmNameGet(xu, win)
		if err != nil {
			return
		}
		bus.Publish(events.WindowEvent{
			Kind:   events.WindowTitleChanged,
			Window: layout.WindowID(win),
			Title:  title,
		})
	}).Connect(c.XUtil, win)
}

func atomName(xu *xgbutil.XUtil, atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(xu.Conn(), atom).Reply()
	if err != nil {
		return "", err
	}
	return reply.Name, nil
}
