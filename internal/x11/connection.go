package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes
// the extensions the rest of this package depends on.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Required for global hotkey grabs (internal/keybind).
	keybind.Initialize(xu)
	// EWMH and RandR extensions are initialized lazily by xgbutil/randr.

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// RunEventLoop blocks pumping X events through xgbutil's dispatcher, which
// in turn invokes every callback registered via keybind.KeyPressFun and the
// xevent.*Fun listeners set up by ListenEvents. It returns once Close stops
// the underlying connection.
func (c *Connection) RunEventLoop() {
	xevent.Main(c.XUtil)
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
