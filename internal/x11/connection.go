package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// ErrAnotherWM is returned by Setup when another client already holds
// SubstructureRedirect on the root window.
var ErrAnotherWM = errors.New("another window manager is already running")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	checkWin xproto.Window
	lockMask uint16
}

// NewConnection establishes a connection to the X11 server named by display
// (empty means $DISPLAY) and initializes the key and pointer binding state.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)
	// Xinerama is initialized automatically by xgbutil when available.

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.configureIgnoreMods()
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.checkWin != 0 {
		xproto.DestroyWindow(c.XUtil.Conn(), c.checkWin)
	}
	c.XUtil.Conn().Close()
}
