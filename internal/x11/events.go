package x11

import (
	"errors"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// ErrClosed is returned by WaitForEvent once the connection is gone.
var ErrClosed = errors.New("x11 connection closed")

// WaitForEvent blocks for the next event. Protocol errors for requests that
// were not checked are returned as xerr with a nil event.
func (c *Connection) WaitForEvent() (ev xgb.Event, xerr xgb.Error, err error) {
	ev, xerr = c.XUtil.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, nil, ErrClosed
	}
	return ev, xerr, nil
}

// StateAtoms resolves the atoms used to recognise fullscreen client messages.
func (c *Connection) StateAtoms() (state, fullscreen xproto.Atom, err error) {
	state, err = xprop.Atm(c.XUtil, "_NET_WM_STATE")
	if err != nil {
		return 0, 0, err
	}
	fullscreen, err = xprop.Atm(c.XUtil, fullscreenState)
	if err != nil {
		return 0, 0, err
	}
	return state, fullscreen, nil
}
