package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Supported lists the EWMH atoms advertised in _NET_SUPPORTED.
var Supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_DESKTOP_VIEWPORT",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
}

const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// Setup claims the root window and publishes the EWMH root properties.
// It fails with ErrAnotherWM when the redirect selection is refused.
func (c *Connection) Setup(name string, desktops []string) error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(), c.Root, xproto.CwEventMask, []uint32{rootEventMask},
	).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrAnotherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}

	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("allocate check window: %w", err)
	}
	if err := check.CreateChecked(c.Root, -1, -1, 1, 1, 0); err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	c.checkWin = check.Id

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return fmt.Errorf("set _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return fmt.Errorf("set _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := ewmh.ClientListSet(c.XUtil, nil); err != nil {
		return fmt.Errorf("set _NET_CLIENT_LIST: %w", err)
	}
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(desktops))); err != nil {
		return fmt.Errorf("set _NET_NUMBER_OF_DESKTOPS: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, desktops); err != nil {
		return fmt.Errorf("set _NET_DESKTOP_NAMES: %w", err)
	}
	viewports := make([]ewmh.DesktopViewport, len(desktops))
	if err := ewmh.DesktopViewportSet(c.XUtil, viewports); err != nil {
		return fmt.Errorf("set _NET_DESKTOP_VIEWPORT: %w", err)
	}
	if err := ewmh.SupportedSet(c.XUtil, Supported); err != nil {
		return fmt.Errorf("set _NET_SUPPORTED: %w", err)
	}

	c.Focus(c.Root)
	return nil
}

// SetClientList replaces _NET_CLIENT_LIST on the root window.
func (c *Connection) SetClientList(wins []xproto.Window) {
	_ = ewmh.ClientListSet(c.XUtil, wins)
}

func (c *Connection) SetCurrentDesktop(index int) {
	_ = ewmh.CurrentDesktopSet(c.XUtil, uint(index))
}

func (c *Connection) SetWindowDesktop(win xproto.Window, index int) {
	_ = ewmh.WmDesktopSet(c.XUtil, win, uint(index))
}
