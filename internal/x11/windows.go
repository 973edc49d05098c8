package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskStructureNotify

const fullscreenState = "_NET_WM_STATE_FULLSCREEN"

// Geometry is a window rectangle as reported by the server.
type Geometry struct {
	X, Y, Width, Height int
}

// OverrideRedirect reports whether the window asked to bypass the window manager.
func (c *Connection) OverrideRedirect(win xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return false, fmt.Errorf("get attributes of 0x%x: %w", win, err)
	}
	return attrs.OverrideRedirect, nil
}

// WindowClass returns the two WM_CLASS strings of a window.
func (c *Connection) WindowClass(win xproto.Window) (instance, class string, err error) {
	wc, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", "", err
	}
	return wc.Instance, wc.Class, nil
}

// Geometry queries the current geometry of a window.
func (c *Connection) Geometry(win xproto.Window) (Geometry, error) {
	geom, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(win))
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{X: geom.X(), Y: geom.Y(), Width: geom.Width(), Height: geom.Height()}, nil
}

// FullscreenState reports whether _NET_WM_STATE holds the fullscreen atom.
func (c *Connection) FullscreenState(win xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return false, err
	}
	for _, state := range states {
		if state == fullscreenState {
			return true, nil
		}
	}
	return false, nil
}

// Watch subscribes to the per-client events the window manager reacts to.
func (c *Connection) Watch(win xproto.Window) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{clientEventMask})
}

func (c *Connection) SetBorderWidth(win xproto.Window, width int) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

func (c *Connection) SetBorderColor(win xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
}

// MoveResize configures position and size directly; as the window manager
// we do not route through _NET_MOVERESIZE_WINDOW.
func (c *Connection) MoveResize(win xproto.Window, x, y, width, height int) {
	xwindow.New(c.XUtil, win).MoveResize(x, y, width, height)
}

func (c *Connection) Move(win xproto.Window, x, y int) {
	xwindow.New(c.XUtil, win).Move(x, y)
}

func (c *Connection) Resize(win xproto.Window, width, height int) {
	xwindow.New(c.XUtil, win).Resize(width, height)
}

func (c *Connection) Map(win xproto.Window) {
	xproto.MapWindow(c.XUtil.Conn(), win)
}

func (c *Connection) Unmap(win xproto.Window) {
	xproto.UnmapWindow(c.XUtil.Conn(), win)
}

// Raise stacks the window above its siblings.
func (c *Connection) Raise(win xproto.Window) {
	xwindow.New(c.XUtil, win).Stack(xproto.StackModeAbove)
}

// Focus gives input focus to win, reverting to the pointer root.
func (c *Connection) Focus(win xproto.Window) {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

// CloseWindow asks the client to close via WM_DELETE_WINDOW when it advertises the
// protocol and kills the client connection otherwise.
func (c *Connection) CloseWindow(win xproto.Window) {
	if c.supportsDelete(win) {
		if err := c.sendDelete(win); err == nil {
			return
		}
	}
	xproto.KillClient(c.XUtil.Conn(), uint32(win))
}

func (c *Connection) supportsDelete(win xproto.Window) bool {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

func (c *Connection) sendDelete(win xproto.Window) error {
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocolsAtom, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// SetFullscreenState adds or removes the fullscreen atom in the window's
// _NET_WM_STATE. Other states the client set are kept.
func (c *Connection) SetFullscreenState(win xproto.Window, on bool) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		states = nil
	}
	_ = ewmh.WmStateSet(c.XUtil, win, withFullscreen(states, on))
}

func withFullscreen(states []string, on bool) []string {
	out := make([]string, 0, len(states)+1)
	for _, s := range states {
		if s != fullscreenState {
			out = append(out, s)
		}
	}
	if on {
		out = append(out, fullscreenState)
	}
	return out
}

// Configure grants a ConfigureRequest for the geometry fields named by mask.
// Sibling and stacking fields are dropped.
func (c *Connection) Configure(win xproto.Window, mask uint16, x, y, width, height, border int) {
	var values []uint32
	var granted uint16
	add := func(bit uint16, v uint32) {
		if mask&bit != 0 {
			granted |= bit
			values = append(values, v)
		}
	}
	add(xproto.ConfigWindowX, uint32(int32(x)))
	add(xproto.ConfigWindowY, uint32(int32(y)))
	add(xproto.ConfigWindowWidth, uint32(width))
	add(xproto.ConfigWindowHeight, uint32(height))
	add(xproto.ConfigWindowBorderWidth, uint32(border))
	if granted == 0 {
		return
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), win, granted, values)
}
