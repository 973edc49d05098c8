//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/lapin/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a connection to display (empty means $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) Root() WindowID {
	return WindowID(b.conn.Root)
}

// Monitors returns one rectangle per physical screen.
func (b *LinuxBackend) Monitors() ([]Rect, error) {
	monitors, err := b.conn.Monitors()
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, 0, len(monitors))
	for _, m := range monitors {
		rects = append(rects, Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return rects, nil
}

func (b *LinuxBackend) Setup(opts SetupOptions) error {
	return b.conn.Setup(opts.Name, opts.WorkspaceNames)
}

func (b *LinuxBackend) GrabKey(spec string) ([]KeyChord, error) {
	chords, err := b.conn.GrabKey(spec)
	out := make([]KeyChord, 0, len(chords))
	for _, c := range chords {
		out = append(out, KeyChord{Mods: c.Mods, Keycode: byte(c.Keycode)})
	}
	return out, err
}

func (b *LinuxBackend) UngrabKeys()                     { b.conn.UngrabKeys() }
func (b *LinuxBackend) GrabMouse(modifier string) error { return b.conn.GrabMouse(modifier) }
func (b *LinuxBackend) UngrabMouse()                    { b.conn.UngrabMouse() }
func (b *LinuxBackend) LockMask() uint16                { return b.conn.LockMask() }

func (b *LinuxBackend) OverrideRedirect(w WindowID) (bool, error) {
	return b.conn.OverrideRedirect(xproto.Window(w))
}

func (b *LinuxBackend) WindowClass(w WindowID) (string, string, error) {
	return b.conn.WindowClass(xproto.Window(w))
}

func (b *LinuxBackend) Geometry(w WindowID) (Rect, error) {
	g, err := b.conn.Geometry(xproto.Window(w))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}, nil
}

func (b *LinuxBackend) FullscreenState(w WindowID) (bool, error) {
	return b.conn.FullscreenState(xproto.Window(w))
}

func (b *LinuxBackend) Watch(w WindowID) { b.conn.Watch(xproto.Window(w)) }

func (b *LinuxBackend) SetBorderWidth(w WindowID, width int) {
	b.conn.SetBorderWidth(xproto.Window(w), width)
}

func (b *LinuxBackend) SetBorderColor(w WindowID, color uint32) {
	b.conn.SetBorderColor(xproto.Window(w), color)
}

func (b *LinuxBackend) MoveResize(w WindowID, r Rect) {
	b.conn.MoveResize(xproto.Window(w), r.X, r.Y, r.Width, r.Height)
}

func (b *LinuxBackend) Move(w WindowID, x, y int) { b.conn.Move(xproto.Window(w), x, y) }

func (b *LinuxBackend) Resize(w WindowID, width, height int) {
	b.conn.Resize(xproto.Window(w), width, height)
}

func (b *LinuxBackend) Map(w WindowID)   { b.conn.Map(xproto.Window(w)) }
func (b *LinuxBackend) Unmap(w WindowID) { b.conn.Unmap(xproto.Window(w)) }
func (b *LinuxBackend) Raise(w WindowID) { b.conn.Raise(xproto.Window(w)) }
func (b *LinuxBackend) Focus(w WindowID) { b.conn.Focus(xproto.Window(w)) }
func (b *LinuxBackend) Close(w WindowID) { b.conn.CloseWindow(xproto.Window(w)) }

func (b *LinuxBackend) Configure(req ConfigureRequest) {
	b.conn.Configure(xproto.Window(req.Window), req.Mask, req.X, req.Y, req.Width, req.Height, req.BorderWidth)
}

func (b *LinuxBackend) SetFullscreenState(w WindowID, on bool) {
	b.conn.SetFullscreenState(xproto.Window(w), on)
}

func (b *LinuxBackend) SetClientList(windows []WindowID) {
	wins := make([]xproto.Window, len(windows))
	for i, w := range windows {
		wins[i] = xproto.Window(w)
	}
	b.conn.SetClientList(wins)
}

func (b *LinuxBackend) SetCurrentDesktop(index int) { b.conn.SetCurrentDesktop(index) }

func (b *LinuxBackend) SetWindowDesktop(w WindowID, index int) {
	b.conn.SetWindowDesktop(xproto.Window(w), index)
}

// ReceiveEvents pumps X events into out until ctx is cancelled or the
// connection drops. Unhandled event types are discarded here so the window
// manager only sees what it acts on.
func (b *LinuxBackend) ReceiveEvents(ctx context.Context, logger *slog.Logger, out chan<- Event) error {
	stateAtom, fullscreenAtom, err := b.conn.StateAtoms()
	if err != nil {
		return fmt.Errorf("failed to resolve _NET_WM_STATE atoms: %w", err)
	}

	for {
		xev, xerr, err := b.conn.WaitForEvent()
		if err != nil {
			return err
		}
		if xerr != nil {
			logger.Debug("x11 request failed", "error", xerr)
			continue
		}

		var ev Event
		switch e := xev.(type) {
		case xproto.MapRequestEvent:
			ev = MapRequest{Window: WindowID(e.Window)}
		case xproto.DestroyNotifyEvent:
			ev = DestroyNotify{Window: WindowID(e.Window)}
		case xproto.EnterNotifyEvent:
			ev = EnterNotify{Window: WindowID(e.Event)}
		case xproto.KeyPressEvent:
			ev = KeyPress{State: e.State, Keycode: byte(e.Detail)}
		case xproto.ButtonPressEvent:
			ev = ButtonPress{
				Child:  WindowID(e.Child),
				Button: byte(e.Detail),
				RootX:  int(e.RootX),
				RootY:  int(e.RootY),
			}
		case xproto.ButtonReleaseEvent:
			ev = ButtonRelease{}
		case xproto.MotionNotifyEvent:
			ev = MotionNotify{State: e.State, RootX: int(e.RootX), RootY: int(e.RootY)}
		case xproto.ConfigureRequestEvent:
			ev = ConfigureRequest{
				Window:      WindowID(e.Window),
				Mask:        e.ValueMask,
				X:           int(e.X),
				Y:           int(e.Y),
				Width:       int(e.Width),
				Height:      int(e.Height),
				BorderWidth: int(e.BorderWidth),
			}
		case xproto.ClientMessageEvent:
			ev = fullscreenRequest(e, stateAtom, fullscreenAtom)
		case xproto.MappingNotifyEvent:
			if e.Request == xproto.MappingPointer {
				continue
			}
			b.conn.RefreshKeyboard()
			ev = KeyboardMapping{}
		}
		if ev == nil {
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func fullscreenRequest(e xproto.ClientMessageEvent, stateAtom, fullscreenAtom xproto.Atom) Event {
	if e.Type != stateAtom || e.Format != 32 {
		return nil
	}
	data := e.Data.Data32
	if len(data) < 3 {
		return nil
	}
	if xproto.Atom(data[1]) != fullscreenAtom && xproto.Atom(data[2]) != fullscreenAtom {
		return nil
	}
	return FullscreenRequest{Window: WindowID(e.Window), Action: StateAction(data[0])}
}
