package wm

import "github.com/1broseidon/lapin/internal/platform"

// handle dispatches one display-server event.
func (m *Manager) handle(ev platform.Event) {
	switch e := ev.(type) {
	case platform.MapRequest:
		m.logger.Debug("map request", "window", e.Window)
		m.manage(e.Window)
	case platform.DestroyNotify:
		m.logger.Debug("destroy notify", "window", e.Window)
		m.unmanage(e.Window, true)
	case platform.EnterNotify:
		m.enter(e.Window)
	case platform.KeyPress:
		action, ok := m.keys.Lookup(e.State, e.Keycode)
		if !ok {
			return
		}
		if err := m.exec(action); err != nil {
			m.logger.Warn("keybind action failed", "action", action.String(), "error", err)
		}
	case platform.ButtonPress:
		m.startDrag(e)
	case platform.ButtonRelease:
		m.drag = nil
	case platform.MotionNotify:
		m.motion(e)
	case platform.ConfigureRequest:
		m.configureRequest(e)
	case platform.FullscreenRequest:
		m.logger.Debug("fullscreen request", "window", e.Window, "action", e.Action)
		m.fullscreenRequest(e)
	case platform.KeyboardMapping:
		m.logger.Debug("keyboard mapping changed")
		m.grabKeys()
	}
}

// drag is the pointer move or resize in progress.
type drag struct {
	window platform.WindowID
	button byte
	// offsetX and offsetY are the pointer position inside the window.
	offsetX int
	offsetY int
	origin  platform.Rect
}

// startDrag begins moving (button 1) or resizing (button 3) a floating
// window, or any window when the layout allows pointer motions.
func (m *Manager) startDrag(e platform.ButtonPress) {
	m.drag = nil
	if e.Child == 0 || e.Child == m.backend.Root() {
		return
	}
	loc, ok := m.locate(e.Child)
	if !ok {
		return
	}
	if _, fs := m.fullscreen[e.Child]; fs {
		return
	}
	ws := m.workspaceAt(loc)
	if !loc.floating && !m.layouts[ws.Layout].AllowMotions() {
		return
	}
	g, err := m.backend.Geometry(e.Child)
	if err != nil {
		m.logger.Debug("drag skipped", "window", e.Child, "error", err)
		return
	}
	m.drag = &drag{
		window:  e.Child,
		button:  e.Button,
		offsetX: e.RootX - g.X,
		offsetY: e.RootY - g.Y,
		origin:  g,
	}
	m.backend.Raise(e.Child)
}

func (m *Manager) motion(e platform.MotionNotify) {
	d := m.drag
	if d == nil {
		return
	}
	switch {
	case d.button == 1 && e.State&platform.Button1Mask != 0:
		m.backend.Move(d.window, e.RootX-d.offsetX, e.RootY-d.offsetY)
	case d.button == 3 && e.State&platform.Button3Mask != 0:
		m.backend.Resize(d.window, max(e.RootX-d.origin.X, 1), max(e.RootY-d.origin.Y, 1))
	}
}

// configureRequest grants geometry requests from windows the layout does
// not control.
func (m *Manager) configureRequest(e platform.ConfigureRequest) {
	if loc, ok := m.locate(e.Window); ok {
		if _, fs := m.fullscreen[e.Window]; fs {
			return
		}
		if !loc.floating && !m.layouts[m.workspaceAt(loc).Layout].AllowMotions() {
			m.logger.Debug("configure request from tiled window ignored", "window", e.Window)
			return
		}
	}
	m.backend.Configure(e)
}
