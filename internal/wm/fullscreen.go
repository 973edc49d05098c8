package wm

import "github.com/1broseidon/lapin/internal/platform"

// Fullscreen is not a separate mode: a fullscreen window is a floating
// window covering its whole screen with no border. restoreState remembers
// what to go back to.
type restoreState struct {
	// floating is false when the window came from the managed sequence.
	floating bool
	geometry platform.Rect
	// hasGeometry is unset when the previous floating geometry is unknown.
	hasGeometry bool
}

func (m *Manager) toggleFullscreen() {
	w, loc, ok := m.focusedLocation()
	if !ok {
		return
	}
	if _, on := m.fullscreen[w]; on {
		m.exitFullscreen(w, loc)
	} else {
		m.enterFullscreen(w, loc)
	}
}

// fullscreenRequest honours a _NET_WM_STATE client message.
func (m *Manager) fullscreenRequest(e platform.FullscreenRequest) {
	loc, ok := m.locate(e.Window)
	if !ok {
		return
	}
	_, on := m.fullscreen[e.Window]
	switch {
	case e.Action == platform.StateAdd && on, e.Action == platform.StateRemove && !on:
		return
	case on:
		m.exitFullscreen(e.Window, loc)
	default:
		m.enterFullscreen(e.Window, loc)
	}
}

func (m *Manager) enterFullscreen(w platform.WindowID, loc location) {
	state := restoreState{floating: loc.floating}
	if loc.floating {
		if g, err := m.backend.Geometry(w); err == nil {
			state.geometry, state.hasGeometry = g, true
		} else {
			m.logger.Debug("floating geometry unknown", "window", w, "error", err)
		}
	} else {
		loc = m.toggleRing(w, loc)
	}
	m.fullscreen[w] = state

	s := &m.screens[loc.screen]
	m.backend.SetBorderWidth(w, 0)
	m.backend.MoveResize(w, s.Rect)
	m.backend.SetFullscreenState(w, true)
	if loc.screen == m.current && m.visible(loc.screen, loc.workspace) {
		m.unfocusBorder()
		m.setFocus(w, loc, true)
	}
}

func (m *Manager) exitFullscreen(w platform.WindowID, loc location) {
	state := m.fullscreen[w]
	delete(m.fullscreen, w)
	m.backend.SetFullscreenState(w, false)

	if !state.floating && loc.floating {
		m.toggleRing(w, loc)
		return
	}
	m.backend.SetBorderWidth(w, m.cfg.BorderWidth)
	if state.hasGeometry {
		m.backend.MoveResize(w, state.geometry)
	}
}
