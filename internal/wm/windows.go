package wm

import (
	"slices"

	"github.com/1broseidon/lapin/internal/platform"
	"github.com/1broseidon/lapin/internal/rules"
)

// manage starts tracking a window that asked to be mapped.
func (m *Manager) manage(w platform.WindowID) {
	if _, ok := m.locate(w); ok {
		return
	}
	override, err := m.backend.OverrideRedirect(w)
	if err != nil {
		m.logger.Debug("skipping window without attributes", "window", w, "error", err)
		return
	}
	if override {
		return
	}

	m.backend.SetBorderColor(w, uint32(m.cfg.BorderColor))
	m.backend.Watch(w)

	s := m.screen()
	placement := rules.Placement{Border: true, Workspace: s.Current}
	if instance, class, err := m.backend.WindowClass(w); err != nil {
		m.logger.Debug("no WM_CLASS, rules skipped", "window", w, "error", err)
	} else {
		placement = rules.Apply(m.rules, instance, class, s.Current)
		m.logger.Debug("rules applied", "window", w, "instance", instance, "class", class,
			"workspace", placement.Workspace, "floating", placement.Floating, "fullscreen", placement.Fullscreen)
	}
	if placement.Workspace < 0 || placement.Workspace >= len(s.Workspaces) {
		placement.Workspace = s.Current
	}
	if !placement.Fullscreen {
		if on, err := m.backend.FullscreenState(w); err == nil && on {
			placement.Fullscreen = true
			placement.Floating = true
			placement.Border = false
		}
	}

	ws := &s.Workspaces[placement.Workspace]
	switch {
	case !placement.Border:
		m.backend.SetBorderWidth(w, 0)
	case placement.Floating:
		m.backend.SetBorderWidth(w, m.cfg.BorderWidth)
	default:
		m.backend.SetBorderWidth(w, m.layouts[ws.Layout].BorderWidth())
	}
	if placement.Fullscreen {
		m.fullscreen[w] = restoreState{floating: true}
		m.backend.MoveResize(w, s.Rect)
		m.backend.SetFullscreenState(w, true)
	}

	m.lastStructural = m.now()
	loc := location{screen: m.current, workspace: placement.Workspace, floating: placement.Floating}
	if m.visible(loc.screen, loc.workspace) {
		m.unfocusBorder()
		ws.setRing(loc.floating, slices.Insert(ws.ring(loc.floating), 0, w))
		if !loc.floating {
			m.layouts[ws.Layout].NewWin(m.backend, ws.Managed, m.area(s, ws))
		}
		m.backend.Map(w)
		m.setFocus(w, loc, true)
	} else {
		prev, hasFocus := ws.focused()
		ws.setRing(loc.floating, slices.Insert(ws.ring(loc.floating), 0, w))
		if hasFocus {
			ws.pointCursorAt(prev)
		} else {
			ws.Focused, ws.FocusFloating = 0, loc.floating
		}
	}
	m.backend.SetWindowDesktop(w, placement.Workspace)
	m.publishClientList()
	m.logger.Debug("window managed", "window", w, "workspace", placement.Workspace, "floating", placement.Floating)
}

// unmanage forgets a window. With resolveFocus unset the focus cursor is
// still repaired but no focus request is issued.
func (m *Manager) unmanage(w platform.WindowID, resolveFocus bool) {
	loc, ok := m.locate(w)
	if !ok {
		return
	}
	m.remove(loc, resolveFocus)
	delete(m.fullscreen, w)
	if m.drag != nil && m.drag.window == w {
		m.drag = nil
	}
	m.lastStructural = m.now()
	m.publishClientList()
	m.logger.Debug("window unmanaged", "window", w)
}

// remove takes the window at loc out of its sequence, repairs the focus
// cursor and lets the layout re-render.
func (m *Manager) remove(loc location, resolveFocus bool) {
	ws := m.workspaceAt(loc)
	prev, hasFocus := ws.focused()
	wasFocused := hasFocus && ws.Focused == loc.index && ws.FocusFloating == loc.floating

	ws.setRing(loc.floating, slices.Delete(ws.ring(loc.floating), loc.index, loc.index+1))

	if wasFocused {
		m.resetFocus(loc, resolveFocus)
	} else if hasFocus {
		ws.pointCursorAt(prev)
	}

	if !m.visible(loc.screen, loc.workspace) {
		return
	}
	s := &m.screens[loc.screen]
	lay := m.layouts[ws.Layout]
	area := m.area(s, ws)
	if !loc.floating {
		lay.DelWin(m.backend, ws.Managed, loc.index, area)
	} else if !ws.FocusFloating {
		lay.ChangeWin(m.backend, ws.Managed, ws.Focused, area)
	}
}

// resetFocus picks the next focus after the focused window at loc left.
// The same ring is preferred, then the other one; the index is clamped.
func (m *Manager) resetFocus(loc location, apply bool) {
	ws := m.workspaceAt(loc)
	floating := loc.floating
	if len(ws.ring(floating)) == 0 {
		floating = !floating
	}
	wins := ws.ring(floating)
	if len(wins) == 0 {
		ws.Focused, ws.FocusFloating = noFocus, false
		if apply && loc.screen == m.current && m.visible(loc.screen, loc.workspace) {
			m.backend.Focus(m.backend.Root())
		}
		return
	}

	idx := min(loc.index, len(wins)-1)
	ws.Focused, ws.FocusFloating = idx, floating
	if apply && loc.screen == m.current && m.visible(loc.screen, loc.workspace) {
		m.setFocus(wins[idx], location{screen: loc.screen, workspace: loc.workspace, index: idx, floating: floating}, true)
	}
}

// setFocus is the single place focus changes: it moves the model cursor,
// asks for input focus and paints the focused border.
func (m *Manager) setFocus(w platform.WindowID, loc location, raise bool) {
	screenChanged := m.current != loc.screen
	m.current = loc.screen
	s := &m.screens[loc.screen]
	s.Current = loc.workspace
	ws := &s.Workspaces[loc.workspace]
	ws.Focused, ws.FocusFloating = loc.index, loc.floating

	m.backend.Focus(w)
	if raise {
		m.backend.Raise(w)
	}
	m.backend.SetBorderColor(w, uint32(m.cfg.FocusBorderColor))
	if screenChanged {
		m.backend.SetCurrentDesktop(s.Current)
	}
}

// unfocusBorder paints the border of the current focus as unfocused.
func (m *Manager) unfocusBorder() {
	if w, ok := m.workspace().focused(); ok {
		m.backend.SetBorderColor(w, uint32(m.cfg.BorderColor))
	}
}

// pointCursorAt moves the focus cursor to w wherever it now sits.
func (ws *Workspace) pointCursorAt(w platform.WindowID) bool {
	if i := slices.Index(ws.Managed, w); i >= 0 {
		ws.Focused, ws.FocusFloating = i, false
		return true
	}
	if i := slices.Index(ws.Floating, w); i >= 0 {
		ws.Focused, ws.FocusFloating = i, true
		return true
	}
	return false
}

// enter handles pointer-driven focus.
func (m *Manager) enter(w platform.WindowID) {
	if m.drag != nil {
		return
	}
	if since := m.now().Sub(m.lastStructural); since < m.debounce {
		m.logger.Debug("enter ignored after structural change", "window", w, "since", since)
		return
	}
	loc, ok := m.locate(w)
	if !ok || !m.visible(loc.screen, loc.workspace) {
		return
	}
	if cur, ok := m.workspaceAt(loc).focused(); ok && cur == w && loc.screen == m.current {
		return
	}
	m.unfocusBorder()
	m.setFocus(w, loc, m.cfg.HoverRaises)
}

// focusCurrent focuses the current workspace's cursor window or the root.
func (m *Manager) focusCurrent() {
	s := m.screen()
	ws := s.workspace()
	if w, ok := ws.focused(); ok {
		m.setFocus(w, location{screen: m.current, workspace: s.Current, index: ws.Focused, floating: ws.FocusFloating}, true)
		return
	}
	m.backend.Focus(m.backend.Root())
}
