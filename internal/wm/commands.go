package wm

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/platform"
)

// Exec runs an action on the event loop.
func (m *Manager) Exec(ctx context.Context, action command.Action) error {
	var err error
	if doErr := m.do(ctx, func() { err = m.exec(action) }); doErr != nil {
		return doErr
	}
	return err
}

// Reload re-reads the configuration and applies it on the event loop.
func (m *Manager) Reload(ctx context.Context) error {
	var err error
	if doErr := m.do(ctx, func() { err = m.reload() }); doErr != nil {
		return doErr
	}
	return err
}

func (m *Manager) exec(a command.Action) error {
	m.logger.Debug("exec", "action", a.String())
	switch a.Name {
	case command.Quit:
		m.quitting = true
	case command.Reload:
		return m.reload()
	case command.Kill:
		m.kill()
	case command.Spawn:
		return m.spawn(a.Command)
	case command.NextWindow:
		m.changeWin(true)
	case command.PrevWindow:
		m.changeWin(false)
	case command.NextLayout:
		m.changeLayout(1)
	case command.PrevLayout:
		m.changeLayout(-1)
	case command.Workspace:
		return m.gotoWorkspace(a.Index)
	case command.SendToWorkspace:
		return m.sendToWorkspace(a.Index)
	case command.RotateUp:
		m.rotate(true)
	case command.RotateDown:
		m.rotate(false)
	case command.SwapNext:
		m.swap(true)
	case command.SwapPrev:
		m.swap(false)
	case command.ChangeMaster:
		m.changeMaster()
	case command.ToggleReservedSpace:
		m.toggleReservedSpace()
	case command.ToggleFloat:
		m.toggleFloat()
	case command.Fullscreen:
		m.toggleFullscreen()
	case command.NextScreen:
		m.changeScreen(1)
	case command.PrevScreen:
		m.changeScreen(-1)
	case command.SendToNextScreen:
		m.sendToScreen(1)
	case command.SendToPrevScreen:
		m.sendToScreen(-1)
	default:
		return fmt.Errorf("%w: %q", command.ErrUnknown, a.Name)
	}
	return nil
}

// focusedLocation returns the focused window of the current workspace.
func (m *Manager) focusedLocation() (platform.WindowID, location, bool) {
	s := m.screen()
	ws := s.workspace()
	w, ok := ws.focused()
	if !ok {
		return 0, location{}, false
	}
	return w, location{screen: m.current, workspace: s.Current, index: ws.Focused, floating: ws.FocusFloating}, true
}

func (m *Manager) kill() {
	if w, _, ok := m.focusedLocation(); ok {
		m.backend.Close(w)
	}
}

// changeWin steps the focus through the managed ring and the floating ring
// of the current workspace as if they were one cycle.
func (m *Manager) changeWin(forward bool) {
	s := m.screen()
	ws := s.workspace()
	if ws.len() <= 1 {
		return
	}

	floating, idx := ws.FocusFloating, ws.Focused
	if idx < 0 {
		floating, idx = len(ws.Managed) == 0, 0
	} else {
		ring, other := ws.ring(floating), ws.ring(!floating)
		if forward {
			idx++
			if idx >= len(ring) {
				if len(other) > 0 {
					floating = !floating
				}
				idx = 0
			}
		} else {
			idx--
			if idx < 0 {
				if len(other) > 0 {
					floating = !floating
					idx = len(other) - 1
				} else {
					idx = len(ring) - 1
				}
			}
		}
	}

	m.unfocusBorder()
	w := ws.ring(floating)[idx]
	m.setFocus(w, location{screen: m.current, workspace: s.Current, index: idx, floating: floating}, true)
	if !floating {
		m.layouts[ws.Layout].ChangeWin(m.backend, ws.Managed, idx, m.area(s, ws))
	}
}

// changeLayout cycles the active layout of the current workspace.
func (m *Manager) changeLayout(delta int) {
	s := m.screen()
	ws := s.workspace()
	n := len(m.layouts)
	ws.Layout = ((ws.Layout+delta)%n + n) % n
	lay := m.layouts[ws.Layout]
	m.drag = nil

	// Fullscreen windows sit in the floating ring, never in Managed.
	for _, w := range ws.Managed {
		m.backend.SetBorderWidth(w, lay.BorderWidth())
		m.backend.SetBorderColor(w, uint32(m.cfg.BorderColor))
	}
	if w, ok := ws.focused(); ok {
		m.backend.SetBorderColor(w, uint32(m.cfg.FocusBorderColor))
	}
	lay.Reload(m.backend, ws.Managed, m.area(s, ws))
	m.logger.Debug("layout changed", "workspace", s.Current, "layout", lay.Name())
}

// rotate shifts every managed window by one slot. The focused window keeps
// the focus.
func (m *Manager) rotate(up bool) {
	s := m.screen()
	ws := s.workspace()
	if ws.FocusFloating || len(ws.Managed) < 2 {
		return
	}
	prev, hasFocus := ws.focused()
	n := len(ws.Managed)
	rotated := make([]platform.WindowID, 0, n)
	if up {
		rotated = append(append(rotated, ws.Managed[1:]...), ws.Managed[0])
	} else {
		rotated = append(append(rotated, ws.Managed[n-1]), ws.Managed[:n-1]...)
	}
	ws.Managed = rotated
	if hasFocus {
		ws.pointCursorAt(prev)
	}
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
}

// swap exchanges the focused slave with its neighbour, cycling among the
// slaves only.
func (m *Manager) swap(next bool) {
	s := m.screen()
	ws := s.workspace()
	n := len(ws.Managed)
	i := ws.Focused
	if ws.FocusFloating || i < 1 || n < 3 {
		return
	}
	j := i + 1
	if !next {
		j = i - 1
	}
	switch {
	case j >= n:
		j = 1
	case j < 1:
		j = n - 1
	}
	ws.Managed[i], ws.Managed[j] = ws.Managed[j], ws.Managed[i]
	ws.Focused = j
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
}

// changeMaster swaps the focused window with the master, or the master with
// the first slave when the master has the focus.
func (m *Manager) changeMaster() {
	s := m.screen()
	ws := s.workspace()
	if ws.FocusFloating || ws.Focused < 0 || len(ws.Managed) < 2 {
		return
	}
	other := ws.Focused
	if other == 0 {
		other = 1
	}
	prev, _ := ws.focused()
	ws.Managed[0], ws.Managed[other] = ws.Managed[other], ws.Managed[0]
	ws.pointCursorAt(prev)
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
}

func (m *Manager) toggleReservedSpace() {
	s := m.screen()
	ws := s.workspace()
	ws.RespectReserved = !ws.RespectReserved
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
}

// toggleFloat moves the focused window between the managed and floating
// sequences.
func (m *Manager) toggleFloat() {
	w, loc, ok := m.focusedLocation()
	if !ok {
		return
	}
	if _, fs := m.fullscreen[w]; fs {
		delete(m.fullscreen, w)
		m.backend.SetFullscreenState(w, false)
	}
	loc = m.toggleRing(w, loc)
	m.setFocus(w, loc, true)
}

// toggleRing moves w from its sequence to index 0 of the other one and fixes
// border width and geometry. The focus cursor keeps pointing at the window it
// pointed at before.
func (m *Manager) toggleRing(w platform.WindowID, loc location) location {
	s := &m.screens[loc.screen]
	ws := &s.Workspaces[loc.workspace]
	prev, hasFocus := ws.focused()

	ws.setRing(loc.floating, slices.Delete(ws.ring(loc.floating), loc.index, loc.index+1))
	to := !loc.floating
	ws.setRing(to, slices.Insert(ws.ring(to), 0, w))
	if hasFocus {
		ws.pointCursorAt(prev)
	}

	lay := m.layouts[ws.Layout]
	visible := m.visible(loc.screen, loc.workspace)
	if to {
		m.backend.SetBorderWidth(w, m.cfg.BorderWidth)
		if visible {
			lay.DelWin(m.backend, ws.Managed, loc.index, m.area(s, ws))
			m.backend.Raise(w)
		}
	} else {
		m.backend.SetBorderWidth(w, lay.BorderWidth())
		if visible {
			lay.NewWin(m.backend, ws.Managed, m.area(s, ws))
		}
	}
	return location{screen: loc.screen, workspace: loc.workspace, index: 0, floating: to}
}

// gotoWorkspace shows another workspace on the current screen.
func (m *Manager) gotoWorkspace(idx int) error {
	s := m.screen()
	if idx < 0 || idx >= len(s.Workspaces) {
		return fmt.Errorf("workspace %d does not exist", idx+1)
	}
	if idx == s.Current {
		return nil
	}
	m.drag = nil

	m.unfocusBorder()
	for _, w := range s.workspace().windows() {
		m.backend.Unmap(w)
	}
	s.Current = idx
	m.backend.SetCurrentDesktop(idx)

	ws := s.workspace()
	for _, w := range ws.windows() {
		m.backend.Map(w)
	}
	m.lastStructural = m.now()
	m.focusCurrent()
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
	m.logger.Debug("workspace shown", "screen", m.current, "workspace", idx)
	return nil
}

// sendToWorkspace moves the focused window to another workspace of the
// current screen, where it becomes the focused window.
func (m *Manager) sendToWorkspace(idx int) error {
	s := m.screen()
	if idx < 0 || idx >= len(s.Workspaces) {
		return fmt.Errorf("workspace %d does not exist", idx+1)
	}
	if idx == s.Current {
		return nil
	}
	w, loc, ok := m.focusedLocation()
	if !ok {
		return nil
	}
	if m.drag != nil && m.drag.window == w {
		m.drag = nil
	}

	m.backend.SetBorderColor(w, uint32(m.cfg.BorderColor))
	m.backend.Unmap(w)
	m.lastStructural = m.now()
	m.remove(loc, true)

	dst := &s.Workspaces[idx]
	if prev, ok := dst.focused(); ok {
		m.backend.SetBorderColor(prev, uint32(m.cfg.BorderColor))
	}
	dst.setRing(loc.floating, slices.Insert(dst.ring(loc.floating), 0, w))
	dst.Focused, dst.FocusFloating = 0, loc.floating
	if !loc.floating {
		m.backend.SetBorderWidth(w, m.layouts[dst.Layout].BorderWidth())
	}
	m.backend.SetWindowDesktop(w, idx)
	m.publishClientList()
	return nil
}

// changeScreen moves the focus to another screen, wrapping at both ends.
func (m *Manager) changeScreen(delta int) {
	n := len(m.screens)
	if n <= 1 {
		return
	}
	m.unfocusBorder()
	m.drag = nil
	m.current = ((m.current+delta)%n + n) % n
	m.backend.SetCurrentDesktop(m.screen().Current)
	m.focusCurrent()
}

// sendToScreen migrates the focused window to the shown workspace of
// another screen.
func (m *Manager) sendToScreen(delta int) {
	n := len(m.screens)
	if n < 2 {
		return
	}
	w, loc, ok := m.focusedLocation()
	if !ok {
		return
	}
	if m.drag != nil && m.drag.window == w {
		m.drag = nil
	}
	m.backend.SetBorderColor(w, uint32(m.cfg.BorderColor))
	m.remove(loc, false)

	target := ((m.current+delta)%n + n) % n
	dst := &m.screens[target]
	ws := dst.workspace()
	if cur, ok := ws.focused(); ok {
		m.backend.SetBorderColor(cur, uint32(m.cfg.BorderColor))
	}
	ws.setRing(loc.floating, slices.Insert(ws.ring(loc.floating), 0, w))

	if _, fs := m.fullscreen[w]; fs {
		m.backend.MoveResize(w, dst.Rect)
	} else if loc.floating {
		m.backend.Move(w, dst.Rect.X, dst.Rect.Y)
	} else {
		lay := m.layouts[ws.Layout]
		m.backend.SetBorderWidth(w, lay.BorderWidth())
		lay.NewWin(m.backend, ws.Managed, m.area(dst, ws))
	}

	m.setFocus(w, location{screen: target, workspace: dst.Current, index: 0, floating: loc.floating}, true)
	m.backend.SetWindowDesktop(w, dst.Current)
	m.publishClientList()
}

// reload re-reads the configuration and swaps it in. On failure the
// previous configuration stays active.
func (m *Manager) reload() error {
	if m.loadConfig == nil {
		return errors.New("reload is not available")
	}
	cfg, err := m.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return m.reconfigure(cfg)
}
