package wm

import (
	"slices"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

// noFocus marks a workspace without a focused window.
const noFocus = -1

// Workspace is an independently focusable set of windows. Managed windows
// are placed by the active layout; floating windows are left alone.
type Workspace struct {
	Name     string
	Managed  []platform.WindowID
	Floating []platform.WindowID
	// Focused indexes Floating when FocusFloating is set, Managed otherwise.
	Focused         int
	FocusFloating   bool
	Layout          int
	RespectReserved bool
}

func newWorkspace(name string) Workspace {
	return Workspace{Name: name, Focused: noFocus, RespectReserved: true}
}

// ring returns the sequence selected by floating.
func (ws *Workspace) ring(floating bool) []platform.WindowID {
	if floating {
		return ws.Floating
	}
	return ws.Managed
}

func (ws *Workspace) setRing(floating bool, wins []platform.WindowID) {
	if floating {
		ws.Floating = wins
	} else {
		ws.Managed = wins
	}
}

// focused returns the focused window, if any.
func (ws *Workspace) focused() (platform.WindowID, bool) {
	if ws.Focused < 0 {
		return 0, false
	}
	wins := ws.ring(ws.FocusFloating)
	if ws.Focused >= len(wins) {
		return 0, false
	}
	return wins[ws.Focused], true
}

func (ws *Workspace) len() int {
	return len(ws.Managed) + len(ws.Floating)
}

// windows lists managed windows first, then floating ones.
func (ws *Workspace) windows() []platform.WindowID {
	out := make([]platform.WindowID, 0, ws.len())
	out = append(out, ws.Managed...)
	return append(out, ws.Floating...)
}

// Screen is one monitor with its own workspaces, exactly one of them shown.
type Screen struct {
	Rect       platform.Rect
	Workspaces []Workspace
	Current    int
}

func newScreen(rect platform.Rect, names []string) Screen {
	s := Screen{Rect: rect, Workspaces: make([]Workspace, len(names))}
	for i, name := range names {
		s.Workspaces[i] = newWorkspace(name)
	}
	return s
}

func (s *Screen) workspace() *Workspace {
	return &s.Workspaces[s.Current]
}

// location pins a tracked window to one sequence of one workspace.
type location struct {
	screen    int
	workspace int
	index     int
	floating  bool
}

// locate finds a window anywhere in the model.
func (m *Manager) locate(w platform.WindowID) (location, bool) {
	for si := range m.screens {
		for wi := range m.screens[si].Workspaces {
			ws := &m.screens[si].Workspaces[wi]
			if i := slices.Index(ws.Managed, w); i >= 0 {
				return location{screen: si, workspace: wi, index: i}, true
			}
			if i := slices.Index(ws.Floating, w); i >= 0 {
				return location{screen: si, workspace: wi, index: i, floating: true}, true
			}
		}
	}
	return location{}, false
}

func (m *Manager) workspaceAt(loc location) *Workspace {
	return &m.screens[loc.screen].Workspaces[loc.workspace]
}

// visible reports whether the workspace is the one shown on its screen.
func (m *Manager) visible(screen, workspace int) bool {
	return m.screens[screen].Current == workspace
}

func (m *Manager) screen() *Screen {
	return &m.screens[m.current]
}

func (m *Manager) workspace() *Workspace {
	return m.screen().workspace()
}

// area is the rectangle the layout may use on a screen for a workspace.
func (m *Manager) area(s *Screen, ws *Workspace) platform.Rect {
	r := s.Rect
	if !ws.RespectReserved {
		return r
	}
	return shrink(r, m.cfg.ReservedSpace)
}

func shrink(r platform.Rect, margins config.Margins) platform.Rect {
	r.X += margins.Left
	r.Y += margins.Top
	r.Width -= margins.Left + margins.Right
	r.Height -= margins.Top + margins.Bottom
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// retile reloads the active layout of a workspace when it is visible.
func (m *Manager) retile(screen, workspace int) {
	if !m.visible(screen, workspace) {
		return
	}
	s := &m.screens[screen]
	ws := &s.Workspaces[workspace]
	m.layouts[ws.Layout].Reload(m.backend, ws.Managed, m.area(s, ws))
}

// publishClientList rebuilds _NET_CLIENT_LIST from every workspace.
func (m *Manager) publishClientList() {
	var all []platform.WindowID
	for si := range m.screens {
		for wi := range m.screens[si].Workspaces {
			all = append(all, m.screens[si].Workspaces[wi].windows()...)
		}
	}
	m.backend.SetClientList(all)
}
