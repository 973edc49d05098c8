package wm

import (
	"context"
	"slices"

	"github.com/1broseidon/lapin/internal/platform"
)

// Status is a snapshot of the model for the control surfaces.
// Workspace numbers are 1-based like the commands that take them.
type Status struct {
	CurrentScreen int            `json:"current_screen"`
	Screens       []ScreenStatus `json:"screens"`
	Windows       int            `json:"windows"`
	UptimeSeconds int64          `json:"uptime_seconds"`
}

type ScreenStatus struct {
	Index            int               `json:"index"`
	X                int               `json:"x"`
	Y                int               `json:"y"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	CurrentWorkspace int               `json:"current_workspace"`
	Workspaces       []WorkspaceStatus `json:"workspaces"`
}

type WorkspaceStatus struct {
	Number          int                 `json:"number"`
	Name            string              `json:"name"`
	Layout          string              `json:"layout"`
	Managed         []platform.WindowID `json:"managed"`
	Floating        []platform.WindowID `json:"floating"`
	Focused         platform.WindowID   `json:"focused,omitempty"`
	FocusFloating   bool                `json:"focus_floating,omitempty"`
	RespectReserved bool                `json:"respect_reserved_space"`
}

// Status returns a snapshot taken on the event loop.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	var st Status
	if err := m.do(ctx, func() { st = m.snapshot() }); err != nil {
		return Status{}, err
	}
	return st, nil
}

func (m *Manager) snapshot() Status {
	st := Status{
		CurrentScreen: m.current,
		Screens:       make([]ScreenStatus, 0, len(m.screens)),
	}
	if !m.started.IsZero() {
		st.UptimeSeconds = int64(m.now().Sub(m.started).Seconds())
	}
	for si := range m.screens {
		s := &m.screens[si]
		ss := ScreenStatus{
			Index:            si,
			X:                s.Rect.X,
			Y:                s.Rect.Y,
			Width:            s.Rect.Width,
			Height:           s.Rect.Height,
			CurrentWorkspace: s.Current + 1,
			Workspaces:       make([]WorkspaceStatus, 0, len(s.Workspaces)),
		}
		for wi := range s.Workspaces {
			ws := &s.Workspaces[wi]
			wst := WorkspaceStatus{
				Number:          wi + 1,
				Name:            ws.Name,
				Layout:          m.layouts[ws.Layout].Name(),
				Managed:         slices.Clone(ws.Managed),
				Floating:        slices.Clone(ws.Floating),
				RespectReserved: ws.RespectReserved,
			}
			if wst.Managed == nil {
				wst.Managed = []platform.WindowID{}
			}
			if wst.Floating == nil {
				wst.Floating = []platform.WindowID{}
			}
			if w, ok := ws.focused(); ok {
				wst.Focused = w
				wst.FocusFloating = ws.FocusFloating
			}
			st.Windows += ws.len()
			ss.Workspaces = append(ss.Workspaces, wst)
		}
		st.Screens = append(st.Screens, ss)
	}
	return st
}
