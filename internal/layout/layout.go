// Package layout positions the managed windows of a workspace.
//
// Every layout receives the full ordered sequence of managed windows (index 0
// is the master) and the usable area of the screen, and issues geometry
// requests through a Mover. Layouts hold configuration only; they are shared
// by every workspace that selects them.
package layout

import (
	"fmt"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

// Mover issues a geometry request for one window.
type Mover interface {
	MoveResize(w platform.WindowID, r platform.Rect)
}

// Layout is a window placement strategy.
type Layout interface {
	Name() string
	// NewWin runs after a window was inserted at index 0 of wins.
	NewWin(m Mover, wins []platform.WindowID, area platform.Rect)
	// DelWin runs after the window at focused was removed from wins.
	DelWin(m Mover, wins []platform.WindowID, focused int, area platform.Rect)
	Reload(m Mover, wins []platform.WindowID, area platform.Rect)
	ChangeWin(m Mover, wins []platform.WindowID, focused int, area platform.Rect)
	// AllowMotions reports whether windows may be moved and resized with the pointer.
	AllowMotions() bool
	BorderWidth() int
}

// FromConfig builds the ordered layout list a workspace cycles through.
func FromConfig(layouts []config.Layout) ([]Layout, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts configured")
	}
	out := make([]Layout, 0, len(layouts))
	for i, l := range layouts {
		name := l.Name
		if name == "" {
			name = l.Kind
		}
		switch l.Kind {
		case config.LayoutTiling:
			out = append(out, &Tiling{LayoutName: name, Borders: l.Borders, Gaps: l.Gaps, MasterFactor: l.MasterFactor})
		case config.LayoutMaximized:
			out = append(out, &Maximized{LayoutName: name, Borders: l.Borders, Gaps: l.Gaps})
		case config.LayoutFloating:
			out = append(out, &Floating{LayoutName: name, Borders: l.Borders})
		default:
			return nil, fmt.Errorf("layouts[%d]: unknown kind %q", i, l.Kind)
		}
	}
	return out, nil
}

// full is the area minus gaps and borders on every side.
func full(area platform.Rect, gaps, borders int) platform.Rect {
	return platform.Rect{
		X:      area.X + gaps,
		Y:      area.Y + gaps,
		Width:  atLeastOne(area.Width - 2*gaps - 2*borders),
		Height: atLeastOne(area.Height - 2*gaps - 2*borders),
	}
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
