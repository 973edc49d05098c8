package layout

import "github.com/1broseidon/lapin/internal/platform"

// Maximized gives every window the whole area; the stacking order decides
// which one is visible.
type Maximized struct {
	LayoutName string
	Borders    int
	Gaps       int
}

func (l *Maximized) Name() string       { return l.LayoutName }
func (l *Maximized) AllowMotions() bool { return false }
func (l *Maximized) BorderWidth() int   { return l.Borders }

// NewWin only sizes the new window; the others already fill the area.
func (l *Maximized) NewWin(m Mover, wins []platform.WindowID, area platform.Rect) {
	if len(wins) == 0 {
		return
	}
	m.MoveResize(wins[0], full(area, l.Gaps, l.Borders))
}

func (l *Maximized) DelWin(Mover, []platform.WindowID, int, platform.Rect)    {}
func (l *Maximized) ChangeWin(Mover, []platform.WindowID, int, platform.Rect) {}

func (l *Maximized) Reload(m Mover, wins []platform.WindowID, area platform.Rect) {
	r := full(area, l.Gaps, l.Borders)
	for _, w := range wins {
		m.MoveResize(w, r)
	}
}
