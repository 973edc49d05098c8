package layout

import "github.com/1broseidon/lapin/internal/platform"

// Floating never moves windows; the pointer does.
type Floating struct {
	LayoutName string
	Borders    int
}

func (l *Floating) Name() string       { return l.LayoutName }
func (l *Floating) AllowMotions() bool { return true }
func (l *Floating) BorderWidth() int   { return l.Borders }

func (l *Floating) NewWin(Mover, []platform.WindowID, platform.Rect)         {}
func (l *Floating) DelWin(Mover, []platform.WindowID, int, platform.Rect)    {}
func (l *Floating) Reload(Mover, []platform.WindowID, platform.Rect)         {}
func (l *Floating) ChangeWin(Mover, []platform.WindowID, int, platform.Rect) {}
