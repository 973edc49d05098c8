package layout

import "github.com/1broseidon/lapin/internal/platform"

// Tiling puts the master window on the left and stacks the others on the right.
type Tiling struct {
	LayoutName   string
	Borders      int
	Gaps         int
	MasterFactor float64
}

func (t *Tiling) Name() string       { return t.LayoutName }
func (t *Tiling) AllowMotions() bool { return false }
func (t *Tiling) BorderWidth() int   { return t.Borders }

func (t *Tiling) NewWin(m Mover, wins []platform.WindowID, area platform.Rect) {
	t.Reload(m, wins, area)
}

func (t *Tiling) DelWin(m Mover, wins []platform.WindowID, _ int, area platform.Rect) {
	t.Reload(m, wins, area)
}

func (t *Tiling) ChangeWin(Mover, []platform.WindowID, int, platform.Rect) {}

func (t *Tiling) Reload(m Mover, wins []platform.WindowID, area platform.Rect) {
	for i, r := range t.Arrange(len(wins), area) {
		m.MoveResize(wins[i], r)
	}
}

// Arrange computes the rectangles for n windows. Heights and widths exclude
// the border, so every rectangle plus 2*Borders plus the gaps between them
// adds up to the area exactly.
func (t *Tiling) Arrange(n int, area platform.Rect) []platform.Rect {
	switch n {
	case 0:
		return nil
	case 1:
		return []platform.Rect{full(area, t.Gaps, t.Borders)}
	}

	g, b := t.Gaps, t.Borders
	split := int(float64(area.Width) * t.MasterFactor)

	rects := make([]platform.Rect, 0, n)
	rects = append(rects, platform.Rect{
		X:      area.X + g,
		Y:      area.Y + g,
		Width:  atLeastOne(split - g - 2*b),
		Height: atLeastOne(area.Height - 2*g - 2*b),
	})

	slaves := n - 1
	usable := area.Height - g*(slaves+1) - 2*b*slaves
	height := usable / slaves
	last := usable - height*(slaves-1)

	x := area.X + split + g
	width := atLeastOne(area.Width - split - 2*g - 2*b)
	y := area.Y + g
	for i := 0; i < slaves; i++ {
		h := height
		if i == slaves-1 {
			h = last
		}
		rects = append(rects, platform.Rect{X: x, Y: y, Width: width, Height: atLeastOne(h)})
		y += h + 2*b + g
	}
	return rects
}
