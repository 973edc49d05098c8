package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

type move struct {
	Win  platform.WindowID
	Rect platform.Rect
}

type recorder struct {
	moves []move
}

func (r *recorder) MoveResize(w platform.WindowID, rect platform.Rect) {
	r.moves = append(r.moves, move{Win: w, Rect: rect})
}

var screen = platform.Rect{X: 0, Y: 0, Width: 1280, Height: 800}

func TestTiling_SingleWindow(t *testing.T) {
	l := &Tiling{Borders: 4, Gaps: 4, MasterFactor: 0.5}
	rec := &recorder{}
	l.Reload(rec, []platform.WindowID{1}, screen)

	want := []move{{Win: 1, Rect: platform.Rect{X: 4, Y: 4, Width: 1264, Height: 784}}}
	if diff := cmp.Diff(want, rec.moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestTiling_MasterAndTwoSlaves(t *testing.T) {
	l := &Tiling{Borders: 4, Gaps: 4, MasterFactor: 0.5}
	rec := &recorder{}
	l.Reload(rec, []platform.WindowID{1, 2, 3}, screen)

	want := []move{
		{Win: 1, Rect: platform.Rect{X: 4, Y: 4, Width: 628, Height: 784}},
		{Win: 2, Rect: platform.Rect{X: 644, Y: 4, Width: 624, Height: 386}},
		{Win: 3, Rect: platform.Rect{X: 644, Y: 402, Width: 624, Height: 386}},
	}
	if diff := cmp.Diff(want, rec.moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestTiling_PixelAccounting(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		gaps    int
		borders int
		area    platform.Rect
	}{
		{name: "two windows", n: 2, gaps: 4, borders: 4, area: screen},
		{name: "uneven split", n: 4, gaps: 5, borders: 2, area: platform.Rect{X: 10, Y: 30, Width: 1001, Height: 767}},
		{name: "no gaps", n: 7, gaps: 0, borders: 1, area: platform.Rect{Width: 1920, Height: 1080}},
		{name: "offset screen", n: 3, gaps: 8, borders: 0, area: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Tiling{Borders: tt.borders, Gaps: tt.gaps, MasterFactor: 0.55}
			rects := l.Arrange(tt.n, tt.area)
			if len(rects) != tt.n {
				t.Fatalf("expected %d rects, got %d", tt.n, len(rects))
			}

			master := rects[0]
			if got := master.Height + 2*tt.gaps + 2*tt.borders; got != tt.area.Height {
				t.Errorf("master vertical extent = %d, want %d", got, tt.area.Height)
			}

			slaves := rects[1:]
			total := tt.gaps * (len(slaves) + 1)
			for i, r := range slaves {
				total += r.Height + 2*tt.borders
				if i > 0 {
					prev := slaves[i-1]
					if want := prev.Y + prev.Height + 2*tt.borders + tt.gaps; r.Y != want {
						t.Errorf("slave %d y = %d, want %d", i, r.Y, want)
					}
				}
			}
			if total != tt.area.Height {
				t.Errorf("slave column height = %d, want %d", total, tt.area.Height)
			}

			horizontal := tt.gaps + master.Width + 2*tt.borders + tt.gaps + slaves[0].Width + 2*tt.borders + tt.gaps
			if horizontal != tt.area.Width {
				t.Errorf("row width = %d, want %d", horizontal, tt.area.Width)
			}
			last := slaves[len(slaves)-1]
			if bottom := last.Y + last.Height + 2*tt.borders + tt.gaps; bottom != tt.area.Y+tt.area.Height {
				t.Errorf("last slave bottom = %d, want %d", bottom, tt.area.Y+tt.area.Height)
			}
		})
	}
}

func TestTiling_EmptyIsNoop(t *testing.T) {
	l := &Tiling{Borders: 4, Gaps: 4, MasterFactor: 0.5}
	rec := &recorder{}
	l.Reload(rec, nil, screen)
	l.NewWin(rec, nil, screen)
	l.DelWin(rec, nil, 0, screen)
	l.ChangeWin(rec, nil, 0, screen)
	if len(rec.moves) != 0 {
		t.Fatalf("expected no moves, got %v", rec.moves)
	}
}

func TestTiling_TinyAreaClampsSizes(t *testing.T) {
	l := &Tiling{Borders: 10, Gaps: 10, MasterFactor: 0.5}
	for _, r := range l.Arrange(5, platform.Rect{Width: 20, Height: 20}) {
		if r.Width < 1 || r.Height < 1 {
			t.Fatalf("expected positive size, got %+v", r)
		}
	}
}

func TestMaximized_EveryWindowFillsArea(t *testing.T) {
	l := &Maximized{Borders: 0, Gaps: 6}
	rec := &recorder{}
	l.Reload(rec, []platform.WindowID{1, 2, 3}, screen)

	r := platform.Rect{X: 6, Y: 6, Width: 1268, Height: 788}
	want := []move{{Win: 1, Rect: r}, {Win: 2, Rect: r}, {Win: 3, Rect: r}}
	if diff := cmp.Diff(want, rec.moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestMaximized_NewWinOnlyTouchesNewWindow(t *testing.T) {
	l := &Maximized{}
	rec := &recorder{}
	l.NewWin(rec, []platform.WindowID{9, 1, 2}, screen)
	l.DelWin(rec, []platform.WindowID{1, 2}, 0, screen)

	want := []move{{Win: 9, Rect: screen}}
	if diff := cmp.Diff(want, rec.moves); diff != "" {
		t.Fatalf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestFloating_NeverMoves(t *testing.T) {
	l := &Floating{Borders: 4}
	rec := &recorder{}
	wins := []platform.WindowID{1, 2}
	l.NewWin(rec, wins, screen)
	l.Reload(rec, wins, screen)
	l.DelWin(rec, wins, 1, screen)
	l.ChangeWin(rec, wins, 0, screen)
	if len(rec.moves) != 0 {
		t.Fatalf("expected no moves, got %v", rec.moves)
	}
	if !l.AllowMotions() {
		t.Fatalf("expected floating layout to allow motions")
	}
}

func TestFromConfig(t *testing.T) {
	layouts, err := FromConfig([]config.Layout{
		{Name: "tall", Kind: config.LayoutTiling, Borders: 2, Gaps: 3, MasterFactor: 0.6},
		{Kind: config.LayoutMaximized},
		{Name: "free", Kind: config.LayoutFloating, Borders: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, l := range layouts {
		names = append(names, l.Name())
	}
	if diff := cmp.Diff([]string{"tall", "maximized", "free"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if layouts[0].BorderWidth() != 2 {
		t.Fatalf("expected tiling border 2, got %d", layouts[0].BorderWidth())
	}

	if _, err := FromConfig([]config.Layout{{Kind: "spiral"}}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := FromConfig(nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
