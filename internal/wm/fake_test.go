package wm

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

const testRoot platform.WindowID = 1

// fakeBackend records every request and answers queries from maps.
type fakeBackend struct {
	monitors []platform.Rect
	setupErr error

	override   map[platform.WindowID]bool
	classes    map[platform.WindowID][2]string
	geometry   map[platform.WindowID]platform.Rect
	fullscreen map[platform.WindowID]bool

	keycodes map[string]byte
	mouse    []string

	mapped      map[platform.WindowID]bool
	rects       map[platform.WindowID]platform.Rect
	borderWidth map[platform.WindowID]int
	borderColor map[platform.WindowID]uint32
	netState    map[platform.WindowID]bool
	desktops    map[platform.WindowID]int
	focused     platform.WindowID
	raised      []platform.WindowID
	closed      []platform.WindowID
	configured  []platform.ConfigureRequest
	clientList  []platform.WindowID
	current     int
	requests    int
}

func newFakeBackend(monitors ...platform.Rect) *fakeBackend {
	return &fakeBackend{
		monitors:    monitors,
		override:    map[platform.WindowID]bool{},
		classes:     map[platform.WindowID][2]string{},
		geometry:    map[platform.WindowID]platform.Rect{},
		fullscreen:  map[platform.WindowID]bool{},
		keycodes:    map[string]byte{},
		mapped:      map[platform.WindowID]bool{},
		rects:       map[platform.WindowID]platform.Rect{},
		borderWidth: map[platform.WindowID]int{},
		borderColor: map[platform.WindowID]uint32{},
		netState:    map[platform.WindowID]bool{},
		desktops:    map[platform.WindowID]int{},
	}
}

func (f *fakeBackend) Root() platform.WindowID { return testRoot }

func (f *fakeBackend) Monitors() ([]platform.Rect, error) { return f.monitors, nil }

func (f *fakeBackend) Setup(platform.SetupOptions) error { return f.setupErr }

// GrabKey hands out one keycode per distinct spec, with Mod4 as the modifier.
func (f *fakeBackend) GrabKey(spec string) ([]platform.KeyChord, error) {
	kc, ok := f.keycodes[spec]
	if !ok {
		kc = byte(10 + len(f.keycodes))
		f.keycodes[spec] = kc
	}
	return []platform.KeyChord{{Mods: 0x40, Keycode: kc}}, nil
}

func (f *fakeBackend) UngrabKeys()      {}
func (f *fakeBackend) LockMask() uint16 { return 0x10 }

func (f *fakeBackend) GrabMouse(modifier string) error {
	f.mouse = append(f.mouse, modifier)
	return nil
}

func (f *fakeBackend) UngrabMouse() { f.mouse = nil }

func (f *fakeBackend) OverrideRedirect(w platform.WindowID) (bool, error) {
	return f.override[w], nil
}

func (f *fakeBackend) WindowClass(w platform.WindowID) (string, string, error) {
	c, ok := f.classes[w]
	if !ok {
		return "", "", fmt.Errorf("no WM_CLASS on %d", w)
	}
	return c[0], c[1], nil
}

func (f *fakeBackend) Geometry(w platform.WindowID) (platform.Rect, error) {
	if r, ok := f.rects[w]; ok {
		return r, nil
	}
	if r, ok := f.geometry[w]; ok {
		return r, nil
	}
	return platform.Rect{}, fmt.Errorf("no geometry for %d", w)
}

func (f *fakeBackend) FullscreenState(w platform.WindowID) (bool, error) {
	return f.fullscreen[w], nil
}

func (f *fakeBackend) Watch(platform.WindowID) { f.requests++ }

func (f *fakeBackend) SetBorderWidth(w platform.WindowID, width int) {
	f.requests++
	f.borderWidth[w] = width
}

func (f *fakeBackend) SetBorderColor(w platform.WindowID, color uint32) {
	f.requests++
	f.borderColor[w] = color
}

func (f *fakeBackend) MoveResize(w platform.WindowID, r platform.Rect) {
	f.requests++
	f.rects[w] = r
}

func (f *fakeBackend) Move(w platform.WindowID, x, y int) {
	f.requests++
	r := f.rects[w]
	r.X, r.Y = x, y
	f.rects[w] = r
}

func (f *fakeBackend) Resize(w platform.WindowID, width, height int) {
	f.requests++
	r := f.rects[w]
	r.Width, r.Height = width, height
	f.rects[w] = r
}

func (f *fakeBackend) Map(w platform.WindowID) {
	f.requests++
	f.mapped[w] = true
}

func (f *fakeBackend) Unmap(w platform.WindowID) {
	f.requests++
	f.mapped[w] = false
}

func (f *fakeBackend) Raise(w platform.WindowID) {
	f.requests++
	f.raised = append(f.raised, w)
}

func (f *fakeBackend) Focus(w platform.WindowID) {
	f.requests++
	f.focused = w
}

func (f *fakeBackend) Close(w platform.WindowID) {
	f.requests++
	f.closed = append(f.closed, w)
}

func (f *fakeBackend) Configure(req platform.ConfigureRequest) {
	f.requests++
	f.configured = append(f.configured, req)
}

func (f *fakeBackend) SetFullscreenState(w platform.WindowID, on bool) {
	f.requests++
	f.netState[w] = on
}

func (f *fakeBackend) SetClientList(windows []platform.WindowID) {
	f.clientList = slices.Clone(windows)
}

func (f *fakeBackend) SetCurrentDesktop(index int) { f.current = index }

func (f *fakeBackend) SetWindowDesktop(w platform.WindowID, index int) { f.desktops[w] = index }

var _ platform.Backend = (*fakeBackend)(nil)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSpawner struct{ lines []string }

func (s *fakeSpawner) Spawn(line string) error {
	s.lines = append(s.lines, line)
	return nil
}

var screen1280 = platform.Rect{Width: 1280, Height: 800}

type harness struct {
	m       *Manager
	b       *fakeBackend
	clock   *fakeClock
	spawner *fakeSpawner
}

func newHarness(t *testing.T, cfg *config.Config, monitors ...platform.Rect) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if len(monitors) == 0 {
		monitors = []platform.Rect{screen1280}
	}
	h := &harness{
		b:       newFakeBackend(monitors...),
		clock:   &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		spawner: &fakeSpawner{},
	}
	m, err := New(h.b, cfg, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Spawner: h.spawner,
		Now:     h.clock.now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.m = m
	return h
}

// mapWindows sends a map request per window, in order.
func (h *harness) mapWindows(ws ...platform.WindowID) {
	for _, w := range ws {
		h.m.handle(platform.MapRequest{Window: w})
	}
}

func (h *harness) exec(t *testing.T, line string) {
	t.Helper()
	if err := h.m.exec(mustParse(t, line)); err != nil {
		t.Fatalf("exec %q: %v", line, err)
	}
	checkInvariants(t, h.m)
}

// checkInvariants asserts window uniqueness and focus validity.
func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()
	seen := map[platform.WindowID]string{}
	for si, s := range m.screens {
		for wi, ws := range s.Workspaces {
			where := fmt.Sprintf("screen %d workspace %d", si, wi)
			for _, w := range ws.windows() {
				if prev, dup := seen[w]; dup {
					t.Fatalf("window %d tracked twice: %s and %s", w, prev, where)
				}
				seen[w] = where
			}
			if ws.Focused >= 0 && ws.Focused >= len(ws.ring(ws.FocusFloating)) {
				t.Fatalf("%s: focus %d out of range (floating=%v)", where, ws.Focused, ws.FocusFloating)
			}
			if ws.len() == 0 && ws.Focused != noFocus {
				t.Fatalf("%s: empty workspace has focus %d", where, ws.Focused)
			}
			if ws.len() > 0 && ws.Focused == noFocus {
				t.Fatalf("%s: non-empty workspace has no focus", where)
			}
		}
	}
}
