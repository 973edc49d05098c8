package hotkeys

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

const (
	mod4   uint16 = 1 << 6
	shift  uint16 = 1 << 0
	lock   uint16 = 1 << 1
	numLck uint16 = 1 << 4
)

type fakeGrabber struct {
	keys     map[string][]platform.KeyChord
	ungrabs  int
	grabbed  []string
	lockMask uint16
}

func (g *fakeGrabber) GrabKey(spec string) ([]platform.KeyChord, error) {
	chords, ok := g.keys[spec]
	if !ok {
		return nil, errors.New("no such key")
	}
	g.grabbed = append(g.grabbed, spec)
	return chords, nil
}

func (g *fakeGrabber) UngrabKeys()      { g.ungrabs++ }
func (g *fakeGrabber) LockMask() uint16 { return g.lockMask }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAndLookup(t *testing.T) {
	g := &fakeGrabber{
		lockMask: lock | numLck,
		keys: map[string][]platform.KeyChord{
			"Mod4-j":       {{Mods: mod4, Keycode: 44}},
			"Mod4-Shift-j": {{Mods: mod4 | shift, Keycode: 44}},
		},
	}
	binds, err := FromConfig([]config.Keybind{
		{Keys: "Mod4-j", Command: "next-window"},
		{Keys: "Mod4-Shift-j", Command: "swap-next"},
		{Keys: "Mod4-nosuchkey", Command: "quit"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table, err := Register(g, binds, discard())
	if err == nil {
		t.Fatalf("expected error for the unknown key")
	}
	if g.ungrabs != 1 {
		t.Fatalf("expected previous grabs to be dropped once, got %d", g.ungrabs)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 chords, got %d", table.Len())
	}

	tests := []struct {
		name  string
		state uint16
		want  command.Name
		found bool
	}{
		{name: "plain", state: mod4, want: command.NextWindow, found: true},
		{name: "with numlock and capslock", state: mod4 | numLck | lock, want: command.NextWindow, found: true},
		{name: "with button held", state: mod4 | platform.Button1Mask, want: command.NextWindow, found: true},
		{name: "shifted", state: mod4 | shift, want: command.SwapNext, found: true},
		{name: "missing modifier", state: 0, found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := table.Lookup(tt.state, 44)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if ok && action.Name != tt.want {
				t.Fatalf("action = %s, want %s", action.Name, tt.want)
			}
		})
	}
}

func TestFromConfig_RejectsBadCommand(t *testing.T) {
	_, err := FromConfig([]config.Keybind{{Keys: "Mod4-x", Command: "explode"}})
	if !errors.Is(err, command.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestNilTableLookup(t *testing.T) {
	var table *Table
	if _, ok := table.Lookup(mod4, 44); ok {
		t.Fatalf("expected nil table to match nothing")
	}
}
