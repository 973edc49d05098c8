// Package hotkeys maps grabbed key chords to window manager actions.
package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/platform"
)

// modifierBits covers Shift, Lock, Control and Mod1..Mod5. Pointer button
// bits above them are never part of a chord.
const modifierBits uint16 = 0x00ff

// Grabber is the part of the display backend that owns key grabs.
type Grabber interface {
	GrabKey(spec string) ([]platform.KeyChord, error)
	UngrabKeys()
	LockMask() uint16
}

// Binding pairs a key spec such as "Mod4-Shift-j" with its action.
type Binding struct {
	Keys   string
	Action command.Action
}

// Table is the keybind lookup used by the event loop.
type Table struct {
	bindings map[platform.KeyChord]command.Action
	lockMask uint16
}

// FromConfig parses the command of every configured keybind.
func FromConfig(binds []config.Keybind) ([]Binding, error) {
	out := make([]Binding, 0, len(binds))
	for i, b := range binds {
		action, err := command.Parse(b.Command)
		if err != nil {
			return nil, fmt.Errorf("keybinds[%d] (%s): %w", i, b.Keys, err)
		}
		out = append(out, Binding{Keys: b.Keys, Action: action})
	}
	return out, nil
}

// Register drops every existing grab, grabs each binding and returns the
// resulting table. A binding that cannot be grabbed is logged and skipped;
// the joined errors are returned alongside a usable table.
func Register(g Grabber, binds []Binding, logger *slog.Logger) (*Table, error) {
	g.UngrabKeys()

	t := &Table{
		bindings: make(map[platform.KeyChord]command.Action, len(binds)),
		lockMask: g.LockMask(),
	}

	var errs []error
	for _, b := range binds {
		chords, err := g.GrabKey(b.Keys)
		if err != nil {
			logger.Warn("keybind not registered", "keys", b.Keys, "action", b.Action.String(), "error", err)
			errs = append(errs, err)
		}
		for _, c := range chords {
			c.Mods = t.normalize(c.Mods)
			if prev, dup := t.bindings[c]; dup {
				logger.Warn("keybind overrides earlier binding", "keys", b.Keys, "previous", prev.String())
			}
			t.bindings[c] = b.Action
		}
	}
	return t, errors.Join(errs...)
}

// Lookup finds the action for a key press, ignoring lock modifiers and
// pointer button state.
func (t *Table) Lookup(state uint16, keycode byte) (command.Action, bool) {
	if t == nil {
		return command.Action{}, false
	}
	action, ok := t.bindings[platform.KeyChord{Mods: t.normalize(state), Keycode: keycode}]
	return action, ok
}

// Len reports the number of grabbed chords.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

func (t *Table) normalize(state uint16) uint16 {
	return state & modifierBits &^ t.lockMask
}
