package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Chord is one grabbed modifier mask and keycode pair.
type Chord struct {
	Mods    uint16
	Keycode xproto.Keycode
}

var modifierAliases = map[string]string{
	"super":   "mod4",
	"win":     "mod4",
	"alt":     "mod1",
	"meta":    "mod1",
	"ctrl":    "control",
	"numlock": "mod2",
}

// NormalizeKeySpec rewrites friendly modifier names (super, alt, ctrl) into
// the names keybind.ParseString understands. The key itself is untouched.
func NormalizeKeySpec(spec string) string {
	parts := strings.Split(strings.TrimSpace(spec), "-")
	for i := 0; i < len(parts)-1; i++ {
		lower := strings.ToLower(parts[i])
		if alias, ok := modifierAliases[lower]; ok {
			parts[i] = alias
		} else {
			parts[i] = lower
		}
	}
	return strings.Join(parts, "-")
}

// GrabKey parses spec and grabs every resulting keycode on the root window,
// once per ignored lock modifier combination.
func (c *Connection) GrabKey(spec string) ([]Chord, error) {
	mods, codes, err := keybind.ParseString(c.XUtil, NormalizeKeySpec(spec))
	if err != nil {
		return nil, fmt.Errorf("parse key %q: %w", spec, err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("key %q has no keycode on this keyboard", spec)
	}

	chords := make([]Chord, 0, len(codes))
	for _, code := range codes {
		if err := keybind.GrabChecked(c.XUtil, c.Root, mods, code); err != nil {
			return chords, fmt.Errorf("grab %q: %w", spec, err)
		}
		chords = append(chords, Chord{Mods: mods, Keycode: code})
	}
	return chords, nil
}

// UngrabKeys releases every key grab on the root window.
func (c *Connection) UngrabKeys() {
	xproto.UngrabKey(c.XUtil.Conn(), xproto.GrabAny, c.Root, xproto.ModMaskAny)
}

// UngrabMouse releases every button grab on the root window.
func (c *Connection) UngrabMouse() {
	xproto.UngrabButton(c.XUtil.Conn(), xproto.ButtonIndexAny, c.Root, xproto.ModMaskAny)
}

// GrabMouse grabs every pointer button combined with modifier on the root
// window so that move and resize drags reach the window manager. Call
// UngrabMouse first when replacing an earlier modifier.
func (c *Connection) GrabMouse(modifier string) error {
	mods, _, err := mousebind.ParseString(c.XUtil, NormalizeKeySpec(modifier+"-1"))
	if err != nil {
		return fmt.Errorf("parse mouse modifier %q: %w", modifier, err)
	}

	const eventMask = xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion
	for _, ignore := range xevent.IgnoreMods {
		err := xproto.GrabButtonChecked(c.XUtil.Conn(), false, c.Root, eventMask,
			xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
			xproto.ButtonIndexAny, mods|ignore).Check()
		if err != nil {
			return fmt.Errorf("grab buttons with %q: %w", modifier, err)
		}
	}
	return nil
}

// LockMask is the union of lock modifiers ignored when matching key chords.
func (c *Connection) LockMask() uint16 {
	return c.lockMask
}

// RefreshKeyboard reloads the keyboard and modifier maps after a
// MappingNotify and recomputes the ignored lock modifiers.
func (c *Connection) RefreshKeyboard() {
	keyMap, modMap := keybind.MapsGet(c.XUtil)
	keybind.KeyMapSet(c.XUtil, keyMap)
	keybind.ModMapSet(c.XUtil, modMap)
	c.configureIgnoreMods()
}

func (c *Connection) configureIgnoreMods() {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(c.XUtil, "Num_Lock")
	scrollLock := modMaskForKeysym(c.XUtil, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	var all uint16
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
		all |= mask
	}

	xevent.IgnoreMods = ignore
	c.lockMask = all
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
