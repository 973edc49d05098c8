package x11

import "testing"

func TestNormalizeKeySpec(t *testing.T) {
	tests := map[string]string{
		"super-Shift-j":   "mod4-shift-j",
		"ctrl-alt-Return": "control-mod1-Return",
		"Mod4-1":          "mod4-1",
		"  win-Tab ":      "mod4-Tab",
		"F12":             "F12",
	}
	for in, want := range tests {
		if got := NormalizeKeySpec(in); got != want {
			t.Errorf("NormalizeKeySpec(%q) = %q, want %q", in, got, want)
		}
	}
}
