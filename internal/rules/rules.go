// Package rules decides where a new window goes based on its WM_CLASS.
package rules

import (
	"fmt"

	"github.com/1broseidon/lapin/internal/config"
)

// Effect is what a matching rule does to a window.
type Effect int

const (
	// SendToWorkspace places the window on Rule.Workspace.
	SendToWorkspace Effect = iota
	Float
	Fullscreen
)

func (e Effect) String() string {
	switch e {
	case SendToWorkspace:
		return config.ApplyWorkspace
	case Float:
		return config.ApplyFloat
	case Fullscreen:
		return config.ApplyFullscreen
	default:
		return fmt.Sprintf("effect(%d)", int(e))
	}
}

// Rule matches windows whose instance or class name equals Class.
type Rule struct {
	Class  string
	Effect Effect
	// Workspace is 0-based and only used by SendToWorkspace.
	Workspace int
}

// Placement is the outcome of running the rules for one window.
type Placement struct {
	Border     bool
	Floating   bool
	Fullscreen bool
	Workspace  int
}

// Apply runs every rule in order against the two WM_CLASS strings. Later
// matches override earlier ones. current is the workspace used when no rule
// names one.
func Apply(rules []Rule, instance, class string, current int) Placement {
	p := Placement{Border: true, Workspace: current}
	for _, r := range rules {
		if r.Class != instance && r.Class != class {
			continue
		}
		switch r.Effect {
		case SendToWorkspace:
			p.Workspace = r.Workspace
		case Float:
			p.Floating = true
		case Fullscreen:
			p.Fullscreen = true
			p.Floating = true
			p.Border = false
		}
	}
	return p
}

// FromConfig converts configured rules. Workspace numbers in the file are
// 1-based.
func FromConfig(rules []config.Rule) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		rule := Rule{Class: r.Class}
		switch r.Apply {
		case config.ApplyWorkspace:
			if r.Workspace < 1 {
				return nil, fmt.Errorf("rules[%d]: workspace must be >= 1", i)
			}
			rule.Effect = SendToWorkspace
			rule.Workspace = r.Workspace - 1
		case config.ApplyFloat:
			rule.Effect = Float
		case config.ApplyFullscreen:
			rule.Effect = Fullscreen
		default:
			return nil, fmt.Errorf("rules[%d]: unknown apply %q", i, r.Apply)
		}
		out = append(out, rule)
	}
	return out, nil
}
