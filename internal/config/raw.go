package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "keybinds.yaml"
//	  - "conf.d"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

// RawConfig is one file as written. Scalars are pointers so that a file can
// override a single field of what it includes; lists replace wholesale.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Workspaces       []string    `yaml:"workspaces"`
	MouseModifier    *string     `yaml:"mouse_modifier"`
	BorderColor      *Color      `yaml:"border_color"`
	FocusBorderColor *Color      `yaml:"focus_border_color"`
	BorderWidth      *int        `yaml:"border_width"`
	ReservedSpace    *RawMargins `yaml:"reserved_space"`
	HoverRaises      *bool       `yaml:"hover_raises"`
	FocusDebounceMS  *int        `yaml:"focus_debounce_ms"`
	Layouts          []Layout    `yaml:"layouts"`
	Rules            []Rule      `yaml:"rules"`
	Keybinds         []Keybind   `yaml:"keybinds"`
	ExtraKeybinds    []Keybind   `yaml:"extra_keybinds"` // appended instead of replacing
	Autostart        []string    `yaml:"autostart"`
	EnvFile          *string     `yaml:"env_file"`
	LogLevel         *string     `yaml:"log_level"`
}

func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r
	out.Include = nil

	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.MouseModifier != nil {
		out.MouseModifier = overlay.MouseModifier
	}
	if overlay.BorderColor != nil {
		out.BorderColor = overlay.BorderColor
	}
	if overlay.FocusBorderColor != nil {
		out.FocusBorderColor = overlay.FocusBorderColor
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.ReservedSpace != nil {
		out.ReservedSpace = mergeMargins(out.ReservedSpace, overlay.ReservedSpace)
	}
	if overlay.HoverRaises != nil {
		out.HoverRaises = overlay.HoverRaises
	}
	if overlay.FocusDebounceMS != nil {
		out.FocusDebounceMS = overlay.FocusDebounceMS
	}
	if overlay.Layouts != nil {
		out.Layouts = overlay.Layouts
	}
	if overlay.Rules != nil {
		out.Rules = overlay.Rules
	}
	if overlay.Keybinds != nil {
		out.Keybinds = overlay.Keybinds
	}
	if overlay.ExtraKeybinds != nil {
		out.ExtraKeybinds = append(append([]Keybind(nil), out.ExtraKeybinds...), overlay.ExtraKeybinds...)
	}
	if overlay.Autostart != nil {
		out.Autostart = overlay.Autostart
	}
	if overlay.EnvFile != nil {
		out.EnvFile = overlay.EnvFile
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	return out
}

func mergeMargins(base *RawMargins, overlay *RawMargins) *RawMargins {
	if base == nil {
		copied := *overlay
		return &copied
	}
	out := *base
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return &out
}
