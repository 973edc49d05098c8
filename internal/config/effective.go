package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig overlays a merged raw config on the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Workspaces != nil {
		cfg.Workspaces = raw.Workspaces
	}
	if raw.MouseModifier != nil {
		cfg.MouseModifier = *raw.MouseModifier
	}
	if raw.BorderColor != nil {
		cfg.BorderColor = *raw.BorderColor
	}
	if raw.FocusBorderColor != nil {
		cfg.FocusBorderColor = *raw.FocusBorderColor
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.ReservedSpace != nil {
		cfg.ReservedSpace.Top = derefInt(raw.ReservedSpace.Top, cfg.ReservedSpace.Top)
		cfg.ReservedSpace.Bottom = derefInt(raw.ReservedSpace.Bottom, cfg.ReservedSpace.Bottom)
		cfg.ReservedSpace.Left = derefInt(raw.ReservedSpace.Left, cfg.ReservedSpace.Left)
		cfg.ReservedSpace.Right = derefInt(raw.ReservedSpace.Right, cfg.ReservedSpace.Right)
	}
	if raw.HoverRaises != nil {
		cfg.HoverRaises = *raw.HoverRaises
	}
	if raw.FocusDebounceMS != nil {
		cfg.FocusDebounceMS = *raw.FocusDebounceMS
	}
	if raw.Layouts != nil {
		cfg.Layouts = append([]Layout(nil), raw.Layouts...)
	}
	if raw.Rules != nil {
		cfg.Rules = append([]Rule(nil), raw.Rules...)
	}
	if raw.Keybinds != nil {
		cfg.Keybinds = append([]Keybind(nil), raw.Keybinds...)
	} else {
		cfg.Keybinds = DefaultKeybinds(len(cfg.Workspaces))
	}
	cfg.Keybinds = append(cfg.Keybinds, raw.ExtraKeybinds...)
	if raw.Autostart != nil {
		cfg.Autostart = raw.Autostart
	}
	if raw.EnvFile != nil {
		path, err := expandHome(*raw.EnvFile)
		if err != nil {
			return nil, &ValidationError{Path: "env_file", Err: err}
		}
		cfg.EnvFile = path
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}

	for i := range cfg.Layouts {
		if cfg.Layouts[i].Kind == LayoutTiling && cfg.Layouts[i].MasterFactor == 0 {
			cfg.Layouts[i].MasterFactor = 0.5
		}
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
