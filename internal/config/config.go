package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/lapin/internal/command"
	"gopkg.in/yaml.v3"
)

// Margins is space kept free at the screen edges for panels and docks.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// Layout kinds.
const (
	LayoutTiling    = "tiling"
	LayoutMaximized = "maximized"
	LayoutFloating  = "floating"
)

// Layout configures one entry of the layout cycle.
type Layout struct {
	Name         string  `yaml:"name,omitempty"`
	Kind         string  `yaml:"kind"`
	Borders      int     `yaml:"borders"`
	Gaps         int     `yaml:"gaps"`
	MasterFactor float64 `yaml:"master_factor,omitempty"` // tiling only, in (0, 1)
}

// Rule effects.
const (
	ApplyWorkspace  = "workspace"
	ApplyFloat      = "float"
	ApplyFullscreen = "fullscreen"
)

// Rule applies an effect to windows whose WM_CLASS instance or class equals Class.
type Rule struct {
	Class     string `yaml:"class"`
	Apply     string `yaml:"apply"`
	Workspace int    `yaml:"workspace,omitempty"` // 1-based
}

// Keybind binds a key spec such as "Mod4-Shift-j" to a command line.
type Keybind struct {
	Keys    string `yaml:"keys"`
	Command string `yaml:"command"`
}

// Color is a 32-bit border pixel value. In YAML it is written as #rrggbb,
// #aarrggbb or 0xaarrggbb.
type Color uint32

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	var digits string
	switch {
	case strings.HasPrefix(s, "#"):
		digits = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits = s[2:]
	default:
		return 0, fmt.Errorf("color %q must start with # or 0x", s)
	}
	if len(digits) != 6 && len(digits) != 8 {
		return 0, fmt.Errorf("color %q must have 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(digits) == 6 {
		v |= 0xff000000
	}
	return Color(v), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// Config is the effective window manager configuration.
type Config struct {
	Workspaces       []string  `yaml:"workspaces"`
	MouseModifier    string    `yaml:"mouse_modifier"`
	BorderColor      Color     `yaml:"border_color"`
	FocusBorderColor Color     `yaml:"focus_border_color"`
	BorderWidth      int       `yaml:"border_width"` // floating windows
	ReservedSpace    Margins   `yaml:"reserved_space"`
	HoverRaises      bool      `yaml:"hover_raises"`
	FocusDebounceMS  int       `yaml:"focus_debounce_ms"`
	Layouts          []Layout  `yaml:"layouts"`
	Rules            []Rule    `yaml:"rules"`
	Keybinds         []Keybind `yaml:"keybinds"`
	Autostart        []string  `yaml:"autostart"`
	EnvFile          string    `yaml:"env_file"`
	LogLevel         string    `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	workspaces := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	return &Config{
		Workspaces:       workspaces,
		MouseModifier:    "Mod4",
		BorderColor:      0xff000000,
		FocusBorderColor: 0xffffffff,
		BorderWidth:      4,
		FocusDebounceMS:  100,
		Layouts: []Layout{
			{Name: LayoutTiling, Kind: LayoutTiling, Borders: 4, Gaps: 4, MasterFactor: 0.5},
			{Name: LayoutMaximized, Kind: LayoutMaximized},
			{Name: LayoutFloating, Kind: LayoutFloating, Borders: 4},
		},
		Keybinds:  DefaultKeybinds(len(workspaces)),
		Autostart: []string{},
		Rules:     []Rule{},
		EnvFile:   defaultEnvFile(),
		LogLevel:  "info",
	}
}

// DefaultKeybinds returns the built-in key table. Digit binds are generated
// for the first workspaces, up to nine.
func DefaultKeybinds(workspaces int) []Keybind {
	binds := []Keybind{
		{Keys: "Mod4-Return", Command: "spawn xterm"},
		{Keys: "Mod4-Shift-c", Command: "kill"},
		{Keys: "Mod4-j", Command: "next-window"},
		{Keys: "Mod4-k", Command: "prev-window"},
		{Keys: "Mod4-space", Command: "next-layout"},
		{Keys: "Mod4-Shift-space", Command: "prev-layout"},
		{Keys: "Mod4-Shift-j", Command: "swap-next"},
		{Keys: "Mod4-Shift-k", Command: "swap-prev"},
		{Keys: "Mod4-Up", Command: "rotate-up"},
		{Keys: "Mod4-Down", Command: "rotate-down"},
		{Keys: "Mod4-Shift-Return", Command: "change-master"},
		{Keys: "Mod4-f", Command: "fullscreen"},
		{Keys: "Mod4-t", Command: "toggle-float"},
		{Keys: "Mod4-b", Command: "toggle-reserved-space"},
		{Keys: "Mod4-period", Command: "next-screen"},
		{Keys: "Mod4-comma", Command: "prev-screen"},
		{Keys: "Mod4-Shift-period", Command: "send-to-next-screen"},
		{Keys: "Mod4-Shift-comma", Command: "send-to-prev-screen"},
		{Keys: "Mod4-Shift-r", Command: "reload"},
		{Keys: "Mod4-Shift-q", Command: "quit"},
	}
	for i := 1; i <= min(workspaces, 9); i++ {
		binds = append(binds,
			Keybind{Keys: fmt.Sprintf("Mod4-%d", i), Command: fmt.Sprintf("workspace %d", i)},
			Keybind{Keys: fmt.Sprintf("Mod4-Shift-%d", i), Command: fmt.Sprintf("send-to-workspace %d", i)},
		)
	}
	return binds
}

func defaultEnvFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lapin", "env")
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspaces must not be empty")}
	}
	for i, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces[%d]", i), Err: fmt.Errorf("workspace name must not be empty")}
		}
	}
	if strings.TrimSpace(c.MouseModifier) == "" {
		return &ValidationError{Path: "mouse_modifier", Err: fmt.Errorf("mouse_modifier is required")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if c.ReservedSpace.Top < 0 || c.ReservedSpace.Bottom < 0 || c.ReservedSpace.Left < 0 || c.ReservedSpace.Right < 0 {
		return &ValidationError{Path: "reserved_space", Err: fmt.Errorf("reserved_space values must be >= 0")}
	}
	if c.FocusDebounceMS < 0 {
		return &ValidationError{Path: "focus_debounce_ms", Err: fmt.Errorf("focus_debounce_ms must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	for i := range c.Layouts {
		if err := validateLayout(&c.Layouts[i]); err != nil {
			return &ValidationError{Path: fmt.Sprintf("layouts[%d]", i), Err: err}
		}
	}

	for i, r := range c.Rules {
		path := fmt.Sprintf("rules[%d]", i)
		if strings.TrimSpace(r.Class) == "" {
			return &ValidationError{Path: path + ".class", Err: fmt.Errorf("class is required")}
		}
		switch r.Apply {
		case ApplyWorkspace:
			if r.Workspace < 1 || r.Workspace > len(c.Workspaces) {
				return &ValidationError{Path: path + ".workspace", Err: fmt.Errorf("workspace must be between 1 and %d", len(c.Workspaces))}
			}
		case ApplyFloat, ApplyFullscreen:
		default:
			return &ValidationError{Path: path + ".apply", Err: fmt.Errorf("apply must be one of: workspace, float, fullscreen")}
		}
	}

	for i, k := range c.Keybinds {
		path := fmt.Sprintf("keybinds[%d]", i)
		if strings.TrimSpace(k.Keys) == "" {
			return &ValidationError{Path: path + ".keys", Err: fmt.Errorf("keys is required")}
		}
		if err := checkCommand(k.Command, len(c.Workspaces)); err != nil {
			return &ValidationError{Path: path + ".command", Err: err}
		}
	}

	for i, line := range c.Autostart {
		if strings.TrimSpace(line) == "" {
			return &ValidationError{Path: fmt.Sprintf("autostart[%d]", i), Err: fmt.Errorf("command must not be empty")}
		}
	}

	return nil
}

// validateLayout checks one layout entry and fills in its name.
func validateLayout(layout *Layout) error {
	switch layout.Kind {
	case LayoutTiling:
		if layout.MasterFactor <= 0 || layout.MasterFactor >= 1 {
			return fmt.Errorf("master_factor must be between 0 and 1 (exclusive)")
		}
	case LayoutMaximized, LayoutFloating:
	default:
		return fmt.Errorf("invalid kind %q", layout.Kind)
	}
	if layout.Borders < 0 {
		return fmt.Errorf("borders must be >= 0")
	}
	if layout.Gaps < 0 {
		return fmt.Errorf("gaps must be >= 0")
	}
	if layout.Name == "" {
		layout.Name = layout.Kind
	}
	return nil
}

func checkCommand(line string, workspaces int) error {
	action, err := command.Parse(line)
	if err != nil {
		return err
	}
	switch action.Name {
	case command.Workspace, command.SendToWorkspace:
		if action.Index >= workspaces {
			return fmt.Errorf("%s: workspace %d does not exist", action.Name, action.Index+1)
		}
	}
	return nil
}
