// Package command parses the textual actions shared by keybinds, the IPC
// socket and the MCP tools.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknown is returned for an action name that is not in the catalog.
var ErrUnknown = errors.New("unknown command")

// Name identifies an action.
type Name string

const (
	Quit                Name = "quit"
	Reload              Name = "reload"
	Kill                Name = "kill"
	Spawn               Name = "spawn"
	NextWindow          Name = "next-window"
	PrevWindow          Name = "prev-window"
	NextLayout          Name = "next-layout"
	PrevLayout          Name = "prev-layout"
	Workspace           Name = "workspace"
	SendToWorkspace     Name = "send-to-workspace"
	RotateUp            Name = "rotate-up"
	RotateDown          Name = "rotate-down"
	SwapNext            Name = "swap-next"
	SwapPrev            Name = "swap-prev"
	ChangeMaster        Name = "change-master"
	ToggleReservedSpace Name = "toggle-reserved-space"
	ToggleFloat         Name = "toggle-float"
	Fullscreen          Name = "fullscreen"
	NextScreen          Name = "next-screen"
	PrevScreen          Name = "prev-screen"
	SendToNextScreen    Name = "send-to-next-screen"
	SendToPrevScreen    Name = "send-to-prev-screen"
)

type argKind int

const (
	argNone argKind = iota
	argIndex
	argCommand
)

// Spec describes one accepted action.
type Spec struct {
	Name Name   `json:"name"`
	Arg  string `json:"arg,omitempty"`
	Help string `json:"help"`

	kind argKind
}

var catalog = []Spec{
	{Name: Quit, Help: "stop the window manager", kind: argNone},
	{Name: Reload, Help: "re-read the configuration file", kind: argNone},
	{Name: Kill, Help: "close the focused window", kind: argNone},
	{Name: Spawn, Arg: "<program> [args...]", Help: "start a program (no shell)", kind: argCommand},
	{Name: NextWindow, Help: "focus the next window of the workspace", kind: argNone},
	{Name: PrevWindow, Help: "focus the previous window of the workspace", kind: argNone},
	{Name: NextLayout, Help: "switch to the next layout", kind: argNone},
	{Name: PrevLayout, Help: "switch to the previous layout", kind: argNone},
	{Name: Workspace, Arg: "<n>", Help: "show workspace n (1-based)", kind: argIndex},
	{Name: SendToWorkspace, Arg: "<n>", Help: "move the focused window to workspace n (1-based)", kind: argIndex},
	{Name: RotateUp, Help: "rotate the tiled windows up", kind: argNone},
	{Name: RotateDown, Help: "rotate the tiled windows down", kind: argNone},
	{Name: SwapNext, Help: "swap the focused slave with the next slave", kind: argNone},
	{Name: SwapPrev, Help: "swap the focused slave with the previous slave", kind: argNone},
	{Name: ChangeMaster, Help: "swap the focused window with the master", kind: argNone},
	{Name: ToggleReservedSpace, Help: "toggle the reserved screen margins", kind: argNone},
	{Name: ToggleFloat, Help: "move the focused window between tiled and floating", kind: argNone},
	{Name: Fullscreen, Help: "toggle fullscreen for the focused window", kind: argNone},
	{Name: NextScreen, Help: "focus the next screen", kind: argNone},
	{Name: PrevScreen, Help: "focus the previous screen", kind: argNone},
	{Name: SendToNextScreen, Help: "move the focused window to the next screen", kind: argNone},
	{Name: SendToPrevScreen, Help: "move the focused window to the previous screen", kind: argNone},
}

var byName = func() map[Name]Spec {
	m := make(map[Name]Spec, len(catalog))
	for _, s := range catalog {
		m[s.Name] = s
	}
	return m
}()

// Catalog returns every accepted action in a stable order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

// Action is a parsed command.
type Action struct {
	Name Name
	// Index is the 0-based workspace for Workspace and SendToWorkspace.
	Index int
	// Command is the program line for Spawn.
	Command string
}

// String renders the action in the form Parse accepts.
func (a Action) String() string {
	switch byName[a.Name].kind {
	case argIndex:
		return fmt.Sprintf("%s %d", a.Name, a.Index+1)
	case argCommand:
		return fmt.Sprintf("%s %s", a.Name, a.Command)
	default:
		return string(a.Name)
	}
}

// Parse reads an action such as "workspace 3" or "spawn xterm -e htop".
func Parse(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty command")
	}

	spec, ok := byName[Name(strings.ToLower(fields[0]))]
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknown, fields[0])
	}
	args := fields[1:]
	action := Action{Name: spec.Name}

	switch spec.kind {
	case argNone:
		if len(args) != 0 {
			return Action{}, fmt.Errorf("%s takes no arguments", spec.Name)
		}
	case argIndex:
		if len(args) != 1 {
			return Action{}, fmt.Errorf("%s expects a workspace number", spec.Name)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Action{}, fmt.Errorf("%s: invalid workspace %q", spec.Name, args[0])
		}
		action.Index = n - 1
	case argCommand:
		if len(args) == 0 {
			return Action{}, fmt.Errorf("%s expects a program", spec.Name)
		}
		action.Command = strings.Join(args, " ")
	}
	return action, nil
}
