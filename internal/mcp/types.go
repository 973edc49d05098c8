package mcp

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// ExecInput is the input for the wm_exec tool.
type ExecInput struct {
	Action string `json:"action" jsonschema:"Action line, for example 'workspace 2', 'next-window' or 'spawn xterm'. Call wm_actions for the full list."`
}

// ExecOutput is the output for the wm_exec tool.
type ExecOutput struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
}

// ReloadOutput is the output for the wm_reload tool.
type ReloadOutput struct {
	Reloaded bool `json:"reloaded"`
}

// ActionInfo describes one action accepted by wm_exec.
type ActionInfo struct {
	Name string `json:"name"`
	Arg  string `json:"arg,omitempty"`
	Help string `json:"help"`
}

// ActionsOutput is the output for the wm_actions tool.
type ActionsOutput struct {
	Actions []ActionInfo `json:"actions"`
}
