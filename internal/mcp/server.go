// Package mcp exposes the running window manager to MCP clients over stdio.
// Every tool is a thin proxy over the control socket.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/wm"
)

const (
	ServerName    = "lapin"
	ServerVersion = "0.1.0"
)

// Controller is the control socket client.
type Controller interface {
	Status() (*wm.Status, error)
	Exec(action string) error
	Reload() error
	Actions() ([]command.Spec, error)
}

// Server is the MCP server for window manager control.
type Server struct {
	mcpServer *mcpsdk.Server
	ctrl      Controller
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards to ctrl.
func NewServer(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		ctrl:   ctrl,
		logger: logger.With("component", "mcp"),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Report the screens, their workspaces, the windows on each workspace (tiled and floating) and which window has the focus. Workspace numbers are 1-based.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_exec",
		Description: "Run a window manager action such as 'workspace 3', 'send-to-workspace 2', 'next-layout', 'fullscreen' or 'spawn firefox'. Actions apply to the focused window and the current screen.",
	}, s.handleExec)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_reload",
		Description: "Re-read the configuration file. On error the running configuration stays active and the error is returned.",
	}, s.handleReload)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_actions",
		Description: "List every action accepted by wm_exec with its argument and a short description.",
	}, s.handleActions)
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, wm.Status, error) {
	st, err := s.ctrl.Status()
	if err != nil {
		return nil, wm.Status{}, err
	}
	return nil, *st, nil
}

func (s *Server) handleExec(_ context.Context, _ *mcpsdk.CallToolRequest, args ExecInput) (*mcpsdk.CallToolResult, ExecOutput, error) {
	line := strings.TrimSpace(args.Action)
	if line == "" {
		return nil, ExecOutput{}, fmt.Errorf("action is required")
	}
	// Reject bad input here so the error names the action list.
	if _, err := command.Parse(line); err != nil {
		return nil, ExecOutput{}, fmt.Errorf("%w (see wm_actions)", err)
	}
	s.logger.Info("exec", "action", line)
	if err := s.ctrl.Exec(line); err != nil {
		return nil, ExecOutput{}, err
	}
	return nil, ExecOutput{Action: line, OK: true}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ReloadOutput, error) {
	if err := s.ctrl.Reload(); err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Reloaded: true}, nil
}

func (s *Server) handleActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionsOutput, error) {
	specs, err := s.ctrl.Actions()
	if err != nil {
		return nil, ActionsOutput{}, err
	}
	out := ActionsOutput{Actions: make([]ActionInfo, 0, len(specs))}
	for _, spec := range specs {
		out.Actions = append(out.Actions, ActionInfo{Name: string(spec.Name), Arg: spec.Arg, Help: spec.Help})
	}
	return nil, out, nil
}
