package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/platform"
	"github.com/1broseidon/lapin/internal/wm"
	"github.com/google/go-cmp/cmp"
)

type fakeController struct {
	executed  []string
	reloadErr error
}

func (f *fakeController) Status() (*wm.Status, error) {
	return &wm.Status{
		Windows: 1,
		Screens: []wm.ScreenStatus{{
			Width: 1920, Height: 1080, CurrentWorkspace: 2,
			Workspaces: []wm.WorkspaceStatus{{
				Number: 2, Name: "code", Layout: "tiling",
				Managed: []platform.WindowID{0x200001}, Floating: []platform.WindowID{},
				Focused: 0x200001, RespectReserved: true,
			}},
		}},
	}, nil
}

func (f *fakeController) Exec(action string) error {
	f.executed = append(f.executed, action)
	return nil
}

func (f *fakeController) Reload() error { return f.reloadErr }

func (f *fakeController) Actions() ([]command.Spec, error) { return command.Catalog(), nil }

func connect(t *testing.T, ctrl Controller) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(ctrl, slog.New(slog.NewTextHandler(io.Discard, nil)))

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := srv.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

// decode re-marshals structured content into out.
func decode(t *testing.T, res *mcpsdk.CallToolResult, out any) {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
}

func TestListTools(t *testing.T) {
	session := connect(t, &fakeController{})
	res, err := session.ListTools(context.Background(), &mcpsdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	want := []string{"wm_actions", "wm_exec", "wm_reload", "wm_status"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusTool(t *testing.T) {
	session := connect(t, &fakeController{})
	res := callTool(t, session, "wm_status", nil)
	if res.IsError {
		t.Fatalf("wm_status returned error: %+v", res.Content)
	}
	var st wm.Status
	decode(t, res, &st)
	if st.Screens[0].Workspaces[0].Focused != 0x200001 || st.Screens[0].CurrentWorkspace != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestExecTool(t *testing.T) {
	ctrl := &fakeController{}
	session := connect(t, ctrl)

	res := callTool(t, session, "wm_exec", map[string]any{"action": " workspace 4 "})
	if res.IsError {
		t.Fatalf("wm_exec returned error: %+v", res.Content)
	}
	if diff := cmp.Diff([]string{"workspace 4"}, ctrl.executed); diff != "" {
		t.Fatalf("executed mismatch (-want +got):\n%s", diff)
	}

	res = callTool(t, session, "wm_exec", map[string]any{"action": "teleport"})
	if !res.IsError {
		t.Fatalf("expected tool error for unknown action")
	}
	if len(ctrl.executed) != 1 {
		t.Fatalf("invalid action reached the window manager: %v", ctrl.executed)
	}
}

func TestReloadToolError(t *testing.T) {
	session := connect(t, &fakeController{reloadErr: errors.New("rules[0].class: class is required")})
	res := callTool(t, session, "wm_reload", nil)
	if !res.IsError {
		t.Fatalf("expected tool error")
	}
}

func TestActionsTool(t *testing.T) {
	session := connect(t, &fakeController{})
	res := callTool(t, session, "wm_actions", nil)
	var out ActionsOutput
	decode(t, res, &out)
	if len(out.Actions) != len(command.Catalog()) {
		t.Fatalf("expected %d actions, got %d", len(command.Catalog()), len(out.Actions))
	}
	if out.Actions[0].Name != string(command.Catalog()[0].Name) {
		t.Fatalf("unexpected first action %+v", out.Actions[0])
	}
}
