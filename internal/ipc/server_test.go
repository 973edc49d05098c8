package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/wm"
	"github.com/google/go-cmp/cmp"
)

type fakeController struct {
	mu       sync.Mutex
	executed []string
	reloads  int
	execErr  error
}

func (f *fakeController) Status(context.Context) (wm.Status, error) {
	return wm.Status{
		CurrentScreen: 0,
		Windows:       2,
		Screens: []wm.ScreenStatus{{
			Width: 1280, Height: 800, CurrentWorkspace: 1,
			Workspaces: []wm.WorkspaceStatus{{Number: 1, Name: "web", Layout: "tiling", Managed: nil, Floating: nil}},
		}},
	}, nil
}

func (f *fakeController) Exec(_ context.Context, a command.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.execErr != nil {
		return f.execErr
	}
	f.executed = append(f.executed, a.String())
	return nil
}

func (f *fakeController) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

// startServer serves on a short socket path; unix socket paths are limited
// to about 100 bytes.
func startServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	dir, err := os.MkdirTemp("", "lapin-ipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "s.sock")

	srv := NewServer(path, ctrl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("socket not removed on shutdown: %v", err)
		}
	})
	return NewClientWithPath(path)
}

func TestStatusRoundTrip(t *testing.T) {
	c := startServer(t, &fakeController{})

	st, err := c.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Windows != 2 || len(st.Screens) != 1 || st.Screens[0].Workspaces[0].Name != "web" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestExecParsesAndForwards(t *testing.T) {
	ctrl := &fakeController{}
	c := startServer(t, ctrl)

	for _, line := range []string{"workspace 3", "spawn xterm -e htop", "next-window"} {
		if err := c.Exec(line); err != nil {
			t.Fatalf("Exec(%q): %v", line, err)
		}
	}
	want := []string{"workspace 3", "spawn xterm -e htop", "next-window"}
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if diff := cmp.Diff(want, ctrl.executed); diff != "" {
		t.Fatalf("executed mismatch (-want +got):\n%s", diff)
	}
}

func TestExecErrors(t *testing.T) {
	ctrl := &fakeController{}
	c := startServer(t, ctrl)

	if err := c.Exec("teleport"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	ctrl.mu.Lock()
	ctrl.execErr = errors.New("workspace 12 does not exist")
	ctrl.mu.Unlock()
	if err := c.Exec("workspace 12"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected controller error, got %v", err)
	}
}

func TestReloadAndActions(t *testing.T) {
	ctrl := &fakeController{}
	c := startServer(t, ctrl)

	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	ctrl.mu.Lock()
	reloads := ctrl.reloads
	ctrl.mu.Unlock()
	if reloads != 1 {
		t.Fatalf("expected one reload, got %d", reloads)
	}

	actions, err := c.Actions()
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != len(command.Catalog()) {
		t.Fatalf("expected %d actions, got %d", len(command.Catalog()), len(actions))
	}
	if actions[0].Name != command.Catalog()[0].Name {
		t.Fatalf("unexpected first action %q", actions[0].Name)
	}
}

func TestListenRefusesLiveSocket(t *testing.T) {
	c := startServer(t, &fakeController{})

	second := NewServer(c.socketPath, &fakeController{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := second.Listen(); !errors.Is(err, ErrSocketInUse) {
		t.Fatalf("expected ErrSocketInUse, got %v", err)
	}
}

func TestParseRequest(t *testing.T) {
	if _, err := ParseRequest([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("expected error for missing command")
	}
	req, err := ParseRequest([]byte(`{"command":"EXEC","payload":{"action":"quit"}}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != CommandExec {
		t.Fatalf("command = %q", req.Command)
	}
}

func TestClientWithoutServer(t *testing.T) {
	c := NewClientWithPath(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}
