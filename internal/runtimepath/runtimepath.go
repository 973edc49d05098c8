// Package runtimepath locates the per-user runtime files of lapin.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the control socket path when set.
const SocketEnv = "LAPIN_SOCKET"

// Dir returns the runtime directory, trying in order XDG_RUNTIME_DIR,
// /run/user/<uid> and a private directory under /tmp that is created on
// demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	runUser := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUser); err == nil && info.IsDir() {
		return runUser, nil
	}

	fallback := fmt.Sprintf("/tmp/lapin-runtime-%d", uid)
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return fallback, nil
}

// SocketPath returns the control socket path. Each X display gets its own
// socket so several sessions of one user do not collide.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName(os.Getenv("DISPLAY"))), nil
}

func socketName(display string) string {
	if display == "" {
		return "lapin.sock"
	}
	safe := make([]byte, 0, len(display))
	for i := 0; i < len(display); i++ {
		c := display[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-':
			safe = append(safe, c)
		default:
			safe = append(safe, '_')
		}
	}
	return "lapin-" + string(safe) + ".sock"
}
