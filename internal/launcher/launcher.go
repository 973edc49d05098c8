// Package launcher starts programs on behalf of the window manager.
package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
)

// Launcher spawns programs without a shell. Command lines are split on
// whitespace, so quoting is not interpreted.
type Launcher struct {
	envFile string
	logger  *slog.Logger
}

func New(envFile string, logger *slog.Logger) *Launcher {
	return &Launcher{envFile: envFile, logger: logger}
}

// Spawn starts line in its own session and reaps it in the background.
func (l *Launcher) Spawn(line string) error {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = l.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", argv[0], err)
	}
	l.logger.Debug("spawned", "command", line, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("spawned program exited", "command", argv[0], "error", err)
		}
	}()
	return nil
}

// Environ is the process environment with the env file laid over it. The
// file is re-read on every call so edits apply to the next spawn.
func (l *Launcher) Environ() []string {
	env := os.Environ()
	if l.envFile == "" {
		return env
	}

	vars, err := godotenv.Read(l.envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("failed to read env file", "path", l.envFile, "error", err)
		}
		return env
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env)+len(vars))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		if _, overridden := vars[name]; overridden {
			continue
		}
		out = append(out, kv)
	}
	for _, k := range keys {
		out = append(out, k+"="+vars[k])
	}
	return out
}
