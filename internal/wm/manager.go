// Package wm is the window manager core: the screen and workspace model, the
// event loop that owns it, and every command that changes it.
package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/hotkeys"
	"github.com/1broseidon/lapin/internal/layout"
	"github.com/1broseidon/lapin/internal/platform"
	"github.com/1broseidon/lapin/internal/rules"
)

// Name is published as _NET_WM_NAME on the supporting check window.
const Name = "lapin"

var (
	// ErrQuit is returned by Run after the quit command.
	ErrQuit = errors.New("quit requested")
	// ErrEventsClosed is returned by Run when the event stream ends.
	ErrEventsClosed = errors.New("event stream closed")
)

// Spawner starts external programs.
type Spawner interface {
	Spawn(line string) error
}

// Options holds the collaborators of a Manager. Zero values are replaced by
// usable defaults.
type Options struct {
	Logger  *slog.Logger
	Spawner Spawner
	// Now is the clock used for the focus debounce.
	Now func() time.Time
	// LoadConfig re-reads the configuration for the reload command.
	LoadConfig func() (*config.Config, error)
}

// Manager owns the window model. All mutation happens on the goroutine
// running Run; other goroutines go through Exec, Status and Reload.
type Manager struct {
	backend    platform.Backend
	logger     *slog.Logger
	spawner    Spawner
	now        func() time.Time
	loadConfig func() (*config.Config, error)

	cfg      *config.Config
	layouts  []layout.Layout
	rules    []rules.Rule
	binds    []hotkeys.Binding
	keys     *hotkeys.Table
	debounce time.Duration

	screens []Screen
	current int

	drag       *drag
	fullscreen map[platform.WindowID]restoreState
	// lastStructural is when windows were last mapped, unmapped or removed.
	// Enter events that follow it closely are stale.
	lastStructural time.Time

	requests chan func()
	quitting bool
	started  time.Time
}

// New validates cfg and prepares a Manager. Init must run before Run.
func New(backend platform.Backend, cfg *config.Config, opts Options) (*Manager, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := &Manager{
		backend:    backend,
		logger:     opts.Logger,
		spawner:    opts.Spawner,
		now:        opts.Now,
		loadConfig: opts.LoadConfig,
		fullscreen: make(map[platform.WindowID]restoreState),
		requests:   make(chan func()),
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if err := m.apply(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// apply swaps in everything derived from a configuration. Nothing changes
// when cfg is invalid.
func (m *Manager) apply(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	layouts, err := layout.FromConfig(cfg.Layouts)
	if err != nil {
		return err
	}
	ruleset, err := rules.FromConfig(cfg.Rules)
	if err != nil {
		return err
	}
	binds, err := hotkeys.FromConfig(cfg.Keybinds)
	if err != nil {
		return err
	}

	m.cfg = cfg
	m.layouts = layouts
	m.rules = ruleset
	m.binds = binds
	m.debounce = time.Duration(cfg.FocusDebounceMS) * time.Millisecond
	return nil
}

// Init takes over the root window, builds one screen per monitor, grabs the
// keybinds and the mouse modifier, publishes the EWMH identity and runs the
// autostart list.
func (m *Manager) Init() error {
	if err := m.backend.Setup(platform.SetupOptions{Name: Name, WorkspaceNames: m.cfg.Workspaces}); err != nil {
		return fmt.Errorf("failed to take over root window: %w", err)
	}

	monitors, err := m.backend.Monitors()
	if err != nil {
		return fmt.Errorf("failed to detect monitors: %w", err)
	}
	if len(monitors) == 0 {
		return errors.New("no monitors detected")
	}
	m.screens = make([]Screen, len(monitors))
	for i, r := range monitors {
		m.screens[i] = newScreen(r, m.cfg.Workspaces)
		m.logger.Info("screen detected", "screen", i, "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
	}
	m.current = 0

	m.grabKeys()
	if err := m.backend.GrabMouse(m.cfg.MouseModifier); err != nil {
		m.logger.Warn("mouse modifier not grabbed", "modifier", m.cfg.MouseModifier, "error", err)
	}

	m.publishClientList()
	m.backend.SetCurrentDesktop(0)
	m.started = m.now()

	for _, line := range m.cfg.Autostart {
		if err := m.spawn(line); err != nil {
			m.logger.Warn("autostart failed", "command", line, "error", err)
		}
	}
	return nil
}

// grabKeys re-grabs every keybind and replaces the lookup table.
func (m *Manager) grabKeys() {
	table, err := hotkeys.Register(m.backend, m.binds, m.logger)
	if err != nil {
		m.logger.Warn("some keybinds could not be registered", "error", err)
	}
	m.keys = table
	m.logger.Debug("keybinds registered", "chords", table.Len())
}

// Run processes events and submitted requests until ctx is cancelled, the
// event stream closes or the quit command runs.
func (m *Manager) Run(ctx context.Context, events <-chan platform.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrEventsClosed
			}
			m.handle(ev)
		case fn := <-m.requests:
			fn()
		}
		if m.quitting {
			m.logger.Info("quit requested")
			return ErrQuit
		}
	}
}

// do runs fn on the event loop goroutine and waits for it to finish.
func (m *Manager) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	req := func() {
		defer close(done)
		fn()
	}
	select {
	case m.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) spawn(line string) error {
	if m.spawner == nil {
		return errors.New("no spawner configured")
	}
	return m.spawner.Spawn(line)
}
