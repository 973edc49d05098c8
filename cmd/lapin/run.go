package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/lapin/internal/config"
	"github.com/1broseidon/lapin/internal/ipc"
	"github.com/1broseidon/lapin/internal/launcher"
	"github.com/1broseidon/lapin/internal/platform"
	"github.com/1broseidon/lapin/internal/runtimepath"
	"github.com/1broseidon/lapin/internal/supervise"
	"github.com/1broseidon/lapin/internal/wm"
)

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/lapin/config.yaml)")
	debug := fs.Bool("debug", false, "Log at debug level regardless of log_level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: lapin run [--config PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the X display named by $DISPLAY and manage its windows.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	level := new(slog.LevelVar)
	setLevel := func(cfg *config.Config) {
		if *debug {
			level.Set(slog.LevelDebug)
			return
		}
		level.Set(parseLevel(cfg.LogLevel))
	}
	setLevel(res.Config)
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	for _, f := range res.Files {
		logger.Debug("config file loaded", "path", f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadConfig := func() (*config.Config, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		setLevel(res.Config)
		return res.Config, nil
	}

	err = serve(ctx, path, res.Config, loadConfig, logger)
	switch {
	case err == nil, errors.Is(err, wm.ErrQuit), errors.Is(err, context.Canceled):
		logger.Info("lapin stopped")
		return 0
	default:
		logger.Error("lapin stopped", "error", err)
		return 1
	}
}

// serve runs the window manager until quit, a signal, or loss of the X
// connection. The control socket and the config watcher live in a supervisor
// tree that is torn down when the event loop returns.
func serve(ctx context.Context, path string, cfg *config.Config, loadConfig func() (*config.Config, error), logger *slog.Logger) error {
	backend, err := platform.NewLinuxBackendFromDisplay("")
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	mgr, err := wm.New(backend, cfg, wm.Options{
		Logger:     logger.With("component", "wm"),
		Spawner:    launcher.New(cfg.EnvFile, logger.With("component", "launcher")),
		LoadConfig: loadConfig,
	})
	if err != nil {
		return err
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	if err := mgr.Init(); err != nil {
		return err
	}
	ipcServer := ipc.NewServer(socketPath, mgr, logger)
	if err := ipcServer.Listen(); err != nil {
		return err
	}
	logger.Info("lapin started", "socket", socketPath, "config", path)

	events := make(chan platform.Event, 64)
	go func() {
		defer close(events)
		if err := backend.ReceiveEvents(ctx, logger.With("component", "x11"), events); err != nil && ctx.Err() == nil {
			logger.Error("x11 event stream ended", "error", err)
		}
	}()

	reload := func() {
		if err := mgr.Reload(ctx); err != nil {
			logger.Warn("config reload failed, keeping the previous configuration", "error", err)
		}
	}

	svcCtx, cancelSvc := context.WithCancel(ctx)
	sup := supervise.New("lapin", logger.With("component", "supervisor"))
	supervise.Add(sup, ipcServer)
	if info, err := os.Stat(filepath.Dir(path)); err == nil && info.IsDir() {
		watcher := config.NewWatcher(path, logger.With("component", "config"), reload)
		supervise.Add(sup, supervise.NewServiceFunc("config-watcher", watcher.Serve))
	} else {
		logger.Debug("config directory missing, not watching", "path", filepath.Dir(path))
	}
	supervise.Add(sup, supervise.NewServiceFunc("sighup", func(ctx context.Context) error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-hup:
				logger.Info("SIGHUP received, reloading configuration")
				reload()
			}
		}
	}))
	supDone := sup.ServeBackground(svcCtx)

	runErr := mgr.Run(ctx, events)
	cancelSvc()
	if err := <-supDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("supervisor stopped", "error", err)
	}

	if errors.Is(runErr, wm.ErrEventsClosed) {
		return fmt.Errorf("lost connection to the X server: %w", runErr)
	}
	return runErr
}
