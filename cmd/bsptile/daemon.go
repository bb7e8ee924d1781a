package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/daemon"
	"github.com/1broseidon/bsptile/internal/hotkeys"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/platform"
)

func newDaemonCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the tiling daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}
}

func runDaemon(ctx context.Context, opts *globalOptions) error {
	logger := logging.FromContext(ctx)

	load := func() (*config.LoadResult, error) {
		res, err := loadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		if opts.verbose {
			res.Config.LogLevel = "debug"
		}
		return res, nil
	}

	res, err := load()
	if err != nil {
		return err
	}
	cfg := res.Config
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	d := daemon.New(cfg, backend, func() (*config.Config, error) {
		res, err := load()
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}, logger)

	if err := d.Start(); err != nil {
		// Keep running: a later screen or client list change can recover.
		logger.Warn("initial layout failed", "error", err)
	}

	if err := backend.Subscribe(platform.Subscriptions{
		ClientsChanged: func() {
			if err := d.Sync(); err != nil {
				logger.Warn("layout sync failed", "error", err)
			}
		},
		ScreenChanged: func() {
			if err := d.ScreenChanged(); err != nil {
				logger.Warn("screen change retile failed", "error", err)
			}
		},
	}); err != nil {
		return fmt.Errorf("subscribe to X events: %w", err)
	}

	keys, err := hotkeys.NewHandler(backend, d, logger.WithPrefix("hotkeys"))
	if err != nil {
		return err
	}
	keys.Apply(cfg)
	d.OnConfigChange(keys.Apply)

	ipcServer, err := ipc.NewServer(d, logger.WithPrefix("ipc"))
	if err != nil {
		return err
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.ReconcileInterval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: time.Duration(cfg.ReconcileInterval) * time.Second,
			Logger:   logger.WithPrefix("reconciler"),
		}, d)
		go reconciler.Run(ctx)
	}

	reload := func(reason string) {
		logger.Info("reloading config", "reason", reason)
		if err := d.Reload(); err != nil {
			logger.Error("config reload failed", "error", err)
		}
	}

	watched := append([]string{configPathOrDefault(opts.configPath)}, res.Files...)
	if watcher, err := daemon.NewWatcher(watched, daemon.DefaultDebounce, logger.WithPrefix("watch")); err != nil {
		logger.Warn("config watching disabled", "error", err)
	} else {
		go watcher.Run(ctx, func() { reload("file changed") })
	}

	go handleSignals(ctx, logger, reload)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		backend.Quit()
	}()

	logger.Info("bsptile daemon running", "version", version)
	backend.EventLoop()
	return nil
}

func handleSignals(ctx context.Context, logger *log.Logger, reload func(string)) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			reload("SIGHUP")
		}
	}
}

func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	def, err := config.DefaultConfigPath()
	if err != nil {
		return ""
	}
	return def
}
