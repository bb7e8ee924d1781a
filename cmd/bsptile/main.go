package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/logging"
)

var version = "dev"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	configPath string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "bsptile",
		Short:        "Automatic binary space partition tiling for X11",
		Long:         "bsptile watches the windows on an X11 output and keeps them tiled by recursively splitting the screen.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default: ~/.config/bsptile/config.yaml)")

	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newStatusCmd())
	root.AddCommand(newWindowsCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newSplitCmd())
	root.AddCommand(newRatioCmd())
	root.AddCommand(newRetileCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newMCPCmd())

	return root
}

// loadConfig loads the config from path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
