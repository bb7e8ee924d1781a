package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/ipc"
)

var (
	styleKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
)

func printField(key string, value any) {
	fmt.Printf("%s %s\n", styleKey.Render(fmt.Sprintf("%-15s", key+":")), styleValue.Render(fmt.Sprint(value)))
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			fmt.Println(styleTitle.Render("bsptile"))
			printField("daemon_running", status.DaemonRunning)
			printField("output", fmt.Sprintf("%s %s", status.OutputName, status.Output))
			printField("windows", status.Windows)
			printField("splits", status.Splits)
			printField("gaps", fmt.Sprintf("outer=%d inner=%d", status.Gaps.Outer, status.Gaps.Inner))
			printField("split_policy", status.SplitPolicy)
			printField("removal_policy", status.RemovalPolicy)
			printField("uptime_seconds", status.UptimeSeconds)
			return nil
		},
	}
}

func newWindowsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List tiled windows and their rectangles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := ipc.NewClient().GetWindows()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(windows)
			}
			if len(windows) == 0 {
				fmt.Println("no tiled windows")
				return nil
			}
			for _, w := range windows {
				fmt.Printf("%s  %-18s %-10s %.2f  %s\n",
					styleValue.Render(fmt.Sprintf("0x%08x", w.ID)),
					w.Rect, w.Split, w.Ratio,
					styleKey.Render(w.Class+" "+w.Title))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newTreeCmd() *cobra.Command {
	var (
		dot bool
		svg string
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the layout tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ipc.NewClient().GetTree()
			if err != nil {
				return err
			}
			switch {
			case svg != "":
				data, err := bsp.RenderSVG(cmd.Context(), tree.DOT)
				if err != nil {
					return err
				}
				if err := os.WriteFile(svg, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", svg, err)
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", svg)
			case dot:
				fmt.Print(tree.DOT)
			default:
				fmt.Print(tree.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT")
	cmd.Flags().StringVar(&svg, "svg", "", "render the tree to an SVG file")
	cmd.MarkFlagsMutuallyExclusive("dot", "svg")
	return cmd
}

func newSplitCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:       "split <horizontal|vertical>",
		Short:     "Set the split orientation of a window (default: focused)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"horizontal", "vertical"},
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := bsp.ParseOrientation(args[0])
			if err != nil {
				return err
			}
			id, err := parseWindowID(window)
			if err != nil {
				return err
			}
			return ipc.NewClient().SetSplit(id, o)
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "window id (decimal or 0x hex)")
	return cmd
}

func newRatioCmd() *cobra.Command {
	var window string
	cmd := &cobra.Command{
		Use:   "ratio <delta>",
		Short: "Grow or shrink a window's share of its split (default: focused)",
		Example: `  bsptile ratio 0.05
  bsptile ratio -- -0.1 --window 0x3a00007`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q: %w", args[0], err)
			}
			id, err := parseWindowID(window)
			if err != nil {
				return err
			}
			return ipc.NewClient().AdjustRatio(id, delta)
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "window id (decimal or 0x hex)")
	return cmd
}

func newRetileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retile",
		Short: "Recompute every window rectangle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().Retile()
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ipc.NewClient().Reload(); err != nil {
				return err
			}
			fmt.Println("config reloaded")
			return nil
		},
	}
}

// parseWindowID accepts decimal or 0x-prefixed hex. Empty means the focused window.
func parseWindowID(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(id), nil
}
