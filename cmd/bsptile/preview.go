package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/layout"
	"github.com/1broseidon/bsptile/internal/preview"
)

func newPreviewCmd(opts *globalOptions) *cobra.Command {
	var (
		windows  int
		remove   []int
		width    int
		height   int
		showTree bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the layout N windows would get, without an X server",
		Long:  "preview replays N window openings against a simulated output using the configured gaps and policies, then draws the result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			cfg := res.Config

			termW, termH := preview.TerminalSize()
			if width <= 0 || height <= 0 {
				// One character cell is roughly 8x16 px.
				width, height = termW*8, termH*16
			}

			out, err := preview.Simulate(preview.Options{
				Windows: windows,
				Remove:  remove,
				Output:  bsp.Size{Width: width, Height: height},
				Gaps:    cfg.Gaps,
				Engine: layout.Options{
					DefaultSplit:  cfg.Orientation(),
					Ratio:         cfg.SplitRatio,
					SplitPolicy:   layout.SplitPolicy(cfg.SplitPolicy),
					RemovalPolicy: layout.RemovalPolicy(cfg.RemovalPolicy),
				},
			})
			if err != nil {
				return err
			}

			fmt.Println(preview.Render(out, termW, termH-1))
			if showTree {
				fmt.Print(out.Tree)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&windows, "windows", "n", 4, "number of windows to open")
	cmd.Flags().IntSliceVar(&remove, "remove", nil, "window numbers to close afterwards")
	cmd.Flags().IntVar(&width, "width", 0, "simulated output width in px (default: from terminal size)")
	cmd.Flags().IntVar(&height, "height", 0, "simulated output height in px (default: from terminal size)")
	cmd.Flags().BoolVar(&showTree, "tree", false, "also print the layout tree")
	return cmd
}
