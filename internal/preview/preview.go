// Package preview draws a solved layout as text so gaps, ratios and split
// policies can be tried without an X server.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/layout"
	"github.com/1broseidon/bsptile/internal/workspace"
)

// Options describes a simulated session.
type Options struct {
	Windows int
	// Remove lists window numbers (1-based) closed after all are opened.
	Remove []int
	Output bsp.Size
	Gaps   bsp.Gaps
	Engine layout.Options
}

// Result is the state after replaying a session.
type Result struct {
	Output     bsp.Size
	Placements []layout.Placement
	Tree       string
}

type discardNotifier struct{}

func (discardNotifier) NotifyResize(bsp.WindowID, bsp.Rect) error { return nil }

// Simulate opens opts.Windows windows, numbered from 1, closes the ones in
// opts.Remove and returns the resulting layout.
func Simulate(opts Options) (*Result, error) {
	if opts.Windows < 0 {
		return nil, fmt.Errorf("window count must be >= 0")
	}
	if opts.Output.Empty() {
		return nil, fmt.Errorf("output size %s is empty", opts.Output)
	}

	registry := workspace.New("")
	registry.SetOutputs([]workspace.Output{{Name: "preview", Bounds: opts.Output.Rect(), Primary: true}})

	engineOpts := opts.Engine
	engineOpts.Gaps = opts.Gaps
	engine := layout.NewEngine(registry, registry, discardNotifier{}, engineOpts)

	for i := 1; i <= opts.Windows; i++ {
		if err := engine.OnWindowEvent(layout.Added, bsp.WindowID(i), opts.Gaps); err != nil {
			return nil, err
		}
	}
	for _, n := range opts.Remove {
		if n < 1 || n > opts.Windows {
			return nil, fmt.Errorf("cannot remove window %d: only 1..%d exist", n, opts.Windows)
		}
		if err := engine.OnWindowEvent(layout.Removed, bsp.WindowID(n), opts.Gaps); err != nil {
			return nil, err
		}
	}

	return &Result{
		Output:     opts.Output,
		Placements: engine.CurrentRectangles(),
		Tree:       engine.TreeString(),
	}, nil
}

// TerminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func TerminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Summarize describes tile sizes in one line.
func Summarize(placements []layout.Placement) string {
	if len(placements) == 0 {
		return "no tiles"
	}

	minW, minH := placements[0].Rect.Width, placements[0].Rect.Height
	maxW, maxH := minW, minH
	for _, p := range placements[1:] {
		minW = min(minW, p.Rect.Width)
		minH = min(minH, p.Rect.Height)
		maxW = max(maxW, p.Rect.Width)
		maxH = max(maxH, p.Rect.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(placements), minW, minH)
	}
	return fmt.Sprintf("%d tiles • min %d×%d • max %d×%d", len(placements), minW, minH, maxW, maxH)
}

// Canvas draws each placement as a box labelled with its window number on
// a width x height character grid.
func Canvas(res *Result, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range res.Placements {
		drawTile(canvas, p.Rect, fmt.Sprintf("%d", p.Window), res.Output, width, height)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// Render frames the canvas with a title and summary using lipgloss.
func Render(res *Result, width, height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	tileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	footStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Room for the frame, title and footer.
	canvasW := max(5, width-4)
	canvasH := max(3, height-6)

	body := tileStyle.Render(strings.Join(Canvas(res, canvasW, canvasH), "\n"))
	content := strings.Join([]string{
		titleStyle.Render(fmt.Sprintf("bsptile preview • %s", res.Output)),
		body,
		footStyle.Render(Summarize(res.Placements)),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Render(content)
}

func drawTile(canvas [][]rune, rect bsp.Rect, label string, out bsp.Size, canvasW, canvasH int) {
	// Map pixel coordinates to canvas coordinates.
	x1 := rect.X * canvasW / out.Width
	y1 := rect.Y * canvasH / out.Height
	x2 := (rect.X+rect.Width)*canvasW/out.Width - 1
	y2 := (rect.Y+rect.Height)*canvasH/out.Height - 1

	// Keep clear of the outer border.
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	for i := range lines {
		lines[i] = strings.Repeat(" ", max(width, 0))
	}
	return lines
}
