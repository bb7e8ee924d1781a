package preview

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/layout"
)

func fullHD() Options {
	return Options{
		Output: bsp.Size{Width: 1920, Height: 1080},
		Gaps:   bsp.Gaps{Outer: 10, Inner: 5},
	}
}

func TestSimulate_TwoWindows(t *testing.T) {
	opts := fullHD()
	opts.Windows = 2

	res, err := Simulate(opts)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(res.Placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(res.Placements))
	}
	want := []bsp.Rect{{X: 15, Y: 15, Width: 940, Height: 1050}, {X: 965, Y: 15, Width: 940, Height: 1050}}
	for i, p := range res.Placements {
		if p.Rect != want[i] {
			t.Fatalf("window %d at %v, want %v", p.Window, p.Rect, want[i])
		}
	}
}

func TestSimulate_RemoveLeavesSiblingFullCell(t *testing.T) {
	opts := fullHD()
	opts.Windows = 3
	opts.Remove = []int{3}

	res, err := Simulate(opts)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(res.Placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(res.Placements))
	}
	if !strings.Contains(res.Tree, "empty") {
		t.Fatalf("tree should keep an empty placeholder:\n%s", res.Tree)
	}
	if got := res.Placements[1].Rect; got != (bsp.Rect{X: 965, Y: 15, Width: 940, Height: 1050}) {
		t.Fatalf("window 2 at %v", got)
	}
}

func TestSimulate_Errors(t *testing.T) {
	opts := fullHD()
	opts.Windows = 2
	opts.Remove = []int{5}
	if _, err := Simulate(opts); err == nil {
		t.Fatal("expected error removing a window that never opened")
	}

	if _, err := Simulate(Options{Windows: 1}); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestSimulate_AlternatePolicy(t *testing.T) {
	opts := fullHD()
	opts.Windows = 3
	opts.Engine = layout.Options{SplitPolicy: layout.SplitAlternate}

	res, err := Simulate(opts)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	// Window 3 stacks below window 2 on the right half.
	two, three := res.Placements[1].Rect, res.Placements[2].Rect
	if two.X != three.X || three.Y <= two.Y {
		t.Fatalf("expected vertical stack, got %v and %v", two, three)
	}
}

func TestCanvas_DrawsLabelledTiles(t *testing.T) {
	opts := fullHD()
	opts.Windows = 2
	res, err := Simulate(opts)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	lines := Canvas(res, 40, 12)
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != 40 {
			t.Fatalf("line %d has %d runes, want 40", i, n)
		}
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"1", "2", "┌", "┘", "╔"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("canvas missing %q:\n%s", want, joined)
		}
	}
}

func TestCanvas_TooSmall(t *testing.T) {
	res := &Result{Output: bsp.Size{Width: 100, Height: 100}}
	lines := Canvas(res, 4, 2)
	if len(lines) != 2 || lines[0] != "    " {
		t.Fatalf("unexpected canvas %q", lines)
	}
}

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got != "no tiles" {
		t.Fatalf("Summarize(nil) = %q", got)
	}
	same := []layout.Placement{
		{Window: 1, Rect: bsp.Rect{Width: 100, Height: 50}},
		{Window: 2, Rect: bsp.Rect{X: 100, Width: 100, Height: 50}},
	}
	if got := Summarize(same); got != "2 tiles • 100×50 px each" {
		t.Fatalf("Summarize = %q", got)
	}
	mixed := append(same, layout.Placement{Window: 3, Rect: bsp.Rect{Width: 40, Height: 20}})
	if got := Summarize(mixed); got != "3 tiles • min 40×20 • max 100×50" {
		t.Fatalf("Summarize = %q", got)
	}
}

func TestRender_IncludesTitleAndSummary(t *testing.T) {
	opts := fullHD()
	opts.Windows = 1
	res, err := Simulate(opts)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	out := Render(res, 60, 20)
	if !strings.Contains(out, "bsptile preview") || !strings.Contains(out, "1 tiles") {
		t.Fatalf("render output missing title or summary:\n%s", out)
	}
}
