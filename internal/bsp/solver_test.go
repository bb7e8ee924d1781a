package bsp

import (
	"fmt"
	"testing"
)

func TestSolve_EmptyTree(t *testing.T) {
	if got := Solve(NewTree(), Size{Width: 1920, Height: 1080}, Gaps{Outer: 10, Inner: 5}); len(got) != 0 {
		t.Fatalf("expected no placements, got %v", got)
	}
}

func TestSolve_ReferenceScenario(t *testing.T) {
	output := Size{Width: 1920, Height: 1080}
	gaps := Gaps{Outer: 10, Inner: 5}

	tree := NewTree()
	tree.Insert(0, Horizontal, DefaultRatio)
	got := Solve(tree, output, gaps)
	if len(got) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(got))
	}
	if want := (Rect{X: 10, Y: 10, Width: 1900, Height: 1060}); got[0].Rect != want {
		t.Fatalf("single window: expected %v, got %v", want, got[0].Rect)
	}

	tree.Insert(1, Horizontal, DefaultRatio)
	got = Solve(tree, output, gaps)
	if len(got) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(got))
	}
	wantA := Rect{X: 15, Y: 15, Width: 940, Height: 1050}
	wantB := Rect{X: 965, Y: 15, Width: 940, Height: 1050}
	if got[0].Record != 0 || got[0].Rect != wantA {
		t.Fatalf("A: expected %v, got %+v", wantA, got[0])
	}
	if got[1].Record != 1 || got[1].Rect != wantB {
		t.Fatalf("B: expected %v, got %+v", wantB, got[1])
	}
}

func TestSolve_VerticalSplit(t *testing.T) {
	tree := buildTree(2, Vertical)
	got := Solve(tree, Size{Width: 800, Height: 600}, Gaps{})
	want := []Rect{
		{X: 0, Y: 0, Width: 800, Height: 300},
		{X: 0, Y: 300, Width: 800, Height: 300},
	}
	for i, p := range got {
		if p.Rect != want[i] {
			t.Fatalf("placement %d: expected %v, got %v", i, want[i], p.Rect)
		}
	}
}

func TestSolve_Ratio(t *testing.T) {
	tree := NewTree()
	tree.Insert(0, Horizontal, DefaultRatio)
	tree.Insert(1, Horizontal, 0.7)
	got := Solve(tree, Size{Width: 1000, Height: 500}, Gaps{})
	if got[0].Rect.Width != 700 || got[1].Rect.X != 700 || got[1].Rect.Width != 300 {
		t.Fatalf("unexpected ratio placement: %+v", got)
	}
}

// tilesCanvas checks that the ungapped placements cover the canvas exactly
// once.
func tilesCanvas(t *testing.T, ps []Placement, canvas Rect, inner int) {
	t.Helper()
	area := 0
	cells := make([]Rect, len(ps))
	for i, p := range ps {
		cell := p.Rect
		if len(ps) > 1 {
			cell = cell.Expand(inner)
		}
		if !canvas.Contains(cell) {
			t.Fatalf("cell %v escapes canvas %v", cell, canvas)
		}
		cells[i] = cell
		area += cell.Area()
	}
	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if ov := cells[i].Intersect(cells[j]); !ov.Empty() {
				t.Fatalf("cells %v and %v overlap by %v", cells[i], cells[j], ov)
			}
		}
	}
	if area != canvas.Area() {
		t.Fatalf("cells cover %d px, canvas has %d", area, canvas.Area())
	}
}

func TestSolve_TilesCanvas(t *testing.T) {
	outputs := []Size{{Width: 1920, Height: 1080}, {Width: 1366, Height: 768}, {Width: 1001, Height: 733}}
	gapsList := []Gaps{{}, {Outer: 10, Inner: 5}, {Outer: 0, Inner: 8}, {Outer: 24, Inner: 0}}
	ratios := []float64{DefaultRatio, 0.3, 0.55}

	for _, output := range outputs {
		for _, gaps := range gapsList {
			for _, ratio := range ratios {
				for n := 1; n <= 9; n++ {
					name := fmt.Sprintf("%s/%d-%d/%.2f/n=%d", output, gaps.Outer, gaps.Inner, ratio, n)
					t.Run(name, func(t *testing.T) {
						tree := NewTree()
						split := Horizontal
						for i := 0; i < n; i++ {
							tree.Insert(RecordID(i), split, ratio)
							split = split.Flip()
						}
						ps := Solve(tree, output, gaps)
						if len(ps) != n {
							t.Fatalf("expected %d placements, got %d", n, len(ps))
						}
						tilesCanvas(t, ps, output.Rect().Inset(gaps.Outer), gaps.Inner)
					})
				}
			}
		}
	}
}

func TestSolve_InnerGapSeparation(t *testing.T) {
	const g = 6
	tree := buildTree(2, Horizontal)
	ps := Solve(tree, Size{Width: 1000, Height: 800}, Gaps{Outer: 4, Inner: g})
	if sep := ps[1].Rect.X - ps[0].Rect.Right(); sep != 2*g {
		t.Fatalf("expected horizontal separation %d, got %d", 2*g, sep)
	}

	tree = buildTree(2, Vertical)
	ps = Solve(tree, Size{Width: 1000, Height: 800}, Gaps{Outer: 4, Inner: g})
	if sep := ps[1].Rect.Y - ps[0].Rect.Bottom(); sep != 2*g {
		t.Fatalf("expected vertical separation %d, got %d", 2*g, sep)
	}
}

func TestSolve_Idempotent(t *testing.T) {
	tree := buildTree(5, Vertical)
	output := Size{Width: 2560, Height: 1440}
	gaps := Gaps{Outer: 12, Inner: 4}

	first := Solve(tree, output, gaps)
	second := Solve(tree, output, gaps)
	if len(first) != len(second) {
		t.Fatalf("placement count changed")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("placement %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSolve_EmptyChildGivesCellToSibling(t *testing.T) {
	output := Size{Width: 1200, Height: 900}
	gaps := Gaps{Outer: 10, Inner: 5}
	canvas := output.Rect().Inset(gaps.Outer)

	tests := []struct {
		name    string
		removed []RecordID
		want    int
	}{
		{name: "middle", removed: []RecordID{1}, want: 2},
		{name: "first", removed: []RecordID{0}, want: 2},
		{name: "last", removed: []RecordID{2}, want: 2},
		{name: "two", removed: []RecordID{0, 2}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildTree(3, Horizontal)
			for _, r := range tt.removed {
				tree.Remove(r)
			}
			ps := Solve(tree, output, gaps)
			if len(ps) != tt.want {
				t.Fatalf("expected %d placements, got %d", tt.want, len(ps))
			}
			tilesCanvas(t, ps, canvas, gaps.Inner)
		})
	}
}

func TestSolve_SingleSurvivorGetsOuterGapOnly(t *testing.T) {
	tree := buildTree(3, Horizontal)
	tree.Remove(0)
	tree.Remove(1)
	ps := Solve(tree, Size{Width: 1920, Height: 1080}, Gaps{Outer: 10, Inner: 5})
	if len(ps) != 1 || ps[0].Rect != (Rect{X: 10, Y: 10, Width: 1900, Height: 1060}) {
		t.Fatalf("unexpected placement %+v", ps)
	}
}

func TestSolve_TinyOutputKeepsPositiveSize(t *testing.T) {
	tree := buildTree(4, Horizontal)
	ps := Solve(tree, Size{Width: 20, Height: 20}, Gaps{Outer: 8, Inner: 8})
	for _, p := range ps {
		if p.Rect.Width < 1 || p.Rect.Height < 1 {
			t.Fatalf("expected positive size, got %v", p.Rect)
		}
	}
}
