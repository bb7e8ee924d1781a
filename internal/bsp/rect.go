package bsp

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned window area in logical pixels
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size is the resolution of an output
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the output area anchored at the origin.
func (s Size) Rect() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Inset shrinks the rectangle by n on every side. Width and height never
// drop below zero.
func (r Rect) Inset(n int) Rect {
	out := Rect{
		X:      r.X + n,
		Y:      r.Y + n,
		Width:  r.Width - 2*n,
		Height: r.Height - 2*n,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Expand grows the rectangle by n on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }
func (r Rect) Area() int   { return r.Width * r.Height }

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlapping area of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Orientation is the axis along which a split divides its cell
type Orientation int

const (
	// Horizontal places children side by side (divides width)
	Horizontal Orientation = iota
	// Vertical stacks children (divides height)
	Vertical
)

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation accepts "horizontal"/"vertical" and the short forms "h"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("invalid orientation %q (expected horizontal or vertical)", s)
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	if o != Horizontal && o != Vertical {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(b []byte) error {
	parsed, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Gaps are the pixel insets applied by the solver. Outer separates windows
// from the output edge; Inner is applied to each side of a window that
// shares the output with another.
type Gaps struct {
	Outer int `json:"outer" yaml:"outer"`
	Inner int `json:"inner" yaml:"inner"`
}

// Validate rejects negative gaps.
func (g Gaps) Validate() error {
	if g.Outer < 0 {
		return fmt.Errorf("outer gap must be >= 0 (got %d)", g.Outer)
	}
	if g.Inner < 0 {
		return fmt.Errorf("inner gap must be >= 0 (got %d)", g.Inner)
	}
	return nil
}
