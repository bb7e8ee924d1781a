package mcp

import "github.com/1broseidon/bsptile/internal/ipc"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// LayoutOutput is the output for get_layout and every tool that changes the layout.
type LayoutOutput struct {
	Status  ipc.StatusData   `json:"status"`
	Windows []ipc.WindowInfo `json:"windows"`
}

// TreeOutput is the output for the get_tree tool.
type TreeOutput struct {
	Text string `json:"text"`
	DOT  string `json:"dot,omitempty"`
}

// GetTreeInput is the input for the get_tree tool.
type GetTreeInput struct {
	DOT bool `json:"dot,omitempty" jsonschema:"Also return the tree in Graphviz DOT format"`
}

// SetSplitInput is the input for the set_split tool.
type SetSplitInput struct {
	Window      uint32 `json:"window,omitempty" jsonschema:"X11 window id; 0 or omitted targets the focused window"`
	Orientation string `json:"orientation" jsonschema:"horizontal (side by side) or vertical (stacked)"`
}

// AdjustRatioInput is the input for the adjust_ratio tool.
type AdjustRatioInput struct {
	Window uint32  `json:"window,omitempty" jsonschema:"X11 window id; 0 or omitted targets the focused window"`
	Delta  float64 `json:"delta" jsonschema:"Change of the window's share of its split, between -0.9 and 0.9; positive grows"`
}
