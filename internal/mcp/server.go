// Package mcp exposes the running tiler to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/ipc"
)

const (
	ServerName    = "bsptile"
	ServerVersion = "0.1.0"
)

// LayoutClient talks to the daemon. *ipc.Client implements it.
type LayoutClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetWindows() ([]ipc.WindowInfo, error)
	GetTree() (*ipc.TreeData, error)
	SetSplit(window uint32, o bsp.Orientation) error
	AdjustRatio(window uint32, delta float64) error
	Retile() error
}

var _ LayoutClient = (*ipc.Client)(nil)

// Server is the MCP server for bsptile layout inspection and control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    LayoutClient
}

// NewServer creates a new MCP server backed by the daemon's IPC socket.
func NewServer(client LayoutClient) *Server {
	if client == nil {
		client = ipc.NewClient()
	}
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout",
		Description: "Return daemon status (window count, output size, gaps, policies) and every tiled window with its rectangle in root window coordinates.",
	}, s.handleGetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_tree",
		Description: "Return the binary space partition tree as indented text: split nodes with orientation and ratio, leaves with window ids, empty placeholders left by closed windows.",
	}, s.handleGetTree)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_split",
		Description: "Set the split orientation of a window. If the window heads a split the layout changes immediately; otherwise the orientation is used when the next window opens. Returns the new layout.",
	}, s.handleSetSplit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "adjust_ratio",
		Description: "Grow (positive delta) or shrink (negative delta) a window's share of the split it belongs to. Ratios stay within 0.05 and 0.95. Returns the new layout.",
	}, s.handleAdjustRatio)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "retile",
		Description: "Recompute every window rectangle from the current tree and output size. Returns the new layout.",
	}, s.handleRetile)
}
