package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/ipc"
)

func (s *Server) handleGetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	out, err := s.layout()
	return nil, out, err
}

func (s *Server) handleGetTree(_ context.Context, _ *mcpsdk.CallToolRequest, args GetTreeInput) (*mcpsdk.CallToolResult, TreeOutput, error) {
	tree, err := s.client.GetTree()
	if err != nil {
		return nil, TreeOutput{}, err
	}
	out := TreeOutput{Text: tree.Text}
	if args.DOT {
		out.DOT = tree.DOT
	}
	return nil, out, nil
}

func (s *Server) handleSetSplit(_ context.Context, _ *mcpsdk.CallToolRequest, args SetSplitInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	o, err := bsp.ParseOrientation(args.Orientation)
	if err != nil {
		return nil, LayoutOutput{}, err
	}
	if err := s.client.SetSplit(args.Window, o); err != nil {
		return nil, LayoutOutput{}, err
	}
	out, err := s.layout()
	return nil, out, err
}

func (s *Server) handleAdjustRatio(_ context.Context, _ *mcpsdk.CallToolRequest, args AdjustRatioInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	if args.Delta < -0.9 || args.Delta > 0.9 {
		return nil, LayoutOutput{}, fmt.Errorf("delta %v out of range [-0.9, 0.9]", args.Delta)
	}
	if err := s.client.AdjustRatio(args.Window, args.Delta); err != nil {
		return nil, LayoutOutput{}, err
	}
	out, err := s.layout()
	return nil, out, err
}

func (s *Server) handleRetile(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	if err := s.client.Retile(); err != nil {
		return nil, LayoutOutput{}, err
	}
	out, err := s.layout()
	return nil, out, err
}

func (s *Server) layout() (LayoutOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return LayoutOutput{}, err
	}
	windows, err := s.client.GetWindows()
	if err != nil {
		return LayoutOutput{}, err
	}
	if windows == nil {
		windows = []ipc.WindowInfo{}
	}
	return LayoutOutput{Status: *status, Windows: windows}, nil
}
