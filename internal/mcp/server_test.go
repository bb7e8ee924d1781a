package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/layout"
)

type fakeClient struct {
	windows []ipc.WindowInfo
	split   map[uint32]bsp.Orientation
	delta   float64
	retiles int
	err     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		windows: []ipc.WindowInfo{
			{ID: 0xA, Split: "horizontal", Ratio: 0.5, Rect: bsp.Rect{X: 15, Y: 15, Width: 940, Height: 1050}},
			{ID: 0xB, Split: "horizontal", Ratio: 0.5, Rect: bsp.Rect{X: 965, Y: 15, Width: 940, Height: 1050}},
		},
		split: make(map[uint32]bsp.Orientation),
	}
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		Stats:         layout.Stats{Windows: len(f.windows), Splits: 1, Output: bsp.Size{Width: 1920, Height: 1080}},
		DaemonRunning: true,
	}, nil
}

func (f *fakeClient) GetWindows() ([]ipc.WindowInfo, error) { return f.windows, f.err }

func (f *fakeClient) GetTree() (*ipc.TreeData, error) {
	return &ipc.TreeData{Text: "split horizontal 0.50\n  leaf 0xa\n  leaf 0xb\n", DOT: "digraph bsp {}\n"}, f.err
}

func (f *fakeClient) SetSplit(window uint32, o bsp.Orientation) error {
	f.split[window] = o
	return f.err
}

func (f *fakeClient) AdjustRatio(window uint32, delta float64) error {
	f.delta += delta
	return f.err
}

func (f *fakeClient) Retile() error {
	f.retiles++
	return f.err
}

func connect(t *testing.T, client LayoutClient) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(client)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := srv.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	c := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args any) *mcpsdk.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *mcpsdk.CallToolResult) T {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestTools_Listed(t *testing.T) {
	cs := connect(t, newFakeClient())

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_layout", "get_tree", "set_split", "adjust_ratio", "retile"}, names)
}

func TestGetLayout(t *testing.T) {
	cs := connect(t, newFakeClient())

	res := call(t, cs, "get_layout", map[string]any{})
	require.False(t, res.IsError)

	out := decode[LayoutOutput](t, res)
	assert.Equal(t, 2, out.Status.Windows)
	require.Len(t, out.Windows, 2)
	assert.Equal(t, bsp.Rect{X: 965, Y: 15, Width: 940, Height: 1050}, out.Windows[1].Rect)
}

func TestGetTree_DOTOnRequest(t *testing.T) {
	cs := connect(t, newFakeClient())

	out := decode[TreeOutput](t, call(t, cs, "get_tree", map[string]any{}))
	assert.Contains(t, out.Text, "split horizontal")
	assert.Empty(t, out.DOT)

	out = decode[TreeOutput](t, call(t, cs, "get_tree", map[string]any{"dot": true}))
	assert.Contains(t, out.DOT, "digraph")
}

func TestSetSplit(t *testing.T) {
	fc := newFakeClient()
	cs := connect(t, fc)

	res := call(t, cs, "set_split", map[string]any{"window": 0xA, "orientation": "vertical"})
	require.False(t, res.IsError)
	assert.Equal(t, bsp.Vertical, fc.split[0xA])

	res = call(t, cs, "set_split", map[string]any{"orientation": "sideways"})
	assert.True(t, res.IsError)
}

func TestAdjustRatioAndRetile(t *testing.T) {
	fc := newFakeClient()
	cs := connect(t, fc)

	require.False(t, call(t, cs, "adjust_ratio", map[string]any{"delta": 0.1}).IsError)
	assert.InDelta(t, 0.1, fc.delta, 1e-9)

	assert.True(t, call(t, cs, "adjust_ratio", map[string]any{"delta": 1.5}).IsError)

	require.False(t, call(t, cs, "retile", map[string]any{}).IsError)
	assert.Equal(t, 1, fc.retiles)
}

func TestDaemonErrorsAreToolErrors(t *testing.T) {
	fc := newFakeClient()
	fc.err = errors.New("failed to connect to daemon")
	cs := connect(t, fc)

	res := call(t, cs, "retile", map[string]any{})
	assert.True(t, res.IsError)
}
