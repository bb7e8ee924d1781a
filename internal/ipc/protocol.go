package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/layout"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetWindows  CommandType = "GET_WINDOWS"
	CommandGetTree     CommandType = "GET_TREE"
	CommandSetSplit    CommandType = "SET_SPLIT"
	CommandAdjustRatio CommandType = "ADJUST_RATIO"
	CommandRetile      CommandType = "RETILE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	layout.Stats
	OutputName    string `json:"output_name,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WindowInfo is a tiled window as returned by GET_WINDOWS. Rect is in
// root window coordinates.
type WindowInfo struct {
	ID    uint32   `json:"id"`
	Class string   `json:"class,omitempty"`
	Title string   `json:"title,omitempty"`
	Split string   `json:"split"`
	Ratio float64  `json:"ratio"`
	Rect  bsp.Rect `json:"rect"`
}

// WindowsData represents the data returned by GET_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// TreeData represents the data returned by GET_TREE
type TreeData struct {
	Text string `json:"text"`
	DOT  string `json:"dot"`
}

// SetSplitPayload targets the focused window when Window is 0.
type SetSplitPayload struct {
	Window      uint32          `json:"window,omitempty"`
	Orientation bsp.Orientation `json:"orientation"`
}

// AdjustRatioPayload targets the focused window when Window is 0.
type AdjustRatioPayload struct {
	Window uint32  `json:"window,omitempty"`
	Delta  float64 `json:"delta"`
}

// Controller is the daemon side of the protocol.
type Controller interface {
	Status() (StatusData, error)
	Windows() ([]WindowInfo, error)
	Tree() (TreeData, error)
	SetSplit(window uint32, o bsp.Orientation) error
	AdjustRatio(window uint32, delta float64) error
	Retile() error
	Reload() error
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
