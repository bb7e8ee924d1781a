package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/runtimepath"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *log.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(ctrl Controller, logger *log.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.logger.Debug("IPC request", "command", req.Command)
	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("Failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleAction("reload config", s.ctrl.Reload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandGetTree:
		return s.handleGetTree()
	case CommandSetSplit:
		return s.handleSetSplit(req.Payload)
	case CommandAdjustRatio:
		return s.handleAdjustRatio(req.Payload)
	case CommandRetile:
		return s.handleAction("retile", s.ctrl.Retile)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleAction(what string, fn func() error) *Response {
	if err := fn(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", what, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status, err := s.ctrl.Status()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}
	return s.respond(status)
}

func (s *Server) handleGetWindows() *Response {
	windows, err := s.ctrl.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}
	if windows == nil {
		windows = []WindowInfo{}
	}
	return s.respond(WindowsData{Windows: windows})
}

func (s *Server) handleGetTree() *Response {
	tree, err := s.ctrl.Tree()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get tree: %v", err))
	}
	return s.respond(tree)
}

func (s *Server) handleSetSplit(payload json.RawMessage) *Response {
	var req SetSplitPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := s.ctrl.SetSplit(req.Window, req.Orientation); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set split: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleAdjustRatio(payload json.RawMessage) *Response {
	var req AdjustRatioPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if req.Delta <= -1 || req.Delta >= 1 {
		return NewErrorResponse(fmt.Sprintf("delta %v out of range (-1, 1)", req.Delta))
	}
	if err := s.ctrl.AdjustRatio(req.Window, req.Delta); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to adjust ratio: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) respond(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
