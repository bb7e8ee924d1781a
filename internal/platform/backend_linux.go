//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/1broseidon/bsptile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var (
	_ Backend     = (*LinuxBackend)(nil)
	_ EventSource = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection. An empty display
// uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Subscribe forwards client list and screen change notifications.
func (b *LinuxBackend) Subscribe(subs Subscriptions) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Subscribe(x11.Subscriptions{
		ClientsChanged: subs.ClientsChanged,
		ScreenChanged:  subs.ScreenChanged,
	})
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns connected monitors with strut-adjusted usable areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// ActiveWindow returns the currently focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists normal, visible windows on the current desktop.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	currentDesktop, desktopErr := conn.GetCurrentDesktop()
	hasCurrentDesktop := desktopErr == nil

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) || conn.IsTransient(windowID) {
			continue
		}
		if hasCurrentDesktop && !conn.OnDesktop(windowID, currentDesktop) {
			continue
		}
		// Skip hidden/fullscreen windows.
		if b.shouldSkipByState(windowID) {
			continue
		}

		rect, ok := b.windowRect(windowID)
		if !ok {
			continue
		}

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			Class:  strings.TrimSpace(conn.WindowClass(windowID)),
			Title:  conn.WindowTitle(windowID),
			Bounds: rect,
		})
	}
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

func (b *LinuxBackend) shouldSkipByState(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(b.conn.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_FULLSCREEN":
			return true
		}
	}
	return false
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:      m.ID,
		Name:    m.Name,
		Primary: m.Primary,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Usable: Rect{
			X:      m.Usable.X,
			Y:      m.Usable.Y,
			Width:  m.Usable.Width,
			Height: m.Usable.Height,
		},
	}
}

func (b *LinuxBackend) windowRect(windowID xproto.Window) (Rect, bool) {
	conn := b.conn
	geom, err := xproto.GetGeometry(conn.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, false
	}

	translate, err := xproto.TranslateCoordinates(
		conn.XUtil.Conn(),
		windowID,
		conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, false
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}
