package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow places a window so that its frame, decorations included,
// covers the given rectangle.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most window managers.
	_ = c.unmaximizeWindow(windowID)

	left, right, top, bottom := c.GetFrameExtents(windowID)
	x += left
	y += top
	width = max(1, width-left-right)
	height = max(1, height-top-bottom)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return fmt.Errorf("failed to clear %s: %w", state, err)
			}
		}
	}
	return nil
}

// GetFrameExtents returns the window decoration sizes, or zeros when the
// window manager does not publish them.
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// IsTransient reports whether the window declares WM_TRANSIENT_FOR.
func (c *Connection) IsTransient(windowID xproto.Window) bool {
	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, windowID,
		xproto.AtomWmTransientFor, xproto.AtomWindow, 0, 1).Reply()
	return err == nil && reply.ValueLen > 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ClientList returns the windows managed by the window manager in mapping order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}
