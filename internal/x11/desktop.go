package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// StickyDesktop is reported for windows visible on every desktop.
const StickyDesktop = -1

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetWindowDesktop returns the desktop number a window is on, or
// StickyDesktop for windows shown on all desktops.
func (c *Connection) GetWindowDesktop(windowID xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if desktop == 0xFFFFFFFF {
		return StickyDesktop, nil
	}
	return int(desktop), nil
}

// OnDesktop reports whether the window should be tiled on the given desktop.
// Windows without _NET_WM_DESKTOP are treated as belonging to every desktop.
func (c *Connection) OnDesktop(windowID xproto.Window, desktop int) bool {
	d, err := c.GetWindowDesktop(windowID)
	if err != nil {
		return true
	}
	return d == StickyDesktop || d == desktop
}

// WindowClass returns the WM_CLASS class name, falling back to the instance.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || wmClass == nil {
		return ""
	}
	if wmClass.Class != "" {
		return wmClass.Class
	}
	return wmClass.Instance
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		return title
	}
	title, err := icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return title
}
