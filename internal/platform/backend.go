package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID      int
	Name    string
	Primary bool
	Bounds  Rect
	Usable  Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	Class  string
	Title  string
	Bounds Rect
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	// ListWindows returns tileable windows on the current desktop in the
	// order the window manager mapped them.
	ListWindows() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
}

// Subscriptions carries change callbacks. They run on the event loop goroutine.
type Subscriptions struct {
	ClientsChanged func()
	ScreenChanged  func()
}

// EventSource delivers window-system change notifications.
type EventSource interface {
	Subscribe(subs Subscriptions) error
	// EventLoop blocks until Quit is called.
	EventLoop()
	Quit()
}
