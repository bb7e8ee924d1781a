package layout

import "errors"

var (
	// ErrNoOutputAvailable is returned when no output reports a usable size.
	ErrNoOutputAvailable = errors.New("no output available")
	// ErrWindowNotFound is returned by control operations on untracked windows.
	ErrWindowNotFound = errors.New("window not tiled")
	// ErrUnsupportedEvent is returned for event values the engine does not handle.
	ErrUnsupportedEvent = errors.New("unsupported window event")
	// ErrInvalidGaps is returned when a gap is negative.
	ErrInvalidGaps = errors.New("invalid gaps")
)
