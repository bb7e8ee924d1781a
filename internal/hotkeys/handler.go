package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/charmbracelet/log"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/platform"
)

// Actions are the layout operations a hotkey can trigger. Window 0 means
// the focused window.
type Actions interface {
	SetSplit(window uint32, o bsp.Orientation) error
	AdjustRatio(window uint32, delta float64) error
	Retile() error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding is a key sequence and the action it runs.
type Binding struct {
	Name     string
	Sequence string
	Run      func() error
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *log.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. It fails when the backend does
// not expose an X connection.
func NewHandler(backend platform.Backend, actions Actions, logger *log.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		actions: actions,
		logger:  logger,
	}, nil
}

// Bindings maps the configured hotkeys to actions. Empty sequences are skipped.
func Bindings(hk config.Hotkeys, ratioStep float64, actions Actions) []Binding {
	all := []Binding{
		{"split_horizontal", hk.SplitHorizontal, func() error { return actions.SetSplit(0, bsp.Horizontal) }},
		{"split_vertical", hk.SplitVertical, func() error { return actions.SetSplit(0, bsp.Vertical) }},
		{"grow", hk.Grow, func() error { return actions.AdjustRatio(0, ratioStep) }},
		{"shrink", hk.Shrink, func() error { return actions.AdjustRatio(0, -ratioStep) }},
		{"retile", hk.Retile, actions.Retile},
	}

	out := all[:0]
	for _, b := range all {
		if b.Sequence != "" {
			out = append(out, b)
		}
	}
	return out
}

// Apply replaces every root window key binding with the configured ones.
// A binding that fails to grab is logged and skipped.
func (h *Handler) Apply(cfg *config.Config) {
	keybind.DetachPress(h.xu, h.root)

	for _, b := range Bindings(cfg.Hotkeys, cfg.RatioStep, h.actions) {
		if err := h.RegisterFunc(b.Sequence, func() {
			if err := b.Run(); err != nil {
				h.logger.Warn("hotkey action failed", "hotkey", b.Name, "error", err)
			}
		}); err != nil {
			h.logger.Warn("failed to register hotkey", "hotkey", b.Name, "keys", b.Sequence, "error", err)
			continue
		}
		h.logger.Debug("hotkey registered", "hotkey", b.Name, "keys", b.Sequence)
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
