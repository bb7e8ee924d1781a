package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Subscriptions are invoked from the X event loop goroutine.
type Subscriptions struct {
	// ClientsChanged fires when _NET_CLIENT_LIST or the current desktop changes.
	ClientsChanged func()
	// ScreenChanged fires on RandR screen changes and root geometry changes.
	ScreenChanged func()
}

// Subscribe selects root window events and connects the callbacks.
// Callbacks only run while EventLoop is active.
func (c *Connection) Subscribe(subs Subscriptions) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	if subs.ClientsChanged != nil {
		xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
			name, err := xprop.AtomName(xu, ev.Atom)
			if err != nil {
				return
			}
			switch name {
			case "_NET_CLIENT_LIST", "_NET_CURRENT_DESKTOP":
				subs.ClientsChanged()
			}
		}).Connect(c.XUtil, c.Root)
	}

	if subs.ScreenChanged != nil {
		xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
			subs.ScreenChanged()
		}).Connect(c.XUtil, c.Root)

		if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
			return fmt.Errorf("failed to select randr input: %w", err)
		}
		// xevent has no dispatcher for extension events; hooks see every event.
		xevent.HookFun(func(xu *xgbutil.XUtil, ev interface{}) bool {
			if _, ok := ev.(randr.ScreenChangeNotifyEvent); ok {
				subs.ScreenChanged()
			}
			return true
		}).Connect(c.XUtil)
	}
	return nil
}
