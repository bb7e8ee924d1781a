// Package daemon connects the layout engine to the window system. Every
// engine call goes through one mutex so the X event loop, IPC goroutines,
// the reconciler and the config watcher never race.
package daemon

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/config"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/layout"
	"github.com/1broseidon/bsptile/internal/logging"
	"github.com/1broseidon/bsptile/internal/platform"
	"github.com/1broseidon/bsptile/internal/workspace"
)

// ConfigLoader returns a freshly loaded configuration.
type ConfigLoader func() (*config.Config, error)

// Daemon owns the engine and everything it talks to.
type Daemon struct {
	mu        sync.Mutex
	cfg       *config.Config
	backend   platform.Backend
	registry  *workspace.Registry
	engine    *layout.Engine
	load      ConfigLoader
	log       *log.Logger
	layoutLog *log.Logger
	started   time.Time

	callbacks []func(*config.Config)
}

var _ ipc.Controller = (*Daemon)(nil)

// New creates a daemon. load is used by Reload; it may be nil when reloading
// is not supported.
func New(cfg *config.Config, backend platform.Backend, load ConfigLoader, logger *log.Logger) *Daemon {
	if logger == nil {
		logger = logging.Discard()
	}
	d := &Daemon{
		cfg:       cfg,
		backend:   backend,
		registry:  workspace.New(cfg.Output),
		load:      load,
		log:       logger,
		layoutLog: logger.WithPrefix("layout"),
		started:   time.Now(),
	}
	d.engine = layout.NewEngine(d.registry, d.registry, &mover{registry: d.registry, backend: backend}, d.engineOptions(cfg))
	return d
}

func (d *Daemon) engineOptions(cfg *config.Config) layout.Options {
	return layout.Options{
		DefaultSplit:  cfg.Orientation(),
		Ratio:         cfg.SplitRatio,
		SplitPolicy:   layout.SplitPolicy(cfg.SplitPolicy),
		RemovalPolicy: layout.RemovalPolicy(cfg.RemovalPolicy),
		Gaps:          cfg.Gaps,
		Logger:        d.layoutLog,
	}
}

// Start reads the outputs and adopts the windows already on screen.
func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.refreshOutputsLocked(); err != nil {
		return err
	}
	return d.syncLocked()
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Sync diffs the window system's client list against the tiled windows
// and turns the difference into Removed and Added events.
func (d *Daemon) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syncLocked()
}

func (d *Daemon) syncLocked() error {
	listed, err := d.backend.ListWindows()
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}

	present := make(map[bsp.WindowID]platform.Window, len(listed))
	for _, w := range listed {
		if d.cfg.Ignored(w.Class) {
			continue
		}
		present[bsp.WindowID(w.ID)] = w
	}

	var errs []error
	for _, win := range d.engine.Windows() {
		if _, ok := present[win]; ok {
			continue
		}
		d.log.Debug("window gone", "window", d.label(win))
		if err := d.engine.OnWindowEvent(layout.Removed, win, d.cfg.Gaps); err != nil {
			errs = append(errs, err)
		}
	}

	// Client list order is mapping order, so new windows are inserted oldest first.
	for _, w := range listed {
		win := bsp.WindowID(w.ID)
		if _, ok := present[win]; !ok || d.engine.Has(win) {
			continue
		}
		d.log.Debug("window appeared", "window", d.label(win), "class", w.Class)
		if err := d.engine.OnWindowEvent(layout.Added, win, d.cfg.Gaps); err != nil {
			errs = append(errs, err)
			continue
		}
		d.registry.Describe(win, w.Class, w.Title)
	}
	return errors.Join(errs...)
}

// ScreenChanged re-reads the outputs and recomputes every rectangle.
func (d *Daemon) ScreenChanged() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.refreshOutputsLocked(); err != nil {
		return err
	}
	return d.engine.OnWindowEvent(layout.Resized, 0, d.cfg.Gaps)
}

func (d *Daemon) refreshOutputsLocked() error {
	displays, err := d.backend.Displays()
	if err != nil {
		return fmt.Errorf("query displays: %w", err)
	}

	outputs := make([]workspace.Output, 0, len(displays))
	for _, disp := range displays {
		outputs = append(outputs, workspace.Output{
			ID:      disp.ID,
			Name:    disp.Name,
			Bounds:  rectFromPlatform(disp.Usable),
			Primary: disp.Primary,
		})
	}
	d.registry.SetOutputs(outputs)

	if out, err := d.registry.Output(); err == nil {
		d.log.Debug("output selected", "name", out.Name, "bounds", out.Bounds)
	}
	return nil
}

// Retile recomputes the layout without changing the tree.
func (d *Daemon) Retile() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Retile()
}

// SetSplit sets the split orientation of a window. Window 0 means the
// focused window.
func (d *Daemon) SetSplit(window uint32, o bsp.Orientation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	win, err := d.resolveLocked(window)
	if err != nil {
		return err
	}
	return d.engine.SetSplit(win, o)
}

// AdjustRatio grows the window's share of its split by delta. Window 0
// means the focused window.
func (d *Daemon) AdjustRatio(window uint32, delta float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	win, err := d.resolveLocked(window)
	if err != nil {
		return err
	}
	return d.engine.AdjustRatio(win, delta)
}

func (d *Daemon) resolveLocked(window uint32) (bsp.WindowID, error) {
	if window != 0 {
		return bsp.WindowID(window), nil
	}
	active, err := d.backend.ActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("resolve focused window: %w", err)
	}
	return bsp.WindowID(active), nil
}

// Reload loads the configuration again and applies it.
func (d *Daemon) Reload() error {
	if d.load == nil {
		return errors.New("reload not supported")
	}
	cfg, err := d.load()
	if err != nil {
		return err
	}
	return d.Apply(cfg)
}

// OnConfigChange registers a callback run after every Apply, outside the lock.
func (d *Daemon) OnConfigChange(fn func(*config.Config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, fn)
}

// Apply switches to cfg. Policy changes affect future insertions; gaps,
// the output choice and ignored classes take effect immediately.
func (d *Daemon) Apply(cfg *config.Config) error {
	err := d.apply(cfg)

	d.mu.Lock()
	callbacks := slices.Clone(d.callbacks)
	d.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return err
}

func (d *Daemon) apply(cfg *config.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg = cfg
	d.engine.Reconfigure(d.engineOptions(cfg))
	d.registry.SetPreferred(cfg.Output)
	if lvl, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		d.log.SetLevel(lvl)
		d.layoutLog.SetLevel(lvl)
	}

	err := d.syncLocked()
	if rerr := d.engine.Retile(); rerr != nil {
		err = errors.Join(err, rerr)
	}
	d.log.Info("config applied", "gaps", fmt.Sprintf("%d/%d", cfg.Gaps.Outer, cfg.Gaps.Inner),
		"split_policy", cfg.SplitPolicy, "removal_policy", cfg.RemovalPolicy)
	return err
}

// Status reports engine statistics and daemon uptime.
func (d *Daemon) Status() (ipc.StatusData, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := ipc.StatusData{
		Stats:         d.engine.Stats(),
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		DaemonRunning: true,
	}
	if out, err := d.registry.Output(); err == nil {
		status.OutputName = out.Name
	}
	return status, nil
}

// Windows lists tiled windows with their rectangles in root coordinates.
func (d *Daemon) Windows() ([]ipc.WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	origin, err := d.registry.Output()
	if err != nil {
		return nil, err
	}

	placements := d.engine.CurrentRectangles()
	infos := make([]ipc.WindowInfo, 0, len(placements))
	for _, p := range placements {
		info := ipc.WindowInfo{
			ID:   uint32(p.Window),
			Rect: translate(p.Rect, origin.Bounds),
		}
		if rec, ok := d.engine.Record(p.Window); ok {
			info.Split = rec.Split.String()
			info.Ratio = rec.Ratio
		}
		if w, ok := d.registry.Window(p.Window); ok {
			info.Class = w.Class
			info.Title = w.Title
		}
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b ipc.WindowInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return infos, nil
}

// Tree returns the layout tree as indented text and as DOT.
func (d *Daemon) Tree() (ipc.TreeData, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return ipc.TreeData{
		Text: d.engine.TreeString(),
		DOT:  d.engine.DOT(),
	}, nil
}

func (d *Daemon) label(win bsp.WindowID) string {
	return fmt.Sprintf("0x%x", uint32(win))
}

// mover pushes solved rectangles to the window system. The engine works in
// output-relative coordinates; X11 wants root coordinates.
type mover struct {
	registry *workspace.Registry
	backend  platform.Backend
}

func (m *mover) NotifyResize(win bsp.WindowID, rect bsp.Rect) error {
	out, err := m.registry.Output()
	if err != nil {
		return err
	}
	return m.backend.MoveResize(platform.WindowID(win), rectToPlatform(translate(rect, out.Bounds)))
}

func translate(r bsp.Rect, origin bsp.Rect) bsp.Rect {
	r.X += origin.X
	r.Y += origin.Y
	return r
}

func rectFromPlatform(r platform.Rect) bsp.Rect {
	return bsp.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectToPlatform(r bsp.Rect) platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
