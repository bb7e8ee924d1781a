// Package layout keeps a BSP layout tree in sync with window lifecycle
// events and pushes the solved rectangles to the window system.
package layout

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/logging"
)

// Event is a window lifecycle notification
type Event int

const (
	Added Event = iota + 1
	Removed
	// Resized reports an output size change.
	Resized
)

func (e Event) String() string {
	switch e {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Resized:
		return "resized"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// OutputSource reports the size of the output being tiled.
type OutputSource interface {
	OutputSize() (bsp.Size, error)
}

// Registry tracks windows and their last known rectangle.
type Registry interface {
	RegisterWindow(win bsp.WindowID, rect bsp.Rect)
	UnregisterWindow(win bsp.WindowID)
}

// Notifier delivers a new rectangle to a window.
type Notifier interface {
	NotifyResize(win bsp.WindowID, rect bsp.Rect) error
}

// SplitPolicy decides the orientation of a new window's next split
type SplitPolicy string

const (
	// SplitFixed always uses the configured default orientation.
	SplitFixed SplitPolicy = "fixed"
	// SplitAlternate flips the predecessor's orientation, producing a spiral.
	SplitAlternate SplitPolicy = "alternate"
)

// RemovalPolicy decides what happens to splits left behind by a removal
type RemovalPolicy string

const (
	// RemovalPreserve keeps Empty placeholders; their space goes to the sibling.
	RemovalPreserve RemovalPolicy = "preserve"
	// RemovalCollapse compacts the tree after every removal.
	RemovalCollapse RemovalPolicy = "collapse"
)

// Placement is a window and the rectangle assigned to it
type Placement struct {
	Window bsp.WindowID `json:"window"`
	Rect   bsp.Rect     `json:"rect"`
}

// Change describes a completed mutation or recompute.
type Change struct {
	Event      Event
	Window     bsp.WindowID
	Leaves     int
	Placements []Placement
}

// Options configures an Engine.
type Options struct {
	DefaultSplit  bsp.Orientation
	Ratio         float64
	SplitPolicy   SplitPolicy
	RemovalPolicy RemovalPolicy
	Gaps          bsp.Gaps

	Logger *log.Logger
	// Observer, when set, is called after every successful recompute.
	Observer func(Change)
}

// Engine owns the layout tree and the record arena. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	output   OutputSource
	registry Registry
	notifier Notifier
	opts     Options
	log      *log.Logger

	tree    *bsp.Tree
	records *bsp.Records
	size    bsp.Size
}

// NewEngine creates an engine with an empty tree.
func NewEngine(output OutputSource, registry Registry, notifier Notifier, opts Options) *Engine {
	e := &Engine{
		output:   output,
		registry: registry,
		notifier: notifier,
		log:      opts.Logger,
		tree:     bsp.NewTree(),
		records:  bsp.NewRecords(),
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	e.Reconfigure(opts)
	e.opts.Observer = opts.Observer
	return e
}

// Reconfigure replaces the split and removal policies, the default ratio
// and the gaps. The tree is left untouched; call Retile to apply new gaps.
func (e *Engine) Reconfigure(opts Options) {
	if opts.Ratio <= 0 || opts.Ratio >= 1 {
		opts.Ratio = bsp.DefaultRatio
	}
	if opts.SplitPolicy == "" {
		opts.SplitPolicy = SplitFixed
	}
	if opts.RemovalPolicy == "" {
		opts.RemovalPolicy = RemovalPreserve
	}
	e.opts.DefaultSplit = opts.DefaultSplit
	e.opts.Ratio = bsp.ClampRatio(opts.Ratio)
	e.opts.SplitPolicy = opts.SplitPolicy
	e.opts.RemovalPolicy = opts.RemovalPolicy
	e.opts.Gaps = opts.Gaps
}

// OnWindowEvent applies ev to the tree and recomputes every rectangle.
//
// The output size is read before anything changes; when it is unavailable
// the event is dropped and the error wraps ErrNoOutputAvailable. Removing
// an unknown window and adding a window twice are no-ops.
func (e *Engine) OnWindowEvent(ev Event, win bsp.WindowID, gaps bsp.Gaps) error {
	if err := gaps.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGaps, err)
	}
	switch ev {
	case Added, Removed, Resized:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEvent, ev)
	}

	size, err := e.outputSize()
	if err != nil {
		return err
	}
	e.opts.Gaps = gaps

	switch ev {
	case Added:
		if _, ok := e.records.Lookup(win); ok {
			e.log.Debug("window already tiled", "window", win)
			return nil
		}
		e.insert(win, size, gaps)
	case Removed:
		id, ok := e.records.Lookup(win)
		if !ok {
			e.log.Debug("ignoring removal of untracked window", "window", win)
			return nil
		}
		e.registry.UnregisterWindow(win)
		e.tree.Remove(id)
		e.records.Delete(id)
		if e.opts.RemovalPolicy == RemovalCollapse {
			if n := e.tree.Compact(); n > 0 {
				e.log.Debug("collapsed splits", "count", n)
			}
		}
	}

	e.recompute(ev, win, size)
	return nil
}

func (e *Engine) insert(win bsp.WindowID, size bsp.Size, gaps bsp.Gaps) {
	split, ratio := e.opts.DefaultSplit, e.opts.Ratio
	orientation := e.opts.DefaultSplit
	if prev, ok := e.tree.Last(); ok {
		rec, _ := e.records.Get(prev)
		split, ratio = rec.Split, rec.Ratio
		if e.opts.SplitPolicy == SplitAlternate {
			orientation = rec.Split.Flip()
		}
	}

	initial := size.Rect().Inset(gaps.Outer)
	id, _ := e.records.Add(bsp.Record{
		Window: win,
		Split:  orientation,
		Ratio:  e.opts.Ratio,
		Rect:   initial,
	})
	e.registry.RegisterWindow(win, initial)
	e.tree.Insert(id, split, ratio)
	e.log.Debug("window inserted", "window", win, "split", split, "next", orientation)
}

func (e *Engine) outputSize() (bsp.Size, error) {
	size, err := e.output.OutputSize()
	if err != nil {
		return bsp.Size{}, fmt.Errorf("%w: %w", ErrNoOutputAvailable, err)
	}
	if size.Empty() {
		return bsp.Size{}, fmt.Errorf("%w: output reports %s", ErrNoOutputAvailable, size)
	}
	return size, nil
}

// recompute solves the tree, stores each rectangle on its record and
// notifies every window. Notification failures are logged only.
func (e *Engine) recompute(ev Event, win bsp.WindowID, size bsp.Size) {
	e.size = size
	solved := bsp.Solve(e.tree, size, e.opts.Gaps)
	placements := make([]Placement, 0, len(solved))
	for _, p := range solved {
		rec, ok := e.records.Get(p.Record)
		if !ok {
			continue
		}
		rec.Rect = p.Rect
		placements = append(placements, Placement{Window: rec.Window, Rect: p.Rect})
	}

	for _, p := range placements {
		e.registry.RegisterWindow(p.Window, p.Rect)
		if err := e.notifier.NotifyResize(p.Window, p.Rect); err != nil {
			e.log.Warn("failed to apply geometry", "window", p.Window, "rect", p.Rect, "err", err)
		}
	}

	e.log.Debug("layout recomputed", "event", ev, "window", win, "windows", len(placements), "output", size)
	if e.opts.Observer != nil {
		e.opts.Observer(Change{Event: ev, Window: win, Leaves: len(placements), Placements: placements})
	}
}

// Retile recomputes every rectangle without changing the tree.
func (e *Engine) Retile() error {
	return e.OnWindowEvent(Resized, 0, e.opts.Gaps)
}

// SetSplit sets the orientation used for the next split of win. When win
// already heads a split (it is that split's left child) the split changes
// too and the layout is recomputed.
func (e *Engine) SetSplit(win bsp.WindowID, o bsp.Orientation) error {
	id, nid, node, err := e.leaf(win)
	if err != nil {
		return err
	}
	size, err := e.outputSize()
	if err != nil {
		return err
	}
	rec, _ := e.records.Get(id)
	rec.Split = o
	if parent, ok := e.tree.Node(node.Parent); ok && parent.Left == nid {
		if err := e.tree.SetSplit(node.Parent, o); err != nil {
			return err
		}
	}
	e.recompute(Resized, win, size)
	return nil
}

// AdjustRatio grows win's share of the split it belongs to by delta
// (negative values shrink it). Ratios are clamped to [0.05, 0.95]. A lone
// window has no split and is left alone.
func (e *Engine) AdjustRatio(win bsp.WindowID, delta float64) error {
	id, nid, node, err := e.leaf(win)
	if err != nil {
		return err
	}
	parent, ok := e.tree.Node(node.Parent)
	if !ok {
		e.log.Debug("no split to adjust", "window", win)
		return nil
	}
	size, err := e.outputSize()
	if err != nil {
		return err
	}

	ratio := bsp.ClampRatio(parent.Ratio - delta)
	if parent.Left == nid {
		ratio = bsp.ClampRatio(parent.Ratio + delta)
		rec, _ := e.records.Get(id)
		rec.Ratio = ratio
	}
	if err := e.tree.SetRatio(node.Parent, ratio); err != nil {
		return err
	}
	e.recompute(Resized, win, size)
	return nil
}

func (e *Engine) leaf(win bsp.WindowID) (bsp.RecordID, bsp.NodeID, bsp.Node, error) {
	id, ok := e.records.Lookup(win)
	if !ok {
		return bsp.NoRecord, bsp.NoNode, bsp.Node{}, fmt.Errorf("%w: 0x%x", ErrWindowNotFound, uint32(win))
	}
	nid, ok := e.tree.Find(id)
	if !ok {
		return bsp.NoRecord, bsp.NoNode, bsp.Node{}, fmt.Errorf("%w: 0x%x has no leaf", ErrWindowNotFound, uint32(win))
	}
	node, _ := e.tree.Node(nid)
	return id, nid, node, nil
}

// CurrentRectangles returns every tiled window with its last solved
// rectangle, in left-to-right leaf order.
func (e *Engine) CurrentRectangles() []Placement {
	leaves := e.tree.Leaves()
	out := make([]Placement, 0, len(leaves))
	for _, id := range leaves {
		if rec, ok := e.records.Get(id); ok {
			out = append(out, Placement{Window: rec.Window, Rect: rec.Rect})
		}
	}
	return out
}

// Windows returns the tiled windows in leaf order.
func (e *Engine) Windows() []bsp.WindowID {
	leaves := e.tree.Leaves()
	out := make([]bsp.WindowID, 0, len(leaves))
	for _, id := range leaves {
		if rec, ok := e.records.Get(id); ok {
			out = append(out, rec.Window)
		}
	}
	return out
}

// Has reports whether win is tiled.
func (e *Engine) Has(win bsp.WindowID) bool {
	_, ok := e.records.Lookup(win)
	return ok
}

// Record returns a copy of win's record.
func (e *Engine) Record(win bsp.WindowID) (bsp.Record, bool) {
	id, ok := e.records.Lookup(win)
	if !ok {
		return bsp.Record{}, false
	}
	rec, _ := e.records.Get(id)
	return *rec, true
}

// Snapshot returns independent copies of the tree and the record arena.
func (e *Engine) Snapshot() (*bsp.Tree, *bsp.Records) {
	return e.tree.Clone(), e.records.Clone()
}

// Label names a leaf by its window id.
func (e *Engine) Label(id bsp.RecordID) string {
	rec, ok := e.records.Get(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("0x%x", uint32(rec.Window))
}

func (e *Engine) TreeString() string {
	return e.tree.Format(e.Label)
}

// DOT renders the tree as Graphviz DOT with window ids as leaf labels.
func (e *Engine) DOT() string {
	return bsp.ToDOT(e.tree, e.Label)
}

// Stats summarises the engine state.
type Stats struct {
	Windows       int           `json:"windows"`
	Splits        int           `json:"splits"`
	Output        bsp.Size      `json:"output"`
	Gaps          bsp.Gaps      `json:"gaps"`
	SplitPolicy   SplitPolicy   `json:"split_policy"`
	RemovalPolicy RemovalPolicy `json:"removal_policy"`
}

func (e *Engine) Stats() Stats {
	return Stats{
		Windows:       e.tree.LeafCount(),
		Splits:        e.tree.SplitCount(),
		Output:        e.size,
		Gaps:          e.opts.Gaps,
		SplitPolicy:   e.opts.SplitPolicy,
		RemovalPolicy: e.opts.RemovalPolicy,
	}
}
