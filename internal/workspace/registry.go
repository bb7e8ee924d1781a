// Package workspace tracks the outputs reported by the window system and
// the windows the tiler currently manages.
package workspace

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/bsptile/internal/bsp"
)

var (
	ErrNoOutputs       = errors.New("no outputs registered")
	ErrOutputHasNoMode = errors.New("output has no active mode")
)

// Output is a monitor and its area in root-window coordinates
type Output struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Bounds  bsp.Rect `json:"bounds"`
	Primary bool     `json:"primary"`
}

// Window is a managed window and the rectangle last assigned to it
type Window struct {
	ID    bsp.WindowID `json:"id"`
	Class string       `json:"class,omitempty"`
	Title string       `json:"title,omitempty"`
	Rect  bsp.Rect     `json:"rect"`
}

// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	outputs   []Output
	preferred string
	windows   map[bsp.WindowID]*Window
}

// New creates a registry. preferred names the output to tile; when empty
// or absent the primary output is used, then the first one.
func New(preferred string) *Registry {
	return &Registry{
		preferred: preferred,
		windows:   make(map[bsp.WindowID]*Window),
	}
}

// SetOutputs replaces the known outputs.
func (r *Registry) SetOutputs(outputs []Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append([]Output(nil), outputs...)
}

func (r *Registry) SetPreferred(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferred = name
}

func (r *Registry) Outputs() []Output {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Output(nil), r.outputs...)
}

// Output returns the output being tiled.
func (r *Registry) Output() (Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.outputLocked()
}

func (r *Registry) outputLocked() (Output, error) {
	if len(r.outputs) == 0 {
		return Output{}, ErrNoOutputs
	}
	chosen := r.outputs[0]
	found := false
	if r.preferred != "" {
		for _, o := range r.outputs {
			if o.Name == r.preferred {
				chosen, found = o, true
				break
			}
		}
	}
	if !found {
		for _, o := range r.outputs {
			if o.Primary {
				chosen = o
				break
			}
		}
	}
	if chosen.Bounds.Empty() {
		return Output{}, fmt.Errorf("%w: %s", ErrOutputHasNoMode, chosen.Name)
	}
	return chosen, nil
}

// OutputSize reports the size of the tiled output.
func (r *Registry) OutputSize() (bsp.Size, error) {
	o, err := r.Output()
	if err != nil {
		return bsp.Size{}, err
	}
	return bsp.Size{Width: o.Bounds.Width, Height: o.Bounds.Height}, nil
}

// RegisterWindow records or updates a window's rectangle.
func (r *Registry) RegisterWindow(win bsp.WindowID, rect bsp.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[win]; ok {
		w.Rect = rect
		return
	}
	r.windows[win] = &Window{ID: win, Rect: rect}
}

func (r *Registry) UnregisterWindow(win bsp.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, win)
}

// Describe attaches class and title metadata to a registered window.
func (r *Registry) Describe(win bsp.WindowID, class, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.windows[win]; ok {
		w.Class = class
		w.Title = title
	}
}

func (r *Registry) Window(win bsp.WindowID) (Window, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[win]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Windows returns every registered window ordered by id.
func (r *Registry) Windows() []Window {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Window, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tracked reports whether win is registered.
func (r *Registry) Tracked(win bsp.WindowID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.windows[win]
	return ok
}
