package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bsptile/internal/bsp"
)

func TestOutputSelection(t *testing.T) {
	outputs := []Output{
		{ID: 0, Name: "HDMI-1", Bounds: bsp.Rect{Width: 1280, Height: 1024}},
		{ID: 1, Name: "eDP-1", Bounds: bsp.Rect{X: 1280, Width: 1920, Height: 1080}, Primary: true},
		{ID: 2, Name: "DP-2", Bounds: bsp.Rect{X: 3200, Width: 2560, Height: 1440}},
	}

	tests := []struct {
		name      string
		preferred string
		want      string
	}{
		{name: "primary by default", want: "eDP-1"},
		{name: "preferred wins", preferred: "DP-2", want: "DP-2"},
		{name: "unknown preferred falls back to primary", preferred: "VGA-1", want: "eDP-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.preferred)
			r.SetOutputs(outputs)
			o, err := r.Output()
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Name)
		})
	}

	r := New("")
	r.SetOutputs(outputs[:1])
	size, err := r.OutputSize()
	require.NoError(t, err)
	assert.Equal(t, bsp.Size{Width: 1280, Height: 1024}, size)
}

func TestOutputSizeErrors(t *testing.T) {
	r := New("")
	_, err := r.OutputSize()
	assert.ErrorIs(t, err, ErrNoOutputs)

	r.SetOutputs([]Output{{Name: "DP-1", Primary: true}})
	_, err = r.OutputSize()
	assert.ErrorIs(t, err, ErrOutputHasNoMode)
}

func TestWindowTracking(t *testing.T) {
	r := New("")
	r.RegisterWindow(3, bsp.Rect{Width: 10, Height: 10})
	r.RegisterWindow(1, bsp.Rect{Width: 20, Height: 20})
	r.Describe(1, "kitty", "shell")
	r.RegisterWindow(1, bsp.Rect{X: 5, Width: 20, Height: 20})

	w, ok := r.Window(1)
	require.True(t, ok)
	assert.Equal(t, "kitty", w.Class, "updating the rect keeps metadata")
	assert.Equal(t, 5, w.Rect.X)

	ids := []bsp.WindowID{}
	for _, w := range r.Windows() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []bsp.WindowID{1, 3}, ids)

	r.UnregisterWindow(3)
	assert.False(t, r.Tracked(3))
	assert.True(t, r.Tracked(1))
}
