package hotkeys

import (
	"testing"

	"github.com/1broseidon/bsptile/internal/bsp"
	"github.com/1broseidon/bsptile/internal/config"
)

type recorder struct {
	calls []string
}

func (r *recorder) SetSplit(window uint32, o bsp.Orientation) error {
	r.calls = append(r.calls, "split "+o.String())
	return nil
}

func (r *recorder) AdjustRatio(window uint32, delta float64) error {
	if delta > 0 {
		r.calls = append(r.calls, "grow")
	} else {
		r.calls = append(r.calls, "shrink")
	}
	return nil
}

func (r *recorder) Retile() error {
	r.calls = append(r.calls, "retile")
	return nil
}

func TestBindings_DefaultHotkeys(t *testing.T) {
	cfg := config.DefaultConfig()
	rec := &recorder{}

	bindings := Bindings(cfg.Hotkeys, cfg.RatioStep, rec)
	if len(bindings) != 5 {
		t.Fatalf("got %d bindings, want 5", len(bindings))
	}
	for _, b := range bindings {
		if err := b.Run(); err != nil {
			t.Fatalf("%s: %v", b.Name, err)
		}
	}

	want := []string{"split horizontal", "split vertical", "grow", "shrink", "retile"}
	for i, call := range want {
		if rec.calls[i] != call {
			t.Fatalf("call %d = %q, want %q", i, rec.calls[i], call)
		}
	}
}

func TestBindings_SkipsEmptySequences(t *testing.T) {
	hk := config.Hotkeys{Retile: "Mod4-r"}
	bindings := Bindings(hk, 0.05, &recorder{})
	if len(bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(bindings))
	}
	if bindings[0].Name != "retile" || bindings[0].Sequence != "Mod4-r" {
		t.Fatalf("unexpected binding %+v", bindings[0])
	}
}
