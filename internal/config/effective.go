package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. It does not call
// Validate.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Gaps != nil {
		cfg.Gaps.Outer = derefInt(raw.Gaps.Outer, cfg.Gaps.Outer)
		cfg.Gaps.Inner = derefInt(raw.Gaps.Inner, cfg.Gaps.Inner)
	}
	if raw.DefaultSplit != nil {
		cfg.DefaultSplit = strings.ToLower(strings.TrimSpace(*raw.DefaultSplit))
	}
	if raw.SplitRatio != nil {
		cfg.SplitRatio = *raw.SplitRatio
	}
	if raw.SplitPolicy != nil {
		cfg.SplitPolicy = strings.ToLower(strings.TrimSpace(*raw.SplitPolicy))
	}
	if raw.RemovalPolicy != nil {
		cfg.RemovalPolicy = strings.ToLower(strings.TrimSpace(*raw.RemovalPolicy))
	}
	if raw.Output != nil {
		cfg.Output = strings.TrimSpace(*raw.Output)
	}
	if raw.IgnoreClasses != nil {
		cfg.IgnoreClasses = append([]string{}, raw.IgnoreClasses...)
	}
	if raw.Hotkeys != nil {
		h := raw.Hotkeys
		cfg.Hotkeys.SplitHorizontal = derefString(h.SplitHorizontal, cfg.Hotkeys.SplitHorizontal)
		cfg.Hotkeys.SplitVertical = derefString(h.SplitVertical, cfg.Hotkeys.SplitVertical)
		cfg.Hotkeys.Grow = derefString(h.Grow, cfg.Hotkeys.Grow)
		cfg.Hotkeys.Shrink = derefString(h.Shrink, cfg.Hotkeys.Shrink)
		cfg.Hotkeys.Retile = derefString(h.Retile, cfg.Hotkeys.Retile)
	}
	if raw.RatioStep != nil {
		cfg.RatioStep = *raw.RatioStep
	}
	if raw.ReconcileInterval != nil {
		cfg.ReconcileInterval = *raw.ReconcileInterval
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warn" {
			level = "warning"
		}
		cfg.LogLevel = level
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.TrimSpace(*p)
}
