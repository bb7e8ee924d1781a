package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawGaps struct {
	Outer *int `yaml:"outer"`
	Inner *int `yaml:"inner"`
}

type RawHotkeys struct {
	SplitHorizontal *string `yaml:"split_horizontal"`
	SplitVertical   *string `yaml:"split_vertical"`
	Grow            *string `yaml:"grow"`
	Shrink          *string `yaml:"shrink"`
	Retile          *string `yaml:"retile"`
}

// RawConfig mirrors Config with optional fields so that several files can
// be layered before defaults are applied.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Gaps              *RawGaps    `yaml:"gaps"`
	DefaultSplit      *string     `yaml:"default_split"`
	SplitRatio        *float64    `yaml:"split_ratio"`
	SplitPolicy       *string     `yaml:"split_policy"`
	RemovalPolicy     *string     `yaml:"removal_policy"`
	Output            *string     `yaml:"output"`
	IgnoreClasses     []string    `yaml:"ignore_classes"`
	Hotkeys           *RawHotkeys `yaml:"hotkeys"`
	RatioStep         *float64    `yaml:"ratio_step"`
	ReconcileInterval *int        `yaml:"reconcile_interval"`
	LogLevel          *string     `yaml:"log_level"`
	Display           *string     `yaml:"display"`
	XAuthority        *string     `yaml:"xauthority"`
}

// merge overlays o on r. Scalars set in o win; ignore_classes lists are
// replaced, not appended.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r
	out.Include = nil

	if o.Gaps != nil {
		g := RawGaps{}
		if r.Gaps != nil {
			g = *r.Gaps
		}
		if o.Gaps.Outer != nil {
			g.Outer = o.Gaps.Outer
		}
		if o.Gaps.Inner != nil {
			g.Inner = o.Gaps.Inner
		}
		out.Gaps = &g
	}
	if o.Hotkeys != nil {
		h := RawHotkeys{}
		if r.Hotkeys != nil {
			h = *r.Hotkeys
		}
		mergeString(&h.SplitHorizontal, o.Hotkeys.SplitHorizontal)
		mergeString(&h.SplitVertical, o.Hotkeys.SplitVertical)
		mergeString(&h.Grow, o.Hotkeys.Grow)
		mergeString(&h.Shrink, o.Hotkeys.Shrink)
		mergeString(&h.Retile, o.Hotkeys.Retile)
		out.Hotkeys = &h
	}

	mergeString(&out.DefaultSplit, o.DefaultSplit)
	mergeString(&out.SplitPolicy, o.SplitPolicy)
	mergeString(&out.RemovalPolicy, o.RemovalPolicy)
	mergeString(&out.Output, o.Output)
	mergeString(&out.LogLevel, o.LogLevel)
	mergeString(&out.Display, o.Display)
	mergeString(&out.XAuthority, o.XAuthority)
	if o.SplitRatio != nil {
		out.SplitRatio = o.SplitRatio
	}
	if o.RatioStep != nil {
		out.RatioStep = o.RatioStep
	}
	if o.ReconcileInterval != nil {
		out.ReconcileInterval = o.ReconcileInterval
	}
	if o.IgnoreClasses != nil {
		out.IgnoreClasses = append([]string(nil), o.IgnoreClasses...)
	}
	return out
}

func mergeString(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
