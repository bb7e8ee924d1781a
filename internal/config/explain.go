package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	gaps
//	gaps.outer
//	default_split
//	split_ratio
//	split_policy
//	removal_policy
//	output
//	ignore_classes
//	hotkeys.split_horizontal
//	ratio_step
//	reconcile_interval
//	log_level
//	display
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "gaps":
		if len(parts) == 1 {
			return cfg.Gaps, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "outer":
				return cfg.Gaps.Outer, nil
			case "inner":
				return cfg.Gaps.Inner, nil
			}
		}
	case "hotkeys":
		if len(parts) == 1 {
			return cfg.Hotkeys, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "split_horizontal":
				return cfg.Hotkeys.SplitHorizontal, nil
			case "split_vertical":
				return cfg.Hotkeys.SplitVertical, nil
			case "grow":
				return cfg.Hotkeys.Grow, nil
			case "shrink":
				return cfg.Hotkeys.Shrink, nil
			case "retile":
				return cfg.Hotkeys.Retile, nil
			}
		}
	case "default_split":
		return leaf(cfg.DefaultSplit)
	case "split_ratio":
		return leaf(cfg.SplitRatio)
	case "split_policy":
		return leaf(cfg.SplitPolicy)
	case "removal_policy":
		return leaf(cfg.RemovalPolicy)
	case "output":
		return leaf(cfg.Output)
	case "ignore_classes":
		return leaf(cfg.IgnoreClasses)
	case "ratio_step":
		return leaf(cfg.RatioStep)
	case "reconcile_interval":
		return leaf(cfg.ReconcileInterval)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "display":
		return leaf(cfg.Display)
	case "xauthority":
		return leaf(cfg.XAuthority)
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
