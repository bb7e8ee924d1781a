package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bsptile/internal/bsp"
)

const (
	SplitPolicyFixed     = "fixed"
	SplitPolicyAlternate = "alternate"

	RemovalPolicyPreserve = "preserve"
	RemovalPolicyCollapse = "collapse"
)

// Hotkeys maps tiling actions to key sequences. An empty sequence disables
// the binding.
type Hotkeys struct {
	SplitHorizontal string `yaml:"split_horizontal"`
	SplitVertical   string `yaml:"split_vertical"`
	Grow            string `yaml:"grow"`
	Shrink          string `yaml:"shrink"`
	Retile          string `yaml:"retile"`
}

// Config holds the application configuration.
type Config struct {
	Gaps              bsp.Gaps `yaml:"gaps"`
	DefaultSplit      string   `yaml:"default_split"`
	SplitRatio        float64  `yaml:"split_ratio"`
	SplitPolicy       string   `yaml:"split_policy"`
	RemovalPolicy     string   `yaml:"removal_policy"`
	Output            string   `yaml:"output,omitempty"`
	IgnoreClasses     []string `yaml:"ignore_classes"`
	Hotkeys           Hotkeys  `yaml:"hotkeys"`
	RatioStep         float64  `yaml:"ratio_step"`
	ReconcileInterval int      `yaml:"reconcile_interval"`
	LogLevel          string   `yaml:"log_level"`
	Display           string   `yaml:"display,omitempty"`
	XAuthority        string   `yaml:"xauthority,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Gaps:          bsp.Gaps{Outer: 10, Inner: 5},
		DefaultSplit:  "horizontal",
		SplitRatio:    bsp.DefaultRatio,
		SplitPolicy:   SplitPolicyFixed,
		RemovalPolicy: RemovalPolicyPreserve,
		IgnoreClasses: []string{},
		Hotkeys: Hotkeys{
			SplitHorizontal: "Mod4-Mod1-h",
			SplitVertical:   "Mod4-Mod1-v",
			Grow:            "Mod4-Mod1-equal",
			Shrink:          "Mod4-Mod1-minus",
			Retile:          "Mod4-Mod1-r",
		},
		RatioStep:         0.05,
		ReconcileInterval: 5,
		LogLevel:          "info",
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bsptile", "config.yaml"), nil
}

// Orientation returns the parsed default split. Validate guarantees it parses.
func (c *Config) Orientation() bsp.Orientation {
	o, err := bsp.ParseOrientation(c.DefaultSplit)
	if err != nil {
		return bsp.Horizontal
	}
	return o
}

// Ignored reports whether windows of the given WM_CLASS are left untiled.
func (c *Config) Ignored(class string) bool {
	for _, ignored := range c.IgnoreClasses {
		if strings.EqualFold(ignored, class) {
			return true
		}
	}
	return false
}

// Save writes the configuration to path, or the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Gaps.Outer < 0 {
		return &ValidationError{Path: "gaps.outer", Err: fmt.Errorf("gaps.outer must be >= 0")}
	}
	if c.Gaps.Inner < 0 {
		return &ValidationError{Path: "gaps.inner", Err: fmt.Errorf("gaps.inner must be >= 0")}
	}
	if _, err := bsp.ParseOrientation(c.DefaultSplit); err != nil {
		return &ValidationError{Path: "default_split", Err: fmt.Errorf("default_split must be one of: horizontal, vertical")}
	}
	if c.SplitRatio < bsp.MinRatio || c.SplitRatio > bsp.MaxRatio {
		return &ValidationError{Path: "split_ratio", Err: fmt.Errorf("split_ratio must be between %.2f and %.2f", bsp.MinRatio, bsp.MaxRatio)}
	}
	switch c.SplitPolicy {
	case SplitPolicyFixed, SplitPolicyAlternate:
	default:
		return &ValidationError{Path: "split_policy", Err: fmt.Errorf("split_policy must be one of: fixed, alternate")}
	}
	switch c.RemovalPolicy {
	case RemovalPolicyPreserve, RemovalPolicyCollapse:
	default:
		return &ValidationError{Path: "removal_policy", Err: fmt.Errorf("removal_policy must be one of: preserve, collapse")}
	}
	if c.IgnoreClasses == nil {
		return &ValidationError{Path: "ignore_classes", Err: fmt.Errorf("ignore_classes must not be null")}
	}
	for _, class := range c.IgnoreClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "ignore_classes", Err: fmt.Errorf("ignore_classes contains an empty class name")}
		}
	}
	if c.RatioStep <= 0 || c.RatioStep >= 0.5 {
		return &ValidationError{Path: "ratio_step", Err: fmt.Errorf("ratio_step must be > 0 and < 0.5")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if err := c.validateHotkeys(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateHotkeys() error {
	seen := make(map[string]string)
	bindings := []struct {
		path string
		seq  string
	}{
		{"hotkeys.split_horizontal", c.Hotkeys.SplitHorizontal},
		{"hotkeys.split_vertical", c.Hotkeys.SplitVertical},
		{"hotkeys.grow", c.Hotkeys.Grow},
		{"hotkeys.shrink", c.Hotkeys.Shrink},
		{"hotkeys.retile", c.Hotkeys.Retile},
	}
	for _, b := range bindings {
		seq := strings.TrimSpace(b.seq)
		if seq == "" {
			continue
		}
		if other, ok := seen[seq]; ok {
			return &ValidationError{Path: b.path, Err: fmt.Errorf("%q is already bound by %s", seq, other)}
		}
		seen[seq] = b.path
	}
	return nil
}
