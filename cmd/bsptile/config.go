package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bsptile/internal/config"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}
	cmd.AddCommand(newConfigValidateCmd(opts))
	cmd.AddCommand(newConfigPrintCmd(opts))
	cmd.AddCommand(newConfigExplainCmd(opts))
	return cmd
}

func newConfigValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(opts.configPath); err != nil {
				return err
			}
			fmt.Println("config: ok")
			return nil
		},
	}
}

func newConfigPrintCmd(opts *globalOptions) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				res, err := loadConfig(opts.configPath)
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults (no files)")
	return cmd
}

func newConfigExplainCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "explain <yaml.path>",
		Short:   "Show a config value and where it came from",
		Example: "  bsptile config explain gaps.inner",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return err
			}

			fmt.Printf("path: %s\n", args[0])
			fmt.Printf("source: %s\n", formatSource(src))
			fmt.Printf("value:\n%s", string(out))
			return nil
		},
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
