// FILE: lixenwraith/layercfg/cmd/layercfg/commands.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/lixenwraith/layercfg"
)

func newGetCmd(opts *options) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get KEY [-- config-args...]",
		Short: "Print the effective value of a key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, configArgs := splitArgs(cmd, args)
			if len(positional) != 1 {
				return fmt.Errorf("expected exactly one KEY, got %d", len(positional))
			}

			cfg, err := opts.build(cmd, configArgs)
			if err != nil {
				return err
			}

			key := positional[0]
			val, err := cfg.String(key)
			if err != nil {
				return err
			}
			if showSource {
				src, _ := cfg.Provenance(key)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", val, src)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSource, "source", false, "also print the source that supplied the value")
	return cmd
}

func newDumpCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump [-- config-args...]",
		Short: "Print every effective key",
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, configArgs := splitArgs(cmd, args)
			if len(positional) != 0 {
				return fmt.Errorf("unexpected arguments before \"--\": %v", positional)
			}

			cfg, err := opts.build(cmd, configArgs)
			if err != nil {
				return err
			}

			switch format {
			case "text":
				return dumpText(cmd, cfg)
			case "toml":
				return cfg.WriteTOML(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q (want text or toml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or toml")
	return cmd
}

func dumpText(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	for _, key := range cfg.Keys() {
		val, _ := cfg.Get(key)
		if _, err := fmt.Fprintf(out, "%s=%s\n", key, val); err != nil {
			return err
		}
	}
	return nil
}

func newChildrenCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "children [KEY] [-- config-args...]",
		Short: "List the key segments directly below KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, configArgs := splitArgs(cmd, args)
			if len(positional) > 1 {
				return fmt.Errorf("expected at most one KEY, got %d", len(positional))
			}

			cfg, err := opts.build(cmd, configArgs)
			if err != nil {
				return err
			}

			parent := ""
			if len(positional) == 1 {
				parent = positional[0]
			}
			for _, child := range cfg.ChildKeys(parent) {
				fmt.Fprintln(cmd.OutOrStdout(), child)
			}
			return nil
		},
	}
}
