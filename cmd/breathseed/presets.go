package main

import (
	"fmt"

	"github.com/san-kum/breathseed/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dumpPreset string

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, or dump one as a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if dumpPreset != "" {
				cfg := config.GetPreset(dumpPreset)
				if cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", dumpPreset, config.ListPresets())
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dumpPreset, "dump", "", "print the named preset as yaml")
	return cmd
}
