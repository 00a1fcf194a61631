package main

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/breathseed/internal/config"
	"github.com/san-kum/breathseed/internal/record"
	"github.com/san-kum/breathseed/internal/sampler"
	"github.com/spf13/cobra"
)

var (
	outlineSide    string
	outlineSides   int
	outlineStartID int
	outlineOutput  string
)

func newOutlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "write a nostril rim polygon in compact schema for placement checks",
		Args:  cobra.NoArgs,
		RunE:  runOutline,
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "default", "base preset")
	cmd.Flags().StringVar(&outlineSide, "side", "left", "nostril: left or right")
	cmd.Flags().IntVar(&outlineSides, "sides", 36, "polygon sides")
	cmd.Flags().IntVar(&outlineStartID, "start-id", 300, "identifier offset of the first point")
	cmd.Flags().StringVarP(&outlineOutput, "output", "o", "-", "output file (- for stdout)")

	return cmd
}

func runOutline(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tr := cfg.LeftTransform()
	switch outlineSide {
	case "left":
	case "right":
		tr = cfg.RightTransform()
	default:
		return fmt.Errorf("unknown side %q (want left or right)", outlineSide)
	}
	if outlineSides < 3 {
		return fmt.Errorf("--sides must be at least 3, got %d", outlineSides)
	}

	var (
		w    io.Writer = cmd.OutOrStdout()
		file *os.File
	)
	if outlineOutput != "-" {
		f, err := os.Create(outlineOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w, file = f, f
	}

	id := outlineStartID
	for _, p := range sampler.Outline(cfg.Nostril.Radius, tr, outlineSides) {
		next, err := record.Write(w, record.Compact, 0, id, p)
		if err != nil {
			return err
		}
		id = next
	}

	loggerFromContext(cmd.Context()).Debug("outline written", "side", outlineSide, "points", id-outlineStartID)
	if file != nil {
		return file.Close()
	}
	return nil
}
