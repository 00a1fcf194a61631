package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/breathseed/internal/analysis"
	"github.com/san-kum/breathseed/internal/viz"
	"github.com/spf13/cobra"
)

var (
	binWidth float64
	csvOut   string
	plot     bool
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "summarize a particle file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().Float64Var(&binWidth, "bin", 0.1, "release histogram bin width (s)")
	cmd.Flags().StringVar(&csvOut, "csv", "", "write the release histogram as CSV")
	cmd.Flags().BoolVar(&plot, "plot", true, "plot the release histogram")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger := loggerFromContext(cmd.Context())

	f, err := analysis.ReadFile(path)
	if err != nil {
		return err
	}
	summary := analysis.Summarize(f)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.RenderInspection(path, f, summary))
	if !summary.GapFree {
		logger.Warn("identifiers are not gap free", "first_gap", summary.FirstGap)
	}

	if !summary.HasTimes {
		logger.Debug("no release times in file, skipping histogram")
		return nil
	}

	bins, err := analysis.ReleaseHistogram(f, binWidth)
	if err != nil {
		return err
	}

	if plot {
		graph := asciigraph.Plot(analysis.Counts(bins),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("particles released per %.3g s", binWidth)),
		)
		fmt.Fprintln(out)
		fmt.Fprintln(out, graph)
	}

	if csvOut != "" {
		file, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := analysis.WriteHistogramCSV(file, bins); err != nil {
			return err
		}
		logger.Info("histogram written", "path", csvOut, "bins", len(bins))
		return file.Close()
	}
	return nil
}
