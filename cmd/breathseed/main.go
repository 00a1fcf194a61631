package main

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dataDir string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "breathseed",
		Short:        "seed particles for exhaled droplet CFD runs",
		Long:         "breathseed writes the initial particle file for a CFD simulation of droplets exhaled through the mouth and both nostrils over repeated breathing cycles.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".breathseed", "run registry directory")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newOutlineCmd(),
		newInspectCmd(),
		newRunsCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}
