package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scribe",
		Short: "Scribe is a transactional rich-text editing core",
		Long: `Scribe drives an editor over an in-memory document. Scripts select
ranges, type, run commands and step through undo history, printing the
resulting markup.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a TOML or YAML configuration file")
	root.PersistentFlags().StringSliceP("plugin", "p", nil, "Lua plugin file or directory (repeatable)")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	root.PersistentFlags().Bool("metrics", false, "Print metrics in Prometheus text format on exit")

	root.AddCommand(newPlayCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scribe %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
