package main

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "cloudxr-go",
	Short:        "CloudXR AR bridge host",
	Long:         "cloudxr-go runs an AR client session against the engine bridge and reports what the host would observe.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}
