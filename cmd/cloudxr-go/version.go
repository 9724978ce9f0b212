package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cloudxr-go %s\n", cloudxr.BridgeVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
