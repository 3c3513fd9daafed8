package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer(cmd).Text("itglue-mcp " + Version + " (" + runtime.Version() + ")")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
