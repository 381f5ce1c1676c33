package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkngwrapper/vkdemo/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "vkdemo "+version.GetFullVersion())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
