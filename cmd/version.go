package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/antazoey/evm-trace/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of evm-trace.",
	Long:  `Prints the version of evm-trace.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\nCommit: %s\nOS/Arch: %s/%s\n",
			version.Release, version.GitCommit, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
