package main

import (
	"fmt"

	"github.com/alecgard/namegen/internal/api"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of namegen",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "namegen v%s\n", version)
	},
}

func init() {
	api.Version = version
	rootCmd.AddCommand(versionCmd)
}
