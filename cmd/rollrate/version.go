// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rollrate"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rollrate version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rollrate version %s\n", rollrate.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
