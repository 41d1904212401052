package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vigilfetch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vigilfetch %s\n", VigilfetchVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
