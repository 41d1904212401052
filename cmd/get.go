package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/output"
)

var getName string

var getCmd = &cobra.Command{
	Use:   "get <folder::filename>",
	Short: "Download one recording as a zip archive",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newAPIClient()
		req, err := client.DownloadRequest(args[0])
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		if getName != "" {
			req.Filename = getName
		}
		runTransfer(req, newFileSink())
	},
}

func init() {
	getCmd.Flags().StringVar(&getName, "name", "", "Artifact file name (defaults to the clip name with .zip)")
	rootCmd.AddCommand(getCmd)
}
