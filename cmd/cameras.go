package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/output"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List cameras that have recordings",
	Run: func(cmd *cobra.Command, args []string) {
		client := newAPIClient()
		cameras, err := client.CamerasWithRecordings(cmd.Context())
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		if len(cameras) == 0 {
			output.PrintInfo("No cameras have recordings")
			return
		}
		table := output.NewTable("ID", "NAME", "FOLDER", "RECORDINGS")
		for _, cam := range cameras {
			id := "-"
			if cam.CameraID != nil {
				id = strconv.Itoa(*cam.CameraID)
			}
			table.AddRow(id, cam.CameraName, cam.FolderName, strconv.Itoa(cam.RecordingCount))
		}
		table.Print()
	},
}

func init() {
	rootCmd.AddCommand(camerasCmd)
}
