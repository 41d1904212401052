package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/output"
)

var datesCmd = &cobra.Command{
	Use:   "dates <camera-id>",
	Short: "List days a camera has footage for, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cameraID, err := strconv.Atoi(args[0])
		if err != nil {
			output.PrintError("Camera id must be a number")
			os.Exit(1)
		}
		client := newAPIClient()
		dates, err := client.RecordingDates(cmd.Context(), cameraID)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		if len(dates) == 0 {
			output.PrintInfo("No recordings for this camera")
			return
		}
		output.PrintHeader(fmt.Sprintf("Recording days for camera %d:", cameraID))
		for _, date := range dates {
			output.PrintDetail(fmt.Sprintf("  %s %s", output.StyleSymbols["bullet"], date))
		}
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}
