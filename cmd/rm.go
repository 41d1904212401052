package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/output"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:   "rm <folder::filename ...>",
	Short: "Delete recordings from the recorder",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !rmYes {
			output.PrintWarning(fmt.Sprintf("About to delete %d recording(s) from the recorder. Type 'yes' to continue:", len(args)))
			var answer string
			fmt.Scanln(&answer)
			if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
				output.PrintInfo("Aborted")
				return
			}
		}
		client := newAPIClient()
		if len(args) == 1 {
			result, err := client.DeleteRecording(cmd.Context(), args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			output.PrintSuccess(fmt.Sprintf("%s Deleted %s", output.StyleSymbols["pass"], result.Deleted))
			return
		}
		result, err := client.DeleteRecordings(cmd.Context(), args)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		output.PrintSuccess(fmt.Sprintf("%s Deleted %d recording(s)", output.StyleSymbols["pass"], result.DeletedCount))
		for _, failure := range result.Errors {
			output.PrintWarning(fmt.Sprintf("%s %s: %s", output.StyleSymbols["fail"], failure.ID, failure.Error))
		}
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}
