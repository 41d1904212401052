package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/api"
	"github.com/vigila-io/vigilfetch/internal/output"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

var (
	searchCamera   int
	searchDate     string
	searchFrom     string
	searchTo       string
	searchPage     int
	searchPageSize int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the recording catalog",
	Run: func(cmd *cobra.Command, args []string) {
		client := newAPIClient()
		page, err := client.SearchRecordings(cmd.Context(), api.SearchParams{
			CameraID:  searchCamera,
			Date:      searchDate,
			StartTime: searchFrom,
			EndTime:   searchTo,
			Page:      searchPage,
			PageSize:  searchPageSize,
		})
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		if len(page.Recordings) == 0 {
			output.PrintInfo("No recordings matched")
			return
		}
		table := output.NewTable("ID", "CAMERA", "START", "DURATION", "SIZE")
		for _, rec := range page.Recordings {
			table.AddRow(
				rec.ID,
				rec.CameraName,
				rec.StartTime.Format("2006-01-02 15:04:05"),
				utils.FormatDuration(rec.DurationSeconds),
				utils.FormatBytes(uint64(rec.FileSizeMB*1024*1024)),
			)
		}
		table.Print()
		output.PrintDetail(fmt.Sprintf("Page %d of %d (%d recordings)", page.Page, page.TotalPages, page.Total))
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchCamera, "camera", "c", 0, "Restrict to one camera id (0 means all cameras)")
	searchCmd.Flags().StringVarP(&searchDate, "date", "d", "", "Restrict to one day (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Earliest start time (HH:MM)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Latest start time (HH:MM)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 50, "Results per page")
	rootCmd.AddCommand(searchCmd)
}
