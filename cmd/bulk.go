package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vigila-io/vigilfetch/internal/artifact"
	"github.com/vigila-io/vigilfetch/internal/output"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

var (
	bulkManifestFile string
	bulkName         string
	bulkS3Target     string
)

var bulkCmd = &cobra.Command{
	Use:   "bulk [folder::filename ...]",
	Short: "Download many recordings as one zip archive",
	Run: func(cmd *cobra.Command, args []string) {
		ids := args
		if bulkManifestFile != "" {
			manifest, err := utils.ReadBulkManifest(bulkManifestFile)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			ids = append(ids, manifest.Recordings...)
			if bulkName == "" && manifest.Name != "" {
				bulkName = manifest.Name
			}
		}
		if len(ids) == 0 {
			output.PrintError("No recordings given; pass ids or --manifest")
			os.Exit(1)
		}
		client := newAPIClient()
		req, err := client.BulkDownloadRequest(ids)
		if err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		if bulkName != "" {
			req.Filename = bulkName
		}
		sink := artifact.Sink(newFileSink())
		if bulkS3Target != "" {
			bucket, prefix, err := artifact.ParseS3Target(bulkS3Target)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			s3Sink, err := artifact.NewS3Sink(cmd.Context(), bucket, prefix)
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			sink = s3Sink
		}
		runTransfer(req, sink)
	},
}

func init() {
	bulkCmd.Flags().StringVarP(&bulkManifestFile, "manifest", "m", "", "YAML manifest of recording ids to include")
	bulkCmd.Flags().StringVar(&bulkName, "name", "", "Artifact file name (defaults to recordings_<timestamp>.zip)")
	bulkCmd.Flags().StringVar(&bulkS3Target, "s3", "", "Export the archive to S3 instead of disk (bucket or bucket/prefix)")
	rootCmd.AddCommand(bulkCmd)
}
