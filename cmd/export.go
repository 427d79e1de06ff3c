package cmd

import (
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// exportCmd downloads a requester bundle and schedules its delivery.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the spreadsheet bundle of selected measurements",
	Long: `Build one workbook per selected measurement, zip them into the requester
bundle and write the bundle to --output-file (stdout when omitted).

A background job then mails the same bundle to the requester and removes
it from the export directory. An existing bundle for the requester is reused.

Examples:
  phasma export --requester jane.doe@example.com --ids 12,13 --output-file bundle.zip`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		email, _ := cmd.Flags().GetString("requester")
		ids, _ := cmd.Flags().GetInt64Slice("ids")

		out, err := contract.SelectOutputFile(cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Cannot open output file", err)
		}
		jobID, err := app.svc.Download(rootCtx, schema.Requester{Email: email}, ids, out)
		if cfg.OutputFile != "" {
			_ = out.Close()
		}
		if err != nil {
			contract.LogFatal("Cannot export measurements", err)
		}
		if cfg.OutputFile != "" {
			fmt.Printf("Bundle written to %s, delivery job %s\n", cfg.OutputFile, jobID)
		}
	},
}
