package cmd

import (
	"errors"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// seriesCmd writes spectral points to Parquet for analytics tools.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Export spectral series to Parquet",
	Long: `Flatten every spectral point of the matching measurements into one Parquet
row per (sample, channel, kind, replicate, wave).

Examples:
  phasma series --use-case "Food spoilage" --output-file spoilage.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Cannot export series", errors.New("--output-file is required"))
		}
		useCase, _ := cmd.Flags().GetString("use-case")
		foodType, _ := cmd.Flags().GetString("food-type")
		ids, _ := cmd.Flags().GetInt64Slice("ids")

		n, err := app.svc.ExportSeries(rootCtx, schema.MeasurementFilter{
			SampleIDs: ids,
			UseCase:   useCase,
			FoodType:  foodType,
		}, cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Cannot export series", err)
		}
		fmt.Printf("Wrote %d rows to %s\n", n, cfg.OutputFile)
	},
}
