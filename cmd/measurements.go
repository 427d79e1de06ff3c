package cmd

import (
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/outwriter"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// measurementsCmd focused on browsing the primary store.
var measurementsCmd = &cobra.Command{
	Use:   "measurements",
	Short: "List stored measurements",
	Long: `Browse the measurements of the primary store to pick the sample ids passed
to export, replicate and series.

Subcommands:
  list    - Measurements newest first, optionally filtered
  filters - Distinct use cases and food types with the use case tree`,
}

// measurementsListCmd prints matching measurements.
var measurementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List measurements newest first",
	Long: `List measurements ordered by descending creation time.

Examples:
  phasma measurements list --use-case "Food spoilage"
  phasma measurements list --food-type maize --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		useCase, _ := cmd.Flags().GetString("use-case")
		foodType, _ := cmd.Flags().GetString("food-type")

		ms, err := app.svc.Measurements(rootCtx, schema.MeasurementFilter{UseCase: useCase, FoodType: foodType})
		if err != nil {
			contract.LogFatal("Cannot list measurements", err)
		}
		if err := outwriter.NewOutWriter().WriteMeasurements(ms, cfg); err != nil {
			contract.LogFatal("Cannot write measurements", err)
		}
	},
}

// measurementsFiltersCmd prints the values the listing can be filtered by.
var measurementsFiltersCmd = &cobra.Command{
	Use:     "filters",
	Short:   "Print distinct use cases and food types",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		filters, err := app.svc.MeasurementFilters(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot load measurement filters", err)
		}
		if err := outwriter.NewOutWriter().WriteMeasurementFilters(filters, cfg); err != nil {
			contract.LogFatal("Cannot write measurement filters", err)
		}
	},
}
