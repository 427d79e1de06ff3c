package cmd

import (
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// replicateCmd pushes measurements into a document store collection.
var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Copy measurements into a document store collection",
	Long: `Project the selected measurements into flat documents and insert them into
the target collection. All measurements must share one use case and food type
and the collection name must start with that pair, e.g. FoodSpoilage_MincedPork.

Examples:
  phasma replicate --ids 12,13 --collection FoodSpoilage_MincedPork_v2`,
	PreRunE: docsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		ids, _ := cmd.Flags().GetInt64Slice("ids")
		database, _ := cmd.Flags().GetString("database")
		collection, _ := cmd.Flags().GetString("collection")

		jobID, err := app.svc.Replicate(rootCtx, schema.ReplicationRequest{
			SampleIDs:  ids,
			Database:   database,
			Collection: collection,
		})
		if err != nil {
			contract.LogFatal("Cannot replicate measurements", err)
		}
		fmt.Printf("Replication of %d measurements scheduled as job %s\n", len(ids), jobID)
	},
}
