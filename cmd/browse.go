package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/outwriter"
	"github.com/spf13/cobra"
)

// parseFilter decodes the --filter flag. An empty flag means no filter.
func parseFilter(cmd *cobra.Command) (map[string]any, error) {
	raw, _ := cmd.Flags().GetString("filter")
	if raw == "" {
		return nil, nil
	}
	var filters map[string]any
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return nil, fmt.Errorf("--filter must be a JSON object: %w", err)
	}
	return filters, nil
}

func browseTarget(cmd *cobra.Command) (database, collection string) {
	database, _ = cmd.Flags().GetString("database")
	collection, _ = cmd.Flags().GetString("collection")
	return database, collection
}

// browseCmd focused on reading replicated documents.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse replicated documents",
	Long: `Read the document store the way the dashboard does.

Subcommands:
  rows        - One page of projected documents
  row         - The first projected document matching a filter
  dbs         - Databases with document counts
  collections - Collections of a database with document counts`,
}

// browseRowsCmd prints one page of documents.
var browseRowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Print one page of projected documents",
	Long: `Print one page of projected documents with its navigation links.

Examples:
  phasma browse rows --collection UseCaseTwo --filter '{"foodType": "meat"}' --page 2
  phasma browse rows --filter '{"id": ["5d1f0c...", "5d1f0d..."]}'`,
	PreRunE: docsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filters, err := parseFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid filter", err)
		}
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		database, collection := browseTarget(cmd)

		result, err := app.svc.Rows(rootCtx, database, collection, filters, page, pageSize)
		if err != nil {
			contract.LogFatal("Cannot browse documents", err)
		}
		if err := outwriter.NewOutWriter().WritePage(result, cfg); err != nil {
			contract.LogFatal("Cannot write page", err)
		}
	},
}

// browseRowCmd prints a single document.
var browseRowCmd = &cobra.Command{
	Use:     "row",
	Short:   "Print the first projected document matching a filter",
	PreRunE: docsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		filters, err := parseFilter(cmd)
		if err != nil {
			contract.LogFatal("Invalid filter", err)
		}
		database, collection := browseTarget(cmd)

		row, err := app.svc.Row(rootCtx, database, collection, filters)
		if err != nil {
			contract.LogFatal("Cannot browse document", err)
		}
		if err := outwriter.NewOutWriter().WriteDocument(row, cfg); err != nil {
			contract.LogFatal("Cannot write document", err)
		}
	},
}

// browseDatabasesCmd lists databases.
var browseDatabasesCmd = &cobra.Command{
	Use:     "dbs",
	Short:   "List document databases with their sizes",
	PreRunE: docsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbs, err := app.svc.Databases(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list databases", err)
		}
		if err := outwriter.NewOutWriter().WriteNamedCounts("databases", dbs, cfg); err != nil {
			contract.LogFatal("Cannot write databases", err)
		}
	},
}

// browseCollectionsCmd lists the collections of one database.
var browseCollectionsCmd = &cobra.Command{
	Use:     "collections",
	Short:   "List the collections of a document database with their sizes",
	PreRunE: docsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		database, _ := cmd.Flags().GetString("database")
		colls, err := app.svc.Collections(rootCtx, database)
		if err != nil {
			contract.LogFatal("Cannot list collections", err)
		}
		if err := outwriter.NewOutWriter().WriteNamedCounts("collections", colls, cfg); err != nil {
			contract.LogFatal("Cannot write collections", err)
		}
	},
}
