// Package cmd defines the command-line interface for phasma.
package cmd

import (
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(replicateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(measurementsCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the stats subcommands to the parent stats command
	statsCmd.AddCommand(statsComputeCmd)
	statsCmd.AddCommand(statsShowCmd)
	statsCmd.AddCommand(statsServeCmd)

	// Add the browse subcommands to the parent browse command
	browseCmd.AddCommand(browseRowsCmd)
	browseCmd.AddCommand(browseRowCmd)
	browseCmd.AddCommand(browseDatabasesCmd)
	browseCmd.AddCommand(browseCollectionsCmd)

	// Add the measurements subcommands to the parent measurements command
	measurementsCmd.AddCommand(measurementsListCmd)
	measurementsCmd.AddCommand(measurementsFiltersCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbSeedCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Primary store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("mongo-uri", contract.DefaultMongoURI, "Document store URI")
	rootCmd.PersistentFlags().String("mongo-db", contract.DefaultMongoDatabase, "Default document database")
	rootCmd.PersistentFlags().String("mongo-collection", contract.DefaultMongoCollection, "Default document collection")
	rootCmd.PersistentFlags().String("export-dir", "", "Directory holding spreadsheet bundles (default ~/.phasma/media)")
	rootCmd.PersistentFlags().Int("replicates", contract.DefaultReplicates, "Maximum replicate series per kind")
	rootCmd.PersistentFlags().String("reference-use-case", contract.DefaultReferenceUseCase, "Use case label of white reference measurements")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent background jobs")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("notify-driver", contract.LogNotify, "Notification delivery: log or blob")
	rootCmd.PersistentFlags().String("blob-driver", contract.FSBlob, "Attachment sink for blob notifications: fs or s3")
	rootCmd.PersistentFlags().String("blob-dir", "", "Attachment directory for the fs blob driver")
	rootCmd.PersistentFlags().String("s3-bucket", "", "Attachment bucket for the s3 blob driver")
	rootCmd.PersistentFlags().String("s3-region", "", "Region of the attachment bucket")
	rootCmd.PersistentFlags().String("s3-endpoint", "", "Custom endpoint for S3-compatible stores")
	rootCmd.PersistentFlags().Bool("s3-path-style", false, "Use path-style bucket addressing")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("stats-interval", contract.DefaultStatsInterval.String(), "Statistics refresh interval for stats serve")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Address serving Prometheus metrics for stats serve (e.g., :9090)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	ingestCmd.Flags().String("operation", schema.AnalyzeOperation, "Operation sent by the mobile: analyze or store")

	exportCmd.Flags().String("requester", "", "Email of the person requesting the bundle")
	exportCmd.Flags().Int64Slice("ids", nil, "Sample ids to export")

	replicateCmd.Flags().Int64Slice("ids", nil, "Sample ids to replicate")
	replicateCmd.Flags().String("database", "", "Target document database (defaults to mongo-db)")
	replicateCmd.Flags().String("collection", "", "Target collection named {UseCase}_{FoodType}[_suffix]")

	for _, c := range []*cobra.Command{browseRowsCmd, browseRowCmd} {
		c.Flags().String("database", "", "Document database (defaults to mongo-db)")
		c.Flags().String("collection", "", "Document collection (defaults to mongo-collection)")
		c.Flags().String("filter", "", "JSON object of equality filters; id accepts a string or a list")
	}
	browseRowsCmd.Flags().Int("page", 1, "Page number starting at 1")
	browseRowsCmd.Flags().Int("page-size", contract.DefaultPageSize, "Documents per page")
	browseCollectionsCmd.Flags().String("database", "", "Document database (defaults to mongo-db)")

	measurementsListCmd.Flags().String("use-case", "", "Only list measurements of this use case")
	measurementsListCmd.Flags().String("food-type", "", "Only list measurements of this food type")

	seriesCmd.Flags().String("use-case", "", "Only export measurements of this use case")
	seriesCmd.Flags().String("food-type", "", "Only export measurements of this food type")
	seriesCmd.Flags().Int64Slice("ids", nil, "Only export these sample ids")

	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
