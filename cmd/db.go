package cmd

import (
	"fmt"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/outwriter"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/store"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// dbCmd focused on primary store maintenance.
//
// Note: db migrate only validates config and does NOT open the store, since
// opening applies pending migrations and would hide what migrate does.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the primary relational store",
	Long: `Manage the primary store that holds measurements, results, accounts and
the statistics snapshot.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  migrate - Apply or roll back schema migrations
  status  - Show connection details and table sizes
  seed    - Import users, sensing devices and phones`,
}

// dbMigrateCmd runs schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
	Long: `Run the embedded schema migrations against the primary store.

Examples:
  # Migrate to the latest version
  phasma db migrate

  # Roll back everything
  phasma db migrate --target-version 0

  # Migrate a PostgreSQL store (set connection string via env variable)
  PHASMA_DB_BACKEND=postgresql PHASMA_DB_CONNECT="postgres://..." phasma db migrate`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		target, _ := cmd.Flags().GetInt("target-version")
		summary, err := store.Migrate(cfg.DBBackend, cfg.DBConnect, target)
		if err != nil {
			contract.LogFatal("Failed to migrate primary store", err)
		}
		fmt.Println(summary)
	},
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display primary store statistics and connection details",
	Long: `Show the backend, table sizes and the time of the latest measurement and
statistics snapshot.`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := app.svc.StoreStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.NewOutWriter().WriteStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Cannot write store status", err)
		}
	},
}

// dbSeedCmd imports the account and hardware registry.
var dbSeedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Import users, sensing devices and phones",
	Long: `Upsert the accounts and hardware counted by stats. Measurements never create
these records, so without an import the user and device counts stay at zero.

The registry is a JSON document read from stdin when no file is given:
  {"users": [{"email": "ana@example.com", "type": "expert"}],
   "devices": [{"mac": "00:11:22:33:44:55", "name": "phasma-1"}],
   "mobiles": [{"deviceID": "mobile-1", "owner": "ana@example.com"}]}

Examples:
  phasma db seed registry.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		registry, err := readInput[schema.Registry](path, "registry")
		if err != nil {
			contract.LogFatal("Cannot read registry", err)
		}
		counts, err := app.svc.Register(rootCtx, registry)
		if err != nil {
			contract.LogFatal("Cannot import registry", err)
		}
		fmt.Printf("Imported %d users, %d devices, %d mobiles\n", counts.Users, counts.Devices, counts.Mobiles)
	},
}
