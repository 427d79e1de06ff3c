package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VizLoreLabs/phasmaFoodPlatform/core"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/blob"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/docstore"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/jobs"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/logging"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/notify"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/store"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// app holds the collaborators opened by sharedSetup.
var app struct {
	logger *zap.Logger
	store  *store.Store
	docs   contract.DocumentStore
	pool   *jobs.Pool
	svc    *core.Service
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "phasma",
	Short:              "Ingest, export and analyze PhasmaFood spectral measurements.",
	Long:               `Phasma runs the data pipelines of the PhasmaFood platform: ingestion, spreadsheet export, replication to the document store, statistics and browsing.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".phasma") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PHASMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("mongo-uri", contract.DefaultMongoURI)
	viper.SetDefault("mongo-db", contract.DefaultMongoDatabase)
	viper.SetDefault("mongo-collection", contract.DefaultMongoCollection)
	viper.SetDefault("replicates", contract.DefaultReplicates)
	viper.SetDefault("reference-use-case", contract.DefaultReferenceUseCase)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("notify-driver", contract.LogNotify)
	viper.SetDefault("blob-driver", contract.FSBlob)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("stats-interval", contract.DefaultStatsInterval.String())
}

// loadConfig merges defaults, file, env and flags, then validates into cfg.
func loadConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// sharedSetup validates config and opens the primary store, the job pool
// and the service. The document store is opened only when withDocs is set.
func sharedSetup(ctx context.Context, withDocs bool) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	app.logger = logger

	st, err := store.New(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize primary store: %w", err)
	}
	app.store = st

	if withDocs {
		docs, err := docstore.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to initialize document store: %w", err)
		}
		app.docs = docs
	}

	var blobs contract.BlobStore
	if cfg.NotifyDriver == contract.BlobNotify {
		if blobs, err = blob.Open(ctx, cfg); err != nil {
			return fmt.Errorf("failed to initialize blob store: %w", err)
		}
	}

	app.pool = jobs.NewPool(ctx, cfg.Workers, logger)
	app.svc, err = core.NewService(cfg, core.Deps{
		Store:    st,
		Docs:     app.docs,
		Jobs:     app.pool,
		Notifier: notify.Open(cfg, blobs, logger),
		Logger:   logger,
	})
	return err
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(_ *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, false)
}

// docsSetupWrapper is sharedSetupWrapper for commands that read or write the document store.
func docsSetupWrapper(_ *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, true)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Teardown waits for background jobs and closes every opened store.
func Teardown() error {
	if app.pool != nil {
		app.pool.Wait()
	}
	var errs []error
	if app.docs != nil {
		if err := app.docs.Close(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	return errors.Join(errs...)
}
