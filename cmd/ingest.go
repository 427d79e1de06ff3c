package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/outwriter"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/spf13/cobra"
)

// readInput decodes one JSON document from path, or from stdin when path is empty or "-".
func readInput[T any](path, what string) (T, error) {
	var out T
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return out, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return out, nil
}

// readMeasurement decodes a measurement from path, or from stdin.
func readMeasurement(path string) (schema.Measurement, error) {
	return readInput[schema.Measurement](path, "measurement")
}

// ingestCmd stores a measurement sent by a mobile device.
var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Store a measurement and optionally classify it",
	Long: `Read a measurement JSON document, aggregate its VIS and FLUO replicates,
store it in the primary store and, for the analyze operation, classify it and
notify the mobile device that sent it.

The document is read from stdin when no file is given.

Examples:
  # Store and classify
  phasma ingest sample.json

  # Store only
  cat sample.json | phasma ingest --operation store`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		m, err := readMeasurement(path)
		if err != nil {
			contract.LogFatal("Cannot read measurement", err)
		}
		operation, _ := cmd.Flags().GetString("operation")

		stored, err := app.svc.Ingest(rootCtx, m, operation)
		if err != nil {
			contract.LogFatal("Cannot ingest measurement", err)
		}
		if !schema.ShouldClassify(stored.UseCase, operation) {
			fmt.Printf("Stored sample %d (%s)\n", stored.SampleID, stored.UseCase)
			return
		}

		app.pool.Wait()
		result, err := app.svc.Result(rootCtx, stored.SampleID)
		if err != nil {
			contract.LogFatal("Cannot load classification", err)
		}
		if err := outwriter.NewOutWriter().WriteResult(result, cfg); err != nil {
			contract.LogFatal("Cannot write result", err)
		}
	},
}

// resultCmd prints a stored classification.
var resultCmd = &cobra.Command{
	Use:     "result <sample-id>",
	Short:   "Show the classification result of a measurement",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			contract.LogFatal("Invalid sample id", err)
		}
		result, err := app.svc.Result(rootCtx, id)
		if err != nil {
			contract.LogFatal("Cannot load classification", err)
		}
		if err := outwriter.NewOutWriter().WriteResult(result, cfg); err != nil {
			contract.LogFatal("Cannot write result", err)
		}
	},
}
