package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	OKColor    = color.New(color.FgGreen, color.Bold) // OKColor marks a classified sensor.
	NAColor    = color.New(color.FgYellow)            // NAColor marks a sensor without prediction.
	TitleColor = color.New(color.FgCyan, color.Bold)  // TitleColor marks section titles.
)

// GetColorOutcome returns a colored sensor outcome for console output.
func GetColorOutcome(outcome string, useColors bool) string {
	if !useColors {
		return outcome
	}
	if outcome == "" || outcome == "N/A" {
		return NAColor.Sprint(outcome)
	}
	return OKColor.Sprint(outcome)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs a fatal error message to stderr and exits.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
