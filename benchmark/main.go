// Package main provides a performance benchmarking tool for the phasma CLI.
// It generates synthetic measurements, ingests them into a scratch SQLite
// store and times the pipelines that read them back. Every command runs
// several times, treating the first successful run as cold and averaging
// the rest as warm, and the results are written as CSV.
//
// Prerequisites:
// - phasma binary installed and available in PATH
//
// Usage: go run benchmark/main.go [sample-count]
//
//	sample-count: Number of synthetic measurements to ingest
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Command  string
	Samples  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	Samples     int
	Replicates  int
	Waves       int
	CommandRuns int
}

// env returns the environment pointing phasma at the scratch store.
func (c BenchmarkConfig) env() []string {
	return append(os.Environ(),
		"PHASMA_DB_BACKEND=sqlite",
		"PHASMA_DB_CONNECT="+filepath.Join(c.WorkDir, "phasma.db"),
		"PHASMA_EXPORT_DIR="+filepath.Join(c.WorkDir, "media"),
		"PHASMA_WORKERS="+strconv.Itoa(c.Workers),
		"PHASMA_REPLICATES="+strconv.Itoa(c.Replicates),
		"PHASMA_LOG_LEVEL=error",
		"PHASMA_COLOR=no",
	)
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [sample-count]\n", os.Args[0])
		os.Exit(1)
	}
	samples, err := strconv.Atoi(os.Args[1])
	if err != nil || samples < 2 {
		fmt.Printf("sample-count must be an integer of at least 2\n")
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "phasma-benchmark-")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		Workers:     8,
		Samples:     samples,
		Replicates:  10,
		Waves:       256,
		CommandRuns: 4,
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	files, err := generateSamples(config)
	if err != nil {
		fmt.Printf("Failed to generate samples: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, files)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the phasma binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("phasma"); err != nil {
		return fmt.Errorf("phasma binary not found in PATH")
	}
	return nil
}

// generateSamples writes one measurement file per sample into the work dir
func generateSamples(config BenchmarkConfig) ([]string, error) {
	series := func(offset float64) []map[string]float64 {
		points := make([]map[string]float64, config.Waves)
		for i := range points {
			points[i] = map[string]float64{"wave": float64(400 + i), "measurement": offset + float64(i%17)}
		}
		return points
	}
	replicates := func() [][]map[string]float64 {
		sets := make([][]map[string]float64, config.Replicates)
		for i := range sets {
			sets[i] = series(float64(i))
		}
		return sets
	}

	var files []string
	for i := 1; i <= config.Samples; i++ {
		sample := map[string]any{
			"sampleID":       i,
			"userID":         "bench@example.com",
			"mobileID":       "bench-mobile",
			"foodType":       "maize",
			"useCase":        "Mycotoxins detection",
			"aflatoxinName":  "B1",
			"aflatoxinValue": "1.5",
			"dateTime":       time.Date(2021, 1, 1, 0, 0, i, 0, time.UTC).Format(time.RFC3339),
			"VIS":            map[string]any{"preprocessed": series(0), "rawData": replicates(), "rawDark": replicates()},
			"NIR":            map[string]any{"preprocessed": series(0.5)},
			"FLUO":           map[string]any{"preprocessed": series(0.25), "rawData": replicates()},
		}
		data, err := json.Marshal(sample)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(config.WorkDir, fmt.Sprintf("sample_%d.json", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	fmt.Printf("Generated %d samples with %d replicates of %d waves\n", config.Samples, config.Replicates, config.Waves)
	return files, nil
}

// runBenchmarks executes all benchmark tests against the scratch store
func runBenchmarks(config BenchmarkConfig, files []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d samples, %v timeout, %d workers, %d runs per command\n",
		config.Samples, config.Timeout, config.Workers, config.CommandRuns)

	// Ingestion runs once per sample since sample ids are unique
	var ingestTimes []float64
	for _, f := range files {
		if t, ok := timeCommand(config, "Stored sample", "ingest", f, "--operation", "store"); ok {
			ingestTimes = append(ingestTimes, t)
		}
	}
	results = append(results, summarize("ingest", config.Samples, ingestTimes))

	ids := make([]string, config.Samples)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}
	idList := strings.Join(ids, ",")

	suites := []struct {
		command string
		phrase  string
		args    []string
	}{
		{"series", "Wrote", []string{"series", "--output-file", filepath.Join(config.WorkDir, "series.parquet")}},
		{"export", "Bundle written", []string{"export", "--requester", "bench@example.com", "--ids", idList,
			"--output-file", filepath.Join(config.WorkDir, "bundle.zip")}},
		{"db status", "", []string{"db", "status", "--output", "json"}},
	}
	for _, s := range suites {
		fmt.Printf("Running %s\n", s.command)
		var times []float64
		for run := 1; run <= config.CommandRuns; run++ {
			if t, ok := timeCommand(config, s.phrase, s.args...); ok {
				times = append(times, t)
			}
		}
		results = append(results, summarize(s.command, config.Samples, times))
	}

	return results
}

// timeCommand runs phasma once and reports the elapsed seconds on success
func timeCommand(config BenchmarkConfig, phrase string, args ...string) (float64, bool) {
	start := time.Now()

	cmd := exec.Command("phasma", args...)
	cmd.Env = config.env()

	done := make(chan bool)
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		if cmdErr == nil && strings.Contains(string(output), phrase) {
			return time.Since(start).Seconds(), true
		}
		fmt.Printf("  run failed: %v\n  %s\n", cmdErr, strings.TrimSpace(string(output)))
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		fmt.Printf("  run timed out after %v\n", config.Timeout)
	}
	return 0, false
}

// summarize turns the successful run times into a result row
func summarize(command string, samples int, times []float64) BenchmarkResult {
	result := BenchmarkResult{Command: command, Samples: samples, ColdTime: "FAILED", WarmTime: "FAILED"}
	if len(times) == 0 {
		return result
	}
	result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	if warm := times[1:]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}
	fmt.Printf("  %s: Cold: %s, Warm average: %s\n", command, result.ColdTime, result.WarmTime)
	return result
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/phasma_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "samples", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, strconv.Itoa(result.Samples), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
	}
}
