//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedPhasmaPath holds the path to a shared phasma binary built once for all tests.
	sharedPhasmaPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getPhasmaBinary returns the path to the phasma binary, building it once if needed.
func getPhasmaBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "phasma-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		phasmaPath := filepath.Join(tempDir, "phasma")
		buildCmd := exec.Command("go", "build", "-o", phasmaPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build phasma: %v\n%s", err, out))
		}

		sharedPhasmaPath = phasmaPath
	})

	return sharedPhasmaPath
}

// runPhasma runs the CLI with env appended to the process environment and
// returns its combined output.
func runPhasma(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPhasmaBinary(), args...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// fixture returns the absolute path of a file under testdata.
func fixture(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return path
}
