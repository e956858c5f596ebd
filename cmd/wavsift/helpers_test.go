package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig writes a config file that keeps lock files and manifest
// paths inside the test's temporary directory.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	content := `[paths]
log_dir = "` + filepath.Join(dir, "logs") + `"

[manifest]
path = "` + filepath.Join(dir, "manifest.db") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

// runCommand executes the CLI in-process and captures its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// framesFor converts a target duration to a frame count at the given rate.
func framesFor(ms, sampleRate int) int {
	return ms * sampleRate / 1000
}
