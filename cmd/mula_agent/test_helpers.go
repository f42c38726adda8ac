package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// scrubEnv returns env with the named variables removed.
func scrubEnv(env []string, names ...string) []string {
	var out []string
	for _, kv := range env {
		drop := false
		for _, name := range names {
			if strings.HasPrefix(kv, name+"=") {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}

// getBinaryPath returns the path to the mula_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "mula_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}
