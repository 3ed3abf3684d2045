// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the calling test instead of
// returning errors.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// DefaultWait bounds Eventually when no timeout is given.
const DefaultWait = 5 * time.Second

// MustWriteFile writes content to path, creating parent directories.
// It returns path so callers can chain it with t.TempDir.
func MustWriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Eventually polls cond until it returns true, failing the test after
// timeout (DefaultWait when zero).
func Eventually(t testing.TB, what string, timeout time.Duration, cond func() bool) {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultWait
	}
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %s waiting for %s", timeout, what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
