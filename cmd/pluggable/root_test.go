// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/pluggable/pluggable/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-03-01T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-03-01T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		// Test binaries report Main.Version == "(devel)".
		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, false); got != "boom" {
		t.Errorf("plain error = %q, want boom", got)
	}

	actionable := issue.NewErrorContext().
		WithOperation("load plugin catalog").
		WithResource("catalog.cue").
		WithSuggestion("Pass the catalog path as the first argument").
		Wrap(plain).
		BuildError()

	got := formatErrorForDisplay(actionable, false)
	if !strings.Contains(got, "load plugin catalog") {
		t.Errorf("actionable error lost its operation: %q", got)
	}
	if !strings.Contains(got, "Pass the catalog path") {
		t.Errorf("actionable error lost its suggestion: %q", got)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 3}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q", bare.Error())
	}

	cause := errors.New("resolution failed")
	wrapped := &ExitError{Code: 1, Err: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
	if wrapped.Error() != "resolution failed" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
