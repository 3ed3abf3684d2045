// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "plugins.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with file path", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "plugins.cue")
		if !errors.Is(err, original) {
			t.Fatalf("expected wrapped original error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "plugins.cue: ") {
			t.Errorf("error should start with the file path, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: []string{}, expected: ""},
		{name: "single element", path: []string{"plugins"}, expected: "plugins"},
		{name: "nested path", path: []string{"plugins", "cache", "default"}, expected: "plugins.cache.default"},
		{name: "array index", path: []string{"targets", "0", "name"}, expected: "targets[0].name"},
		{name: "nested arrays", path: []string{"targets", "2", "passes", "1", "0"}, expected: "targets[2].passes[1][0]"},
		{name: "numeric first element", path: []string{"0", "name"}, expected: "0.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty data", size: 0},
		{name: "within limit", size: 11},
		{name: "exact limit", size: 100},
		{name: "exceeds limit", size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "plugins.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && (!strings.Contains(err.Error(), "plugins.cue") || !strings.Contains(err.Error(), "101")) {
				t.Errorf("error should name the file and the size, got: %v", err)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	single := &ValidationErrors{
		FilePath: "config.cue",
		Errors: []*ValidationError{
			{FilePath: "config.cue", CUEPath: "ui.color_scheme", Message: "value not allowed"},
		},
	}
	if got, want := single.Error(), "config.cue: ui.color_scheme: value not allowed"; got != want {
		t.Errorf("single Error() = %q, want %q", got, want)
	}

	multi := &ValidationErrors{
		FilePath: "config.cue",
		Errors: []*ValidationError{
			{FilePath: "config.cue", CUEPath: "log_level", Message: "conflicting values"},
			{FilePath: "config.cue", Message: "syntax error"},
		},
	}
	want := "config.cue: validation failed:\n  log_level: conflicting values\n  syntax error"
	if got := multi.Error(); got != want {
		t.Errorf("multi Error() = %q, want %q", got, want)
	}

	var ve *ValidationError
	if !errors.As(multi, &ve) || ve.CUEPath != "log_level" {
		t.Errorf("errors.As should find the first violation, got %v", ve)
	}
}
