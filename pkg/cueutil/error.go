// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidCUEPath is returned when a CUEPath is empty.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a JSON-path style location inside a CUE document,
	// e.g. "targets[0].passes[1][0].plugin".
	CUEPath string

	// InvalidCUEPathError carries the rejected path.
	InvalidCUEPathError struct {
		Value CUEPath
	}

	// ValidationError is one schema violation in a CUE document.
	ValidationError struct {
		FilePath string
		CUEPath  CUEPath
		Message  string
	}

	// ValidationErrors collects every violation reported for one document.
	ValidationErrors struct {
		FilePath string
		Errors   []*ValidationError
	}
)

func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must not be empty", e.Value)
}

func (e *InvalidCUEPathError) Unwrap() error {
	return ErrInvalidCUEPath
}

// Validate reports whether p names a location.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

func (p CUEPath) String() string {
	return string(p)
}

func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		if ve.CUEPath != "" {
			lines[i] = fmt.Sprintf("%s: %s", ve.CUEPath, ve.Message)
		} else {
			lines[i] = ve.Message
		}
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap exposes the individual violations to errors.As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// FormatError converts a CUE error into ValidationErrors, one entry per
// underlying CUE error, each located by its JSON path:
//
//	plugins.cue: plugins.cache.depends_on.store: 3 errors in empty disjunction
//	config.cue: ui.color_scheme: value "neon" not allowed
//
// Errors that do not come from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	result := &ValidationErrors{FilePath: filePath}
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}

		result.Errors = append(result.Errors, &ValidationError{
			FilePath: filePath,
			CUEPath:  CUEPath(path),
			Message:  msg,
		})
	}
	return result
}

// formatPath turns ["targets", "0", "name"] into "targets[0].name".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
