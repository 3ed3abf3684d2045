// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/pluggable/pluggable/internal/config"
	"github.com/pluggable/pluggable/internal/issue"
	"github.com/pluggable/pluggable/pkg/compose"
	"github.com/pluggable/pluggable/pkg/plugin"
)

// ErrTargetNotFound is the sentinel wrapped by TargetNotFoundError.
var ErrTargetNotFound = errors.New("target not found")

// TargetNotFoundError is returned when --target names a target the catalog does not declare.
type TargetNotFoundError struct {
	Name    string
	Catalog string
	Known   []string
}

func (e *TargetNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("target %q not found in %s (no targets declared)", e.Name, e.Catalog)
	}
	return fmt.Sprintf("target %q not found in %s (declared: %s)", e.Name, e.Catalog, strings.Join(e.Known, ", "))
}

func (e *TargetNotFoundError) Unwrap() error { return ErrTargetNotFound }

// issueFor picks the issue page explaining err, or 0 when there is none.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		return ae.IssueId
	}

	switch {
	case errors.Is(err, compose.ErrCyclicDependency):
		return issue.DependencyCycleId
	case errors.Is(err, compose.ErrDependencyConflict):
		return issue.DependencyConflictId
	case errors.Is(err, plugin.ErrUnknownPlugin):
		return issue.UnknownPluginId
	case errors.Is(err, plugin.ErrDuplicatePlugin):
		return issue.DuplicatePluginId
	case errors.Is(err, plugin.ErrInvalidRelation):
		return issue.InvalidRelationId
	case errors.Is(err, ErrTargetNotFound):
		return issue.TargetNotFoundId
	default:
		return 0
	}
}

// reportError prints err to w. In verbose mode the matching issue page
// is rendered below it.
func (a *App) reportError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, a.verbose))
	if !a.verbose {
		return
	}

	id := issueFor(err)
	if id == 0 {
		return
	}
	if page := issue.Get(id); page != nil {
		rendered, renderErr := renderMarkdown(page.Markdown(), a.settings.UI.ColorScheme)
		if renderErr != nil {
			slog.Warn("failed to render issue page", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// renderMarkdown renders md for the terminal using the configured color scheme.
func renderMarkdown(md string, scheme config.ColorScheme) (string, error) {
	var opts []glamour.TermRendererOption
	if scheme == config.ColorSchemeAuto || scheme == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(string(scheme)))
	}
	opts = append(opts, glamour.WithWordWrap(100))

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// formatValues prints a value map as sorted key=value pairs.
func formatValues(values map[string]any) string {
	if len(values) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	keys := sortedKeys(values)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, values[k])
	}
	return strings.Join(parts, " ")
}

// markdownCode renders v as an inline code span that is safe inside a
// Markdown table cell.
func markdownCode(v any) string {
	s := strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ").Replace(fmt.Sprint(v))
	return "`" + s + "`"
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
