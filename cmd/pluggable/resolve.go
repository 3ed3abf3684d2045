// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluggable/pluggable/internal/catalog"
	"github.com/pluggable/pluggable/internal/config"
	"github.com/pluggable/pluggable/internal/issue"
	"github.com/pluggable/pluggable/internal/watch"
	"github.com/pluggable/pluggable/pkg/plugin"
)

func newResolveCommand(app *App) *cobra.Command {
	var (
		target    string
		format    string
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [catalog]",
		Short: "Compose the targets of a catalog and print the plugin order",
		Long: `Compose the targets of a catalog and print the plugin order.

Every target runs its configuration passes in order; a derived target starts
from the final state of its parent. For each target the composed plugins are
listed most recently included first, followed by the inclusion order, the
defaults and the included hooks that ran.

A pass that cannot be resolved (unknown plugin, dependency cycle or an
"after" dependency that is already included) leaves its target unchanged and
stops it. The command exits with status 1 if any reported target failed.

With --watch the catalog is resolved again every time its file changes, until
the command is interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.outputFormat(format)
			if err != nil {
				return err
			}
			if watchMode {
				return app.watchResolve(cmd.Context(), args, target, out)
			}

			failed, err := app.resolveOnce(cmd.Context(), args, target, out)
			if err != nil {
				return err
			}
			if failed {
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "only report this target")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text or markdown (default from config)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "resolve again whenever the catalog file changes")
	return cmd
}

// resolveOnce composes the catalog, prints the selected targets and reports
// failed targets to stderr. failed is true when any printed target failed.
func (a *App) resolveOnce(ctx context.Context, args []string, target string, out config.OutputFormat) (failed bool, err error) {
	run, err := a.compose(ctx, args)
	if err != nil {
		return false, err
	}
	targets, err := selectTargets(run, target)
	if err != nil {
		return false, err
	}

	if out == config.OutputMarkdown {
		rendered, err := renderMarkdown(resolutionMarkdown(run, targets), a.settings.UI.ColorScheme)
		if err != nil {
			return false, err
		}
		fmt.Fprint(a.stdout, rendered)
	} else {
		for i, tr := range targets {
			if i > 0 {
				fmt.Fprintln(a.stdout)
			}
			printResolution(a, run, tr)
		}
	}

	for _, tr := range targets {
		if tr.Err != nil {
			failed = true
			a.reportError(a.stderr, tr.Err)
		}
	}
	return failed, nil
}

// watchResolve resolves once, then again after every change to the catalog
// file. Errors are reported and watching continues.
func (a *App) watchResolve(ctx context.Context, args []string, target string, out config.OutputFormat) error {
	path := a.catalogPath(args)
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	runOnce := func(ctx context.Context) {
		if _, err := a.resolveOnce(ctx, args, target, out); err != nil {
			a.reportError(a.stderr, err)
		}
	}

	w, err := watch.New(watch.Config{
		Dir:      filepath.Dir(abs),
		Patterns: []string{filepath.Base(abs)},
		Stderr:   a.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			slog.Debug("catalog changed", "files", changed)
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, SubtitleStyle.Render("── "+path+" changed ──"))
			runOnce(ctx)
			return nil
		},
	})
	if err != nil {
		return err
	}

	runOnce(ctx)
	fmt.Fprintln(a.stderr, SubtitleStyle.Render("Watching "+path+" for changes (Ctrl+C to stop)"))
	return w.Run(ctx)
}

// selectTargets returns every target result, or only the named one.
func selectTargets(run *composition, name string) ([]*catalog.TargetResult, error) {
	if name == "" {
		return run.result.Targets, nil
	}
	if tr, ok := run.result.Target(name); ok {
		return []*catalog.TargetResult{tr}, nil
	}

	known := make([]string, len(run.catalog.Targets))
	for i, t := range run.catalog.Targets {
		known[i] = t.Name
	}
	return nil, issue.NewErrorContext().
		WithOperation("select target").
		WithResource(name).
		WithSuggestion("Run 'pluggable resolve' without --target to see every target").
		WithIssue(issue.TargetNotFoundId).
		Wrap(&TargetNotFoundError{Name: name, Catalog: run.catalog.Path, Known: known}).
		BuildError()
}

func targetTitle(tr *catalog.TargetResult) string {
	title := tr.Name
	if title == "" {
		title = "(anonymous)"
	}
	if tr.Parent != "" {
		title += " (from " + tr.Parent + ")"
	}
	return title
}

func joinNames(names []plugin.Name, sep string) string {
	if len(names) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = PluginStyle.Render(string(n))
	}
	return strings.Join(parts, sep)
}

func includedNames(run *composition, tr *catalog.TargetResult) []plugin.Name {
	events := run.events.Filter(catalog.EventIncluded, tr.Name)
	names := make([]plugin.Name, len(events))
	for i, e := range events {
		names[i] = e.Plugin
	}
	return names
}

func printResolution(app *App, run *composition, tr *catalog.TargetResult) {
	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render(targetTitle(tr)))
	fmt.Fprintf(w, "  plugins:   %s\n", joinNames(tr.Plugins(), " "))
	fmt.Fprintf(w, "  order:     %s\n", joinNames(tr.History(), " → "))
	fmt.Fprintf(w, "  defaults:  %s\n", formatValues(tr.Defaults()))
	fmt.Fprintf(w, "  included:  %s\n", joinNames(includedNames(run, tr), " "))

	if tr.Err != nil {
		fmt.Fprintf(w, "  %s\n", ErrorStyle.Render(fmt.Sprintf("✗ pass %d failed", tr.FailedPass+1)))
		return
	}
	if app.verbose {
		fmt.Fprintf(w, "  %s\n", VerboseStyle.Render(fmt.Sprintf("%d pass(es) committed", tr.Committed)))
	}
}

func resolutionMarkdown(run *composition, targets []*catalog.TargetResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Composition of `%s`\n", run.catalog.Path)

	for _, tr := range targets {
		fmt.Fprintf(&b, "\n## %s\n\n", targetTitle(tr))

		history := tr.History()
		if len(history) == 0 {
			b.WriteString("No plugins composed.\n")
		} else {
			defaults := tr.Defaults()
			b.WriteString("| # | Plugin | Default |\n|---|---|---|\n")
			for i, name := range history {
				def := ""
				if v, ok := defaults[string(name)]; ok {
					def = markdownCode(v)
				}
				fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, name, def)
			}
		}

		if included := includedNames(run, tr); len(included) > 0 {
			parts := make([]string, len(included))
			for i, n := range included {
				parts[i] = string(n)
			}
			fmt.Fprintf(&b, "\nIncluded hooks: %s\n", strings.Join(parts, ", "))
		}
		if tr.Err != nil {
			fmt.Fprintf(&b, "\n> **Pass %d failed:** %s\n", tr.FailedPass+1, tr.Err)
		}
	}
	return b.String()
}
