// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/pluggable/pluggable/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the pluggable command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pluggable",
		Short: "Compose plugins into targets in dependency order",
		Long: TitleStyle.Render("pluggable") + SubtitleStyle.Render(" - Compose plugins into targets in dependency order") + `

pluggable reads a plugin catalog, a CUE or TOML file that declares plugins,
the dependencies between them (before, after, optional, excluded) and the
targets to compose, then runs every configuration pass and reports the
resulting plugin order.

` + SubtitleStyle.Render("Examples:") + `
  pluggable plugins catalog.cue              List declared plugins
  pluggable resolve catalog.cue              Compose every target
  pluggable resolve --target Post            Compose one target of the configured catalog
  pluggable instantiate --target Post --set locale=de
  pluggable config show                      Show current configuration`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&app.trace, "trace", false, "print a span for every configuration pass to stderr")
	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default is $HOME/.config/pluggable/config.cue)")

	rootCmd.AddCommand(
		newPluginsCommand(app),
		newResolveCommand(app),
		newInstantiateCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	app.shutdown(context.Background())
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display. Actionable
// errors list their suggestions; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
