// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluggable/pluggable/internal/catalog"
	"github.com/pluggable/pluggable/internal/config"
)

func newPluginsCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plugins [catalog]",
		Short: "List the plugins a catalog declares",
		Long: `List the plugins a catalog declares with their dependencies and defaults.

Each dependency is shown with its relation:
  before     the dependency is included before the plugin
  after      the dependency is included after the plugin
  optional   the dependency is included, in any order
  excluded   the dependency is not included`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.outputFormat(format)
			if err != nil {
				return err
			}
			cat, err := app.loadCatalog(args)
			if err != nil {
				return err
			}
			if out == config.OutputMarkdown {
				rendered, err := renderMarkdown(pluginsMarkdown(cat), app.settings.UI.ColorScheme)
				if err != nil {
					return err
				}
				fmt.Fprint(app.stdout, rendered)
				return nil
			}
			printPlugins(app, cat)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text or markdown (default from config)")
	return cmd
}

// outputFormat returns the --format value, or the configured format when the flag is empty.
func (a *App) outputFormat(flag string) (config.OutputFormat, error) {
	if flag == "" {
		return a.settings.Output, nil
	}
	format := config.OutputFormat(flag)
	if valid, errs := format.IsValid(); !valid {
		return "", errs[0]
	}
	return format, nil
}

func printPlugins(app *App, cat *catalog.Catalog) {
	fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Plugins in %s", cat.Path)))
	if len(cat.Plugins) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none declared)"))
		return
	}

	width := 0
	for _, p := range cat.Plugins {
		width = max(width, len(p.Name))
	}

	for _, p := range cat.Plugins {
		line := "  " + PluginStyle.Render(fmt.Sprintf("%-*s", width, p.Name))
		for i, dep := range p.DependsOn {
			sep := "  "
			if i > 0 {
				sep = ", "
			}
			rel := dep.Relation.String()
			line += sep + relationStyles[rel].Render(rel) + " " + string(dep.Name)
		}
		if p.HasDefault {
			line += "  " + VerboseStyle.Render(fmt.Sprintf("default=%v", p.Default))
		}
		fmt.Fprintln(app.stdout, line)
	}
}

func pluginsMarkdown(cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plugins in `%s`\n\n", cat.Path)
	b.WriteString("| Plugin | Depends on | Default |\n|---|---|---|\n")
	for _, p := range cat.Plugins {
		deps := make([]string, len(p.DependsOn))
		for i, dep := range p.DependsOn {
			deps[i] = fmt.Sprintf("%s (%s)", dep.Name, dep.Relation)
		}
		def := ""
		if p.HasDefault {
			def = markdownCode(p.Default)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Name, strings.Join(deps, ", "), def)
	}
	return b.String()
}
