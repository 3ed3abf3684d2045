// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluggable/pluggable/internal/config"
)

// configKeys lists the keys accepted by `pluggable config set`.
var configKeys = []string{"log_level", "catalog", "output", "ui.color_scheme", "ui.verbose"}

// newConfigCommand creates the `pluggable config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pluggable configuration",
		Long: `Manage pluggable configuration.

Configuration is stored in:
  - Linux: ~/.config/pluggable/config.cue
  - macOS: ~/Library/Application Support/pluggable/config.cue
  - Windows: %APPDATA%\pluggable\config.cue

Every key can be overridden with a PLUGGABLE_* environment variable,
for example PLUGGABLE_OUTPUT=markdown or PLUGGABLE_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", defaultConfigFile(cfgDir))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configFile})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func defaultConfigFile(cfgDir string) string {
	return filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.configFile})
	if err != nil {
		return err
	}

	keyStyle := PluginStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	// The provider does not report which file it read, so derive it the same way.
	source := SubtitleStyle.Render("(using defaults)")
	if app.configFile != "" {
		source = app.configFile
	} else if cfgDir, dirErr := config.ConfigDir(); dirErr == nil && fileExistsCheck(defaultConfigFile(cfgDir)) {
		source = defaultConfigFile(cfgDir)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(string(cfg.LogLevel)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("catalog"), valueStyle.Render(string(cfg.Catalog)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output"), valueStyle.Render(string(cfg.Output)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.configFile})
	if err != nil {
		return err
	}

	switch key {
	case "log_level":
		cfg.LogLevel = config.LogLevel(value)
	case "catalog":
		cfg.Catalog = config.CatalogPath(value)
	case "output":
		cfg.Output = config.OutputFormat(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		verbose, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return fmt.Errorf("invalid ui.verbose %q: must be true or false", value)
		}
		cfg.UI.Verbose = verbose
	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %v", key, configKeys)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
