// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluggable/pluggable/internal/catalog"
	"github.com/pluggable/pluggable/pkg/plugin"
)

func newInstantiateCommand(app *App) *cobra.Command {
	var (
		target string
		sets   map[string]string
	)

	cmd := &cobra.Command{
		Use:   "instantiate [catalog]",
		Short: "Construct one instance of a composed target",
		Long: `Compose the catalog, then construct one instance of a target.

The instance options are the target defaults merged with the --set values,
which win on conflict. The initialize hook of every composed plugin runs in
inclusion order and receives those options.`,
		Example: `  pluggable instantiate catalog.cue --target Post
  pluggable instantiate --target Post --set fallbacks=de --set cache=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.compose(cmd.Context(), args)
			if err != nil {
				return err
			}
			targets, err := selectTargets(run, target)
			if err != nil {
				return err
			}
			tr := targets[0]
			if tr.Err != nil {
				app.reportError(app.stderr, tr.Err)
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}

			instance := run.composer.NewInstance(tr.Composed(), parseOptionValues(sets))

			var initialized []plugin.Name
			for _, e := range run.events.Filter(catalog.EventInitialize, tr.Name) {
				if e.Instance == instance.ID() {
					initialized = append(initialized, e.Plugin)
				}
			}

			w := app.stdout
			fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(targetTitle(tr)), SubtitleStyle.Render("instance "+instance.ID().String()))
			fmt.Fprintf(w, "  initialize:  %s\n", joinNames(initialized, " "))
			fmt.Fprintf(w, "  options:     %s\n", formatValues(instance.Options()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "target to instantiate (required)")
	cmd.Flags().StringToStringVar(&sets, "set", nil, "construction option as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

// parseOptionValues turns --set values into typed options. Integers,
// floats and booleans are recognized; anything else stays a string.
func parseOptionValues(sets map[string]string) map[string]any {
	if len(sets) == 0 {
		return nil
	}
	options := make(map[string]any, len(sets))
	for k, v := range sets {
		options[k] = parseOptionValue(v)
	}
	return options
}

func parseOptionValue(v string) any {
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
